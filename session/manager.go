package session

import (
	"sync"
	"time"

	"github.com/qrtable/tableside/models"
)

// Snapshot adalah proyeksi read-only atas session saat ini. IsSessionActive
// dihitung ulang setiap kali Snapshot dipanggil, tidak pernah di-cache.
type Snapshot struct {
	SessionID       string
	TableID         string
	TableNumber     string
	ExpiresAt       time.Time
	IsSessionActive bool
}

// Manager memegang record session meja yang sedang berlaku dan menjadi satu-
// satunya sumber kebenaran "saya sedang di session mana". Record diisi lewat
// Redeem dan hanya bisa diganti utuh atau dihapus, tidak pernah dimutasi
// sebagian.
type Manager struct {
	// Now bisa diganti di test untuk mengontrol jam
	Now func() time.Time

	secret []byte

	mu      sync.RWMutex
	record  *models.Session
	subs    map[int]func()
	nextSub int
}

func NewManager(secret []byte) *Manager {
	return &Manager{
		Now:    time.Now,
		secret: secret,
		subs:   make(map[int]func()),
	}
}

// Set mengganti record session secara utuh. Record yang tidak lengkap
// (tanpa id atau tanpa expiry) ditolak diam-diam supaya invariant
// "session utuh atau tidak ada" selalu terjaga.
func (m *Manager) Set(record models.Session) {
	if record.SessionID == "" || record.ExpiresAt.IsZero() {
		return
	}

	m.mu.Lock()
	copied := record
	m.record = &copied
	m.mu.Unlock()

	m.notify()
}

// Clear menghapus record session (logout / akhir kunjungan).
func (m *Manager) Clear() {
	m.mu.Lock()
	cleared := m.record != nil
	m.record = nil
	m.mu.Unlock()

	if cleared {
		m.notify()
	}
}

// Snapshot -> proyeksi murni atas record saat ini, tanpa side effect.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.record == nil {
		return Snapshot{}
	}

	return Snapshot{
		SessionID:       m.record.SessionID,
		TableID:         m.record.TableID,
		TableNumber:     m.record.TableNumber,
		ExpiresAt:       m.record.ExpiresAt,
		IsSessionActive: m.Now().Before(m.record.ExpiresAt),
	}
}

// OnChange mendaftarkan callback yang dipanggil setiap record session
// berganti. Mengembalikan fungsi unsubscribe.
func (m *Manager) OnChange(fn func()) func() {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify() {
	m.mu.RLock()
	callbacks := make([]func(), 0, len(m.subs))
	for _, fn := range m.subs {
		callbacks = append(callbacks, fn)
	}
	m.mu.RUnlock()

	// Panggil di luar lock supaya callback boleh membaca Snapshot
	for _, fn := range callbacks {
		fn()
	}
}
