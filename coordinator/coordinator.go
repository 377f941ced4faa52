package coordinator

import (
	"sync"
	"time"

	"github.com/qrtable/tableside/cart"
	"github.com/qrtable/tableside/session"
	"github.com/qrtable/tableside/utils"
)

// DefaultCheckInterval adalah interval polling watchdog expiry.
const DefaultCheckInterval = 30 * time.Second

// Notifier menerima notifikasi yang harus sampai ke user. Isi pesannya urusan
// layer presentasi; trigger-nya urusan coordinator.
type Notifier interface {
	SessionExpired()
}

// Resolver adalah sumber kebenaran session yang diamati coordinator.
// *session.Manager memenuhinya.
type Resolver interface {
	Snapshot() session.Snapshot
	OnChange(fn func()) func()
}

// Coordinator menjaga BoundTableID keranjang selalu sinkron dengan session
// meja yang aktif, dan menegakkan expiry session lewat watchdog. Keranjang
// yang terikat meja A tidak boleh pernah tampil ke user yang sekarang terikat
// meja B.
type Coordinator struct {
	// Interval polling watchdog; diganti pendek di test
	Interval time.Duration
	// Now bisa diganti di test untuk mengontrol jam
	Now func() time.Time
	// WakeCh menerima sinyal "layar kembali terlihat" dari shell kiosk.
	// Trigger kedua di samping ticker, keduanya masuk ke checkExpiry yang sama.
	WakeCh chan struct{}

	resolver Resolver
	cart     *cart.Cart
	notifier Notifier

	mu        sync.Mutex
	started   bool
	stopped   bool
	unsub     func()
	stopWatch chan struct{}
	watchKey  string
	expired   bool
}

func New(resolver Resolver, c *cart.Cart, notifier Notifier) *Coordinator {
	return &Coordinator{
		Interval: DefaultCheckInterval,
		Now:      time.Now,
		WakeCh:   make(chan struct{}, 1),
		resolver: resolver,
		cart:     c,
		notifier: notifier,
	}
}

// Start melakukan rehydrate keranjang (sekali per lifetime), rebind awal
// secara sinkron, lalu mengikuti setiap perubahan session. Pembaca keranjang
// setelah Start selalu melihat ikatan yang sudah disesuaikan.
func (co *Coordinator) Start() {
	co.mu.Lock()
	if co.started {
		co.mu.Unlock()
		return
	}
	co.started = true
	co.mu.Unlock()

	co.cart.Rehydrate()
	co.rebind()

	unsub := co.resolver.OnChange(co.rebind)
	co.mu.Lock()
	if co.stopped {
		co.mu.Unlock()
		unsub()
		return
	}
	co.unsub = unsub
	co.mu.Unlock()
}

// Stop melepas subscription dan mematikan watchdog. Tidak ada timer atau
// listener yang boleh tersisa setelah Stop kembali.
func (co *Coordinator) Stop() {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.stopped {
		return
	}
	co.stopped = true

	if co.unsub != nil {
		co.unsub()
		co.unsub = nil
	}
	if co.stopWatch != nil {
		close(co.stopWatch)
		co.stopWatch = nil
	}
	co.watchKey = ""
}

// rebind menyamakan ikatan meja keranjang dengan session saat ini. Idempotent:
// session yang sama tidak menghasilkan perubahan teramati.
func (co *Coordinator) rebind() {
	snapshot := co.resolver.Snapshot()

	if snapshot.IsSessionActive {
		current := co.cart.BoundTableID()
		if current != nil && *current != snapshot.TableID {
			// Pindah meja: keranjang meja lama tidak boleh terbawa
			utils.InfoLogger.Printf("Table changed from %s to %s, clearing cart", *current, snapshot.TableID)
			co.cart.Clear()
		}
		tableID := snapshot.TableID
		co.cart.SetBoundTable(&tableID)

		co.mu.Lock()
		co.expired = false
		co.mu.Unlock()
	} else {
		// Lepas ikatan dari meja konkret berarti isi keranjang ikut hangus;
		// kalau tidak, session berikutnya di meja lain mewarisi item meja lama
		if co.cart.BoundTableID() != nil {
			co.cart.Clear()
		}
		co.cart.SetBoundTable(nil)
	}

	co.rebuildWatchdog(snapshot)
}

// rebuildWatchdog membongkar dan membangun ulang watchdog setiap kali
// ExpiresAt/IsSessionActive berganti. Tanpa session tidak ada watchdog:
// tidak ada yang bisa expire.
func (co *Coordinator) rebuildWatchdog(snapshot session.Snapshot) {
	key := ""
	if snapshot.SessionID != "" && !snapshot.ExpiresAt.IsZero() {
		key = snapshot.SessionID + "@" + snapshot.ExpiresAt.UTC().Format(time.RFC3339Nano)
	}

	co.mu.Lock()
	if co.stopped || key == co.watchKey {
		co.mu.Unlock()
		return
	}

	if co.stopWatch != nil {
		close(co.stopWatch)
		co.stopWatch = nil
	}
	co.watchKey = key

	if key == "" {
		co.mu.Unlock()
		return
	}

	stopCh := make(chan struct{})
	co.stopWatch = stopCh
	co.mu.Unlock()

	// Cek segera: session yang sudah lewat expiry saat mount harus langsung
	// ditangani, bukan menunggu tick pertama
	co.checkExpiry()

	go co.watch(stopCh)
}

// watch menjalankan dua sumber trigger (ticker periodik dan sinyal wake) yang
// sama-sama bermuara ke checkExpiry.
func (co *Coordinator) watch(stopCh chan struct{}) {
	ticker := time.NewTicker(co.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			co.checkExpiry()
		case <-co.WakeCh:
			co.checkExpiry()
		case <-stopCh:
			return
		}
	}
}

// checkExpiry adalah satu-satunya rutin penanganan expiry. Aman dipanggil
// berulang dari trigger manapun: pengosongan keranjang dan notifikasi hanya
// terjadi sekali per expiry.
func (co *Coordinator) checkExpiry() {
	snapshot := co.resolver.Snapshot()
	if snapshot.SessionID == "" || snapshot.ExpiresAt.IsZero() {
		return
	}

	if co.Now().Before(snapshot.ExpiresAt) {
		return
	}

	co.mu.Lock()
	if co.expired || co.stopped {
		co.mu.Unlock()
		return
	}
	co.expired = true
	// Session sudah mati; watchdog untuk expiry ini tidak diperlukan lagi
	if co.stopWatch != nil {
		close(co.stopWatch)
		co.stopWatch = nil
	}
	co.watchKey = ""
	co.mu.Unlock()

	utils.InfoLogger.Printf("Session %s expired, clearing cart", snapshot.SessionID)
	co.cart.Clear()
	co.cart.SetBoundTable(nil)
	co.notifier.SessionExpired()
}
