package realtime

import (
	"context"
	"strings"
	"sync"
)

// FetchFunc menghitung ulang isi sebuah bucket dari backend.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Bucket adalah satu cache bernama untuk nilai turunan server. Get memakai
// nilai cache selama masih valid; Invalidate menandai basi sehingga Get
// berikutnya fetch ulang.
type Bucket struct {
	mu    sync.Mutex
	fetch FetchFunc
	value interface{}
	valid bool
}

func (b *Bucket) Get(ctx context.Context) (interface{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.valid {
		return b.value, nil
	}

	value, err := b.fetch(ctx)
	if err != nil {
		return nil, err
	}

	b.value = value
	b.valid = true
	return value, nil
}

func (b *Bucket) Invalidate() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = nil
	b.valid = false
}

// Valid melaporkan apakah bucket masih menyimpan nilai yang dianggap segar.
func (b *Bucket) Valid() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.valid
}

// Registry memegang semua bucket cache bernama milik satu view.
type Registry struct {
	mu      sync.RWMutex
	buckets map[string]*Bucket
}

func NewRegistry() *Registry {
	return &Registry{buckets: make(map[string]*Bucket)}
}

// Register membuat (atau mengembalikan yang sudah ada) bucket bernama.
func (r *Registry) Register(name string, fetch FetchFunc) *Bucket {
	r.mu.Lock()
	defer r.mu.Unlock()

	if bucket, ok := r.buckets[name]; ok {
		return bucket
	}
	bucket := &Bucket{fetch: fetch}
	r.buckets[name] = bucket
	return bucket
}

// Lookup mengembalikan bucket bernama kalau ada.
func (r *Registry) Lookup(name string) (*Bucket, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bucket, ok := r.buckets[name]
	return bucket, ok
}

// Invalidate menandai satu bucket basi. Bucket yang tidak terdaftar (belum
// pernah dibaca siapa-siapa) adalah no-op.
func (r *Registry) Invalidate(name string) {
	if bucket, ok := r.Lookup(name); ok {
		bucket.Invalidate()
	}
}

// InvalidatePrefix menandai basi semua bucket yang namanya diawali prefix,
// untuk event yang tidak membawa id spesifik: seluruh turunan ikut basi.
func (r *Registry) InvalidatePrefix(prefix string) {
	r.mu.RLock()
	matched := make([]*Bucket, 0)
	for name, bucket := range r.buckets {
		if strings.HasPrefix(name, prefix) {
			matched = append(matched, bucket)
		}
	}
	r.mu.RUnlock()

	for _, bucket := range matched {
		bucket.Invalidate()
	}
}
