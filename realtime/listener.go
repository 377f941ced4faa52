package realtime

import (
	"encoding/json"
	"strconv"
	"sync"

	"github.com/qrtable/tableside/utils"
)

// Listener menghubungkan event dari push channel ke invalidasi bucket cache,
// supaya UI tidak pernah menampilkan data basi setelah order masuk atau admin
// mengubah produk/setting. Invalidasi bersifat advisory dan tidak bergantung
// urutan antar event.
type Listener struct {
	source   EventSource
	registry *Registry

	mu     sync.Mutex
	unsubs []func()
	closed bool
}

func NewListener(source EventSource, registry *Registry) *Listener {
	return &Listener{source: source, registry: registry}
}

// Listen mendaftarkan semua handler event. Masing-masing handler terisolasi:
// kegagalan satu invalidasi tidak menghalangi yang lain.
func (l *Listener) Listen() {
	l.subscribe(EventOrderUpdated, l.handleOrderUpdated)
	l.subscribe(EventProductUpdated, l.handleProductUpdated)
	l.subscribe(EventSettingsUpdated, func(json.RawMessage) {
		l.registry.Invalidate(BucketSettings)
	})
	l.subscribe(EventBannersUpdated, func(json.RawMessage) {
		l.registry.Invalidate(BucketBanners)
	})
}

func (l *Listener) subscribe(event string, handler Handler) {
	unsub := l.source.Subscribe(event, l.guard(event, handler))

	l.mu.Lock()
	l.unsubs = append(l.unsubs, unsub)
	l.mu.Unlock()
}

// guard membungkus handler supaya panic di satu handler tidak menjatuhkan
// read loop atau handler lain.
func (l *Listener) guard(event string, handler Handler) Handler {
	return func(data json.RawMessage) {
		defer func() {
			if r := recover(); r != nil {
				utils.ErrorLogger.Printf("Panic handling %s event: %v", event, r)
			}
		}()
		handler(data)
	}
}

func (l *Listener) handleOrderUpdated(data json.RawMessage) {
	// List order selalu basi begitu ada order yang berubah
	l.registry.Invalidate(BucketOrders)

	var payload struct {
		OrderID interface{} `json:"orderId"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		utils.ErrorLogger.Printf("Error parsing orderUpdated payload: %v", err)
		// Tanpa id yang bisa dipercaya, semua bucket order spesifik ikut basi
		l.registry.InvalidatePrefix(BucketOrders + "/")
		return
	}

	if id := stringID(payload.OrderID); id != "" {
		l.registry.Invalidate(OrderBucket(id))
	} else {
		l.registry.InvalidatePrefix(BucketOrders + "/")
	}
}

func (l *Listener) handleProductUpdated(data json.RawMessage) {
	l.registry.Invalidate(BucketProducts)

	var payload struct {
		ID      interface{} `json:"id"`
		Product *struct {
			ID interface{} `json:"id"`
		} `json:"product"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		utils.ErrorLogger.Printf("Error parsing productUpdated payload: %v", err)
		l.registry.InvalidatePrefix(BucketProducts + "/")
		return
	}

	id := stringID(payload.ID)
	if id == "" && payload.Product != nil {
		id = stringID(payload.Product.ID)
	}
	if id != "" {
		l.registry.Invalidate(ProductBucket(id))
	} else {
		l.registry.InvalidatePrefix(BucketProducts + "/")
	}
}

// Close melepas semua subscription lalu menutup source, apapun kondisi
// koneksinya saat itu. Idempotent.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	unsubs := l.unsubs
	l.unsubs = nil
	l.mu.Unlock()

	for _, unsub := range unsubs {
		unsub()
	}
	return l.source.Close()
}

// stringID menormalkan id dari payload JSON; backend kadang mengirim string,
// kadang angka.
func stringID(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return ""
	}
}
