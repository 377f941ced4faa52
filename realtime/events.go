package realtime

import "encoding/json"

// Event types yang dikonsumsi dari push channel. Event lain diabaikan.
const (
	EventOrderUpdated    = "orderUpdated"
	EventProductUpdated  = "productUpdated"
	EventSettingsUpdated = "settingsUpdated"
	EventBannersUpdated  = "bannersUpdated"
)

// Nama bucket cache yang di-invalidate listener.
const (
	BucketOrders   = "orders"
	BucketProducts = "products"
	BucketSettings = "settings"
	BucketBanners  = "banners"
)

// OrderBucket -> nama bucket untuk satu order spesifik
func OrderBucket(orderID string) string {
	return BucketOrders + "/" + orderID
}

// ProductBucket -> nama bucket untuk satu produk spesifik
func ProductBucket(productID string) string {
	return BucketProducts + "/" + productID
}

// Message adalah frame yang lewat di push channel.
type Message struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Handler menerima payload mentah satu event.
type Handler func(data json.RawMessage)

// EventSource adalah push channel yang bisa di-subscribe per nama event.
// Subscribe mengembalikan fungsi unsubscribe; Close harus aman dipanggil
// dalam kondisi koneksi apapun (tersambung, gagal, atau sudah ditutup).
type EventSource interface {
	Subscribe(event string, handler Handler) func()
	Close() error
}
