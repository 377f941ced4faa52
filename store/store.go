package store

// Kunci logis yang dipakai bersama oleh cart dan halaman terminal order.
const (
	KeyCart             = "cart_state"
	KeyPendingOrder     = "pending_order"
	KeyPendingOrderID   = "pending_order_id"
	KeyPendingClearCart = "pending_clear_cart"
)

// Store adalah kapabilitas penyimpanan key/value durable yang disuntikkan ke
// komponen lain (bukan singleton tersembunyi, supaya test bisa pakai fake).
// Semua operasi best-effort: kegagalan storage ditelan dan dicatat ke log,
// tidak pernah menyebar keluar — pembacaan yang gagal berperilaku seperti
// key yang tidak ada.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}
