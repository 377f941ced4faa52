package checkout

import (
	"github.com/qrtable/tableside/cart"
	"github.com/qrtable/tableside/store"
	"github.com/qrtable/tableside/utils"
)

// Marker pending order dipakai bersama oleh checkout dan halaman terminal
// (confirmation / failure). Checkout mengeset marker sebelum navigasi;
// halaman terminal manapun yang jalan berikutnya membersihkannya, order
// yang mana pun itu.

// MarkPending dicatat saat checkout men-submit order. clearCart meminta
// halaman confirmation ikut mengosongkan keranjang.
func MarkPending(st store.Store, orderID string, clearCart bool) {
	st.Set(store.KeyPendingOrder, "1")
	if orderID != "" {
		st.Set(store.KeyPendingOrderID, orderID)
	}
	if clearCart {
		st.Set(store.KeyPendingClearCart, "1")
	}
}

// PendingOrderID mengembalikan id order yang sedang menunggu hasil, kalau ada.
func PendingOrderID(st store.Store) (string, bool) {
	return st.Get(store.KeyPendingOrderID)
}

// FinishConfirmation dijalankan halaman confirmation saat dibuka: kosongkan
// keranjang kalau diminta, lalu bersihkan semua marker tanpa syarat.
// Idempotent; membuka ulang halaman tanpa marker adalah no-op.
func FinishConfirmation(st store.Store, c *cart.Cart) {
	if _, ok := st.Get(store.KeyPendingClearCart); ok {
		c.Clear()
	}
	clearMarkers(st)
	utils.InfoLogger.Println("Order confirmation cleanup done")
}

// FinishFailure dijalankan halaman failure: bersihkan marker tanpa syarat,
// tapi JANGAN sentuh keranjang supaya user bisa coba checkout lagi tanpa
// memasukkan ulang item.
func FinishFailure(st store.Store) {
	clearMarkers(st)
	utils.InfoLogger.Println("Order failure cleanup done")
}

func clearMarkers(st store.Store) {
	st.Remove(store.KeyPendingOrder)
	st.Remove(store.KeyPendingOrderID)
	st.Remove(store.KeyPendingClearCart)
}
