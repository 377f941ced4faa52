package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrtable/tableside/cart"
	"github.com/qrtable/tableside/checkout"
	"github.com/qrtable/tableside/models"
	"github.com/qrtable/tableside/store"
	"github.com/qrtable/tableside/utils"
)

func seededCart(st store.Store) *cart.Cart {
	c := cart.New(st)
	c.AddItem(models.CartItem{ProductID: "p1", Name: "Nasi Goreng", Quantity: 1, UnitPrice: 25000})
	c.AddItem(models.CartItem{ProductID: "p2", Name: "Es Teh", Quantity: 2, UnitPrice: 8000})
	return c
}

func TestConfirmationClearsCartWhenRequested(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	c := seededCart(st)

	checkout.MarkPending(st, "ORD-1", true)

	orderID, ok := checkout.PendingOrderID(st)
	assert.True(t, ok)
	assert.Equal(t, "ORD-1", orderID)

	checkout.FinishConfirmation(st, c)

	assert.Empty(t, c.Items())
	_, ok = st.Get(store.KeyPendingOrder)
	assert.False(t, ok)
	_, ok = st.Get(store.KeyPendingOrderID)
	assert.False(t, ok)
	_, ok = st.Get(store.KeyPendingClearCart)
	assert.False(t, ok)
}

func TestConfirmationWithoutClearFlagKeepsCart(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	c := seededCart(st)

	checkout.MarkPending(st, "ORD-2", false)
	checkout.FinishConfirmation(st, c)

	// Marker tetap dibersihkan, keranjang dibiarkan
	assert.Len(t, c.Items(), 2)
	_, ok := st.Get(store.KeyPendingOrder)
	assert.False(t, ok)
}

func TestFailureNeverTouchesCart(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	c := seededCart(st)

	checkout.MarkPending(st, "ORD-3", true)
	checkout.FinishFailure(st)

	// User harus bisa coba checkout lagi tanpa memasukkan ulang item
	assert.Len(t, c.Items(), 2)
	assert.Equal(t, 41000.0, c.Total())

	_, ok := st.Get(store.KeyPendingOrder)
	assert.False(t, ok)
	_, ok = st.Get(store.KeyPendingOrderID)
	assert.False(t, ok)
	_, ok = st.Get(store.KeyPendingClearCart)
	assert.False(t, ok)
}

func TestCleanupIdempotent(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	c := seededCart(st)

	checkout.MarkPending(st, "ORD-4", true)

	// Back-navigation: halaman confirmation jalan dua kali berturut-turut
	checkout.FinishConfirmation(st, c)
	checkout.FinishConfirmation(st, c)

	assert.Empty(t, c.Items())
	_, ok := st.Get(store.KeyPendingOrder)
	assert.False(t, ok)

	// Halaman failure tanpa marker juga no-op aman
	checkout.FinishFailure(st)
}

func TestMarkPendingWithoutOrderID(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()

	// Id order belum diketahui saat submit
	checkout.MarkPending(st, "", true)

	_, ok := st.Get(store.KeyPendingOrder)
	assert.True(t, ok)
	_, ok = checkout.PendingOrderID(st)
	assert.False(t, ok)
}
