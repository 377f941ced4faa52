package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qrtable/tableside/cart"
	"github.com/qrtable/tableside/models"
	"github.com/qrtable/tableside/store"
	"github.com/qrtable/tableside/utils"
)

func item(productID string, quantity int, unitPrice float64) models.CartItem {
	return models.CartItem{
		ProductID: productID,
		Name:      "Menu " + productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

func TestAddUpdateRemove(t *testing.T) {
	utils.InitLogger()
	c := cart.New(store.NewMemoryStore())

	c.AddItem(item("p1", 2, 15000))
	c.AddItem(item("p2", 1, 20000))

	assert.Len(t, c.Items(), 2)
	assert.Equal(t, 50000.0, c.Total())

	// Produk sama tanpa opsi berbeda digabung
	c.AddItem(item("p1", 1, 15000))
	items := c.Items()
	assert.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 45000.0, items[0].Subtotal)

	c.UpdateQuantity("p2", nil, 3)
	assert.Equal(t, 105000.0, c.Total())

	// Quantity nol menghapus item
	c.UpdateQuantity("p1", nil, 0)
	assert.Len(t, c.Items(), 1)

	c.RemoveItem("p2", nil)
	assert.Empty(t, c.Items())
	assert.Equal(t, 0.0, c.Total())
}

func TestOptionsKeptSeparate(t *testing.T) {
	utils.InitLogger()
	c := cart.New(store.NewMemoryStore())

	hot := item("p1", 1, 15000)
	hot.Options = map[string]string{"temp": "hot"}
	iced := item("p1", 1, 18000)
	iced.Options = map[string]string{"temp": "iced"}

	c.AddItem(hot)
	c.AddItem(iced)

	assert.Len(t, c.Items(), 2)
	assert.Equal(t, 33000.0, c.Total())

	// Satu varian diubah/dihapus tanpa menyentuh varian lain
	c.UpdateQuantity("p1", map[string]string{"temp": "iced"}, 3)
	items := c.Items()
	assert.Equal(t, 1, items[0].Quantity)
	assert.Equal(t, 3, items[1].Quantity)
	assert.Equal(t, 69000.0, c.Total())

	c.RemoveItem("p1", map[string]string{"temp": "hot"})
	items = c.Items()
	assert.Len(t, items, 1)
	assert.Equal(t, "iced", items[0].Options["temp"])
	assert.Equal(t, 54000.0, c.Total())
}

func TestRehydrateRoundTrip(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()

	// Kunjungan pertama: tiga item terikat ke meja T1
	first := cart.New(st)
	first.Rehydrate()
	first.AddItem(item("p1", 1, 10000))
	first.AddItem(item("p2", 2, 12500))
	first.AddItem(item("p3", 1, 30000))
	tableID := "T1"
	first.SetBoundTable(&tableID)

	// Reload halaman: instance baru di atas store yang sama
	second := cart.New(st)
	second.Rehydrate()

	assert.Equal(t, first.Items(), second.Items())
	assert.Equal(t, first.Total(), second.Total())
	bound := second.BoundTableID()
	assert.NotNil(t, bound)
	assert.Equal(t, "T1", *bound)
}

func TestRehydrateOnlyOnce(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()

	c := cart.New(st)
	c.Rehydrate()
	c.AddItem(item("p1", 1, 10000))

	// Tulis state lain langsung ke store; rehydrate kedua tidak boleh
	// menimpa keranjang yang sedang hidup
	st.Set(store.KeyCart, `{"items":[],"total_amount":0}`)
	c.Rehydrate()

	assert.Len(t, c.Items(), 1)
}

func TestRehydrateCorruptedData(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	st.Set(store.KeyCart, "{not-json")

	c := cart.New(st)
	c.Rehydrate()

	assert.Empty(t, c.Items())
	assert.Nil(t, c.BoundTableID())
}

func TestSetBoundTableIdempotent(t *testing.T) {
	utils.InitLogger()
	st := store.NewMemoryStore()
	c := cart.New(st)

	tableID := "T1"
	c.SetBoundTable(&tableID)
	persisted, _ := st.Get(store.KeyCart)

	// Mengeset id yang sama tidak menghasilkan tulisan baru
	st.Remove(store.KeyCart)
	same := "T1"
	c.SetBoundTable(&same)
	_, ok := st.Get(store.KeyCart)
	assert.False(t, ok)

	st.Set(store.KeyCart, persisted)
	c.SetBoundTable(nil)
	assert.Nil(t, c.BoundTableID())
}

func TestFormattedTotal(t *testing.T) {
	utils.InitLogger()
	c := cart.New(store.NewMemoryStore())
	c.AddItem(item("p1", 2, 17500))

	assert.Equal(t, "35.000,00", c.FormattedTotal())
}
