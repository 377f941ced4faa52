package cart

import (
	"encoding/json"
	"sync"

	"github.com/qrtable/tableside/models"
	"github.com/qrtable/tableside/store"
	"github.com/qrtable/tableside/utils"
)

// Cart adalah keranjang belanja yang dipersist lewat Store dan diikat ke satu
// meja lewat BoundTableID. UI belanja menambah/mengubah item; Coordinator yang
// mengatur ikatan meja dan pengosongan.
type Cart struct {
	mu         sync.Mutex
	store      store.Store
	items      []models.CartItem
	boundTable *string
	total      float64
	rehydrated bool
}

func New(st store.Store) *Cart {
	return &Cart{store: st}
}

// Rehydrate membaca ulang keranjang yang dipersist dari kunjungan sebelumnya.
// Hanya berjalan sekali per lifetime; pemanggilan berikutnya no-op.
func (c *Cart) Rehydrate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rehydrated {
		return
	}
	c.rehydrated = true

	raw, ok := c.store.Get(store.KeyCart)
	if !ok {
		return
	}

	var persisted models.Cart
	if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
		// Data rusak diperlakukan seperti tidak ada
		utils.ErrorLogger.Printf("Error rehydrating cart: %v", err)
		return
	}

	c.items = persisted.Items
	c.boundTable = persisted.BoundTableID
	c.total = persisted.TotalAmount
}

// AddItem menambahkan item baru, atau menaikkan quantity kalau produk dengan
// opsi yang sama sudah ada di keranjang.
func (c *Cart) AddItem(item models.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item.Quantity < 1 {
		item.Quantity = 1
	}

	for i := range c.items {
		if c.items[i].ProductID == item.ProductID && sameOptions(c.items[i].Options, item.Options) {
			c.items[i].Quantity += item.Quantity
			c.items[i].Subtotal = c.items[i].UnitPrice * float64(c.items[i].Quantity)
			c.recalcAndPersist()
			return
		}
	}

	item.Subtotal = item.UnitPrice * float64(item.Quantity)
	c.items = append(c.items, item)
	c.recalcAndPersist()
}

// UpdateQuantity mengubah quantity satu baris, dikenali lewat identitas yang
// sama dengan saat AddItem: produk + opsi. Quantity <= 0 menghapus baris.
func (c *Cart) UpdateQuantity(productID string, options map[string]string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ProductID != productID || !sameOptions(c.items[i].Options, options) {
			continue
		}
		if quantity <= 0 {
			c.items = append(c.items[:i], c.items[i+1:]...)
		} else {
			c.items[i].Quantity = quantity
			c.items[i].Subtotal = c.items[i].UnitPrice * float64(quantity)
		}
		c.recalcAndPersist()
		return
	}
}

func (c *Cart) RemoveItem(productID string, options map[string]string) {
	c.UpdateQuantity(productID, options, 0)
}

// Clear mengosongkan seluruh item. Ikatan meja tidak disentuh di sini;
// itu urusan SetBoundTable.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.items) == 0 && c.total == 0 {
		// Idempotent: kosong tetap kosong tanpa tulis ulang
		return
	}

	c.items = nil
	c.total = 0
	c.recalcAndPersist()
}

// SetBoundTable mengganti ikatan meja. Mengeset id yang sama adalah no-op
// (tidak ada tulisan ke storage).
func (c *Cart) SetBoundTable(tableID *string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if equalTableID(c.boundTable, tableID) {
		return
	}

	if tableID == nil {
		c.boundTable = nil
	} else {
		copied := *tableID
		c.boundTable = &copied
	}
	c.recalcAndPersist()
}

// BoundTableID mengembalikan id meja yang terikat, atau nil.
func (c *Cart) BoundTableID() *string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.boundTable == nil {
		return nil
	}
	copied := *c.boundTable
	return &copied
}

// Items mengembalikan salinan seluruh line item.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]models.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// FormattedTotal -> total dalam format Rupiah untuk ditampilkan
func (c *Cart) FormattedTotal() string {
	return utils.FormatCurrency(c.Total())
}

// recalcAndPersist menghitung ulang total lalu menulis keranjang ke storage.
// Dipanggil dengan lock sudah dipegang. Tulisan best-effort.
func (c *Cart) recalcAndPersist() {
	c.total = 0
	for _, item := range c.items {
		c.total += item.Subtotal
	}

	persisted := models.Cart{
		Items:        c.items,
		BoundTableID: c.boundTable,
		TotalAmount:  c.total,
	}

	data, err := json.Marshal(persisted)
	if err != nil {
		utils.ErrorLogger.Printf("Error persisting cart: %v", err)
		return
	}
	c.store.Set(store.KeyCart, string(data))
}

func equalTableID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func sameOptions(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for key, value := range a {
		if b[key] != value {
			return false
		}
	}
	return true
}
