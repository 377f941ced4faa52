package models

// CartItem adalah satu baris pesanan di keranjang.
type CartItem struct {
	ProductID string            `json:"product_id"`
	Name      string            `json:"name"`
	Quantity  int               `json:"quantity"`
	UnitPrice float64           `json:"unit_price"`
	Options   map[string]string `json:"options,omitempty"`
	Subtotal  float64           `json:"subtotal"`
}

// Cart adalah bentuk keranjang yang dipersist ke storage. BoundTableID nil
// berarti keranjang tidak terikat ke meja manapun.
type Cart struct {
	Items        []CartItem `json:"items"`
	BoundTableID *string    `json:"bound_table_id"`
	TotalAmount  float64    `json:"total_amount"`
}
