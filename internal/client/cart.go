package client

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"catering_store/internal/model"

	"github.com/shopspring/decimal"
)

// CartItem is a catalog item with the quantity the customer wants
type CartItem struct {
	Product  model.Product `json:"product"`
	Quantity int           `json:"quantity"`
}

// Cart is the client-local shopping cart. Prices are the ones seen when the
// item was added; the server is never consulted.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(productID string) int {
	for i, item := range c.items {
		if item.Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add puts quantity units of product into the cart, merging with an existing
// line for the same product. Quantities below 1 count as 1.
func (c *Cart) Add(product model.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(product.ID); i >= 0 {
		c.items[i].Quantity += quantity
		return
	}
	c.items = append(c.items, CartItem{Product: product, Quantity: quantity})
}

// UpdateQuantity sets the quantity of a line. Values below 1 are ignored;
// use Remove to drop a line.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.items[i].Quantity = quantity
	}
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.items = append(c.items[:i], c.items[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// Items returns a copy of the cart lines in insertion order
func (c *Cart) Items() []CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]CartItem{}, c.items...)
}

// Total is the sum of price times quantity over all lines
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, item := range c.items {
		line := decimal.NewFromFloat(item.Product.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total.InexactFloat64()
}

// ItemCount is the number of units across all lines
func (c *Cart) ItemCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// OrderItems converts the cart into order lines
func (c *Cart) OrderItems() []model.OrderItemRequest {
	c.mu.Lock()
	defer c.mu.Unlock()

	lines := make([]model.OrderItemRequest, 0, len(c.items))
	for _, item := range c.items {
		price := item.Product.Price
		lines = append(lines, model.OrderItemRequest{
			Product:  item.Product.ID,
			Quantity: item.Quantity,
			Price:    &price,
		})
	}
	return lines
}

// OrderRequest builds the checkout body for the current cart
func (c *Cart) OrderRequest(addr model.ShippingAddress, paymentMethod string) model.CreateOrderRequest {
	total := c.Total()
	return model.CreateOrderRequest{
		Items:           c.OrderItems(),
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
		TotalAmount:     &total,
	}
}

// Save writes the cart lines as JSON
func (c *Cart) Save(w io.Writer) error {
	items := c.Items()
	if err := json.NewEncoder(w).Encode(items); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Load replaces the cart contents with lines read by Save. Lines with a
// quantity below 1 are dropped.
func (c *Cart) Load(r io.Reader) error {
	var items []CartItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	kept := items[:0]
	for _, item := range items {
		if item.Quantity >= 1 {
			kept = append(kept, item)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = kept
	return nil
}
