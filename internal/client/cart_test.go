package client

import (
	"bytes"
	"strings"
	"testing"

	"catering_store/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	samosa  = model.Product{ID: "p1", Name: "Samosa Platter", Price: 120.5}
	biryani = model.Product{ID: "p2", Name: "Veg Biryani", Price: 250}
)

func TestCartAddMergesQuantities(t *testing.T) {
	cart := NewCart()
	cart.Add(samosa, 2)
	cart.Add(biryani, 1)
	cart.Add(samosa, 3)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].Product.ID)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, 6, cart.ItemCount())
	assert.Equal(t, 852.5, cart.Total())
}

func TestCartAddCountsAtLeastOne(t *testing.T) {
	cart := NewCart()
	cart.Add(samosa, 0)
	assert.Equal(t, 1, cart.ItemCount())
}

func TestCartUpdateQuantityIgnoresBelowOne(t *testing.T) {
	cart := NewCart()
	cart.Add(samosa, 2)

	cart.UpdateQuantity("p1", 0)
	cart.UpdateQuantity("p1", -4)
	assert.Equal(t, 2, cart.ItemCount())

	cart.UpdateQuantity("p1", 7)
	assert.Equal(t, 7, cart.ItemCount())

	cart.UpdateQuantity("missing", 3)
	assert.Len(t, cart.Items(), 1)
}

func TestCartRemoveAndClear(t *testing.T) {
	cart := NewCart()
	cart.Add(samosa, 1)
	cart.Add(biryani, 1)

	cart.Remove("p1")
	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].Product.ID)

	cart.Remove("missing")
	assert.Len(t, cart.Items(), 1)

	cart.Clear()
	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.Total())
}

func TestCartOrderRequest(t *testing.T) {
	cart := NewCart()
	cart.Add(samosa, 2)
	cart.Add(biryani, 1)

	addr := model.ShippingAddress{Name: "Asha", City: "Pune"}
	req := cart.OrderRequest(addr, model.PaymentCOD)

	require.Len(t, req.Items, 2)
	assert.Equal(t, "p1", req.Items[0].Product)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.Equal(t, 120.5, *req.Items[0].Price)
	assert.Equal(t, 491.0, *req.TotalAmount)
	assert.Equal(t, addr, req.ShippingAddress)
	assert.Equal(t, model.PaymentCOD, req.PaymentMethod)
}

func TestCartSaveLoad(t *testing.T) {
	cart := NewCart()
	cart.Add(samosa, 2)
	cart.Add(biryani, 1)

	var buf bytes.Buffer
	require.NoError(t, cart.Save(&buf))

	restored := NewCart()
	restored.Add(model.Product{ID: "old"}, 1)
	require.NoError(t, restored.Load(&buf))

	assert.Equal(t, cart.Items(), restored.Items())
	assert.Equal(t, cart.Total(), restored.Total())
}

func TestCartLoadDropsEmptyLines(t *testing.T) {
	cart := NewCart()
	err := cart.Load(strings.NewReader(`[{"product":{"_id":"p1","price":10},"quantity":0},{"product":{"_id":"p2","price":5},"quantity":2}]`))
	require.NoError(t, err)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].Product.ID)
}

func TestCartLoadRejectsGarbage(t *testing.T) {
	cart := NewCart()
	cart.Add(samosa, 1)
	assert.Error(t, cart.Load(strings.NewReader("not json")))
	assert.Len(t, cart.Items(), 1)
}
