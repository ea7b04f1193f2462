package service

import (
	"context"
	"testing"

	"catering_store/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCreateKeepsClientTotal(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")
	p := f.product(t, "Thali", 100)

	order, err := f.orders.Create(ctx, user, orderRequest(250, line(p.ID, 2, 100)))
	require.NoError(t, err)

	assert.Equal(t, model.StatusPending, order.Status)
	assert.Equal(t, 250.0, order.TotalAmount)
	assert.Equal(t, user.ID, order.User.ID)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 200.0, order.Items[0].Price*float64(order.Items[0].Quantity))
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Thali", order.Items[0].Product.Name)
	assert.Equal(t, "411001", order.ShippingAddress.Pincode)

	stored, err := f.store.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, stored.TotalAmount)
}

func TestOrderCreateTrustsClientPrice(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	user := f.register(t, "Asha", "asha@example.com")
	p := f.product(t, "Thali", 100)

	order, err := f.orders.Create(context.Background(), user, orderRequest(1, line(p.ID, 1, 1)))
	require.NoError(t, err)
	assert.Equal(t, 1.0, order.Items[0].Price)
}

func TestOrderCreateValidation(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")

	cases := map[string]model.CreateOrderRequest{
		"no items":      orderRequest(10),
		"zero quantity": orderRequest(10, line("p1", 0, 10)),
		"no product":    orderRequest(10, line("", 1, 10)),
		"bad payment": func() model.CreateOrderRequest {
			req := orderRequest(10, line("p1", 1, 10))
			req.PaymentMethod = "card"
			return req
		}(),
		"no pincode": func() model.CreateOrderRequest {
			req := orderRequest(10, line("p1", 1, 10))
			req.ShippingAddress.Pincode = ""
			return req
		}(),
		"no total": func() model.CreateOrderRequest {
			req := orderRequest(10, line("p1", 1, 10))
			req.TotalAmount = nil
			return req
		}(),
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, user, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	count, err := f.store.Orders.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestOrderCreateWithPriceVerification(t *testing.T) {
	f := newFixture(t, OrderOptions{VerifyPrices: true})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")
	thali := f.product(t, "Thali", 100.10)
	lassi := f.product(t, "Lassi", 0.20)

	_, err := f.orders.Create(ctx, user, orderRequest(250, line(thali.ID, 2, 100.10)))
	assert.ErrorIs(t, err, ErrValidation, "total must match the lines")

	_, err = f.orders.Create(ctx, user, orderRequest(2, line(thali.ID, 2, 1)))
	assert.ErrorIs(t, err, ErrValidation, "line price must match the catalog")

	_, err = f.orders.Create(ctx, user, orderRequest(10, line("missing", 1, 10)))
	assert.ErrorIs(t, err, ErrValidation, "product must exist")

	order, err := f.orders.Create(ctx, user, orderRequest(200.80, line(thali.ID, 2, 100.10), line(lassi.ID, 3, 0.20)))
	require.NoError(t, err)
	assert.Equal(t, 200.80, order.TotalAmount)
}

func TestDuplicateSubmissionsCreateTwoOrders(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")
	p := f.product(t, "Thali", 100)
	req := orderRequest(100, line(p.ID, 1, 100))

	first, err := f.orders.Create(ctx, user, req)
	require.NoError(t, err)
	second, err := f.orders.Create(ctx, user, req)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	mine, err := f.orders.ListMine(ctx, user)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestListMineIsScopedToOwner(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	a := f.register(t, "Asha", "asha@example.com")
	b := f.register(t, "Ben", "ben@example.com")
	p := f.product(t, "Thali", 100)

	_, err := f.orders.Create(ctx, a, orderRequest(100, line(p.ID, 1, 100)))
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, b, orderRequest(200, line(p.ID, 2, 100)))
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, a, orderRequest(300, line(p.ID, 3, 100)))
	require.NoError(t, err)

	mine, err := f.orders.ListMine(ctx, a)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, a.ID, o.User.ID)
		assert.Empty(t, o.User.Email)
	}
	assert.Equal(t, 300.0, mine[0].TotalAmount, "newest first")

	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	owners := map[string]string{}
	for _, o := range all {
		owners[o.User.ID] = o.User.Email
	}
	assert.Equal(t, map[string]string{a.ID: "asha@example.com", b.ID: "ben@example.com"}, owners)
}

func TestSetStatus(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")
	p := f.product(t, "Thali", 100)
	order, err := f.orders.Create(ctx, user, orderRequest(100, line(p.ID, 1, 100)))
	require.NoError(t, err)
	before, err := f.store.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)

	updated, err := f.orders.SetStatus(ctx, order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, model.StatusShipped, updated.Status)

	after, err := f.store.Orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	expected := *before
	expected.Status = model.StatusShipped
	assert.Equal(t, expected, *after)

	_, err = f.orders.SetStatus(ctx, order.ID, "bogus")
	assert.ErrorIs(t, err, ErrValidation)
	unchanged, _ := f.store.Orders.FindByID(ctx, order.ID)
	assert.Equal(t, model.StatusShipped, unchanged.Status)

	_, err = f.orders.SetStatus(ctx, "missing", "shipped")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetStatusAllowsAnyTransition(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")
	order, err := f.orders.Create(ctx, user, orderRequest(100, line("p1", 1, 100)))
	require.NoError(t, err)

	for _, status := range []string{"delivered", "pending", "cancelled", "processing"} {
		updated, err := f.orders.SetStatus(ctx, order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, model.OrderStatus(status), updated.Status)
	}
}

func TestDeletedProductStaysInOrders(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")
	p := f.product(t, "Thali", 120)
	_, err := f.orders.Create(ctx, user, orderRequest(240, line(p.ID, 2, 120)))
	require.NoError(t, err)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	_, err = f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := f.orders.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Len(t, all[0].Items, 1)
	item := all[0].Items[0]
	assert.Equal(t, p.ID, item.ProductID)
	assert.Nil(t, item.Product)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, 120.0, item.Price)
}

func TestStatsRevenueIncludesCancelled(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	f.admin(t)
	a := f.register(t, "Asha", "asha@example.com")
	b := f.register(t, "Ben", "ben@example.com")
	p := f.product(t, "Thali", 100)

	_, err := f.orders.Create(ctx, a, orderRequest(100, line(p.ID, 1, 100)))
	require.NoError(t, err)
	second, err := f.orders.Create(ctx, b, orderRequest(200, line(p.ID, 2, 100)))
	require.NoError(t, err)

	stats, err := f.orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, &model.Stats{TotalOrders: 2, TotalUsers: 2, TotalProducts: 1, TotalRevenue: 300}, stats)

	_, err = f.orders.SetStatus(ctx, second.ID, "cancelled")
	require.NoError(t, err)
	stats, err = f.orders.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 300.0, stats.TotalRevenue)
}

func TestRecentOrders(t *testing.T) {
	f := newFixture(t, OrderOptions{RecentLimit: 2})
	ctx := context.Background()
	user := f.register(t, "Asha", "asha@example.com")
	for i := 1; i <= 4; i++ {
		_, err := f.orders.Create(ctx, user, orderRequest(float64(i*100), line("p1", i, 100)))
		require.NoError(t, err)
	}

	recent, err := f.orders.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, 400.0, recent[0].TotalAmount)
	assert.Equal(t, "asha@example.com", recent[0].User.Email)

	recent, err = f.orders.Recent(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, recent, 3)

	recent, err = f.orders.Recent(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, recent, 4)
}
