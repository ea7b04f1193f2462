package service

import (
	"context"
	"errors"
	"testing"

	"catering_store/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCache struct {
	list        []model.Product
	warm        bool
	sets        int
	invalidates int
	readErr     error
}

func (c *recordingCache) GetList(context.Context) ([]model.Product, bool, error) {
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	return c.list, c.warm, nil
}

func (c *recordingCache) SetList(_ context.Context, products []model.Product) error {
	c.list, c.warm = products, true
	c.sets++
	return nil
}

func (c *recordingCache) Invalidate(context.Context) error {
	c.list, c.warm = nil, false
	c.invalidates++
	return nil
}

func TestProductCreateRequiresFields(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()

	_, err := f.products.Create(ctx, model.ProductRequest{Name: "Samosa", Price: ptr(40.0)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.products.Create(ctx, model.ProductRequest{Name: "Samosa", Description: "d", Category: "c", Image: "i"})
	assert.ErrorIs(t, err, ErrValidation, "price is required")

	_, err = f.products.Create(ctx, model.ProductRequest{Name: "Samosa", Description: "d", Category: "c", Image: "i", Price: ptr(-1.0)})
	assert.ErrorIs(t, err, ErrValidation)

	free, err := f.products.Create(ctx, model.ProductRequest{Name: "Water", Description: "d", Category: "c", Image: "i", Price: ptr(0.0)})
	require.NoError(t, err)
	assert.Zero(t, free.Price)
	assert.Equal(t, []string{}, free.Ingredients)
	assert.NotEmpty(t, free.ID)
	assert.False(t, free.CreatedAt.IsZero())
}

func TestProductListNewestFirst(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	f.product(t, "Samosa", 40)
	f.product(t, "Biryani", 300)
	f.product(t, "Kheer", 90)

	products, err := f.products.List(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "Kheer", products[0].Name)
	assert.Equal(t, "Samosa", products[2].Name)
}

func TestProductGetUnknown(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	_, err := f.products.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Product not found")
}

func TestProductUpdateReplacesEveryField(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	p, err := f.products.Create(ctx, model.ProductRequest{
		Name: "Thali", Description: "veg", Price: ptr(200.0), Category: "mains", Image: "a.jpg",
		Ingredients: []string{"rice", "dal"},
	})
	require.NoError(t, err)

	updated, err := f.products.Update(ctx, p.ID, model.ProductRequest{
		Name: "Royal Thali", Description: "deluxe", Price: ptr(350.0), Category: "specials", Image: "b.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, p.CreatedAt, updated.CreatedAt)
	assert.Equal(t, []string{}, updated.Ingredients)

	stored, err := f.products.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Royal Thali", stored.Name)
	assert.Equal(t, "deluxe", stored.Description)
	assert.Equal(t, 350.0, stored.Price)
	assert.Equal(t, "specials", stored.Category)
	assert.Equal(t, "b.jpg", stored.Image)
	assert.Empty(t, stored.Ingredients)

	_, err = f.products.Update(ctx, "missing", model.ProductRequest{Name: "x", Description: "x", Price: ptr(1.0), Category: "x", Image: "x"})
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = f.products.Update(ctx, p.ID, model.ProductRequest{Name: "only name"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductDelete(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	p := f.product(t, "Samosa", 40)

	require.NoError(t, f.products.Delete(ctx, p.ID))
	_, err := f.products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.products.Delete(ctx, p.ID), ErrProductNotFound)
}

func TestProductListUsesCache(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	ctx := context.Background()
	c := &recordingCache{}
	products := NewProductService(f.store.Products, c, f.log)

	price := 40.0
	_, err := products.Create(ctx, model.ProductRequest{Name: "Samosa", Description: "d", Price: &price, Category: "c", Image: "i"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.invalidates)

	first, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, first, 1)
	assert.Equal(t, 1, c.sets)

	// served from cache, so a write behind the service is not visible
	require.NoError(t, f.store.Products.Create(ctx, &model.Product{Name: "Hidden"}))
	second, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, second, 1)
	assert.Equal(t, 1, c.sets)

	_, err = products.Create(ctx, model.ProductRequest{Name: "Kheer", Description: "d", Price: &price, Category: "c", Image: "i"})
	require.NoError(t, err)
	third, err := products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, third, 3)
}

func TestProductListSurvivesCacheFailure(t *testing.T) {
	f := newFixture(t, OrderOptions{})
	f.product(t, "Samosa", 40)
	products := NewProductService(f.store.Products, &recordingCache{readErr: errors.New("redis down")}, f.log)

	list, err := products.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	require.NotNil(t, f.logs.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.logs.LastEntry().Level)
}
