package service

import (
	"context"
	"testing"
	"time"

	"catering_store/internal/model"
	"catering_store/internal/repository"
	"catering_store/internal/repository/memory"
	"catering_store/internal/utils"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fixture struct {
	store    *repository.Store
	jwt      *utils.JWTUtil
	auth     AuthService
	products ProductService
	orders   OrderService
	log      *logrus.Logger
	logs     *test.Hook
}

func newFixture(t *testing.T, opts OrderOptions) *fixture {
	t.Helper()
	logger, hook := test.NewNullLogger()
	store := memory.New().Repositories()
	jwtUtil := utils.NewJWTUtil(testSecret, time.Hour)
	return &fixture{
		store:    store,
		jwt:      jwtUtil,
		auth:     NewAuthService(store.Users, jwtUtil, logger),
		products: NewProductService(store.Products, nil, logger),
		orders:   NewOrderService(store.Orders, store.Products, store.Users, opts, logger),
		log:      logger,
		logs:     hook,
	}
}

func (f *fixture) register(t *testing.T, name, email string) *model.User {
	t.Helper()
	user, _, err := f.auth.Register(context.Background(), model.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: "secret123",
		Phone:    "9000000000",
		Address:  "12 MG Road",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) admin(t *testing.T) *model.User {
	t.Helper()
	user := f.register(t, "Admin", "admin@example.com")
	promoted, err := f.auth.PromoteToAdmin(context.Background(), user.Email)
	require.NoError(t, err)
	return promoted
}

func (f *fixture) product(t *testing.T, name string, price float64) *model.Product {
	t.Helper()
	p, err := f.products.Create(context.Background(), model.ProductRequest{
		Name:        name,
		Description: name + " for events",
		Price:       &price,
		Category:    "mains",
		Image:       "https://img.example.com/" + name + ".jpg",
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }

func shipping() model.ShippingAddress {
	return model.ShippingAddress{
		Name:    "Asha",
		Email:   "asha@example.com",
		Phone:   "9000000000",
		Address: "12 MG Road",
		City:    "Pune",
		State:   "MH",
		Pincode: "411001",
	}
}

func orderRequest(total float64, items ...model.OrderItemRequest) model.CreateOrderRequest {
	return model.CreateOrderRequest{
		Items:           items,
		ShippingAddress: shipping(),
		PaymentMethod:   model.PaymentCOD,
		TotalAmount:     &total,
	}
}

func line(productID string, quantity int, price float64) model.OrderItemRequest {
	return model.OrderItemRequest{Product: productID, Quantity: quantity, Price: &price}
}
