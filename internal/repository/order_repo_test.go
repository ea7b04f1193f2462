package repository

import (
	"context"
	"testing"
	"time"

	"catering_store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var orderRowColumns = []string{"id", "user_id", "items", "total_amount", "shipping_address", "payment_method", "status", "created_at"}

const (
	itemsJSON    = `[{"product":"p1","quantity":2,"price":100}]`
	shippingJSON = `{"name":"Asha","email":"asha@example.com","phone":"555","address":"1 Main St","city":"Pune","state":"MH","pincode":"411001"}`
)

func TestOrderRepository_Create(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)
	now := time.Now()

	order := &model.Order{
		UserID:        "u1",
		Items:         []model.OrderItem{{ProductID: "p1", Quantity: 2, Price: 100}},
		TotalAmount:   250,
		PaymentMethod: model.PaymentCOD,
		Status:        model.StatusPending,
		CreatedAt:     now,
	}
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(pgxmock.AnyArg(), "u1", []byte(itemsJSON), 250.0, pgxmock.AnyArg(), model.PaymentCOD, "pending", now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), order))
	assert.NotEmpty(t, order.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindByUser(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE user_id = (.+) ORDER BY created_at DESC").
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows(orderRowColumns).
			AddRow("o1", "u1", []byte(itemsJSON), 250.0, []byte(shippingJSON), "cod", "pending", now))

	orders, err := repo.FindByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)

	o := orders[0]
	assert.Equal(t, "o1", o.ID)
	assert.Equal(t, model.StatusPending, o.Status)
	assert.Equal(t, []model.OrderItem{{ProductID: "p1", Quantity: 2, Price: 100}}, o.Items)
	assert.Equal(t, "411001", o.ShippingAddress.Pincode)
	// Stored as supplied: the line total (200) and totalAmount (250) are not reconciled
	assert.Equal(t, 250.0, o.TotalAmount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_FindByID_CorruptItems(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").
		WithArgs("o1").
		WillReturnRows(pgxmock.NewRows(orderRowColumns).
			AddRow("o1", "u1", []byte(`not json`), 250.0, []byte(shippingJSON), "cod", "pending", time.Now()))

	o, err := repo.FindByID(context.Background(), "o1")
	assert.Error(t, err)
	assert.Nil(t, o)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM orders WHERE id").WithArgs("o9").WillReturnError(pgx.ErrNoRows)

	o, err := repo.FindByID(context.Background(), "o9")
	assert.NoError(t, err)
	assert.Nil(t, o)
}

func TestOrderRepository_FindRecent(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT (.+) FROM orders ORDER BY created_at DESC LIMIT").
		WithArgs(5).
		WillReturnRows(pgxmock.NewRows(orderRowColumns))

	orders, err := repo.FindRecent(context.Background(), 5)
	assert.NoError(t, err)
	assert.Empty(t, orders)
	assert.NotNil(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)

	mock.ExpectExec("UPDATE orders SET status").WithArgs("shipped", "o1").WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec("UPDATE orders SET status").WithArgs("shipped", "o9").WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.NoError(t, repo.UpdateStatus(context.Background(), "o1", model.StatusShipped))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), "o9", model.StatusShipped), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepository_Aggregates(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOrderRepository(mock)

	mock.ExpectQuery("SELECT COUNT(.+) FROM orders").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery("SELECT COALESCE(.+) FROM orders").
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(300.0))

	count, err := repo.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)

	total, err := repo.SumTotalAmount(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 300.0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
