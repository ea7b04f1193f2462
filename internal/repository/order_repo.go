package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"catering_store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const orderColumns = `id, user_id, items, total_amount, shipping_address, payment_method, status, created_at`

type orderRepository struct {
	db DB
}

// NewOrderRepository creates a Postgres-backed OrderRepository. Line items and the
// shipping snapshot live in JSONB columns so each order stays a single row.
func NewOrderRepository(db DB) OrderRepository {
	return &orderRepository{db: db}
}

func scanOrder(row pgx.Row, o *model.Order) error {
	var items, shipping []byte
	var status string
	if err := row.Scan(&o.ID, &o.UserID, &items, &o.TotalAmount, &shipping, &o.PaymentMethod, &status, &o.CreatedAt); err != nil {
		return err
	}
	o.Status = model.OrderStatus(status)
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return fmt.Errorf("failed to decode order items: %w", err)
	}
	if err := json.Unmarshal(shipping, &o.ShippingAddress); err != nil {
		return fmt.Errorf("failed to decode shipping address: %w", err)
	}
	return nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order rows: %w", err)
	}
	return orders, nil
}

// Create inserts a new order in a single statement
func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	shipping, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("failed to encode shipping address: %w", err)
	}

	sql := `INSERT INTO orders (` + orderColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err = r.db.Exec(ctx, sql, o.ID, o.UserID, items, o.TotalAmount, shipping, o.PaymentMethod, string(o.Status), o.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID retrieves an order by its id
func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	o := &model.Order{}
	if err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), o); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return o, nil
}

// FindByUser retrieves the orders owned by one account
func (r *orderRepository) FindByUser(ctx context.Context, userID string) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by user: %w", err)
	}
	return collectOrders(rows)
}

// FindAll retrieves every order regardless of owner
func (r *orderRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query all orders: %w", err)
	}
	return collectOrders(rows)
}

// FindRecent retrieves the limit newest orders
func (r *orderRepository) FindRecent(ctx context.Context, limit int) ([]model.Order, error) {
	rows, err := r.db.Query(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	return collectOrders(rows)
}

// UpdateStatus overwrites the status of an order. No other column changes.
func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of orders
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// SumTotalAmount adds up totalAmount over every order, whatever its status
func (r *orderRepository) SumTotalAmount(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(total_amount), 0)::float8 FROM orders`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum order totals: %w", err)
	}
	return total, nil
}
