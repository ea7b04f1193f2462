package repository

import (
	"context"
	"errors"

	"catering_store/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrNotFound is returned by mutating operations when the target record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a unique constraint (account email) is violated
	ErrDuplicateKey = errors.New("duplicate key")
)

// DB is the subset of *pgxpool.Pool used by the Postgres repositories.
// pgxmock.PgxPoolIface satisfies it as well.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UserRepository defines operations for account data
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	SetRole(ctx context.Context, id, role string) error
	CountByRole(ctx context.Context, role string) (int64, error)
}

// ProductRepository defines operations for catalog data
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// OrderRepository defines operations for order data. Every listing is newest first.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByUser(ctx context.Context, userID string) ([]model.Order, error)
	FindAll(ctx context.Context) ([]model.Order, error)
	FindRecent(ctx context.Context, limit int) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error
	Count(ctx context.Context) (int64, error)
	SumTotalAmount(ctx context.Context) (float64, error)
}

// Store bundles the three collections of one storage backend
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
	// Ping checks backend connectivity for the health endpoint
	Ping func(ctx context.Context) error
	// Close releases the backend's connections
	Close func()
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// NewPostgresStore wires the pgx repositories onto one pool
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Users:    NewUserRepository(pool),
		Products: NewProductRepository(pool),
		Orders:   NewOrderRepository(pool),
		Ping:     pool.Ping,
		Close:    pool.Close,
	}
}
