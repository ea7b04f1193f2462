// Package memory keeps accounts, catalog items and orders in process memory.
// It backs DB_DRIVER=memory for local runs and the service and HTTP tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"catering_store/internal/model"
	"catering_store/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store holds the three collections behind one lock. Records are copied on
// the way in and out so callers never share memory with the store.
type Store struct {
	mu       sync.RWMutex
	users    map[string]model.User
	products map[string]model.Product
	orders   map[string]model.Order

	// insertion order, used to break CreatedAt ties
	productIDs []string
	orderIDs   []string
}

// New returns an empty store
func New() *Store {
	return &Store{
		users:    make(map[string]model.User),
		products: make(map[string]model.Product),
		orders:   make(map[string]model.Order),
	}
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Users:    &userRepository{s},
		Products: &productRepository{s},
		Orders:   &orderRepository{s},
		Ping:     func(context.Context) error { return nil },
		Close:    func() {},
	}
}

type userRepository struct{ s *Store }

func (r *userRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.s.users[user.ID] = *user
	return nil
}

func (r *userRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepository) FindByIDs(_ context.Context, ids []string) ([]model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []model.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = user.Name
	stored.Phone = user.Phone
	stored.Address = user.Address
	r.s.users[user.ID] = stored
	return nil
}

func (r *userRepository) SetRole(_ context.Context, id, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Role = role
	r.s.users[id] = stored
	return nil
}

func (r *userRepository) CountByRole(_ context.Context, role string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var count int64
	for _, u := range r.s.users {
		if u.Role == role {
			count++
		}
	}
	return count, nil
}

type productRepository struct{ s *Store }

func cloneProduct(p model.Product) model.Product {
	p.Ingredients = append([]string{}, p.Ingredients...)
	return p
}

func (r *productRepository) Create(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	if _, exists := r.s.products[p.ID]; exists {
		return repository.ErrDuplicateKey
	}
	r.s.products[p.ID] = cloneProduct(*p)
	r.s.productIDs = append(r.s.productIDs, p.ID)
	return nil
}

func (r *productRepository) FindByID(_ context.Context, id string) (*model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	p = cloneProduct(p)
	return &p, nil
}

func (r *productRepository) FindByIDs(_ context.Context, ids []string) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := []model.Product{}
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok {
			products = append(products, cloneProduct(p))
		}
	}
	return products, nil
}

func (r *productRepository) FindAll(_ context.Context) ([]model.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	products := make([]model.Product, 0, len(r.s.products))
	for i := len(r.s.productIDs) - 1; i >= 0; i-- {
		products = append(products, cloneProduct(r.s.products[r.s.productIDs[i]]))
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (r *productRepository) Update(_ context.Context, p *model.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.products[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = p.Name
	stored.Description = p.Description
	stored.Price = p.Price
	stored.Category = p.Category
	stored.Image = p.Image
	stored.Ingredients = append([]string{}, p.Ingredients...)
	r.s.products[p.ID] = stored
	return nil
}

func (r *productRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	for i, pid := range r.s.productIDs {
		if pid == id {
			r.s.productIDs = append(r.s.productIDs[:i], r.s.productIDs[i+1:]...)
			break
		}
	}
	return nil
}

func (r *productRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.products)), nil
}

type orderRepository struct{ s *Store }

func cloneOrder(o model.Order) model.Order {
	o.Items = append([]model.OrderItem{}, o.Items...)
	return o
}

// sorted returns the orders matching keep, newest first
func (r *orderRepository) sorted(keep func(model.Order) bool) []model.Order {
	orders := []model.Order{}
	for i := len(r.s.orderIDs) - 1; i >= 0; i-- {
		o := r.s.orders[r.s.orderIDs[i]]
		if keep(o) {
			orders = append(orders, cloneOrder(o))
		}
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (r *orderRepository) Create(_ context.Context, o *model.Order) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if _, exists := r.s.orders[o.ID]; !exists {
		r.s.orderIDs = append(r.s.orderIDs, o.ID)
	}
	r.s.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (r *orderRepository) FindByID(_ context.Context, id string) (*model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	o = cloneOrder(o)
	return &o, nil
}

func (r *orderRepository) FindByUser(_ context.Context, userID string) ([]model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(o model.Order) bool { return o.UserID == userID }), nil
}

func (r *orderRepository) FindAll(_ context.Context) ([]model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.sorted(func(model.Order) bool { return true }), nil
}

func (r *orderRepository) FindRecent(_ context.Context, limit int) ([]model.Order, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	orders := r.sorted(func(model.Order) bool { return true })
	if limit >= 0 && len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(_ context.Context, id string, status model.OrderStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	r.s.orders[id] = o
	return nil
}

func (r *orderRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.orders)), nil
}

func (r *orderRepository) SumTotalAmount(_ context.Context) (float64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	total := decimal.Zero
	for _, o := range r.s.orders {
		total = total.Add(decimal.NewFromFloat(o.TotalAmount))
	}
	return total.InexactFloat64(), nil
}
