package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catering_store/internal/metrics"
	"catering_store/internal/model"
	"catering_store/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 50
)

// OrderService defines order placement, listing and the admin dashboard
type OrderService interface {
	Create(ctx context.Context, user *model.User, req model.CreateOrderRequest) (*model.OrderDetails, error)
	ListMine(ctx context.Context, user *model.User) ([]model.OrderDetails, error)
	ListAll(ctx context.Context) ([]model.OrderDetails, error)
	SetStatus(ctx context.Context, id, status string) (*model.OrderDetails, error)
	Stats(ctx context.Context) (*model.Stats, error)
	// Recent returns the newest orders; limit <= 0 means the configured default
	Recent(ctx context.Context, limit int) ([]model.OrderDetails, error)
}

// OrderOptions tunes the order service
type OrderOptions struct {
	// VerifyPrices rejects orders whose line prices or total disagree with the
	// current catalog. Off means the client snapshot is stored as sent.
	VerifyPrices bool
	RecentLimit  int
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	users    repository.UserRepository
	opts     OrderOptions
	log      logrus.FieldLogger
}

// NewOrderService creates a new OrderService
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, users repository.UserRepository, opts OrderOptions, log logrus.FieldLogger) OrderService {
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	return &orderService{
		orders:   orders,
		products: products,
		users:    users,
		opts:     opts,
		log:      log,
	}
}

func validateOrder(req model.CreateOrderRequest) error {
	if len(req.Items) == 0 {
		return validationError("Order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.Product == "" || item.Price == nil {
			return validationError("Item %d must have a product and a price", i+1)
		}
		if item.Quantity < 1 {
			return validationError("Item %d quantity must be at least 1", i+1)
		}
		if *item.Price < 0 {
			return validationError("Item %d price must not be negative", i+1)
		}
	}

	addr := req.ShippingAddress
	if addr.Name == "" || addr.Email == "" || addr.Phone == "" || addr.Address == "" ||
		addr.City == "" || addr.State == "" || addr.Pincode == "" {
		return validationError("Shipping address is incomplete")
	}
	if req.PaymentMethod != model.PaymentCOD && req.PaymentMethod != model.PaymentOnline {
		return validationError("Payment method must be cod or online")
	}
	if req.TotalAmount == nil || *req.TotalAmount < 0 {
		return validationError("Total amount is required")
	}
	return nil
}

// verifyPrices compares every line with the current catalog and the total
// with the recomputed line sum
func (s *orderService) verifyPrices(ctx context.Context, req model.CreateOrderRequest) error {
	catalog, err := s.productsByID(ctx, productIDsOfRequest(req))
	if err != nil {
		return err
	}

	sum := decimal.Zero
	for _, item := range req.Items {
		product, ok := catalog[item.Product]
		if !ok {
			return validationError("Product %s is not available", item.Product)
		}
		price := decimal.NewFromFloat(*item.Price)
		if !price.Equal(decimal.NewFromFloat(product.Price)) {
			return validationError("Price of %s has changed", product.Name)
		}
		sum = sum.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	if !sum.Equal(decimal.NewFromFloat(*req.TotalAmount)) {
		return validationError("Total amount does not match the order items")
	}
	return nil
}

func (s *orderService) Create(ctx context.Context, user *model.User, req model.CreateOrderRequest) (*model.OrderDetails, error) {
	if err := validateOrder(req); err != nil {
		return nil, err
	}
	if s.opts.VerifyPrices {
		if err := s.verifyPrices(ctx, req); err != nil {
			return nil, err
		}
	}

	items := make([]model.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, model.OrderItem{
			ProductID: item.Product,
			Quantity:  item.Quantity,
			Price:     *item.Price,
		})
	}

	order := &model.Order{
		UserID:          user.ID,
		Items:           items,
		TotalAmount:     *req.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          model.StatusPending,
		CreatedAt:       time.Now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order in repo: %w", err)
	}
	metrics.OrdersCreated.Inc()
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"user_id":  user.ID,
		"items":    len(items),
	}).Info("order placed")

	details, err := s.resolve(ctx, []model.Order{*order}, false)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *orderService) ListMine(ctx context.Context, user *model.User) ([]model.OrderDetails, error) {
	orders, err := s.orders.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return s.resolve(ctx, orders, false)
}

func (s *orderService) ListAll(ctx context.Context) ([]model.OrderDetails, error) {
	orders, err := s.orders.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.resolve(ctx, orders, true)
}

// SetStatus overwrites the status with any of the five known values. There
// is no transition table.
func (s *orderService) SetStatus(ctx context.Context, id, status string) (*model.OrderDetails, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	next := model.OrderStatus(status)
	if !next.IsValid() {
		return nil, ErrInvalidStatus
	}

	if err := s.orders.UpdateStatus(ctx, id, next); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	metrics.OrderStatusChanges.WithLabelValues(string(next)).Inc()
	s.log.WithFields(logrus.Fields{
		"order_id": id,
		"from":     order.Status,
		"to":       next,
	}).Info("order status changed")

	order.Status = next
	details, err := s.resolve(ctx, []model.Order{*order}, false)
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

// Stats counts orders, customer accounts and products. Revenue sums every
// order, cancelled ones included.
func (s *orderService) Stats(ctx context.Context) (*model.Stats, error) {
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	totalUsers, err := s.users.CountByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	revenue, err := s.orders.SumTotalAmount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return &model.Stats{
		TotalOrders:   totalOrders,
		TotalUsers:    totalUsers,
		TotalProducts: totalProducts,
		TotalRevenue:  revenue,
	}, nil
}

func (s *orderService) Recent(ctx context.Context, limit int) ([]model.OrderDetails, error) {
	if limit <= 0 {
		limit = s.opts.RecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	orders, err := s.orders.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent orders: %w", err)
	}
	return s.resolve(ctx, orders, true)
}

func productIDsOfRequest(req model.CreateOrderRequest) []string {
	seen := make(map[string]bool, len(req.Items))
	var ids []string
	for _, item := range req.Items {
		if !seen[item.Product] {
			seen[item.Product] = true
			ids = append(ids, item.Product)
		}
	}
	return ids
}

func (s *orderService) productsByID(ctx context.Context, ids []string) (map[string]model.Product, error) {
	byID := make(map[string]model.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve order products: %w", err)
	}
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

// resolve joins catalog items into the order lines and, with withOwner,
// the owning account's name and email. Missing references resolve to
// nothing rather than failing the listing.
func (s *orderService) resolve(ctx context.Context, orders []model.Order, withOwner bool) ([]model.OrderDetails, error) {
	seenProduct := make(map[string]bool)
	seenUser := make(map[string]bool)
	var productIDs, userIDs []string
	for _, o := range orders {
		for _, item := range o.Items {
			if !seenProduct[item.ProductID] {
				seenProduct[item.ProductID] = true
				productIDs = append(productIDs, item.ProductID)
			}
		}
		if !seenUser[o.UserID] {
			seenUser[o.UserID] = true
			userIDs = append(userIDs, o.UserID)
		}
	}

	products, err := s.productsByID(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	owners := make(map[string]model.User)
	if withOwner && len(userIDs) > 0 {
		users, err := s.users.FindByIDs(ctx, userIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve order owners: %w", err)
		}
		for _, u := range users {
			owners[u.ID] = u
		}
	}

	details := make([]model.OrderDetails, 0, len(orders))
	for _, o := range orders {
		owner := model.OrderOwner{ID: o.UserID}
		if u, ok := owners[o.UserID]; ok {
			owner.Name = u.Name
			owner.Email = u.Email
		}

		items := make([]model.OrderItemDetails, 0, len(o.Items))
		for _, item := range o.Items {
			line := model.OrderItemDetails{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			}
			if p, ok := products[item.ProductID]; ok {
				line.Product = &p
			}
			items = append(items, line)
		}

		details = append(details, model.OrderDetails{
			ID:              o.ID,
			User:            owner,
			Items:           items,
			TotalAmount:     o.TotalAmount,
			ShippingAddress: o.ShippingAddress,
			PaymentMethod:   o.PaymentMethod,
			Status:          o.Status,
			CreatedAt:       o.CreatedAt,
		})
	}
	return details, nil
}
