package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"catering_store/internal/cache"
	"catering_store/internal/model"
	"catering_store/internal/repository"

	"github.com/sirupsen/logrus"
)

// ProductService defines catalog operations. Writes are admin-only; the
// handler layer enforces that before calling in.
type ProductService interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, req model.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, id string, req model.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id string) error
}

type productService struct {
	repo  repository.ProductRepository
	cache cache.ProductCache
	log   logrus.FieldLogger
}

// NewProductService creates a new ProductService. A nil cache disables caching.
func NewProductService(repo repository.ProductRepository, c cache.ProductCache, log logrus.FieldLogger) ProductService {
	if c == nil {
		c = cache.NewNoop()
	}
	return &productService{repo: repo, cache: c, log: log}
}

func validateProduct(req model.ProductRequest) error {
	if req.Name == "" || req.Description == "" || req.Category == "" || req.Image == "" || req.Price == nil {
		return validationError("Please provide name, description, price, category and image")
	}
	if *req.Price < 0 {
		return validationError("Price must not be negative")
	}
	return nil
}

func ingredientsOf(req model.ProductRequest) []string {
	if req.Ingredients == nil {
		return []string{}
	}
	return req.Ingredients
}

// List returns the catalog newest first, from the cache when warm
func (s *productService) List(ctx context.Context) ([]model.Product, error) {
	products, ok, err := s.cache.GetList(ctx)
	if err != nil {
		s.log.WithError(err).Warn("product cache read failed")
	}
	if ok {
		return products, nil
	}

	products, err = s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if err := s.cache.SetList(ctx, products); err != nil {
		s.log.WithError(err).Warn("product cache write failed")
	}
	return products, nil
}

func (s *productService) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *productService) Create(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Ingredients: ingredientsOf(req),
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product in repo: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

// Update replaces every mutable field with the supplied values
func (s *productService) Update(ctx context.Context, id string, req model.ProductRequest) (*model.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = *req.Price
	product.Category = req.Category
	product.Image = req.Image
	product.Ingredients = ingredientsOf(req)

	if err := s.repo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to update product in repo: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

// Delete removes the product. Orders keep their own price and quantity snapshot.
func (s *productService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *productService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.WithError(err).Warn("product cache invalidation failed")
	}
}
