package repository

import (
	"context"
	"errors"
	"fmt"

	"catering_store/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const productColumns = `id, name, description, price, category, image, ingredients, created_at`

type productRepository struct {
	db DB
}

// NewProductRepository creates a Postgres-backed ProductRepository
func NewProductRepository(db DB) ProductRepository {
	return &productRepository{db: db}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Image, &p.Ingredients, &p.CreatedAt); err != nil {
		return err
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	return nil
}

func collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product rows: %w", err)
	}
	return products, nil
}

// Create inserts a new catalog item
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	sql := `INSERT INTO products (` + productColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.Exec(ctx, sql, p.ID, p.Name, p.Description, p.Price, p.Category, p.Image, p.Ingredients, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a catalog item by its id
func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	p := &model.Product{}
	sql := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if err := scanProduct(r.db.QueryRow(ctx, sql, id), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return p, nil
}

// FindByIDs retrieves the catalog items whose ids are in ids; unknown ids are skipped
func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	return collectProducts(rows)
}

// FindAll retrieves the whole catalog, newest first
func (r *productRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return collectProducts(rows)
}

// Update overwrites every mutable field of an existing catalog item
func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	sql := `UPDATE products
            SET name = $1, description = $2, price = $3, category = $4, image = $5, ingredients = $6
            WHERE id = $7`
	cmdTag, err := r.db.Exec(ctx, sql, p.Name, p.Description, p.Price, p.Category, p.Image, p.Ingredients, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a catalog item. Orders referencing it keep their own price snapshot.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of catalog items
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
