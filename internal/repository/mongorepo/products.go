package mongorepo

import (
	"context"
	"errors"
	"fmt"

	"catering_store/internal/model"
	"catering_store/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type productRepository struct {
	col *mongo.Collection
}

// NewProductRepository creates a Mongo-backed ProductRepository
func NewProductRepository(db *mongo.Database) repository.ProductRepository {
	return &productRepository{col: db.Collection(ProductsCollection)}
}

func (r *productRepository) find(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]model.Product, error) {
	cursor, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	products := []model.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].Ingredients == nil {
			products[i].Ingredients = []string{}
		}
	}
	return products, nil
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	return &p, nil
}

func (r *productRepository) FindByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}
	products, err := r.find(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
	if err != nil {
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	return products, nil
}

func (r *productRepository) FindAll(ctx context.Context) ([]model.Product, error) {
	products, err := r.find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, p *model.Product) error {
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: p.Name},
		{Key: "description", Value: p.Description},
		{Key: "price", Value: p.Price},
		{Key: "category", Value: p.Category},
		{Key: "image", Value: p.Image},
		{Key: "ingredients", Value: p.Ingredients},
	}}}
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: p.ID}}, update)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
