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

type orderRepository struct {
	col *mongo.Collection
}

// NewOrderRepository creates a Mongo-backed OrderRepository
func NewOrderRepository(db *mongo.Database) repository.OrderRepository {
	return &orderRepository{col: db.Collection(OrdersCollection)}
}

func (r *orderRepository) find(ctx context.Context, filter bson.D, opts ...*options.FindOptions) ([]model.Order, error) {
	cursor, err := r.col.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	orders := []model.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Create(ctx context.Context, o *model.Order) error {
	if o.ID == "" {
		o.ID = newID()
	}
	if _, err := r.col.InsertOne(ctx, o); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	if err := r.col.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) FindByUser(ctx context.Context, userID string) ([]model.Order, error) {
	orders, err := r.find(ctx, bson.D{{Key: "user", Value: userID}}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to query orders by user: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) FindAll(ctx context.Context) ([]model.Order, error) {
	orders, err := r.find(ctx, bson.D{}, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to query all orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) FindRecent(ctx context.Context, limit int) ([]model.Order, error) {
	orders, err := r.find(ctx, bson.D{}, options.Find().SetSort(newestFirst).SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("failed to query recent orders: %w", err)
	}
	return orders, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status model.OrderStatus) error {
	res, err := r.col.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, bson.D{{Key: "$set", Value: bson.D{{Key: "status", Value: status}}}})
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return count, nil
}

// SumTotalAmount runs a $group over every order, cancelled ones included
func (r *orderRepository) SumTotalAmount(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$totalAmount"}}},
		}}},
	}
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to sum order totals: %w", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Total float64 `bson:"total"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, fmt.Errorf("failed to decode order totals: %w", err)
		}
	}
	if err := cursor.Err(); err != nil {
		return 0, fmt.Errorf("error iterating order totals: %w", err)
	}
	return result.Total, nil
}
