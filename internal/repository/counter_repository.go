package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sge-edu/sge-api/internal/models"
)

// CounterRepository manages the persisted sequence counters. Increments are a
// single FindOneAndUpdate so concurrent creates never observe the same value.
type CounterRepository struct {
	col *mongo.Collection
}

// NewCounterRepository constructs a CounterRepository.
func NewCounterRepository(db *mongo.Database) *CounterRepository {
	return &CounterRepository{col: db.Collection("counters")}
}

// Next atomically increments the named counter and returns the new value.
// A missing counter document is created starting at 1.
func (r *CounterRepository) Next(ctx context.Context, name string) (int, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter models.Counter
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("increment counter %s: %w", name, err)
	}

	return counter.Seq, nil
}
