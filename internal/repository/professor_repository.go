package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sge-edu/sge-api/internal/models"
)

// ProfessorRepository manages persistence for professor documents.
type ProfessorRepository struct {
	col *mongo.Collection
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *mongo.Database) *ProfessorRepository {
	return &ProfessorRepository{col: db.Collection("professors")}
}

// Insert stores a new professor document.
func (r *ProfessorRepository) Insert(ctx context.Context, professor *models.Professor) error {
	if _, err := r.col.InsertOne(ctx, professor); err != nil {
		return fmt.Errorf("insert professor: %w", err)
	}
	return nil
}

// List returns all professors sorted by name.
func (r *ProfessorRepository) List(ctx context.Context) ([]models.Professor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list professors: %w", err)
	}
	defer cursor.Close(ctx)

	professors := []models.Professor{}
	if err := cursor.All(ctx, &professors); err != nil {
		return nil, fmt.Errorf("decode professors: %w", err)
	}
	return professors, nil
}

// FindByID fetches a professor by its numeric ID.
func (r *ProfessorRepository) FindByID(ctx context.Context, id int) (*models.Professor, error) {
	var professor models.Professor
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&professor); err != nil {
		return nil, err
	}
	return &professor, nil
}

// Exists reports whether a professor with the given ID exists.
func (r *ProfessorRepository) Exists(ctx context.Context, id int) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("count professor %d: %w", id, err)
	}
	return count > 0, nil
}

// Update applies the given field set to a professor document.
func (r *ProfessorRepository) Update(ctx context.Context, id int, fields bson.M) error {
	if _, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields}); err != nil {
		return fmt.Errorf("update professor %d: %w", id, err)
	}
	return nil
}

// Delete removes a professor document.
func (r *ProfessorRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete professor %d: %w", id, err)
	}
	return nil
}
