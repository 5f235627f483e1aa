package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sge-edu/sge-api/internal/models"
)

// CourseRepository manages persistence for course documents.
type CourseRepository struct {
	col *mongo.Collection
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{col: db.Collection("courses")}
}

// Insert stores a new course document.
func (r *CourseRepository) Insert(ctx context.Context, course *models.Course) error {
	if _, err := r.col.InsertOne(ctx, course); err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

// List returns all courses sorted by name.
func (r *CourseRepository) List(ctx context.Context) ([]models.Course, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer cursor.Close(ctx)

	courses := []models.Course{}
	if err := cursor.All(ctx, &courses); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course by its numeric ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int) (*models.Course, error) {
	var course models.Course
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&course); err != nil {
		return nil, err
	}
	return &course, nil
}

// Exists reports whether a course with the given ID exists.
func (r *CourseRepository) Exists(ctx context.Context, id int) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return false, fmt.Errorf("count course %d: %w", id, err)
	}
	return count > 0, nil
}

// Update applies the given field set to a course document.
func (r *CourseRepository) Update(ctx context.Context, id int, fields bson.M) error {
	if _, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields}); err != nil {
		return fmt.Errorf("update course %d: %w", id, err)
	}
	return nil
}

// Delete removes a course document.
func (r *CourseRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	return nil
}
