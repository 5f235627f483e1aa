package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sge-edu/sge-api/internal/models"
)

// StudentRepository manages persistence for student documents.
type StudentRepository struct {
	col *mongo.Collection
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *mongo.Database) *StudentRepository {
	return &StudentRepository{col: db.Collection("students")}
}

// Insert stores a new student document.
func (r *StudentRepository) Insert(ctx context.Context, student *models.Student) error {
	if _, err := r.col.InsertOne(ctx, student); err != nil {
		return fmt.Errorf("insert student: %w", err)
	}
	return nil
}

// List returns all students sorted by name.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cursor.Close(ctx)

	students := []models.Student{}
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("decode students: %w", err)
	}
	return students, nil
}

// FindByMatricula fetches a student by enrollment number.
func (r *StudentRepository) FindByMatricula(ctx context.Context, matricula int) (*models.Student, error) {
	var student models.Student
	if err := r.col.FindOne(ctx, bson.M{"matricula": matricula}).Decode(&student); err != nil {
		return nil, err
	}
	return &student, nil
}

// MaxMatriculaInRange returns the highest matricula inside [lo, hi] for the
// given course, or zero when no student matches. The range spans one
// year/course prefix, so the result carries the last used sequence.
func (r *StudentRepository) MaxMatriculaInRange(ctx context.Context, courseID, lo, hi int) (int, error) {
	filter := bson.M{
		"matricula": bson.M{"$gte": lo, "$lte": hi},
		"course_id": courseID,
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "matricula", Value: -1}})

	var student models.Student
	err := r.col.FindOne(ctx, filter, opts).Decode(&student)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("max matricula for course %d: %w", courseID, err)
	}
	return student.Matricula, nil
}

// CountByCourse returns how many students are enrolled in a course.
func (r *StudentRepository) CountByCourse(ctx context.Context, courseID int) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return 0, fmt.Errorf("count students of course %d: %w", courseID, err)
	}
	return count, nil
}

// Update applies the given field set to a student document.
func (r *StudentRepository) Update(ctx context.Context, matricula int, fields bson.M) error {
	if _, err := r.col.UpdateOne(ctx, bson.M{"matricula": matricula}, bson.M{"$set": fields}); err != nil {
		return fmt.Errorf("update student %d: %w", matricula, err)
	}
	return nil
}

// Delete removes a student document.
func (r *StudentRepository) Delete(ctx context.Context, matricula int) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"matricula": matricula}); err != nil {
		return fmt.Errorf("delete student %d: %w", matricula, err)
	}
	return nil
}
