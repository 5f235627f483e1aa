package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sge-edu/sge-api/internal/models"
)

// SubjectRepository manages persistence for subject documents. Subjects are
// always addressed by their (subject_id, course_id) composite key.
type SubjectRepository struct {
	col *mongo.Collection
}

// NewSubjectRepository constructs a SubjectRepository.
func NewSubjectRepository(db *mongo.Database) *SubjectRepository {
	return &SubjectRepository{col: db.Collection("subjects")}
}

func keyFilter(key models.SubjectKey) bson.M {
	return bson.M{"subject_id": key.SubjectID, "course_id": key.CourseID}
}

// Insert stores a new subject document.
func (r *SubjectRepository) Insert(ctx context.Context, subject *models.Subject) error {
	if _, err := r.col.InsertOne(ctx, subject); err != nil {
		return fmt.Errorf("insert subject: %w", err)
	}
	return nil
}

// courseLookup joins each subject with its course display name.
func courseLookup() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "courses",
			"localField":   "course_id",
			"foreignField": "id",
			"as":           "course",
		}},
		{"$unwind": bson.M{"path": "$course", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"_id":          0,
			"subject_id":   1,
			"course_id":    1,
			"period":       1,
			"name":         1,
			"credit_hours": 1,
			"course_name":  "$course.name",
		}},
	}
}

// ListViews returns all subjects joined with course names, sorted by course
// name, period and subject name.
func (r *SubjectRepository) ListViews(ctx context.Context) ([]models.SubjectView, error) {
	pipeline := append(courseLookup(), bson.M{"$sort": bson.D{
		{Key: "course_name", Value: 1},
		{Key: "period", Value: 1},
		{Key: "name", Value: 1},
	}})
	return r.aggregateViews(ctx, pipeline)
}

// ListByCourse returns the subjects of one course sorted by period and name.
func (r *SubjectRepository) ListByCourse(ctx context.Context, courseID int) ([]models.SubjectView, error) {
	pipeline := append(
		[]bson.M{{"$match": bson.M{"course_id": courseID}}},
		append(courseLookup(), bson.M{"$sort": bson.D{
			{Key: "period", Value: 1},
			{Key: "name", Value: 1},
		}})...,
	)
	return r.aggregateViews(ctx, pipeline)
}

// FindView fetches one subject joined with its course name.
func (r *SubjectRepository) FindView(ctx context.Context, key models.SubjectKey) (*models.SubjectView, error) {
	pipeline := append([]bson.M{{"$match": keyFilter(key)}}, courseLookup()...)
	views, err := r.aggregateViews(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &views[0], nil
}

// Exists reports whether a subject with the composite key exists.
func (r *SubjectRepository) Exists(ctx context.Context, key models.SubjectKey) (bool, error) {
	count, err := r.col.CountDocuments(ctx, keyFilter(key))
	if err != nil {
		return false, fmt.Errorf("count subject %d/%d: %w", key.SubjectID, key.CourseID, err)
	}
	return count > 0, nil
}

// MaxSubjectID returns the highest subject_id already used within a course,
// or zero when the course has no subjects.
func (r *SubjectRepository) MaxSubjectID(ctx context.Context, courseID int) (int, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "subject_id", Value: -1}})
	var subject models.Subject
	err := r.col.FindOne(ctx, bson.M{"course_id": courseID}, opts).Decode(&subject)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, nil
		}
		return 0, fmt.Errorf("max subject id for course %d: %w", courseID, err)
	}
	return subject.SubjectID, nil
}

// CountByCourse returns how many subjects belong to a course.
func (r *SubjectRepository) CountByCourse(ctx context.Context, courseID int) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"course_id": courseID})
	if err != nil {
		return 0, fmt.Errorf("count subjects of course %d: %w", courseID, err)
	}
	return count, nil
}

// Update applies the given field set to a subject document.
func (r *SubjectRepository) Update(ctx context.Context, key models.SubjectKey, fields bson.M) error {
	if _, err := r.col.UpdateOne(ctx, keyFilter(key), bson.M{"$set": fields}); err != nil {
		return fmt.Errorf("update subject %d/%d: %w", key.SubjectID, key.CourseID, err)
	}
	return nil
}

// Delete removes a subject document.
func (r *SubjectRepository) Delete(ctx context.Context, key models.SubjectKey) error {
	if _, err := r.col.DeleteOne(ctx, keyFilter(key)); err != nil {
		return fmt.Errorf("delete subject %d/%d: %w", key.SubjectID, key.CourseID, err)
	}
	return nil
}

func (r *SubjectRepository) aggregateViews(ctx context.Context, pipeline []bson.M) ([]models.SubjectView, error) {
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate subjects: %w", err)
	}
	defer cursor.Close(ctx)

	views := []models.SubjectView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode subject views: %w", err)
	}
	return views, nil
}
