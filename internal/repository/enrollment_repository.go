package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sge-edu/sge-api/internal/models"
)

// EnrollmentRepository manages the derived enrollment collection. The only
// write paths are delete-all and bulk insert, matching rebuild semantics.
type EnrollmentRepository struct {
	col *mongo.Collection
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{col: db.Collection("enrollments")}
}

// DeleteAll clears the enrollment collection.
func (r *EnrollmentRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.col.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear enrollments: %w", err)
	}
	return nil
}

// InsertMany stores a batch of enrollment rows.
func (r *EnrollmentRepository) InsertMany(ctx context.Context, rows []models.Enrollment) error {
	if len(rows) == 0 {
		return nil
	}
	docs := make([]interface{}, len(rows))
	for i, row := range rows {
		docs[i] = row
	}
	if _, err := r.col.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert enrollments: %w", err)
	}
	return nil
}

// enrollmentLookups joins enrollment rows with student, offer, subject,
// course and professor documents.
func enrollmentLookups() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "students",
			"localField":   "student_id",
			"foreignField": "matricula",
			"as":           "student",
		}},
		{"$lookup": bson.M{
			"from":         "offers",
			"localField":   "offer_id",
			"foreignField": "id",
			"as":           "offer",
		}},
		{"$unwind": bson.M{"path": "$student", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$offer", "preserveNullAndEmptyArrays": true}},
		{"$lookup": bson.M{
			"from": "subjects",
			"let":  bson.M{"sid": "$offer.subject_id", "cid": "$offer.course_id"},
			"pipeline": []bson.M{
				{"$match": bson.M{"$expr": bson.M{"$and": []bson.M{
					{"$eq": []string{"$subject_id", "$$sid"}},
					{"$eq": []string{"$course_id", "$$cid"}},
				}}}},
			},
			"as": "subject",
		}},
		{"$lookup": bson.M{
			"from":         "courses",
			"localField":   "offer.course_id",
			"foreignField": "id",
			"as":           "course",
		}},
		{"$lookup": bson.M{
			"from":         "professors",
			"localField":   "offer.professor_id",
			"foreignField": "id",
			"as":           "professor",
		}},
		{"$unwind": bson.M{"path": "$subject", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$course", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$professor", "preserveNullAndEmptyArrays": true}},
	}
}

func enrollmentProjection() bson.M {
	return bson.M{"$project": bson.M{
		"_id":            0,
		"student_id":     1,
		"offer_id":       1,
		"status":         1,
		"student_name":   "$student.name",
		"subject_name":   "$subject.name",
		"course_name":    "$course.name",
		"professor_name": "$professor.name",
		"year":           "$offer.year",
		"semester":       "$offer.semester",
	}}
}

// ListViews returns every enrollment row joined with display names, sorted by
// student name, newest term first, then subject name.
func (r *EnrollmentRepository) ListViews(ctx context.Context) ([]models.EnrollmentView, error) {
	pipeline := append(enrollmentLookups(),
		bson.M{"$sort": bson.D{
			{Key: "student.name", Value: 1},
			{Key: "offer.year", Value: -1},
			{Key: "offer.semester", Value: -1},
			{Key: "subject.name", Value: 1},
		}},
		enrollmentProjection(),
	)
	return r.aggregateViews(ctx, pipeline)
}

// ListViewsByStudent returns a student's enrollments, newest term first.
func (r *EnrollmentRepository) ListViewsByStudent(ctx context.Context, matricula int) ([]models.EnrollmentView, error) {
	pipeline := append(
		[]bson.M{{"$match": bson.M{"student_id": matricula}}},
		append(enrollmentLookups(),
			bson.M{"$sort": bson.D{
				{Key: "offer.year", Value: -1},
				{Key: "offer.semester", Value: -1},
				{Key: "subject.name", Value: 1},
			}},
			enrollmentProjection(),
		)...,
	)
	return r.aggregateViews(ctx, pipeline)
}

// ListViewsByOffer returns an offer's enrollments sorted by student name.
func (r *EnrollmentRepository) ListViewsByOffer(ctx context.Context, offerID int) ([]models.EnrollmentView, error) {
	pipeline := append(
		[]bson.M{{"$match": bson.M{"offer_id": offerID}}},
		append(enrollmentLookups(),
			bson.M{"$sort": bson.D{{Key: "student.name", Value: 1}}},
			enrollmentProjection(),
		)...,
	)
	return r.aggregateViews(ctx, pipeline)
}

// FindView fetches the enrollment of one (student, offer) pair.
func (r *EnrollmentRepository) FindView(ctx context.Context, matricula, offerID int) (*models.EnrollmentView, error) {
	pipeline := append(
		[]bson.M{{"$match": bson.M{"student_id": matricula, "offer_id": offerID}}},
		append(enrollmentLookups(), enrollmentProjection())...,
	)
	views, err := r.aggregateViews(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &views[0], nil
}

// CountByStudent returns how many enrollment rows reference a student.
func (r *EnrollmentRepository) CountByStudent(ctx context.Context, matricula int) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"student_id": matricula})
	if err != nil {
		return 0, fmt.Errorf("count enrollments of student %d: %w", matricula, err)
	}
	return count, nil
}

// CountByOffer returns how many enrollment rows reference an offer.
func (r *EnrollmentRepository) CountByOffer(ctx context.Context, offerID int) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"offer_id": offerID})
	if err != nil {
		return 0, fmt.Errorf("count enrollments of offer %d: %w", offerID, err)
	}
	return count, nil
}

func (r *EnrollmentRepository) aggregateViews(ctx context.Context, pipeline []bson.M) ([]models.EnrollmentView, error) {
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate enrollments: %w", err)
	}
	defer cursor.Close(ctx)

	views := []models.EnrollmentView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode enrollment views: %w", err)
	}
	return views, nil
}
