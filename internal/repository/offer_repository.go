package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sge-edu/sge-api/internal/models"
)

// OfferRepository manages persistence for offer documents.
type OfferRepository struct {
	col *mongo.Collection
}

// NewOfferRepository constructs an OfferRepository.
func NewOfferRepository(db *mongo.Database) *OfferRepository {
	return &OfferRepository{col: db.Collection("offers")}
}

// Insert stores a new offer document.
func (r *OfferRepository) Insert(ctx context.Context, offer *models.Offer) error {
	if _, err := r.col.InsertOne(ctx, offer); err != nil {
		return fmt.Errorf("insert offer: %w", err)
	}
	return nil
}

// offerLookups joins an offer with subject, course and professor names. The
// subject lookup matches on the composite key, so it needs a sub-pipeline.
func offerLookups() []bson.M {
	return []bson.M{
		{"$lookup": bson.M{
			"from": "subjects",
			"let":  bson.M{"sid": "$subject_id", "cid": "$course_id"},
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
			"localField":   "course_id",
			"foreignField": "id",
			"as":           "course",
		}},
		{"$lookup": bson.M{
			"from":         "professors",
			"localField":   "professor_id",
			"foreignField": "id",
			"as":           "professor",
		}},
		{"$unwind": bson.M{"path": "$subject", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$course", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$professor", "preserveNullAndEmptyArrays": true}},
	}
}

func offerProjection() bson.M {
	return bson.M{"$project": bson.M{
		"_id":            0,
		"id":             1,
		"year":           1,
		"semester":       1,
		"subject_id":     1,
		"course_id":      1,
		"professor_id":   1,
		"subject_name":   "$subject.name",
		"course_name":    "$course.name",
		"professor_name": "$professor.name",
	}}
}

// ListViews returns all offers joined with display names, newest term first.
func (r *OfferRepository) ListViews(ctx context.Context) ([]models.OfferView, error) {
	pipeline := append(offerLookups(),
		bson.M{"$sort": bson.D{
			{Key: "year", Value: -1},
			{Key: "semester", Value: -1},
			{Key: "course.name", Value: 1},
			{Key: "subject.name", Value: 1},
		}},
		offerProjection(),
	)
	return r.aggregateViews(ctx, pipeline)
}

// ListViewsBySemester returns the offers of one year/semester pair.
func (r *OfferRepository) ListViewsBySemester(ctx context.Context, year, semester int) ([]models.OfferView, error) {
	pipeline := append(
		[]bson.M{{"$match": bson.M{"year": year, "semester": semester}}},
		append(offerLookups(),
			bson.M{"$sort": bson.D{
				{Key: "course.name", Value: 1},
				{Key: "subject.name", Value: 1},
			}},
			offerProjection(),
		)...,
	)
	return r.aggregateViews(ctx, pipeline)
}

// FindView fetches one offer joined with display names.
func (r *OfferRepository) FindView(ctx context.Context, id int) (*models.OfferView, error) {
	pipeline := append([]bson.M{{"$match": bson.M{"id": id}}},
		append(offerLookups(), offerProjection())...)
	views, err := r.aggregateViews(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &views[0], nil
}

// FindByID fetches the raw offer document.
func (r *OfferRepository) FindByID(ctx context.Context, id int) (*models.Offer, error) {
	var offer models.Offer
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&offer); err != nil {
		return nil, err
	}
	return &offer, nil
}

// ListByCourse returns the raw offers belonging to a course.
func (r *OfferRepository) ListByCourse(ctx context.Context, courseID int) ([]models.Offer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list offers of course %d: %w", courseID, err)
	}
	defer cursor.Close(ctx)

	offers := []models.Offer{}
	if err := cursor.All(ctx, &offers); err != nil {
		return nil, fmt.Errorf("decode offers: %w", err)
	}
	return offers, nil
}

// CountByProfessor returns how many offers reference a professor.
func (r *OfferRepository) CountByProfessor(ctx context.Context, professorID int) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"professor_id": professorID})
	if err != nil {
		return 0, fmt.Errorf("count offers of professor %d: %w", professorID, err)
	}
	return count, nil
}

// CountBySubject returns how many offers reference a subject composite key.
func (r *OfferRepository) CountBySubject(ctx context.Context, key models.SubjectKey) (int64, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"subject_id": key.SubjectID, "course_id": key.CourseID})
	if err != nil {
		return 0, fmt.Errorf("count offers of subject %d/%d: %w", key.SubjectID, key.CourseID, err)
	}
	return count, nil
}

// Update applies the given field set to an offer document.
func (r *OfferRepository) Update(ctx context.Context, id int, fields bson.M) error {
	if _, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields}); err != nil {
		return fmt.Errorf("update offer %d: %w", id, err)
	}
	return nil
}

// Delete removes an offer document.
func (r *OfferRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"id": id}); err != nil {
		return fmt.Errorf("delete offer %d: %w", id, err)
	}
	return nil
}

func (r *OfferRepository) aggregateViews(ctx context.Context, pipeline []bson.M) ([]models.OfferView, error) {
	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate offers: %w", err)
	}
	defer cursor.Close(ctx)

	views := []models.OfferView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode offer views: %w", err)
	}
	return views, nil
}
