package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sge-edu/sge-api/internal/models"
)

// ReportRepository runs the read-only aggregations behind the report views.
type ReportRepository struct {
	db *mongo.Database
}

// NewReportRepository constructs a ReportRepository.
func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{db: db}
}

// Totals counts every entity collection at the same point in time.
func (r *ReportRepository) Totals(ctx context.Context) (models.EntityTotals, error) {
	totals := models.EntityTotals{}

	collections := []struct {
		name string
		dest *int64
	}{
		{"courses", &totals.Courses},
		{"students", &totals.Students},
		{"professors", &totals.Professors},
		{"subjects", &totals.Subjects},
		{"offers", &totals.Offers},
		{"enrollments", &totals.Enrollments},
	}
	for _, c := range collections {
		count, err := r.db.Collection(c.name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return totals, fmt.Errorf("count %s: %w", c.name, err)
		}
		*c.dest = count
	}

	return totals, nil
}

type personDoc struct {
	Name      string     `bson:"name"`
	BirthDate *time.Time `bson:"birth_date"`
}

// RecentPeople returns the newest people (by birth date, descending) from the
// given collection, skipping documents without a birth date.
func (r *ReportRepository) RecentPeople(ctx context.Context, collection, personType string, limit int) ([]models.RecentPerson, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "birth_date", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"_id": 0, "name": 1, "birth_date": 1})

	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{"birth_date": bson.M{"$ne": nil}}, opts)
	if err != nil {
		return nil, fmt.Errorf("recent %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	docs := []personDoc{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode recent %s: %w", collection, err)
	}

	people := make([]models.RecentPerson, 0, len(docs))
	for _, doc := range docs {
		people = append(people, models.RecentPerson{
			Type:      personType,
			Name:      doc.Name,
			BirthDate: models.FormatDate(doc.BirthDate),
		})
	}
	return people, nil
}

// CourseStats aggregates per-course counts straight from the source
// collections. Enrollment counts are filled in separately because enrollments
// hang off offers, not courses.
func (r *ReportRepository) CourseStats(ctx context.Context, currentYear int) ([]models.CourseStats, error) {
	pipeline := []bson.M{
		{"$lookup": bson.M{
			"from":         "students",
			"localField":   "id",
			"foreignField": "course_id",
			"as":           "students",
		}},
		{"$lookup": bson.M{
			"from":         "subjects",
			"localField":   "id",
			"foreignField": "course_id",
			"as":           "subjects",
		}},
		{"$lookup": bson.M{
			"from":         "offers",
			"localField":   "id",
			"foreignField": "course_id",
			"as":           "offers",
		}},
		{"$project": bson.M{
			"_id":                 0,
			"course_id":           "$id",
			"course_name":         "$name",
			"course_credit_hours": "$total_credit_hours",
			"total_students":      bson.M{"$size": "$students"},
			"total_subjects":      bson.M{"$size": "$subjects"},
			"subject_credit_hours": bson.M{
				"$sum": "$subjects.credit_hours",
			},
			"total_offers": bson.M{"$size": "$offers"},
			"offers_current_year": bson.M{"$size": bson.M{
				"$filter": bson.M{
					"input": "$offers",
					"as":    "offer",
					"cond":  bson.M{"$eq": []interface{}{"$$offer.year", currentYear}},
				},
			}},
			"offer_ids": "$offers.id",
		}},
	}

	cursor, err := r.db.Collection("courses").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate course stats: %w", err)
	}
	defer cursor.Close(ctx)

	stats := []models.CourseStats{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, fmt.Errorf("decode course stats: %w", err)
	}
	return stats, nil
}

// CountEnrollmentsByOffers counts enrollment rows referencing any of the
// given offers.
func (r *ReportRepository) CountEnrollmentsByOffers(ctx context.Context, offerIDs []int) (int64, error) {
	if len(offerIDs) == 0 {
		return 0, nil
	}
	count, err := r.db.Collection("enrollments").CountDocuments(ctx, bson.M{"offer_id": bson.M{"$in": offerIDs}})
	if err != nil {
		return 0, fmt.Errorf("count enrollments by offers: %w", err)
	}
	return count, nil
}

// OfferRows builds the denormalized per-offer report with enrollment counts.
func (r *ReportRepository) OfferRows(ctx context.Context) ([]models.OfferReportRow, error) {
	pipeline := []bson.M{
		{"$lookup": bson.M{
			"from":         "courses",
			"localField":   "course_id",
			"foreignField": "id",
			"as":           "course",
		}},
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
			"from":         "professors",
			"localField":   "professor_id",
			"foreignField": "id",
			"as":           "professor",
		}},
		{"$lookup": bson.M{
			"from":         "enrollments",
			"localField":   "id",
			"foreignField": "offer_id",
			"as":           "enrollments",
		}},
		{"$unwind": bson.M{"path": "$course", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$subject", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$professor", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"_id":                 0,
			"offer_id":            "$id",
			"year":                1,
			"semester":            1,
			"course_name":         "$course.name",
			"course_credit_hours": "$course.total_credit_hours",
			"subject_name":        "$subject.name",
			"subject_period":      "$subject.period",
			"subject_hours":       "$subject.credit_hours",
			"professor_name":      "$professor.name",
			"professor_email":     "$professor.email",
			"professor_status":    "$professor.status",
			"enrollment_count":    bson.M{"$size": "$enrollments"},
		}},
		{"$sort": bson.D{
			{Key: "year", Value: -1},
			{Key: "semester", Value: -1},
			{Key: "course_name", Value: 1},
			{Key: "subject_name", Value: 1},
		}},
	}

	cursor, err := r.db.Collection("offers").Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate offer report: %w", err)
	}
	defer cursor.Close(ctx)

	rows := []models.OfferReportRow{}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode offer report: %w", err)
	}
	return rows, nil
}
