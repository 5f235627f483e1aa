package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
)

type mockSubjectRepo struct {
	subjects map[models.SubjectKey]models.Subject
	updated  map[models.SubjectKey]bson.M
	deleted  []models.SubjectKey
}

func (m *mockSubjectRepo) Insert(ctx context.Context, subject *models.Subject) error {
	if m.subjects == nil {
		m.subjects = make(map[models.SubjectKey]models.Subject)
	}
	m.subjects[models.SubjectKey{SubjectID: subject.SubjectID, CourseID: subject.CourseID}] = *subject
	return nil
}

func (m *mockSubjectRepo) ListViews(ctx context.Context) ([]models.SubjectView, error) {
	out := make([]models.SubjectView, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, models.SubjectView{Subject: s})
	}
	return out, nil
}

func (m *mockSubjectRepo) ListByCourse(ctx context.Context, courseID int) ([]models.SubjectView, error) {
	var out []models.SubjectView
	for _, s := range m.subjects {
		if s.CourseID == courseID {
			out = append(out, models.SubjectView{Subject: s})
		}
	}
	return out, nil
}

func (m *mockSubjectRepo) FindView(ctx context.Context, key models.SubjectKey) (*models.SubjectView, error) {
	if s, ok := m.subjects[key]; ok {
		return &models.SubjectView{Subject: s}, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockSubjectRepo) Exists(ctx context.Context, key models.SubjectKey) (bool, error) {
	_, ok := m.subjects[key]
	return ok, nil
}

func (m *mockSubjectRepo) MaxSubjectID(ctx context.Context, courseID int) (int, error) {
	max := 0
	for _, s := range m.subjects {
		if s.CourseID == courseID && s.SubjectID > max {
			max = s.SubjectID
		}
	}
	return max, nil
}

func (m *mockSubjectRepo) CountByCourse(ctx context.Context, courseID int) (int64, error) {
	var count int64
	for _, s := range m.subjects {
		if s.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (m *mockSubjectRepo) Update(ctx context.Context, key models.SubjectKey, fields bson.M) error {
	if m.updated == nil {
		m.updated = make(map[models.SubjectKey]bson.M)
	}
	m.updated[key] = fields
	return nil
}

func (m *mockSubjectRepo) Delete(ctx context.Context, key models.SubjectKey) error {
	m.deleted = append(m.deleted, key)
	delete(m.subjects, key)
	return nil
}

type mockCourseChecker struct {
	existing map[int]bool
}

func (m *mockCourseChecker) Exists(ctx context.Context, id int) (bool, error) {
	return m.existing[id], nil
}

type mockSubjectOfferCounter struct {
	counts map[models.SubjectKey]int64
}

func (m *mockSubjectOfferCounter) CountBySubject(ctx context.Context, key models.SubjectKey) (int64, error) {
	return m.counts[key], nil
}

func newSubjectService(repo *mockSubjectRepo, courses *mockCourseChecker, offers *mockSubjectOfferCounter) *SubjectService {
	return NewSubjectService(repo, courses, offers, validator.New(), zap.NewNop())
}

func TestSubjectServiceCreateFirstInCourse(t *testing.T) {
	repo := &mockSubjectRepo{}
	svc := newSubjectService(repo, &mockCourseChecker{existing: map[int]bool{3: true}}, &mockSubjectOfferCounter{})

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{
		CourseID:    3,
		Period:      intPtr(1),
		Name:        "Calculus I",
		CreditHours: intPtr(90),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, subject.SubjectID)
}

func TestSubjectServiceCreateAssignsMaxPlusOne(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[models.SubjectKey]models.Subject{
		{SubjectID: 1, CourseID: 3}: {SubjectID: 1, CourseID: 3},
		{SubjectID: 7, CourseID: 3}: {SubjectID: 7, CourseID: 3},
		{SubjectID: 9, CourseID: 5}: {SubjectID: 9, CourseID: 5},
	}}
	svc := newSubjectService(repo, &mockCourseChecker{existing: map[int]bool{3: true}}, &mockSubjectOfferCounter{})

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{
		CourseID:    3,
		Period:      intPtr(2),
		Name:        "Calculus II",
		CreditHours: intPtr(90),
	})
	require.NoError(t, err)
	assert.Equal(t, 8, subject.SubjectID)
}

func TestSubjectServiceCreateRejectsMissingCourse(t *testing.T) {
	svc := newSubjectService(&mockSubjectRepo{}, &mockCourseChecker{}, &mockSubjectOfferCounter{})

	_, err := svc.Create(context.Background(), CreateSubjectRequest{
		CourseID:    3,
		Period:      intPtr(1),
		Name:        "Calculus I",
		CreditHours: intPtr(90),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestSubjectServiceCreateRejectsTakenID(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[models.SubjectKey]models.Subject{
		{SubjectID: 4, CourseID: 3}: {SubjectID: 4, CourseID: 3},
	}}
	svc := newSubjectService(repo, &mockCourseChecker{existing: map[int]bool{3: true}}, &mockSubjectOfferCounter{})

	_, err := svc.Create(context.Background(), CreateSubjectRequest{
		SubjectID:   4,
		CourseID:    3,
		Period:      intPtr(1),
		Name:        "Calculus I",
		CreditHours: intPtr(90),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceSameIDAcrossCourses(t *testing.T) {
	repo := &mockSubjectRepo{subjects: map[models.SubjectKey]models.Subject{
		{SubjectID: 1, CourseID: 3}: {SubjectID: 1, CourseID: 3},
	}}
	svc := newSubjectService(repo, &mockCourseChecker{existing: map[int]bool{5: true}}, &mockSubjectOfferCounter{})

	subject, err := svc.Create(context.Background(), CreateSubjectRequest{
		SubjectID:   1,
		CourseID:    5,
		Period:      intPtr(1),
		Name:        "Anatomy",
		CreditHours: intPtr(120),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, subject.SubjectID)
	assert.Equal(t, 5, subject.CourseID)
}

func TestSubjectServiceUpdateNoFields(t *testing.T) {
	key := models.SubjectKey{SubjectID: 1, CourseID: 3}
	repo := &mockSubjectRepo{subjects: map[models.SubjectKey]models.Subject{key: {SubjectID: 1, CourseID: 3}}}
	svc := newSubjectService(repo, &mockCourseChecker{}, &mockSubjectOfferCounter{})

	err := svc.Update(context.Background(), key, UpdateSubjectRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectServiceDeleteBlockedByOffers(t *testing.T) {
	key := models.SubjectKey{SubjectID: 1, CourseID: 3}
	repo := &mockSubjectRepo{subjects: map[models.SubjectKey]models.Subject{key: {SubjectID: 1, CourseID: 3}}}
	offers := &mockSubjectOfferCounter{counts: map[models.SubjectKey]int64{key: 1}}
	svc := newSubjectService(repo, &mockCourseChecker{}, offers)

	err := svc.Delete(context.Background(), key)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}

func TestSubjectServiceDeleteSuccess(t *testing.T) {
	key := models.SubjectKey{SubjectID: 1, CourseID: 3}
	repo := &mockSubjectRepo{subjects: map[models.SubjectKey]models.Subject{key: {SubjectID: 1, CourseID: 3}}}
	svc := newSubjectService(repo, &mockCourseChecker{}, &mockSubjectOfferCounter{})

	require.NoError(t, svc.Delete(context.Background(), key))
	assert.Equal(t, []models.SubjectKey{key}, repo.deleted)
}
