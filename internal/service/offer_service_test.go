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

type mockOfferRepo struct {
	offers  map[int]models.Offer
	updated map[int]bson.M
	deleted []int
}

func (m *mockOfferRepo) Insert(ctx context.Context, offer *models.Offer) error {
	if m.offers == nil {
		m.offers = make(map[int]models.Offer)
	}
	m.offers[offer.ID] = *offer
	return nil
}

func (m *mockOfferRepo) ListViews(ctx context.Context) ([]models.OfferView, error) {
	out := make([]models.OfferView, 0, len(m.offers))
	for _, o := range m.offers {
		out = append(out, models.OfferView{Offer: o})
	}
	return out, nil
}

func (m *mockOfferRepo) ListViewsBySemester(ctx context.Context, year, semester int) ([]models.OfferView, error) {
	var out []models.OfferView
	for _, o := range m.offers {
		if o.Year == year && o.Semester == semester {
			out = append(out, models.OfferView{Offer: o})
		}
	}
	return out, nil
}

func (m *mockOfferRepo) FindView(ctx context.Context, id int) (*models.OfferView, error) {
	if o, ok := m.offers[id]; ok {
		return &models.OfferView{Offer: o}, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockOfferRepo) FindByID(ctx context.Context, id int) (*models.Offer, error) {
	if o, ok := m.offers[id]; ok {
		return &o, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockOfferRepo) Update(ctx context.Context, id int, fields bson.M) error {
	if m.updated == nil {
		m.updated = make(map[int]bson.M)
	}
	m.updated[id] = fields
	return nil
}

func (m *mockOfferRepo) Delete(ctx context.Context, id int) error {
	m.deleted = append(m.deleted, id)
	delete(m.offers, id)
	return nil
}

type mockSubjectChecker struct {
	existing map[models.SubjectKey]bool
}

func (m *mockSubjectChecker) Exists(ctx context.Context, key models.SubjectKey) (bool, error) {
	return m.existing[key], nil
}

type mockProfessorChecker struct {
	existing map[int]bool
}

func (m *mockProfessorChecker) Exists(ctx context.Context, id int) (bool, error) {
	return m.existing[id], nil
}

type mockOfferEnrollmentCounter struct {
	counts map[int]int64
}

func (m *mockOfferEnrollmentCounter) CountByOffer(ctx context.Context, offerID int) (int64, error) {
	return m.counts[offerID], nil
}

func newOfferService(repo *mockOfferRepo, subjects *mockSubjectChecker, professors *mockProfessorChecker, enrollments *mockOfferEnrollmentCounter) *OfferService {
	return NewOfferService(repo, &mockSequences{}, subjects, professors, enrollments, validator.New(), zap.NewNop())
}

func validOfferRequest() CreateOfferRequest {
	return CreateOfferRequest{Year: 2025, Semester: 1, SubjectID: 1, CourseID: 3, ProfessorID: 7}
}

func TestOfferServiceCreateSuccess(t *testing.T) {
	repo := &mockOfferRepo{}
	subjects := &mockSubjectChecker{existing: map[models.SubjectKey]bool{{SubjectID: 1, CourseID: 3}: true}}
	professors := &mockProfessorChecker{existing: map[int]bool{7: true}}
	svc := newOfferService(repo, subjects, professors, &mockOfferEnrollmentCounter{})

	offer, err := svc.Create(context.Background(), validOfferRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, offer.ID)
	assert.Equal(t, 2025, offer.Year)
}

func TestOfferServiceCreateRejectsMissingSubject(t *testing.T) {
	professors := &mockProfessorChecker{existing: map[int]bool{7: true}}
	svc := newOfferService(&mockOfferRepo{}, &mockSubjectChecker{}, professors, &mockOfferEnrollmentCounter{})

	_, err := svc.Create(context.Background(), validOfferRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErr.Status)
	assert.Equal(t, "subject not found", appErr.Message)
}

func TestOfferServiceCreateRejectsMissingProfessor(t *testing.T) {
	subjects := &mockSubjectChecker{existing: map[models.SubjectKey]bool{{SubjectID: 1, CourseID: 3}: true}}
	svc := newOfferService(&mockOfferRepo{}, subjects, &mockProfessorChecker{}, &mockOfferEnrollmentCounter{})

	_, err := svc.Create(context.Background(), validOfferRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErr.Status)
	assert.Equal(t, "professor not found", appErr.Message)
}

func TestOfferServiceUpdateSwapsSubjectPair(t *testing.T) {
	repo := &mockOfferRepo{offers: map[int]models.Offer{1: {ID: 1, SubjectID: 1, CourseID: 3}}}
	subjects := &mockSubjectChecker{existing: map[models.SubjectKey]bool{{SubjectID: 2, CourseID: 5}: true}}
	svc := newOfferService(repo, subjects, &mockProfessorChecker{}, &mockOfferEnrollmentCounter{})

	err := svc.Update(context.Background(), 1, UpdateOfferRequest{SubjectID: intPtr(2), CourseID: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, bson.M{"subject_id": 2, "course_id": 5}, repo.updated[1])
}

func TestOfferServiceUpdateSubjectAloneIsIgnored(t *testing.T) {
	repo := &mockOfferRepo{offers: map[int]models.Offer{1: {ID: 1, SubjectID: 1, CourseID: 3}}}
	svc := newOfferService(repo, &mockSubjectChecker{}, &mockProfessorChecker{}, &mockOfferEnrollmentCounter{})

	err := svc.Update(context.Background(), 1, UpdateOfferRequest{SubjectID: intPtr(2)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestOfferServiceUpdateRejectsMissingProfessor(t *testing.T) {
	repo := &mockOfferRepo{offers: map[int]models.Offer{1: {ID: 1}}}
	svc := newOfferService(repo, &mockSubjectChecker{}, &mockProfessorChecker{}, &mockOfferEnrollmentCounter{})

	err := svc.Update(context.Background(), 1, UpdateOfferRequest{ProfessorID: intPtr(99)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)
}

func TestOfferServiceDeleteBlockedByEnrollments(t *testing.T) {
	repo := &mockOfferRepo{offers: map[int]models.Offer{1: {ID: 1}}}
	enrollments := &mockOfferEnrollmentCounter{counts: map[int]int64{1: 5}}
	svc := newOfferService(repo, &mockSubjectChecker{}, &mockProfessorChecker{}, enrollments)

	err := svc.Delete(context.Background(), 1)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrConflict.Status, appErr.Status)
	assert.Empty(t, repo.deleted)
}

func TestOfferServiceListBySemester(t *testing.T) {
	repo := &mockOfferRepo{offers: map[int]models.Offer{
		1: {ID: 1, Year: 2025, Semester: 1},
		2: {ID: 2, Year: 2025, Semester: 2},
		3: {ID: 3, Year: 2024, Semester: 1},
	}}
	svc := newOfferService(repo, &mockSubjectChecker{}, &mockProfessorChecker{}, &mockOfferEnrollmentCounter{})

	views, err := svc.ListBySemester(context.Background(), 2025, 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 1, views[0].ID)
}
