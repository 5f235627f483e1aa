package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
)

type mockReportRepo struct {
	totals          models.EntityTotals
	recentByKind    map[string][]models.RecentPerson
	stats           []models.CourseStats
	enrollByOffers  map[int]int64
	offerRows       []models.OfferReportRow
	lastCurrentYear int
}

func (m *mockReportRepo) Totals(ctx context.Context) (models.EntityTotals, error) {
	return m.totals, nil
}

func (m *mockReportRepo) RecentPeople(ctx context.Context, collection, personType string, limit int) ([]models.RecentPerson, error) {
	people := m.recentByKind[collection]
	if len(people) > limit {
		people = people[:limit]
	}
	return people, nil
}

func (m *mockReportRepo) CourseStats(ctx context.Context, currentYear int) ([]models.CourseStats, error) {
	m.lastCurrentYear = currentYear
	return m.stats, nil
}

func (m *mockReportRepo) CountEnrollmentsByOffers(ctx context.Context, offerIDs []int) (int64, error) {
	var total int64
	for _, id := range offerIDs {
		total += m.enrollByOffers[id]
	}
	return total, nil
}

func (m *mockReportRepo) OfferRows(ctx context.Context) ([]models.OfferReportRow, error) {
	return m.offerRows, nil
}

type inMemoryCacheStore struct {
	data map[string][]byte
}

func (m *inMemoryCacheStore) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *inMemoryCacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *inMemoryCacheStore) DeleteByPattern(ctx context.Context, pattern string) error {
	m.data = map[string][]byte{}
	return nil
}

func TestReportDashboardMergesRecentPeople(t *testing.T) {
	repo := &mockReportRepo{
		totals: models.EntityTotals{Courses: 2, Students: 3},
		recentByKind: map[string][]models.RecentPerson{
			"students": {
				{Type: "student", Name: "Young Student", BirthDate: "2005-06-01"},
				{Type: "student", Name: "Old Student", BirthDate: "1990-01-01"},
			},
			"professors": {
				{Type: "professor", Name: "Young Professor", BirthDate: "1999-03-15"},
			},
		},
	}
	svc := NewReportService(repo, nil, zap.NewNop())

	report, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Totals.Courses)
	require.Len(t, report.Recent, 3)
	assert.Equal(t, "Young Student", report.Recent[0].Name)
	assert.Equal(t, "Young Professor", report.Recent[1].Name)
	assert.Equal(t, "Old Student", report.Recent[2].Name)
}

func TestReportCourseStatisticsSharesAndOrder(t *testing.T) {
	repo := &mockReportRepo{
		stats: []models.CourseStats{
			{CourseID: 1, CourseName: "Small", TotalStudents: 1, TotalOffers: 1, OfferIDs: []int{10}},
			{CourseID: 2, CourseName: "Big", TotalStudents: 3, TotalOffers: 3, OfferIDs: []int{20, 21, 22}},
		},
		enrollByOffers: map[int]int64{10: 2, 20: 3, 21: 3, 22: 0},
	}
	svc := NewReportService(repo, nil, zap.NewNop())

	report, err := svc.CourseStatistics(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Courses, 2)
	assert.Equal(t, "Big", report.Courses[0].CourseName)
	assert.Equal(t, "Small", report.Courses[1].CourseName)

	assert.Equal(t, 75.0, report.Courses[0].StudentShare)
	assert.Equal(t, 25.0, report.Courses[1].StudentShare)
	assert.Equal(t, 2.0, report.Courses[0].AvgStudentsPerOffer)
	assert.Equal(t, 2.0, report.Courses[1].AvgStudentsPerOffer)

	assert.Equal(t, 2, report.Summary.TotalCourses)
	assert.Equal(t, 4, report.Summary.TotalStudents)
	assert.Equal(t, 8, report.Summary.TotalEnrollments)
	assert.Equal(t, time.Now().Year(), repo.lastCurrentYear)
}

func TestReportCourseStatisticsEmpty(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, nil, zap.NewNop())

	report, err := svc.CourseStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Summary.TotalCourses)
	assert.Empty(t, report.Courses)
}

func TestReportOffersCompleteSummary(t *testing.T) {
	repo := &mockReportRepo{offerRows: []models.OfferReportRow{
		{OfferID: 1, ProfessorName: "Turing", CourseName: "Computing", EnrollmentCount: 4},
		{OfferID: 2, ProfessorName: "Turing", CourseName: "Computing", EnrollmentCount: 2},
		{OfferID: 3, ProfessorName: "Hopper", CourseName: "Engineering", EnrollmentCount: 0},
	}}
	svc := NewReportService(repo, nil, zap.NewNop())

	report, err := svc.OffersComplete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Summary.TotalOffers)
	assert.Equal(t, 6, report.Summary.TotalEnrollments)
	assert.Equal(t, 2, report.Summary.DistinctProfessors)
	assert.Equal(t, 2, report.Summary.DistinctCourses)
	assert.Equal(t, 2.0, report.Summary.AvgStudentsPerOffer)
}

func TestReportExportOffersCSV(t *testing.T) {
	repo := &mockReportRepo{offerRows: []models.OfferReportRow{
		{OfferID: 1, Year: 2025, Semester: 1, CourseName: "Computing", SubjectName: "Algorithms", ProfessorName: "Turing", EnrollmentCount: 4},
	}}
	svc := NewReportService(repo, nil, zap.NewNop())

	payload, contentType, err := svc.ExportOffers(context.Background(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)

	content := string(payload)
	assert.True(t, strings.HasPrefix(content, "Offer,Term,Course,Subject,Professor,Enrolled"))
	assert.Contains(t, content, "1,2025/1,Computing,Algorithms,Turing,4")
}

func TestReportExportOffersPDF(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, nil, zap.NewNop())

	payload, contentType, err := svc.ExportOffers(context.Background(), "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", contentType)
	assert.True(t, strings.HasPrefix(string(payload), "%PDF"))
}

func TestReportExportOffersRejectsUnknownFormat(t *testing.T) {
	svc := NewReportService(&mockReportRepo{}, nil, zap.NewNop())

	_, _, err := svc.ExportOffers(context.Background(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportCacheRoundTrip(t *testing.T) {
	repo := &mockReportRepo{totals: models.EntityTotals{Courses: 1}}
	store := &inMemoryCacheStore{data: map[string][]byte{}}
	cacheSvc := NewCacheService(store, nil, time.Minute, zap.NewNop(), true)
	svc := NewReportService(repo, cacheSvc, zap.NewNop())

	first, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	// Mutate the backing repo; the cached payload should win.
	repo.totals = models.EntityTotals{Courses: 99}
	second, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first.Totals.Courses, second.Totals.Courses)
}
