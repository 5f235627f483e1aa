package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
	"github.com/sge-edu/sge-api/pkg/export"
)

type reportRepository interface {
	Totals(ctx context.Context) (models.EntityTotals, error)
	RecentPeople(ctx context.Context, collection, personType string, limit int) ([]models.RecentPerson, error)
	CourseStats(ctx context.Context, currentYear int) ([]models.CourseStats, error)
	CountEnrollmentsByOffers(ctx context.Context, offerIDs []int) (int64, error)
	OfferRows(ctx context.Context) ([]models.OfferReportRow, error)
}

const (
	cacheKeyDashboard   = "reports:dashboard"
	cacheKeyCourseStats = "reports:course-statistics"
	cacheKeyOffers      = "reports:offers-complete"

	recentPeopleLimit = 10
)

// ReportService composes the read-only aggregation views. Responses may be
// served from cache inside the configured TTL.
type ReportService struct {
	repo   reportRepository
	cache  *CacheService
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
	now    func() time.Time
}

// NewReportService constructs the report service.
func NewReportService(repo reportRepository, cache *CacheService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:   repo,
		cache:  cache,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard returns per-entity totals plus the most recent people known to
// the system, ordered by birth date.
func (s *ReportService) Dashboard(ctx context.Context) (*models.DashboardReport, error) {
	cached := &models.DashboardReport{}
	if hit, _ := s.cache.Get(ctx, cacheKeyDashboard, cached); hit {
		return cached, nil
	}

	totals, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	students, err := s.repo.RecentPeople(ctx, "students", "student", recentPeopleLimit/2)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	professors, err := s.repo.RecentPeople(ctx, "professors", "professor", recentPeopleLimit/2)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	recent := append(students, professors...)
	// ISO dates sort lexicographically in chronological order.
	sort.Slice(recent, func(i, j int) bool { return recent[i].BirthDate > recent[j].BirthDate })
	if len(recent) > recentPeopleLimit {
		recent = recent[:recentPeopleLimit]
	}

	report := &models.DashboardReport{Totals: totals, Recent: recent}
	_ = s.cache.Set(ctx, cacheKeyDashboard, report, 0)
	return report, nil
}

// CourseStatistics returns per-course counts with their share of the system
// totals, sorted by student then offer count, descending.
func (s *ReportService) CourseStatistics(ctx context.Context) (*models.CourseStatisticsReport, error) {
	cached := &models.CourseStatisticsReport{}
	if hit, _ := s.cache.Get(ctx, cacheKeyCourseStats, cached); hit {
		return cached, nil
	}

	stats, err := s.repo.CourseStats(ctx, s.now().Year())
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	summary := models.CourseStatisticsSummary{TotalCourses: len(stats)}
	for i := range stats {
		count, err := s.repo.CountEnrollmentsByOffers(ctx, stats[i].OfferIDs)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		stats[i].ActiveEnrollments = int(count)

		summary.TotalStudents += stats[i].TotalStudents
		summary.TotalSubjects += stats[i].TotalSubjects
		summary.TotalOffers += stats[i].TotalOffers
		summary.TotalEnrollments += stats[i].ActiveEnrollments
	}

	for i := range stats {
		if summary.TotalStudents > 0 {
			stats[i].StudentShare = round2(float64(stats[i].TotalStudents) / float64(summary.TotalStudents) * 100)
		}
		if summary.TotalOffers > 0 {
			stats[i].OfferShare = round2(float64(stats[i].TotalOffers) / float64(summary.TotalOffers) * 100)
		}
		if stats[i].TotalOffers > 0 {
			stats[i].AvgStudentsPerOffer = round2(float64(stats[i].ActiveEnrollments) / float64(stats[i].TotalOffers))
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalStudents != stats[j].TotalStudents {
			return stats[i].TotalStudents > stats[j].TotalStudents
		}
		return stats[i].TotalOffers > stats[j].TotalOffers
	})

	report := &models.CourseStatisticsReport{Summary: summary, Courses: stats}
	_ = s.cache.Set(ctx, cacheKeyCourseStats, report, 0)
	return report, nil
}

// OffersComplete returns the denormalized per-offer view with system totals.
func (s *ReportService) OffersComplete(ctx context.Context) (*models.OffersReport, error) {
	cached := &models.OffersReport{}
	if hit, _ := s.cache.Get(ctx, cacheKeyOffers, cached); hit {
		return cached, nil
	}

	rows, err := s.repo.OfferRows(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	summary := models.OffersReportSummary{TotalOffers: len(rows)}
	professors := map[string]struct{}{}
	courses := map[string]struct{}{}
	for _, row := range rows {
		summary.TotalEnrollments += row.EnrollmentCount
		if row.ProfessorName != "" {
			professors[row.ProfessorName] = struct{}{}
		}
		if row.CourseName != "" {
			courses[row.CourseName] = struct{}{}
		}
	}
	summary.DistinctProfessors = len(professors)
	summary.DistinctCourses = len(courses)
	if summary.TotalOffers > 0 {
		summary.AvgStudentsPerOffer = round2(float64(summary.TotalEnrollments) / float64(summary.TotalOffers))
	}

	report := &models.OffersReport{Summary: summary, Offers: rows}
	_ = s.cache.Set(ctx, cacheKeyOffers, report, 0)
	return report, nil
}

// ExportOffers renders the offers report as a CSV or PDF attachment.
func (s *ReportService) ExportOffers(ctx context.Context, format string) ([]byte, string, error) {
	report, err := s.OffersComplete(ctx)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Offer", "Term", "Course", "Subject", "Professor", "Enrolled"},
	}
	for _, row := range report.Offers {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Offer":     fmt.Sprintf("%d", row.OfferID),
			"Term":      fmt.Sprintf("%d/%d", row.Year, row.Semester),
			"Course":    row.CourseName,
			"Subject":   row.SubjectName,
			"Professor": row.ProfessorName,
			"Enrolled":  fmt.Sprintf("%d", row.EnrollmentCount),
		})
	}

	switch format {
	case "csv":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, "", appErrors.FromError(err)
		}
		return payload, "text/csv", nil
	case "pdf":
		payload, err := s.pdf.Render(dataset, "Offers Report")
		if err != nil {
			return nil, "", appErrors.FromError(err)
		}
		return payload, "application/pdf", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
