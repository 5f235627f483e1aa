package service

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
)

type enrollmentRepository interface {
	DeleteAll(ctx context.Context) error
	InsertMany(ctx context.Context, rows []models.Enrollment) error
	ListViews(ctx context.Context) ([]models.EnrollmentView, error)
	ListViewsByStudent(ctx context.Context, matricula int) ([]models.EnrollmentView, error)
	ListViewsByOffer(ctx context.Context, offerID int) ([]models.EnrollmentView, error)
	FindView(ctx context.Context, matricula, offerID int) (*models.EnrollmentView, error)
}

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type courseOfferLister interface {
	ListByCourse(ctx context.Context, courseID int) ([]models.Offer, error)
}

// EnrollmentService maintains the derived enrollment table. The table is a
// materialized view: the only mutation is a full delete-and-recompute, so a
// rebuild running next to readers may briefly expose an empty or partial
// table.
type EnrollmentService struct {
	repo     enrollmentRepository
	students studentLister
	offers   courseOfferLister
	cache    *CacheService
	logger   *zap.Logger
}

// NewEnrollmentService constructs the enrollment service.
func NewEnrollmentService(repo enrollmentRepository, students studentLister, offers courseOfferLister, cache *CacheService, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, students: students, offers: offers, cache: cache, logger: logger}
}

// Rebuild recomputes the whole enrollment table: one row per (student, offer)
// pair where the offer belongs to the student's course, carrying the
// student's current course status. Returns the number of rows written.
func (s *EnrollmentService) Rebuild(ctx context.Context) (int, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return 0, appErrors.FromError(err)
	}

	if err := s.repo.DeleteAll(ctx); err != nil {
		return 0, appErrors.FromError(err)
	}

	rows := []models.Enrollment{}
	for _, student := range students {
		offers, err := s.offers.ListByCourse(ctx, student.CourseID)
		if err != nil {
			return 0, appErrors.FromError(err)
		}
		for _, offer := range offers {
			rows = append(rows, models.Enrollment{
				StudentID: student.Matricula,
				OfferID:   offer.ID,
				Status:    student.CourseStatus,
			})
		}
	}

	if err := s.repo.InsertMany(ctx, rows); err != nil {
		return 0, appErrors.FromError(err)
	}

	if s.cache.Enabled() {
		s.cache.Invalidate(ctx, "reports:*")
	}

	s.logger.Info("enrollment table rebuilt", zap.Int("rows", len(rows)), zap.Int("students", len(students)))
	return len(rows), nil
}

// List returns every enrollment row joined with display names.
func (s *EnrollmentService) List(ctx context.Context) ([]models.EnrollmentView, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return views, nil
}

// ListByStudent returns the enrollments of one student.
func (s *EnrollmentService) ListByStudent(ctx context.Context, matricula int) ([]models.EnrollmentView, error) {
	views, err := s.repo.ListViewsByStudent(ctx, matricula)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return views, nil
}

// ListByOffer returns the enrollments of one offer.
func (s *EnrollmentService) ListByOffer(ctx context.Context, offerID int) ([]models.EnrollmentView, error) {
	views, err := s.repo.ListViewsByOffer(ctx, offerID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return views, nil
}

// Get returns the enrollment of one (student, offer) pair.
func (s *EnrollmentService) Get(ctx context.Context, matricula, offerID int) (*models.EnrollmentView, error) {
	view, err := s.repo.FindView(ctx, matricula, offerID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.FromError(err)
	}
	return view, nil
}
