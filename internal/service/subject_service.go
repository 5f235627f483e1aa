package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
)

type subjectRepository interface {
	Insert(ctx context.Context, subject *models.Subject) error
	ListViews(ctx context.Context) ([]models.SubjectView, error)
	ListByCourse(ctx context.Context, courseID int) ([]models.SubjectView, error)
	FindView(ctx context.Context, key models.SubjectKey) (*models.SubjectView, error)
	Exists(ctx context.Context, key models.SubjectKey) (bool, error)
	MaxSubjectID(ctx context.Context, courseID int) (int, error)
	Update(ctx context.Context, key models.SubjectKey, fields bson.M) error
	Delete(ctx context.Context, key models.SubjectKey) error
}

type courseChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type subjectOfferCounter interface {
	CountBySubject(ctx context.Context, key models.SubjectKey) (int64, error)
}

// CreateSubjectRequest holds payload for creating subjects. SubjectID is
// optional; when omitted the next free ID inside the course is assigned.
type CreateSubjectRequest struct {
	SubjectID   int    `json:"subject_id"`
	CourseID    int    `json:"course_id" validate:"required"`
	Period      *int   `json:"period" validate:"required"`
	Name        string `json:"name" validate:"required"`
	CreditHours *int   `json:"credit_hours" validate:"required"`
}

// UpdateSubjectRequest holds a partial field set for subject updates.
type UpdateSubjectRequest struct {
	Period      *int    `json:"period"`
	Name        *string `json:"name"`
	CreditHours *int    `json:"credit_hours"`
}

// SubjectService handles subject use-cases around the composite key.
type SubjectService struct {
	repo      subjectRepository
	courses   courseChecker
	offers    subjectOfferCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSubjectService constructs the subject service.
func NewSubjectService(repo subjectRepository, courses courseChecker, offers subjectOfferCounter, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{repo: repo, courses: courses, offers: offers, validator: validate, logger: logger}
}

// Create registers a new subject in its course. The subject ID is derived
// from the highest ID already used in the course when not supplied.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*models.Subject, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "required fields: course_id, period, name, credit_hours")
	}

	exists, err := s.courses.Exists(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	subjectID := req.SubjectID
	if subjectID == 0 {
		maxID, err := s.repo.MaxSubjectID(ctx, req.CourseID)
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		subjectID = maxID + 1
	} else {
		taken, err := s.repo.Exists(ctx, models.SubjectKey{SubjectID: subjectID, CourseID: req.CourseID})
		if err != nil {
			return nil, appErrors.FromError(err)
		}
		if taken {
			return nil, appErrors.Clone(appErrors.ErrConflict, "subject id already used in this course")
		}
	}

	subject := &models.Subject{
		SubjectID:   subjectID,
		CourseID:    req.CourseID,
		Period:      *req.Period,
		Name:        req.Name,
		CreditHours: *req.CreditHours,
	}
	if err := s.repo.Insert(ctx, subject); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("subject created",
		zap.Int("subject_id", subject.SubjectID),
		zap.Int("course_id", subject.CourseID),
		zap.String("name", subject.Name))
	return subject, nil
}

// List returns all subjects joined with course names.
func (s *SubjectService) List(ctx context.Context) ([]models.SubjectView, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return views, nil
}

// ListByCourse returns the subjects of one course.
func (s *SubjectService) ListByCourse(ctx context.Context, courseID int) ([]models.SubjectView, error) {
	views, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return views, nil
}

// Get returns one subject by its composite key.
func (s *SubjectService) Get(ctx context.Context, key models.SubjectKey) (*models.SubjectView, error) {
	view, err := s.repo.FindView(ctx, key)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.FromError(err)
	}
	return view, nil
}

// Update applies the validated subset of the partial payload.
func (s *SubjectService) Update(ctx context.Context, key models.SubjectKey, req UpdateSubjectRequest) error {
	exists, err := s.repo.Exists(ctx, key)
	if err != nil {
		return appErrors.FromError(err)
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	fields := bson.M{}
	if req.Period != nil {
		fields["period"] = *req.Period
	}
	if req.Name != nil && *req.Name != "" {
		fields["name"] = *req.Name
	}
	if req.CreditHours != nil {
		fields["credit_hours"] = *req.CreditHours
	}
	if len(fields) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no valid fields to update")
	}

	if err := s.repo.Update(ctx, key, fields); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// Delete removes a subject unless offers still reference it.
func (s *SubjectService) Delete(ctx context.Context, key models.SubjectKey) error {
	offerCount, err := s.offers.CountBySubject(ctx, key)
	if err != nil {
		return appErrors.FromError(err)
	}
	if offerCount > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "subject has registered offers and cannot be deleted")
	}

	exists, err := s.repo.Exists(ctx, key)
	if err != nil {
		return appErrors.FromError(err)
	}
	if !exists {
		return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	if err := s.repo.Delete(ctx, key); err != nil {
		return appErrors.FromError(err)
	}

	s.logger.Info("subject deleted", zap.Int("subject_id", key.SubjectID), zap.Int("course_id", key.CourseID))
	return nil
}
