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

type courseRepository interface {
	Insert(ctx context.Context, course *models.Course) error
	List(ctx context.Context) ([]models.Course, error)
	FindByID(ctx context.Context, id int) (*models.Course, error)
	Update(ctx context.Context, id int, fields bson.M) error
	Delete(ctx context.Context, id int) error
}

type sequenceProvider interface {
	Next(ctx context.Context, name string) (int, error)
}

type courseStudentCounter interface {
	CountByCourse(ctx context.Context, courseID int) (int64, error)
}

type courseSubjectCounter interface {
	CountByCourse(ctx context.Context, courseID int) (int64, error)
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Name             string   `json:"name" validate:"required"`
	TotalCreditHours *float64 `json:"total_credit_hours" validate:"required,gte=0"`
}

// UpdateCourseRequest holds a partial field set for course updates.
type UpdateCourseRequest struct {
	Name             *string  `json:"name"`
	TotalCreditHours *float64 `json:"total_credit_hours"`
}

// CourseService handles course use-cases.
type CourseService struct {
	repo      courseRepository
	sequences sequenceProvider
	students  courseStudentCounter
	subjects  courseSubjectCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, sequences sequenceProvider, students courseStudentCounter, subjects courseSubjectCounter, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, sequences: sequences, students: students, subjects: subjects, validator: validate, logger: logger}
}

// Create registers a new course with a sequential identifier.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "required fields: name, total_credit_hours")
	}

	id, err := s.sequences.Next(ctx, models.CounterCourse)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	course := &models.Course{
		ID:               id,
		Name:             req.Name,
		TotalCreditHours: *req.TotalCreditHours,
	}
	if err := s.repo.Insert(ctx, course); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("course created", zap.Int("id", course.ID), zap.String("name", course.Name))
	return course, nil
}

// List returns all courses sorted by name.
func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return courses, nil
}

// Get returns one course by ID.
func (s *CourseService) Get(ctx context.Context, id int) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.FromError(err)
	}
	return course, nil
}

// Update applies the validated subset of the partial payload.
func (s *CourseService) Update(ctx context.Context, id int, req UpdateCourseRequest) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.FromError(err)
	}

	fields := bson.M{}
	if req.Name != nil && *req.Name != "" {
		fields["name"] = *req.Name
	}
	if req.TotalCreditHours != nil {
		if *req.TotalCreditHours < 0 {
			return appErrors.Clone(appErrors.ErrValidation, "total_credit_hours must not be negative")
		}
		fields["total_credit_hours"] = *req.TotalCreditHours
	}
	if len(fields) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no valid fields to update")
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// Delete removes a course unless students or subjects still reference it.
func (s *CourseService) Delete(ctx context.Context, id int) error {
	studentCount, err := s.students.CountByCourse(ctx, id)
	if err != nil {
		return appErrors.FromError(err)
	}
	if studentCount > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "course has enrolled students and cannot be deleted")
	}

	subjectCount, err := s.subjects.CountByCourse(ctx, id)
	if err != nil {
		return appErrors.FromError(err)
	}
	if subjectCount > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "course has registered subjects and cannot be deleted")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.FromError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}

	s.logger.Info("course deleted", zap.Int("id", id))
	return nil
}
