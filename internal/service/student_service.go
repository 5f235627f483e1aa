package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
)

type studentRepository interface {
	Insert(ctx context.Context, student *models.Student) error
	List(ctx context.Context) ([]models.Student, error)
	FindByMatricula(ctx context.Context, matricula int) (*models.Student, error)
	MaxMatriculaInRange(ctx context.Context, courseID, lo, hi int) (int, error)
	Update(ctx context.Context, matricula int, fields bson.M) error
	Delete(ctx context.Context, matricula int) error
}

type studentEnrollmentCounter interface {
	CountByStudent(ctx context.Context, matricula int) (int64, error)
}

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	CPF          string `json:"cpf" validate:"required"`
	Name         string `json:"name" validate:"required"`
	BirthDate    string `json:"birth_date"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"required"`
	Period       *int   `json:"period" validate:"required"`
	CourseID     int    `json:"course_id" validate:"required"`
	CourseStatus string `json:"course_status" validate:"required"`
}

// UpdateStudentRequest holds a partial field set for student updates.
type UpdateStudentRequest struct {
	CPF          *string `json:"cpf"`
	Name         *string `json:"name"`
	BirthDate    *string `json:"birth_date"`
	Phone        *string `json:"phone"`
	Email        *string `json:"email"`
	Period       *int    `json:"period"`
	CourseID     *int    `json:"course_id"`
	CourseStatus *string `json:"course_status"`
}

// StudentService handles student use-cases, including enrollment number
// derivation.
type StudentService struct {
	repo        studentRepository
	enrollments studentEnrollmentCounter
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, enrollments studentEnrollmentCounter, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, enrollments: enrollments, validator: validate, logger: logger, now: time.Now}
}

// Create registers a new student. The matricula packs the current year, the
// two-digit course ID and a two-digit sequence scoped to (year, course).
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "required fields: cpf, name, email, period, course_id, course_status")
	}

	birthDate, err := models.ParseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	year := s.now().Year()
	lo := models.MatriculaFor(year, req.CourseID, 1)
	hi := models.MatriculaFor(year, req.CourseID, 99)
	last, err := s.repo.MaxMatriculaInRange(ctx, req.CourseID, lo, hi)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	seq := 1
	if last > 0 {
		seq = last%100 + 1
	}
	matricula := models.MatriculaFor(year, req.CourseID, seq)

	student := &models.Student{
		Matricula:    matricula,
		CPF:          req.CPF,
		Name:         req.Name,
		BirthDate:    birthDate,
		Phone:        req.Phone,
		Email:        req.Email,
		Period:       *req.Period,
		CourseID:     req.CourseID,
		CourseStatus: req.CourseStatus,
	}
	if err := s.repo.Insert(ctx, student); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("student created", zap.Int("matricula", student.Matricula), zap.Int("course_id", student.CourseID))
	return student, nil
}

// List returns all students sorted by name.
func (s *StudentService) List(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return students, nil
}

// Get returns one student by matricula.
func (s *StudentService) Get(ctx context.Context, matricula int) (*models.Student, error) {
	student, err := s.repo.FindByMatricula(ctx, matricula)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.FromError(err)
	}
	return student, nil
}

// Update applies the validated subset of the partial payload.
func (s *StudentService) Update(ctx context.Context, matricula int, req UpdateStudentRequest) error {
	if _, err := s.repo.FindByMatricula(ctx, matricula); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.FromError(err)
	}

	fields := bson.M{}
	if req.CPF != nil {
		fields["cpf"] = *req.CPF
	}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.BirthDate != nil {
		birthDate, err := models.ParseDate(*req.BirthDate)
		if err != nil {
			return appErrors.Clone(appErrors.ErrValidation, err.Error())
		}
		fields["birth_date"] = birthDate
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Period != nil {
		fields["period"] = *req.Period
	}
	if req.CourseID != nil {
		fields["course_id"] = *req.CourseID
	}
	if req.CourseStatus != nil {
		fields["course_status"] = *req.CourseStatus
	}
	if len(fields) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no valid fields to update")
	}

	if err := s.repo.Update(ctx, matricula, fields); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// Delete removes a student unless enrollment rows still reference them.
func (s *StudentService) Delete(ctx context.Context, matricula int) error {
	count, err := s.enrollments.CountByStudent(ctx, matricula)
	if err != nil {
		return appErrors.FromError(err)
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "student has enrollments and cannot be deleted")
	}

	if _, err := s.repo.FindByMatricula(ctx, matricula); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.FromError(err)
	}

	if err := s.repo.Delete(ctx, matricula); err != nil {
		return appErrors.FromError(err)
	}

	s.logger.Info("student deleted", zap.Int("matricula", matricula))
	return nil
}
