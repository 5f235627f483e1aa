package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
)

type professorRepository interface {
	Insert(ctx context.Context, professor *models.Professor) error
	List(ctx context.Context) ([]models.Professor, error)
	FindByID(ctx context.Context, id int) (*models.Professor, error)
	Update(ctx context.Context, id int, fields bson.M) error
	Delete(ctx context.Context, id int) error
}

type professorOfferCounter interface {
	CountByProfessor(ctx context.Context, professorID int) (int64, error)
}

// CreateProfessorRequest holds payload for creating professors. BirthDate
// accepts the two supported date layouts.
type CreateProfessorRequest struct {
	CPF       string `json:"cpf" validate:"required"`
	Name      string `json:"name" validate:"required"`
	BirthDate string `json:"birth_date"`
	Phone     string `json:"phone"`
	Email     string `json:"email" validate:"required"`
	Status    string `json:"status" validate:"required"`
}

// UpdateProfessorRequest holds a partial field set for professor updates.
type UpdateProfessorRequest struct {
	CPF       *string `json:"cpf"`
	Name      *string `json:"name"`
	BirthDate *string `json:"birth_date"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	Status    *string `json:"status"`
}

// ProfessorService handles professor use-cases.
type ProfessorService struct {
	repo      professorRepository
	sequences sequenceProvider
	offers    professorOfferCounter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfessorService constructs the professor service.
func NewProfessorService(repo professorRepository, sequences sequenceProvider, offers professorOfferCounter, validate *validator.Validate, logger *zap.Logger) *ProfessorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfessorService{repo: repo, sequences: sequences, offers: offers, validator: validate, logger: logger}
}

// Create registers a new professor with a sequential identifier.
func (s *ProfessorService) Create(ctx context.Context, req CreateProfessorRequest) (*models.Professor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "required fields: cpf, name, email, status")
	}

	birthDate, err := models.ParseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	id, err := s.sequences.Next(ctx, models.CounterProfessor)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	professor := &models.Professor{
		ID:        id,
		CPF:       req.CPF,
		Name:      req.Name,
		BirthDate: birthDate,
		Phone:     req.Phone,
		Email:     req.Email,
		Status:    req.Status,
	}
	if err := s.repo.Insert(ctx, professor); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("professor created", zap.Int("id", professor.ID), zap.String("name", professor.Name))
	return professor, nil
}

// List returns all professors sorted by name.
func (s *ProfessorService) List(ctx context.Context) ([]models.Professor, error) {
	professors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return professors, nil
}

// Get returns one professor by ID.
func (s *ProfessorService) Get(ctx context.Context, id int) (*models.Professor, error) {
	professor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return nil, appErrors.FromError(err)
	}
	return professor, nil
}

// Update applies the validated subset of the partial payload. Status may not
// be blanked out once set.
func (s *ProfessorService) Update(ctx context.Context, id int, req UpdateProfessorRequest) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "professor not found")
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
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if status == "" {
			return appErrors.Clone(appErrors.ErrValidation, "status must not be empty")
		}
		fields["status"] = status
	}
	if len(fields) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no valid fields to update")
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// Delete removes a professor unless offers still reference them.
func (s *ProfessorService) Delete(ctx context.Context, id int) error {
	offerCount, err := s.offers.CountByProfessor(ctx, id)
	if err != nil {
		return appErrors.FromError(err)
	}
	if offerCount > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "professor has registered offers and cannot be deleted")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		return appErrors.FromError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}

	s.logger.Info("professor deleted", zap.Int("id", id))
	return nil
}
