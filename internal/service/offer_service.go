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

type offerRepository interface {
	Insert(ctx context.Context, offer *models.Offer) error
	ListViews(ctx context.Context) ([]models.OfferView, error)
	ListViewsBySemester(ctx context.Context, year, semester int) ([]models.OfferView, error)
	FindView(ctx context.Context, id int) (*models.OfferView, error)
	FindByID(ctx context.Context, id int) (*models.Offer, error)
	Update(ctx context.Context, id int, fields bson.M) error
	Delete(ctx context.Context, id int) error
}

type subjectChecker interface {
	Exists(ctx context.Context, key models.SubjectKey) (bool, error)
}

type professorChecker interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type offerEnrollmentCounter interface {
	CountByOffer(ctx context.Context, offerID int) (int64, error)
}

// CreateOfferRequest holds payload for creating offers.
type CreateOfferRequest struct {
	Year        int `json:"year" validate:"required"`
	Semester    int `json:"semester" validate:"required"`
	SubjectID   int `json:"subject_id" validate:"required"`
	CourseID    int `json:"course_id" validate:"required"`
	ProfessorID int `json:"professor_id" validate:"required"`
}

// UpdateOfferRequest holds a partial field set for offer updates. Subject and
// course IDs travel together because they form the subject's identity.
type UpdateOfferRequest struct {
	Year        *int `json:"year"`
	Semester    *int `json:"semester"`
	SubjectID   *int `json:"subject_id"`
	CourseID    *int `json:"course_id"`
	ProfessorID *int `json:"professor_id"`
}

// OfferService handles offer use-cases.
type OfferService struct {
	repo        offerRepository
	sequences   sequenceProvider
	subjects    subjectChecker
	professors  professorChecker
	enrollments offerEnrollmentCounter
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewOfferService constructs the offer service.
func NewOfferService(repo offerRepository, sequences sequenceProvider, subjects subjectChecker, professors professorChecker, enrollments offerEnrollmentCounter, validate *validator.Validate, logger *zap.Logger) *OfferService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferService{repo: repo, sequences: sequences, subjects: subjects, professors: professors, enrollments: enrollments, validator: validate, logger: logger}
}

// Create registers a new offer after checking the referenced subject and
// professor exist.
func (s *OfferService) Create(ctx context.Context, req CreateOfferRequest) (*models.Offer, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "required fields: year, semester, subject_id, course_id, professor_id")
	}

	subjectExists, err := s.subjects.Exists(ctx, models.SubjectKey{SubjectID: req.SubjectID, CourseID: req.CourseID})
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if !subjectExists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}

	professorExists, err := s.professors.Exists(ctx, req.ProfessorID)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	if !professorExists {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "professor not found")
	}

	id, err := s.sequences.Next(ctx, models.CounterOffer)
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	offer := &models.Offer{
		ID:          id,
		Year:        req.Year,
		Semester:    req.Semester,
		SubjectID:   req.SubjectID,
		CourseID:    req.CourseID,
		ProfessorID: req.ProfessorID,
	}
	if err := s.repo.Insert(ctx, offer); err != nil {
		return nil, appErrors.FromError(err)
	}

	s.logger.Info("offer created",
		zap.Int("id", offer.ID),
		zap.Int("year", offer.Year),
		zap.Int("semester", offer.Semester))
	return offer, nil
}

// List returns all offers joined with display names.
func (s *OfferService) List(ctx context.Context) ([]models.OfferView, error) {
	views, err := s.repo.ListViews(ctx)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return views, nil
}

// ListBySemester returns the offers of one year/semester pair.
func (s *OfferService) ListBySemester(ctx context.Context, year, semester int) ([]models.OfferView, error) {
	views, err := s.repo.ListViewsBySemester(ctx, year, semester)
	if err != nil {
		return nil, appErrors.FromError(err)
	}
	return views, nil
}

// Get returns one offer by ID joined with display names.
func (s *OfferService) Get(ctx context.Context, id int) (*models.OfferView, error) {
	view, err := s.repo.FindView(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		}
		return nil, appErrors.FromError(err)
	}
	return view, nil
}

// Update applies the validated subset of the partial payload. Referenced
// entities are checked before their IDs are swapped in.
func (s *OfferService) Update(ctx context.Context, id int, req UpdateOfferRequest) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		}
		return appErrors.FromError(err)
	}

	fields := bson.M{}
	if req.Year != nil {
		fields["year"] = *req.Year
	}
	if req.Semester != nil {
		fields["semester"] = *req.Semester
	}
	if req.ProfessorID != nil {
		exists, err := s.professors.Exists(ctx, *req.ProfessorID)
		if err != nil {
			return appErrors.FromError(err)
		}
		if !exists {
			return appErrors.Clone(appErrors.ErrNotFound, "professor not found")
		}
		fields["professor_id"] = *req.ProfessorID
	}
	if req.SubjectID != nil && req.CourseID != nil {
		key := models.SubjectKey{SubjectID: *req.SubjectID, CourseID: *req.CourseID}
		exists, err := s.subjects.Exists(ctx, key)
		if err != nil {
			return appErrors.FromError(err)
		}
		if !exists {
			return appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		fields["subject_id"] = *req.SubjectID
		fields["course_id"] = *req.CourseID
	}
	if len(fields) == 0 {
		return appErrors.Clone(appErrors.ErrValidation, "no valid fields to update")
	}

	if err := s.repo.Update(ctx, id, fields); err != nil {
		return appErrors.FromError(err)
	}
	return nil
}

// Delete removes an offer unless enrollment rows still reference it.
func (s *OfferService) Delete(ctx context.Context, id int) error {
	count, err := s.enrollments.CountByOffer(ctx, id)
	if err != nil {
		return appErrors.FromError(err)
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, "offer has enrolled students and cannot be deleted")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if err == mongo.ErrNoDocuments {
			return appErrors.Clone(appErrors.ErrNotFound, "offer not found")
		}
		return appErrors.FromError(err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromError(err)
	}

	s.logger.Info("offer deleted", zap.Int("id", id))
	return nil
}
