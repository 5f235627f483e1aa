package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/models"
	"github.com/sge-edu/sge-api/internal/service"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
	"github.com/sge-edu/sge-api/pkg/response"
)

// SubjectHandler handles subject endpoints. Subjects are addressed by the
// composite (subject_id, course_id) pair.
type SubjectHandler struct {
	service *service.SubjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

func subjectKey(c *gin.Context) (models.SubjectKey, error) {
	subjectID, err := intParam(c, "subject_id")
	if err != nil {
		return models.SubjectKey{}, err
	}
	courseID, err := intParam(c, "course_id")
	if err != nil {
		return models.SubjectKey{}, err
	}
	return models.SubjectKey{SubjectID: subjectID, CourseID: courseID}, nil
}

// Create registers a new subject within its course.
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "subject created successfully", subject)
}

// List returns all subjects with their course names.
func (h *SubjectHandler) List(c *gin.Context) {
	subjects, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, subjects, len(subjects))
}

// Get returns a single subject by its composite key.
func (h *SubjectHandler) Get(c *gin.Context) {
	key, err := subjectKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	subject, err := h.service.Get(c.Request.Context(), key)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", subject)
}

// Update applies a partial update to a subject.
func (h *SubjectHandler) Update(c *gin.Context) {
	key, err := subjectKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Update(c.Request.Context(), key, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "subject updated successfully", nil)
}

// Delete removes a subject without offers.
func (h *SubjectHandler) Delete(c *gin.Context) {
	key, err := subjectKey(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), key); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "subject deleted successfully", nil)
}
