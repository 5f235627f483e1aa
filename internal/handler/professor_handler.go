package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/service"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
	"github.com/sge-edu/sge-api/pkg/response"
)

// ProfessorHandler handles professor endpoints.
type ProfessorHandler struct {
	service *service.ProfessorService
}

// NewProfessorHandler constructs a professor handler.
func NewProfessorHandler(svc *service.ProfessorService) *ProfessorHandler {
	return &ProfessorHandler{service: svc}
}

// Create registers a new professor.
func (h *ProfessorHandler) Create(c *gin.Context) {
	var req service.CreateProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	professor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "professor created successfully", professor)
}

// List returns all professors ordered by name.
func (h *ProfessorHandler) List(c *gin.Context) {
	professors, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, professors, len(professors))
}

// Get returns a single professor by id.
func (h *ProfessorHandler) Get(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	professor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", professor)
}

// Update applies a partial update to a professor.
func (h *ProfessorHandler) Update(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateProfessorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "professor updated successfully", nil)
}

// Delete removes a professor without offers.
func (h *ProfessorHandler) Delete(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "professor deleted successfully", nil)
}
