package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/service"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
	"github.com/sge-edu/sge-api/pkg/response"
)

// StudentHandler handles student endpoints.
type StudentHandler struct {
	service *service.StudentService
}

// NewStudentHandler constructs a student handler.
func NewStudentHandler(svc *service.StudentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Create registers a new student with a generated matricula.
func (h *StudentHandler) Create(c *gin.Context) {
	var req service.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "student created successfully", student)
}

// List returns all students ordered by name.
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, students, len(students))
}

// Get returns a single student by matricula.
func (h *StudentHandler) Get(c *gin.Context) {
	matricula, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	student, err := h.service.Get(c.Request.Context(), matricula)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", student)
}

// Update applies a partial update to a student.
func (h *StudentHandler) Update(c *gin.Context) {
	matricula, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Update(c.Request.Context(), matricula, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "student updated successfully", nil)
}

// Delete removes a student without enrollments.
func (h *StudentHandler) Delete(c *gin.Context) {
	matricula, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), matricula); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "student deleted successfully", nil)
}
