package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/service"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
	"github.com/sge-edu/sge-api/pkg/response"
)

// CourseHandler handles course endpoints.
type CourseHandler struct {
	courses  *service.CourseService
	subjects *service.SubjectService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(courses *service.CourseService, subjects *service.SubjectService) *CourseHandler {
	return &CourseHandler{courses: courses, subjects: subjects}
}

// Create registers a new course with a generated sequential id.
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "course created successfully", course)
}

// List returns all courses ordered by name.
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, courses, len(courses))
}

// Get returns a single course by id.
func (h *CourseHandler) Get(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	course, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", course)
}

// Update applies a partial update to a course.
func (h *CourseHandler) Update(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.courses.Update(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "course updated successfully", nil)
}

// Delete removes a course without students or subjects.
func (h *CourseHandler) Delete(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "course deleted successfully", nil)
}

// ListSubjects returns the subjects belonging to a course.
func (h *CourseHandler) ListSubjects(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	subjects, err := h.subjects.ListByCourse(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, subjects, len(subjects))
}
