package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/service"
	"github.com/sge-edu/sge-api/pkg/response"
)

// EnrollmentHandler handles derived enrollment endpoints. Enrollments have no
// create/update/delete of their own, only the full rebuild.
type EnrollmentHandler struct {
	service *service.EnrollmentService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(svc *service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// Refresh drops and recomputes the whole enrollments collection.
func (h *EnrollmentHandler) Refresh(c *gin.Context) {
	count, err := h.service.Rebuild(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fmt.Sprintf("enrollments rebuilt successfully: %d records", count), gin.H{"total": count})
}

// List returns all enrollments with joined student, offer and course data.
func (h *EnrollmentHandler) List(c *gin.Context) {
	enrollments, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, enrollments, len(enrollments))
}

// ListByStudent returns the enrollments of a single student.
func (h *EnrollmentHandler) ListByStudent(c *gin.Context) {
	matricula, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollments, err := h.service.ListByStudent(c.Request.Context(), matricula)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, enrollments, len(enrollments))
}

// ListByOffer returns the enrollments of a single offer.
func (h *EnrollmentHandler) ListByOffer(c *gin.Context) {
	offerID, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollments, err := h.service.ListByOffer(c.Request.Context(), offerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, enrollments, len(enrollments))
}

// Get returns a single (student, offer) enrollment pair.
func (h *EnrollmentHandler) Get(c *gin.Context) {
	matricula, err := intParam(c, "student_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	offerID, err := intParam(c, "offer_id")
	if err != nil {
		response.Error(c, err)
		return
	}
	enrollment, err := h.service.Get(c.Request.Context(), matricula, offerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", enrollment)
}
