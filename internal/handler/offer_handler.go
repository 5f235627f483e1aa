package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/service"
	appErrors "github.com/sge-edu/sge-api/pkg/errors"
	"github.com/sge-edu/sge-api/pkg/response"
)

// OfferHandler handles offer endpoints.
type OfferHandler struct {
	service *service.OfferService
}

// NewOfferHandler constructs an offer handler.
func NewOfferHandler(svc *service.OfferService) *OfferHandler {
	return &OfferHandler{service: svc}
}

// Create registers a new offer referencing an existing subject and professor.
func (h *OfferHandler) Create(c *gin.Context) {
	var req service.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	offer, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "offer created successfully", offer)
}

// List returns all offers with joined display names.
func (h *OfferHandler) List(c *gin.Context) {
	offers, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, offers, len(offers))
}

// ListBySemester returns the offers of a single academic term.
func (h *OfferHandler) ListBySemester(c *gin.Context) {
	year, err := intParam(c, "year")
	if err != nil {
		response.Error(c, err)
		return
	}
	semester, err := intParam(c, "semester")
	if err != nil {
		response.Error(c, err)
		return
	}
	offers, err := h.service.ListBySemester(c.Request.Context(), year, semester)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, offers, len(offers))
}

// Get returns a single offer by id.
func (h *OfferHandler) Get(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	offer, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", offer)
}

// Update applies a partial update to an offer.
func (h *OfferHandler) Update(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "offer updated successfully", nil)
}

// Delete removes an offer without enrollments.
func (h *OfferHandler) Delete(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "offer deleted successfully", nil)
}
