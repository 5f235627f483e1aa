package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sge-edu/sge-api/internal/service"
	"github.com/sge-edu/sge-api/pkg/response"
)

// ReportHandler handles the read-only aggregation endpoints.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Dashboard returns per-entity totals and the most recent people.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	report, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", report)
}

// CourseStatistics returns per-course aggregates with system shares.
func (h *ReportHandler) CourseStatistics(c *gin.Context) {
	report, err := h.service.CourseStatistics(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", report)
}

// OffersComplete returns the denormalized per-offer report.
func (h *ReportHandler) OffersComplete(c *gin.Context) {
	report, err := h.service.OffersComplete(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "", report)
}

// ExportOffers streams the offers report as a CSV or PDF attachment.
func (h *ReportHandler) ExportOffers(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportOffers(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	filename := fmt.Sprintf("offers-report-%s.%s", time.Now().Format("20060102"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
