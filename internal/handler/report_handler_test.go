package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/models"
	"github.com/sge-edu/sge-api/internal/service"
)

type stubReportRepo struct {
	totals    models.EntityTotals
	offerRows []models.OfferReportRow
}

func (s *stubReportRepo) Totals(ctx context.Context) (models.EntityTotals, error) {
	return s.totals, nil
}

func (s *stubReportRepo) RecentPeople(ctx context.Context, collection, personType string, limit int) ([]models.RecentPerson, error) {
	return nil, nil
}

func (s *stubReportRepo) CourseStats(ctx context.Context, currentYear int) ([]models.CourseStats, error) {
	return nil, nil
}

func (s *stubReportRepo) CountEnrollmentsByOffers(ctx context.Context, offerIDs []int) (int64, error) {
	return 0, nil
}

func (s *stubReportRepo) OfferRows(ctx context.Context) ([]models.OfferReportRow, error) {
	return s.offerRows, nil
}

func newReportRouter(repo *stubReportRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewReportService(repo, nil, zap.NewNop())
	h := NewReportHandler(svc)

	r := gin.New()
	r.GET("/reports/dashboard", h.Dashboard)
	r.GET("/reports/course-statistics", h.CourseStatistics)
	r.GET("/reports/offers-complete", h.OffersComplete)
	r.GET("/reports/offers-complete/export", h.ExportOffers)
	return r
}

func TestReportHandlerDashboard(t *testing.T) {
	r := newReportRouter(&stubReportRepo{totals: models.EntityTotals{Students: 12}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/dashboard", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var report models.DashboardReport
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, int64(12), report.Totals.Students)
}

func TestReportHandlerExportCSVHeaders(t *testing.T) {
	r := newReportRouter(&stubReportRepo{offerRows: []models.OfferReportRow{
		{OfferID: 1, Year: 2025, Semester: 1, CourseName: "Computing"},
	}})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/offers-complete/export?format=csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Computing")
}

func TestReportHandlerExportDefaultsToCSV(t *testing.T) {
	r := newReportRouter(&stubReportRepo{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/offers-complete/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestReportHandlerExportUnknownFormat(t *testing.T) {
	r := newReportRouter(&stubReportRepo{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/offers-complete/export?format=xlsx", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
