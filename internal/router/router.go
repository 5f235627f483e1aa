package router

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sge-edu/sge-api/internal/handler"
	"github.com/sge-edu/sge-api/internal/middleware"
	"github.com/sge-edu/sge-api/internal/service"
	"github.com/sge-edu/sge-api/pkg/config"
	"github.com/sge-edu/sge-api/pkg/logger"
	corsmiddleware "github.com/sge-edu/sge-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sge-edu/sge-api/pkg/middleware/requestid"
)

// Deps bundles everything the HTTP layer needs.
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Courses     *service.CourseService
	Professors  *service.ProfessorService
	Subjects    *service.SubjectService
	Students    *service.StudentService
	Offers      *service.OfferService
	Enrollments *service.EnrollmentService
	Reports     *service.ReportService
	Metrics     *service.MetricsService
	PingDB      func(ctx context.Context) error
}

// New assembles the gin engine with all middleware and routes.
func New(deps Deps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	courseHandler := handler.NewCourseHandler(deps.Courses, deps.Subjects)
	professorHandler := handler.NewProfessorHandler(deps.Professors)
	subjectHandler := handler.NewSubjectHandler(deps.Subjects)
	studentHandler := handler.NewStudentHandler(deps.Students)
	offerHandler := handler.NewOfferHandler(deps.Offers)
	enrollmentHandler := handler.NewEnrollmentHandler(deps.Enrollments)
	reportHandler := handler.NewReportHandler(deps.Reports)
	systemHandler := handler.NewSystemHandler(deps.Metrics, deps.PingDB)

	r.GET("/metrics", systemHandler.Prometheus)

	api := r.Group(deps.Config.APIPrefix)
	api.GET("/health", systemHandler.Health)

	courses := api.Group("/courses")
	{
		courses.POST("", courseHandler.Create)
		courses.GET("", courseHandler.List)
		courses.GET("/:id", courseHandler.Get)
		courses.PUT("/:id", courseHandler.Update)
		courses.DELETE("/:id", courseHandler.Delete)
		courses.GET("/:id/subjects", courseHandler.ListSubjects)
	}

	professors := api.Group("/professors")
	{
		professors.POST("", professorHandler.Create)
		professors.GET("", professorHandler.List)
		professors.GET("/:id", professorHandler.Get)
		professors.PUT("/:id", professorHandler.Update)
		professors.DELETE("/:id", professorHandler.Delete)
	}

	subjects := api.Group("/subjects")
	{
		subjects.POST("", subjectHandler.Create)
		subjects.GET("", subjectHandler.List)
		subjects.GET("/:subject_id/:course_id", subjectHandler.Get)
		subjects.PUT("/:subject_id/:course_id", subjectHandler.Update)
		subjects.DELETE("/:subject_id/:course_id", subjectHandler.Delete)
	}

	students := api.Group("/students")
	{
		students.POST("", studentHandler.Create)
		students.GET("", studentHandler.List)
		students.GET("/:id", studentHandler.Get)
		students.PUT("/:id", studentHandler.Update)
		students.DELETE("/:id", studentHandler.Delete)
		students.GET("/:id/enrollments", enrollmentHandler.ListByStudent)
	}

	offers := api.Group("/offers")
	{
		offers.POST("", offerHandler.Create)
		offers.GET("", offerHandler.List)
		offers.GET("/semester/:year/:semester", offerHandler.ListBySemester)
		offers.GET("/:id", offerHandler.Get)
		offers.PUT("/:id", offerHandler.Update)
		offers.DELETE("/:id", offerHandler.Delete)
		offers.GET("/:id/enrollments", enrollmentHandler.ListByOffer)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.POST("/refresh", enrollmentHandler.Refresh)
		enrollments.GET("", enrollmentHandler.List)
		enrollments.GET("/:student_id/:offer_id", enrollmentHandler.Get)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/dashboard", reportHandler.Dashboard)
		reports.GET("/course-statistics", reportHandler.CourseStatistics)
		reports.GET("/offers-complete", reportHandler.OffersComplete)
		reports.GET("/offers-complete/export", reportHandler.ExportOffers)
	}

	return r
}
