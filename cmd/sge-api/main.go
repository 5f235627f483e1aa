package main

import (
	"context"
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/sge-edu/sge-api/internal/repository"
	"github.com/sge-edu/sge-api/internal/router"
	"github.com/sge-edu/sge-api/internal/service"
	"github.com/sge-edu/sge-api/pkg/cache"
	"github.com/sge-edu/sge-api/pkg/config"
	"github.com/sge-edu/sge-api/pkg/database"
	"github.com/sge-edu/sge-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx := context.Background()

	db, err := database.NewMongo(ctx, cfg.Mongo)
	if err != nil {
		logr.Sugar().Fatalw("mongo connection failed", "error", err)
	}
	defer db.Client().Disconnect(context.Background()) //nolint:errcheck

	var cacheRepo service.CacheRepository
	if cfg.Reports.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, report cache disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()

	counterRepo := repository.NewCounterRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	professorRepo := repository.NewProfessorRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	reportRepo := repository.NewReportRepository(db)

	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Reports.CacheTTL, logr, cacheRepo != nil)

	courseSvc := service.NewCourseService(courseRepo, counterRepo, studentRepo, subjectRepo, validate, logr)
	professorSvc := service.NewProfessorService(professorRepo, counterRepo, offerRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, courseRepo, offerRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, validate, logr)
	offerSvc := service.NewOfferService(offerRepo, counterRepo, subjectRepo, professorRepo, enrollmentRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, offerRepo, cacheSvc, logr)
	reportSvc := service.NewReportService(reportRepo, cacheSvc, logr)

	engine := router.New(router.Deps{
		Config:      cfg,
		Logger:      logr,
		Courses:     courseSvc,
		Professors:  professorSvc,
		Subjects:    subjectSvc,
		Students:    studentSvc,
		Offers:      offerSvc,
		Enrollments: enrollmentSvc,
		Reports:     reportSvc,
		Metrics:     metricsSvc,
		PingDB: func(ctx context.Context) error {
			return db.Client().Ping(ctx, readpref.Primary())
		},
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := engine.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
