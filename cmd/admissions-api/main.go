package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/gracebti/admissions-api/api/swagger"
	"github.com/gracebti/admissions-api/internal/handler"
	"github.com/gracebti/admissions-api/internal/middleware"
	"github.com/gracebti/admissions-api/internal/repository"
	"github.com/gracebti/admissions-api/internal/service"
	"github.com/gracebti/admissions-api/pkg/cache"
	"github.com/gracebti/admissions-api/pkg/config"
	"github.com/gracebti/admissions-api/pkg/database"
	"github.com/gracebti/admissions-api/pkg/imagefetch"
	"github.com/gracebti/admissions-api/pkg/jobs"
	"github.com/gracebti/admissions-api/pkg/logger"
	"github.com/gracebti/admissions-api/pkg/mailer"
	corsmiddleware "github.com/gracebti/admissions-api/pkg/middleware/cors"
	reqidmiddleware "github.com/gracebti/admissions-api/pkg/middleware/requestid"
	"github.com/gracebti/admissions-api/pkg/storage"
)

// @title Admissions API
// @version 1.0.0
// @description Enrollment intake, admin exports, and public site content
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const (
	bucketEnrollments  = "enrollments"
	bucketHeroCarousel = "hero-carousel"
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
	sugar := logr.Sugar()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	store, err := storage.NewObjectStore(cfg.Storage.BaseDir, cfg.Storage.PublicBaseURL)
	if err != nil {
		sugar.Fatalw("failed to init object store", "error", err)
	}
	for _, bucket := range []string{bucketEnrollments, bucketHeroCarousel} {
		if err := store.EnsureBucket(bucket); err != nil {
			sugar.Fatalw("failed to ensure bucket", "bucket", bucket, "error", err)
		}
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if redisClient, err := cache.NewRedis(cfg.Redis); err != nil {
		sugar.Warnw("redis unavailable, content cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Content.CacheTTL, logr, cfg.Content.CacheEnabled)
	}

	mailQueue, stopMail := buildMailQueue(cfg, logr)
	defer stopMail()

	validate := validator.New()

	enrollmentRepo := repository.NewEnrollmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	contentRepo := repository.NewContentRepository(db)
	contactRepo := repository.NewContactRepository(db)

	phoneSvc := service.NewPhoneService(logr)
	intakeSvc := service.NewIntakeService(enrollmentRepo, courseRepo, store, phoneSvc, mailQueue, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, store, logr)
	exportSvc := service.NewExportService(enrollmentRepo, imagefetch.NewFetcher(15*time.Second), nil, nil, logr)
	courseSvc := service.NewCourseService(courseRepo, cacheSvc, logr)
	contentSvc := service.NewContentService(contentRepo, store, cacheSvc, validate, logr)
	contactSvc := service.NewContactService(contactRepo, validate, logr)

	enrollmentHandler := handler.NewEnrollmentHandler(intakeSvc, enrollmentSvc, exportSvc, metricsSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	contentHandler := handler.NewContentHandler(contentSvc)
	contactHandler := handler.NewContactHandler(contactSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	// Uploaded documents and carousel images are served straight from the
	// object store directory.
	r.Static("/files", store.BaseDir())

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/courses", courseHandler.List)
		api.GET("/hero-carousel", contentHandler.HeroSlides)
		api.GET("/news-events", contentHandler.NewsEvents)
		api.GET("/testimonials", contentHandler.Testimonials)
		api.POST("/contact", contactHandler.Submit)

		enrollments := api.Group("/enrollments")
		{
			enrollments.POST("", enrollmentHandler.Submit)
			enrollments.POST("/phone-check", enrollmentHandler.CheckPhone)
			enrollments.POST("/validate/step1", enrollmentHandler.ValidateStep1)
			enrollments.POST("/validate/step2", enrollmentHandler.ValidateStep2)
			enrollments.POST("/validate/step3", enrollmentHandler.ValidateStep3)
		}

		admin := api.Group("/admin", middleware.AdminJWT(cfg.Auth.JWTSecret))
		{
			admin.GET("/enrollments", enrollmentHandler.List)
			admin.GET("/enrollments/export", enrollmentHandler.ExportCSV)
			admin.GET("/enrollments/:id", enrollmentHandler.Detail)
			admin.DELETE("/enrollments/:id", enrollmentHandler.Delete)
			admin.GET("/enrollments/:id/export", enrollmentHandler.ExportPDF)

			admin.GET("/hero-carousel", contentHandler.AdminHeroSlides)
			admin.POST("/hero-carousel", contentHandler.CreateHeroSlide)
			admin.PUT("/hero-carousel/:id", contentHandler.UpdateHeroSlide)
			admin.DELETE("/hero-carousel/:id", contentHandler.DeleteHeroSlide)

			admin.POST("/news-events", contentHandler.CreateNewsEvent)
			admin.PUT("/news-events/:id", contentHandler.UpdateNewsEvent)
			admin.DELETE("/news-events/:id", contentHandler.DeleteNewsEvent)

			admin.POST("/testimonials", contentHandler.CreateTestimonial)
			admin.PUT("/testimonials/:id", contentHandler.UpdateTestimonial)
			admin.DELETE("/testimonials/:id", contentHandler.DeleteTestimonial)

			admin.GET("/contact-submissions", contactHandler.List)
			admin.POST("/contact-submissions/:id/read", contactHandler.MarkRead)
			admin.DELETE("/contact-submissions/:id", contactHandler.Delete)
		}
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		sugar.Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Infow("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("graceful shutdown failed", "error", err)
	}
	sugar.Infow("server stopped")
}

// buildMailQueue wires the confirmation email worker. When outbound mail is
// disabled the queue still runs, dropping messages through the nop mailer so
// submissions behave identically in every environment.
func buildMailQueue(cfg *config.Config, logr *zap.Logger) (*jobs.Queue, func()) {
	var sender mailer.Mailer = mailer.NopMailer{}
	if cfg.Mail.Enabled {
		sg, err := mailer.NewSendgridMailer(cfg.Mail.SendgridAPIKey, cfg.Mail.FromName, cfg.Mail.FromAddress, logr)
		if err != nil {
			logr.Sugar().Warnw("confirmation mail disabled", "error", err)
		} else {
			sender = sg
		}
	}

	queue := jobs.NewQueue("confirmation-email", confirmationEmailHandler(sender, logr), jobs.QueueConfig{
		Workers:    cfg.Mail.QueueWorkers,
		MaxRetries: cfg.Mail.QueueRetries,
		RetryDelay: 30 * time.Second,
		Logger:     logr,
	})
	queue.Start(context.Background())
	return queue, queue.Stop
}

func confirmationEmailHandler(sender mailer.Mailer, logr *zap.Logger) jobs.Handler {
	return func(ctx context.Context, job jobs.Job) error {
		payload, ok := job.Payload.(service.ConfirmationEmailPayload)
		if !ok {
			logr.Sugar().Errorw("unexpected mail job payload", "job_id", job.ID)
			return nil
		}

		course := payload.CourseTitle
		if course == "" {
			course = "your selected programme"
		}
		msg := mailer.Message{
			ToName:    payload.Name,
			ToAddress: payload.Email,
			Subject:   "We received your enrollment application",
			PlainBody: fmt.Sprintf(
				"Dear %s,\n\nThank you for applying to %s. Your application (reference %s) has been received and is under review. The admissions office will contact you with next steps.\n\nGod bless,\nAdmissions Office",
				payload.Name, course, payload.EnrollmentID,
			),
		}
		return sender.Send(ctx, msg)
	}
}
