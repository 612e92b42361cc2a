package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/database"
	"github.com/librekpi/backend/internal/handler"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/repository"
	"github.com/librekpi/backend/internal/router"
	"github.com/librekpi/backend/internal/service"
	"github.com/librekpi/backend/internal/social"
	"github.com/librekpi/backend/internal/validator"
	"github.com/librekpi/backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting LibreKPI Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to MongoDB ────────────────────────────────────────────
	db, err := database.NewMongoDatabase(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	majorRepo := repository.NewMajorRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// ─── Initialize Services ──────────────────────────────────────────
	socialClient := social.NewClient(cfg.SocialProviders, log)
	activity := service.NewActivityRecorder(rdb, log)

	authService := service.NewAuthService(cfg, rdb, userRepo, socialClient, log)
	majorService := service.NewMajorService(majorRepo, courseRepo, rdb, cfg, log)
	courseService := service.NewCourseService(courseRepo, majorRepo, teacherRepo, lectureRepo, ratingRepo, commentRepo, rdb, cfg, activity, log)
	teacherService := service.NewTeacherService(teacherRepo, courseRepo, ratingRepo, rdb, activity, log)
	lectureService := service.NewLectureService(lectureRepo, courseRepo, log)
	feedbackService := service.NewFeedbackService(ratingRepo, commentRepo, courseRepo, teacherRepo, rdb, cfg, log)
	userService := service.NewUserService(userRepo, ratingRepo, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService, userService, log),
		Major:     handler.NewMajorHandler(majorService, courseService, log),
		Course:    handler.NewCourseHandler(courseService, feedbackService, log),
		Lecture:   handler.NewLectureHandler(lectureService, log),
		Teacher:   handler.NewTeacherHandler(teacherService, courseService, feedbackService, log),
		Feedback:  handler.NewFeedbackHandler(feedbackService, userService, log),
		UserAdmin: handler.NewUserAdminHandler(userService, authService, log),
		WS:        handler.NewWSHandler(rdb, cfg, log),
		System:    handler.NewSystemHandler(db, rdb, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	ratingWorker := worker.NewRatingWorker(ratingRepo, rdb, cfg, log)
	activityWorker := worker.NewActivityWorker(courseRepo, teacherRepo, rdb, log)

	workerDone := make(chan struct{}, 2)
	go func() { ratingWorker.Start(workerCtx); workerDone <- struct{}{} }()
	go func() { activityWorker.Start(workerCtx); workerDone <- struct{}{} }()

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load the majors listing and per-major course lists BEFORE
	// accepting traffic, so the first wave of readers never stampedes
	// the database.
	if _, err := majorService.GetAllMajors(ctx); err != nil {
		log.Warn().Err(err).Msg("Majors cache prewarm failed")
	}
	if err := courseService.PrewarmCourseLists(ctx); err != nil {
		log.Warn().Err(err).Msg("Course list cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers; each drains its queue before exiting
	//    so accepted ratings and view events reach Mongo.
	workerCancel()
	drainDeadline := time.After(10 * time.Second)
	for stopped := 0; stopped < 2; {
		select {
		case <-workerDone:
			stopped++
		case <-drainDeadline:
			log.Warn().Msg("Worker drain deadline exceeded")
			stopped = 2
		}
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
