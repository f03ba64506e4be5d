package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/broadcast"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/config"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler"
	actionHandler "github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler/action"
	authHandler "github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler/auth"
	departmentHandler "github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler/department"
	eventsHandler "github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler/events"
	patientHandler "github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/handler/patient"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/middleware"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/repository/memory"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/router"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/seed"
	authService "github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/auth"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/policy"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/rbac"
	workflowService "github.com/bhavikekalathur-spec/patient-clinical-workflow/internal/service/workflow"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/auth"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/logger"
	"github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/messaging"
	redisBroker "github.com/bhavikekalathur-spec/patient-clinical-workflow/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	// Identity registry and policy engine
	registry := rbac.NewService()
	if err := seed.Users(registry); err != nil {
		log.Fatal().Err(err).Msg("failed to register users")
	}
	policySvc := policy.NewService(registry)

	// Workflow store
	patientRepo := memory.NewPatientRepository()
	actionRepo := memory.NewActionRepository()

	if cfg.Seed {
		if err := seed.SampleData(context.Background(), patientRepo, actionRepo); err != nil {
			log.Fatal().Err(err).Msg("failed to seed sample data")
		}
	}

	// Event delivery: redis pub/sub when configured, in-process otherwise
	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
	} else {
		broker = messaging.NewMemoryBroker()
	}
	defer broker.Close()

	hub := broadcast.NewHub(broker, policySvc, appLogger.Zerolog())

	// Services
	workflowSvc := workflowService.NewService(patientRepo, actionRepo, policySvc, hub)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(registry, jwtSvc, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)

	// Handlers and router
	authMiddleware := middleware.NewAuthMiddleware(authSvc)
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		patientHandler.NewHandler(workflowSvc, policySvc),
		actionHandler.NewHandler(workflowSvc, policySvc),
		departmentHandler.NewHandler(),
		eventsHandler.NewHandler(hub),
		handler.NewHandler(),
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RPS),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinical_workflow",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
