package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tnav/tnav/internal/config"
	"github.com/tnav/tnav/internal/domain/assistant"
	"github.com/tnav/tnav/internal/domain/checklist"
	"github.com/tnav/tnav/internal/domain/finance"
	"github.com/tnav/tnav/internal/domain/pathway"
	"github.com/tnav/tnav/internal/domain/patient"
	"github.com/tnav/tnav/internal/domain/questionnaire"
	"github.com/tnav/tnav/internal/domain/referral"
	"github.com/tnav/tnav/internal/platform/auth"
	"github.com/tnav/tnav/internal/platform/db"
	"github.com/tnav/tnav/internal/platform/llm"
	"github.com/tnav/tnav/internal/platform/middleware"
)

// patientDirectory adapts the patient repository to the existence checks the
// questionnaire, checklist, and finance services need, avoiding circular
// imports between those packages and the patient package.
type patientDirectory struct {
	repo patient.Repository
}

func (d patientDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := d.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "tnav-server",
		Short: "Transplant Navigator API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Device-ID"},
	}))

	// Auth middleware
	if cfg.ResolvedAuthMode() == "development" {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Secret: []byte(cfg.JWTSecret),
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")
	apiV1.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))

	// Reference data
	questionCatalog := questionnaire.NewCatalog(cfg.QuestionsFile, logger)
	centerDirectory := referral.NewDirectory(cfg.CentersFile, logger)

	// Repositories
	patientRepo := patient.NewRepoPG(pool)
	submissionRepo := questionnaire.NewRepoPG(pool)
	checklistRepo := checklist.NewRepoPG(pool)
	statusRepo := pathway.NewRepoPG(pool)
	referralRepo := referral.NewRepoPG(pool)
	financeRepo := finance.NewRepoPG(pool)

	patients := patientDirectory{repo: patientRepo}

	// Services
	patientSvc := patient.NewService(patientRepo, logger)
	questionnaireSvc := questionnaire.NewService(submissionRepo, patients, questionCatalog, logger)
	checklistSvc := checklist.NewService(checklistRepo, patients, logger)
	pathwaySvc := pathway.NewService(statusRepo, submissionRepo, checklistRepo, patientRepo, questionCatalog, logger)
	referralSvc := referral.NewService(referralRepo, patientRepo, centerDirectory, logger)
	financeSvc := finance.NewService(financeRepo, patients)

	llmClient := llm.NewClient(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	contextBuilder := assistant.NewContextBuilder(patientRepo, pathwaySvc, checklistRepo, submissionRepo, referralRepo)
	assistantSvc := assistant.NewService(contextBuilder, llmClient, logger)

	// Cross-domain triggers: every questionnaire submission and checklist
	// change refreshes the stored status; intake seeds the checklist and the
	// initial status; referral updates mirror the patient flag.
	questionnaireSvc.SetStatusRecomputer(pathwaySvc)
	checklistSvc.SetStatusRecomputer(pathwaySvc)
	patientSvc.SetChecklistSeeder(checklistSvc)
	patientSvc.SetStatusInitializer(pathwaySvc)
	referralSvc.SetPatientFlagSetter(patientSvc)

	// Handlers
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	questionnaire.NewHandler(questionnaireSvc).RegisterRoutes(apiV1)
	checklist.NewHandler(checklistSvc).RegisterRoutes(apiV1)
	pathway.NewHandler(pathwaySvc).RegisterRoutes(apiV1)
	referral.NewHandler(referralSvc).RegisterRoutes(apiV1)
	finance.NewHandler(financeSvc).RegisterRoutes(apiV1)
	assistant.NewHandler(assistantSvc).RegisterRoutes(apiV1)

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
