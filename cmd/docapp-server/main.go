package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/docapp/docapp/internal/config"
	"github.com/docapp/docapp/internal/domain/patient"
	"github.com/docapp/docapp/internal/platform/db"
	"github.com/docapp/docapp/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:           "docapp-server",
		Short:         "Patient records API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(patientsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	return cfg, newLogger(cfg), nil
}

// store is the opened record backend.
type store struct {
	patients      patient.PatientRepository
	consultations patient.ConsultationRepository
	pinger        db.Pinger
	close         func()
}

func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			return nil, err
		}
		logger.Info().Str("store", cfg.StoreDriver).Msg("connected to record store")
		return &store{
			patients:      patient.NewPatientRepoPG(pool),
			consultations: patient.NewConsultationRepoPG(pool),
			pinger:        pool,
			close:         pool.Close,
		}, nil

	default:
		m, err := db.NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := patient.EnsureMongoIndexes(ctx, m.DB); err != nil {
			logger.Warn().Err(err).Msg("could not create consultation index")
		}
		logger.Info().Str("store", cfg.StoreDriver).Str("database", cfg.MongoDatabase).Msg("connected to record store")
		return &store{
			patients:      patient.NewPatientRepoMongo(m.DB),
			consultations: patient.NewConsultationRepoMongo(m.DB),
			pinger:        m,
			close: func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := m.Close(ctx); err != nil {
					logger.Warn().Err(err).Msg("mongo disconnect")
				}
			},
		}, nil
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

func runServer() error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	st, err := openStore(connectCtx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error().Err(err).Msg("failed to open record store")
		return err
	}
	defer st.close()

	svc := patient.NewService(st.patients, st.consultations)
	e := newServer(cfg, logger, svc, st.pinger)

	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("store", cfg.StoreDriver).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer wires middleware and routes. Recovery sits inside the logger.
func newServer(cfg *config.Config, logger zerolog.Logger, svc *patient.Service, pinger db.Pinger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.HTTPErrorHandler(logger)

	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.Sanitize(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders:  []string{echo.HeaderContentType, middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(cfg.RequestTimeout))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/health/db", db.HealthHandler(cfg.StoreDriver, pinger, logger))

	api := e.Group("/api")
	api.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}))
	patient.NewHandler(svc).RegisterRoutes(api)

	return e
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo patients into an empty store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			st, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer st.close()

			res, err := patient.NewService(st.patients, st.consultations).Seed(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d patients inserted)\n", res.Message, res.PatientsInserted)
			return nil
		},
	}
}
