package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"healthbridge/internal/account"
	"healthbridge/internal/agent"
	"healthbridge/internal/config"
	"healthbridge/internal/consultation"
	"healthbridge/internal/dashboard"
	"healthbridge/internal/education"
	"healthbridge/internal/locator"
	"healthbridge/internal/platform/db"
	"healthbridge/internal/platform/httpx"
	"healthbridge/internal/platform/logging"
	"healthbridge/internal/platform/middleware"
	"healthbridge/internal/platform/twilio"
	"healthbridge/internal/report"
	"healthbridge/internal/symptom"
	"healthbridge/internal/triage"
)

const dbConnectAttempts = 10

// app holds everything the router mounts.
type app struct {
	logger      zerolog.Logger
	corsOrigins []string
	db          *sql.DB
	tokens      *account.TokenManager

	symptoms      *symptom.Handler
	accounts      *account.Handler
	triage        *triage.Handler
	consultations *consultation.Handler
	reports       *report.Handler
	dashboard     *dashboard.Handler
	locator       *locator.Handler
	education     *education.Handler
}

func newApp(cfg *config.Config, logger zerolog.Logger, conn *sql.DB) (*app, error) {
	services, err := locator.Load()
	if err != nil {
		return nil, err
	}
	library, err := education.Load()
	if err != nil {
		return nil, err
	}

	tokens := account.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	accountRepo := account.NewRepository(conn)
	reportRepo := report.NewRepository(conn)
	consultationRepo := consultation.NewRepository(conn)

	accountSvc := account.NewService(accountRepo, tokens, account.DefaultBcryptCost, logging.Component(logger, "account"))
	triageSvc := triage.NewService(agent.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel), logging.Component(logger, "triage"))
	consultationSvc := consultation.NewService(consultationRepo, logging.Component(logger, "consultation"))
	reportSvc := report.NewService(reportRepo, accountRepo, report.NewPDFRenderer(), logging.Component(logger, "report"))
	alerter := report.NewAlerter(report.AlertConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		From:       cfg.TwilioPhoneNumber,
		Doctors:    cfg.DoctorPhoneNumbers,
		BaseURL:    cfg.PublicBaseURL,
	}, twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber), logging.Component(logger, "sms"))
	dashboardSvc := dashboard.NewService(accountRepo, reportRepo, consultationRepo, logging.Component(logger, "dashboard"))

	return &app{
		logger:        logger,
		corsOrigins:   cfg.CORSOrigins,
		db:            conn,
		tokens:        tokens,
		symptoms:      symptom.NewHandler(logging.Component(logger, "symptom")),
		accounts:      account.NewHandler(accountSvc, logger),
		triage:        triage.NewHandler(triageSvc, consultationSvc, logger),
		consultations: consultation.NewHandler(consultationSvc, logger),
		reports:       report.NewHandler(reportSvc, alerter, logger),
		dashboard:     dashboard.NewHandler(dashboardSvc, logger),
		locator:       locator.NewHandler(services),
		education:     education.NewHandler(library),
	}, nil
}

func (a *app) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]string{"status": "ok"}
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.PingContext(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "unreachable"
		}
	}
	httpx.WriteJSON(w, status, body)
}

func (a *app) router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.Logger(a.logger))
	r.Use(middleware.CORS(a.corsOrigins))

	r.Get("/health", a.health)

	r.Route("/api", func(r chi.Router) {
		symptom.RegisterRoutes(r, a.symptoms)
		account.RegisterRoutes(r, a.accounts)
		locator.RegisterRoutes(r, a.locator)
		education.RegisterRoutes(r, a.education)

		r.Group(func(r chi.Router) {
			r.Use(account.OptionalAuth(a.tokens))
			triage.RegisterRoutes(r, a.triage)
		})

		r.Group(func(r chi.Router) {
			r.Use(account.RequireAuth(a.tokens))
			consultation.RegisterRoutes(r, a.consultations)
			report.RegisterRoutes(r, a.reports)
			dashboard.RegisterRoutes(r, a.dashboard)
		})
	})
	return r
}

func runServer(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(cfg.Env, os.Stdout)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseURL, dbConnectAttempts, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	m, err := db.NewMigrator(cfg.MigrationsDir, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	changed, err := m.Up()
	m.Close()
	if err != nil {
		return err
	}
	logger.Info().Bool("changed", changed).Msg("migrations applied")

	if !cfg.TwilioConfigured() {
		logger.Warn().Msg("twilio is not configured; sms alerts will be rejected")
	}
	if !cfg.IsDev() && slices.Contains(cfg.CORSOrigins, "*") {
		logger.Warn().Str("env", cfg.Env).Msg("CORS allows any origin outside development")
	}
	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is empty; chatbot analysis will fail")
	}

	a, err := newApp(cfg, logger, conn)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
