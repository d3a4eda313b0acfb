package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	api "github.com/tentamen-io/tentamen/internal/api/http"
	"github.com/tentamen-io/tentamen/internal/audit"
	auth "github.com/tentamen-io/tentamen/internal/auth/middleware"
	"github.com/tentamen-io/tentamen/internal/config"
	"github.com/tentamen-io/tentamen/internal/dashboard"
	"github.com/tentamen-io/tentamen/internal/db"
	"github.com/tentamen-io/tentamen/internal/exam"
	"github.com/tentamen-io/tentamen/internal/rbac"
	"github.com/tentamen-io/tentamen/internal/record"
	"github.com/tentamen-io/tentamen/internal/registry"
	"github.com/tentamen-io/tentamen/internal/review"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := exam.NewSQLStore(dbh, cfg.DBDriver)
	events := audit.NewEventRepo(dbh)

	if err := db.EnsureAdmin(ctx, dbh, cfg.AdminUser, cfg.AdminPassHash); err != nil {
		log.Fatalf("admin seed failed: %v", err)
	}

	// --- Auth ---
	authSvc := auth.NewAuthService(cfg.AuthSecret)

	// --- Engine collaborators ---
	notifier := api.NewConfigNotifier(store, events)
	reviewSvc := review.NewService(api.NewScoreAuditor(store, events))
	local := registry.NewSQLRegistry(dbh, events)
	var collab record.Collaborative
	if cfg.RegistryBaseURL != "" {
		collab = registry.NewClient(cfg.RegistryBaseURL)
	}
	gate := record.NewGate(local, collab, store)
	now := time.Now

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, dbh))

	// Protected API (JWT → subject+role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("dashboard:view")).
			Get("/dashboard", api.DashboardHandler(store, now, dashboard.CountFromChildren))

		pr.With(rbac.Require("exam:create")).
			Post("/exams", api.CreateExamHandler(store))
		pr.With(rbac.Require("exam:view")).
			Get("/exams/{examID}", api.GetExamHandler(store))
		pr.With(rbac.Require("exam:update")).
			Put("/exams/{examID}", api.UpdateExamHandler(store))
		pr.With(rbac.Require("exam:publish")).
			Post("/exams/{examID}/publish", api.PublishExamHandler(store))

		pr.With(rbac.Require("exam:configure_evaluation")).
			Put("/exams/{examID}/evaluation-config", api.InitEvaluationConfigHandler(store, notifier))
		pr.With(rbac.Require("exam:configure_evaluation")).
			Put("/exams/{examID}/evaluation-config/release-type", api.SelectReleaseTypeHandler(store, notifier))
		pr.With(rbac.Require("exam:configure_evaluation")).
			Put("/exams/{examID}/evaluation-config/percentage", api.SetPercentageHandler(store, notifier))

		pr.With(rbac.Require("review:view")).
			Get("/reviews", api.ListReviewsHandler(store))
		pr.With(rbac.Require("review:view")).
			Get("/reviews/{examID}", api.GetReviewHandler(store))
		pr.With(rbac.Require("review:grade")).
			Put("/reviews/{examID}/question/{questionID}/score", api.SaveEssayScoreHandler(store, reviewSvc))
		pr.With(rbac.Require("record:submit")).
			Put("/reviews/{examID}/record", api.SubmitRecordHandler(store, gate))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
