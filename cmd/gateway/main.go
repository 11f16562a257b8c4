package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	api "github.com/safetydesk/trainportal/internal/api/http"
	auth "github.com/safetydesk/trainportal/internal/auth/middleware"
	"github.com/safetydesk/trainportal/internal/biometric"
	"github.com/safetydesk/trainportal/internal/calendar"
	"github.com/safetydesk/trainportal/internal/config"
	"github.com/safetydesk/trainportal/internal/db"
	"github.com/safetydesk/trainportal/internal/instruction"
	"github.com/safetydesk/trainportal/internal/quiz"
	"github.com/safetydesk/trainportal/internal/rbac"
	"github.com/safetydesk/trainportal/internal/results"
	"github.com/safetydesk/trainportal/internal/submit"
	syncx "github.com/safetydesk/trainportal/internal/sync"
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

	quizzes := quiz.NewSQLStore(dbh)
	instructions := instruction.NewSQLStore(dbh)
	resultStore := results.NewSQLStore(dbh)
	recorder := results.NewRecorder(resultStore, nil)
	agg := calendar.New(resultStore)
	events := syncx.NewEventRepo(dbh)

	sealer, err := biometric.NewSealer(cfg.BiometricSecret)
	if err != nil {
		log.Fatalf("biometric sealer: %v", err)
	}
	submitter := submit.NewHTTPSubmitter(cfg.SubmitBaseURL, cfg.SubmitTimeout)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret, cfg.AdminUser, cfg.AdminPassHash)

	quizAPI := api.NewQuizAPI(quizzes, recorder, events)
	ackDeps := api.AckDeps{
		Instructions: instructions,
		Sealer:       sealer,
		Submitter:    submitter,
		Recorder:     recorder,
		Events:       events,
		Required:     cfg.RequiredAgreements,
	}

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

	r.Post("/auth/login", auth.LoginHandler(authSvc))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		// Instructions
		pr.With(rbac.Require("instruction:create")).
			Post("/instructions", api.PutInstructionHandler(instructions))
		pr.With(rbac.Require("instruction:view")).
			Get("/instructions/{instructionID}", api.GetInstructionHandler(instructions))
		pr.With(rbac.Require("instruction:ack")).
			Post("/instructions/{instructionID}/acknowledge", api.AcknowledgeHandler(ackDeps))

		// Quizzes and sessions
		pr.With(rbac.Require("quiz:create")).
			Post("/quizzes", quizAPI.PutQuizHandler())
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", quizAPI.GetQuizHandler())
		pr.With(rbac.Require("quiz:take")).
			Post("/quizzes/{quizID}/sessions", quizAPI.StartSessionHandler())
		pr.With(rbac.Require("quiz:take")).
			Post("/sessions/{sessionID}/select", quizAPI.SelectAnswerHandler())
		pr.With(rbac.Require("quiz:take")).
			Post("/sessions/{sessionID}/check", quizAPI.CheckHandler())
		pr.With(rbac.Require("quiz:take")).
			Post("/sessions/{sessionID}/advance", quizAPI.AdvanceHandler())
		pr.With(rbac.Require("quiz:take")).
			Post("/sessions/{sessionID}/complete", quizAPI.CompleteSessionHandler())
		pr.With(rbac.Require("quiz:take")).
			Delete("/sessions/{sessionID}", quizAPI.AbandonSessionHandler())

		// Results calendar (own records; ?user= widens for view-all)
		pr.With(rbac.RequireAny("results:view-own", "results:view-all")).
			Get("/calendar/day", api.DayEventsHandler(agg))
		pr.With(rbac.RequireAny("results:view-own", "results:view-all")).
			Get("/calendar/month", api.MonthEventsHandler(agg))

		pr.Get("/capabilities", api.CapabilitiesHandler(biometric.DialogMode(cfg.BiometricDialog)))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
