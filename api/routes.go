package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rialo-labs/builders-arena/internal/arena"
	"github.com/rialo-labs/builders-arena/internal/config"
	"github.com/rialo-labs/builders-arena/internal/db"
	"github.com/rialo-labs/builders-arena/internal/repository/sqlite"
	"github.com/rialo-labs/builders-arena/pkg/github"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB, gh *github.Client) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Repository and business rules
	store := sqlite.New(db, nil)
	ledger := arena.NewLedger(store, logger)
	reconciler := arena.NewReconciler(store, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(cfg.JWTSecret, cfg.CallbackSecret, cfg.AdminPINHash, cfg.TokenDuration, cfg.AdminTokenDuration)
	voteHandler := NewVoteHandler(ledger)
	eventsHandler := NewEventsHandler(store, reconciler)
	participantsHandler := NewParticipantsHandler(store, reconciler)
	profilesHandler := NewProfilesHandler(store)
	settingsHandler := NewSettingsHandler(store)
	githubHandler := NewGitHubHandler(gh)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/v1/auth/session", authHandler.MintSession).Methods("POST")
	r.HandleFunc("/v1/admin/verify-pin", authHandler.VerifyPIN).Methods("POST")

	r.HandleFunc("/v1/events", eventsHandler.List).Methods("GET")
	r.HandleFunc("/v1/events/{id}/participants", participantsHandler.ListByEvent).Methods("GET")
	r.HandleFunc("/v1/profiles", profilesHandler.List).Methods("GET")
	r.HandleFunc("/v1/profiles/{discordID}", profilesHandler.Get).Methods("GET")
	r.HandleFunc("/v1/winners", profilesHandler.Winners).Methods("GET")
	r.HandleFunc("/v1/settings", settingsHandler.Get).Methods("GET")
	r.HandleFunc("/v1/github/{username}", githubHandler.Get).Methods("GET")

	// Voting requires a member session
	voteV1 := r.PathPrefix("/v1/vote").Subrouter()
	voteV1.Use(SessionAuthMiddlewareWithSecret(cfg.JWTSecret))
	voteV1.HandleFunc("", voteHandler.Cast).Methods("POST")

	// Admin console endpoints, gated by the PIN-derived token
	adminV1 := r.PathPrefix("/v1/admin").Subrouter()
	adminV1.Use(AdminAuthMiddlewareWithSecret(cfg.JWTSecret))
	adminV1.HandleFunc("/events", eventsHandler.Create).Methods("POST")
	adminV1.HandleFunc("/events", eventsHandler.Update).Methods("PATCH")
	adminV1.HandleFunc("/events", eventsHandler.Delete).Methods("DELETE")
	adminV1.HandleFunc("/participants", participantsHandler.Create).Methods("POST")
	adminV1.HandleFunc("/participants", participantsHandler.Patch).Methods("PATCH")
	adminV1.HandleFunc("/participants", participantsHandler.Put).Methods("PUT")
	adminV1.HandleFunc("/participants", participantsHandler.Delete).Methods("DELETE")
	adminV1.HandleFunc("/settings", settingsHandler.Update).Methods("PATCH")

	return r
}
