package routes

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"soberquest/adminapi"
	"soberquest/controllers"
	"soberquest/middleware"
	"soberquest/store"
)

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "soberquest-api",
	})
}

func optionsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// InitRouter wires controllers, CORS and rate limiters. The webhook route
// sits behind its own limiter so a misbehaving sender cannot starve the
// public API.
func InitRouter(st *store.Store, client *adminapi.Client) *mux.Router {
	r := mux.NewRouter()

	// Health check endpoint for Docker health checks (root level)
	r.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	// CORS - origins from CORS_ALLOWED_ORIGINS (comma-separated) or defaults
	origins := []string{
		"http://localhost:3000", "http://127.0.0.1:3000",
	}
	if originsEnv := os.Getenv("CORS_ALLOWED_ORIGINS"); originsEnv != "" {
		for _, p := range strings.Split(originsEnv, ",") {
			if o := strings.TrimSpace(p); o != "" {
				origins = append(origins, o)
			}
		}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type", "X-Requested-With", "X-Request-ID"}),
			handlers.AllowCredentials(),
		)(next)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.PathPrefix("/").HandlerFunc(optionsHandler).Methods(http.MethodOptions)

	// Rate limiter for proof submissions: 60/hour per IP
	submitLimiter := middleware.NewIPRateLimiter(60, time.Hour)
	// Rate limiter for webhooks: 500/hour per IP, whitelist, sliding window
	webhookWhitelist := []string{}
	if v := os.Getenv("WEBHOOK_IP_WHITELIST"); v != "" {
		webhookWhitelist = strings.Split(v, ",")
	}
	webhookLimiter := middleware.NewWebhookLimiter(500, time.Hour, webhookWhitelist)

	resolver := adminapi.NewTitleMatchResolver(client)

	submitController := controllers.NewSubmitController(client, resolver)
	webhookController := controllers.NewWebhookController(st, os.Getenv("ADMIN_WEBHOOK_SECRET"))
	statsController := controllers.NewStatsController(client, st)
	userStatsController := controllers.NewUserStatsController(client)
	leaderboardController := controllers.NewLeaderboardController(client)
	activityController := controllers.NewActivityController(st)
	statusController := controllers.NewStatusController(client, st)

	// Task catalog
	api.HandleFunc("/tasks", controllers.TasksHandler).Methods(http.MethodGet)

	// Proof submission pipeline
	api.Handle("/submit-task", submitLimiter.Middleware(http.HandlerFunc(submitController.Handle))).Methods(http.MethodPost)

	// Admin server webhook (signed with ADMIN_WEBHOOK_SECRET)
	api.Handle("/webhooks/admin", webhookLimiter.Middleware(http.HandlerFunc(webhookController.Handle))).Methods(http.MethodPost)

	// Read APIs consumed by the presentation layer's polling
	api.HandleFunc("/global-stats", statsController.Handle).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", leaderboardController.Handle).Methods(http.MethodGet)
	api.HandleFunc("/user-stats", userStatsController.Handle).Methods(http.MethodPost)
	api.HandleFunc("/activity", activityController.Handle).Methods(http.MethodGet)
	api.HandleFunc("/submission/status", statusController.Handle).Methods(http.MethodPost)

	// Health check under the API prefix as well
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}
