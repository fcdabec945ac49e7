// Package server exposes the HTTP and websocket surface: auth, the
// transaction API, the dashboard read model, chat, and the live voice
// bridge.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hoangnt/moneytalk/internal/auth"
	"github.com/hoangnt/moneytalk/internal/book"
	"github.com/hoangnt/moneytalk/internal/config"
	"github.com/hoangnt/moneytalk/internal/middleware"
	"github.com/hoangnt/moneytalk/internal/service"
	"github.com/hoangnt/moneytalk/internal/storage"
)

// Server wires the domain services to routes.
type Server struct {
	store         storage.Store
	authenticator *auth.PasswordAuthenticator
	jwt           *auth.JWTManager
	shelf         *book.Shelf
	chat          *service.ChatService
	dashboard     *service.DashboardService
	voiceCfg      config.Voice
	voiceAPIKey   string
}

// New creates a Server.
func New(
	store storage.Store,
	authenticator *auth.PasswordAuthenticator,
	jwt *auth.JWTManager,
	shelf *book.Shelf,
	chat *service.ChatService,
	dashboard *service.DashboardService,
	cfg *config.Config,
) *Server {
	return &Server{
		store:         store,
		authenticator: authenticator,
		jwt:           jwt,
		shelf:         shelf,
		chat:          chat,
		dashboard:     dashboard,
		voiceCfg:      cfg.Voice,
		voiceAPIKey:   cfg.Gemini.APIKey,
	}
}

// Routes assembles the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(s.jwt))

			r.Get("/me", s.handleGetProfile)
			r.Put("/me", s.handleUpdateProfile)

			r.Get("/dashboard", s.handleDashboard)

			r.Get("/transactions", s.handleListTransactions)
			r.Post("/transactions", s.handleLogTransaction)
			r.Put("/transactions/{id}", s.handleEditTransaction)
			r.Delete("/transactions/{id}", s.handleDeleteTransaction)
			r.Post("/transfers", s.handleTransfer)

			r.Get("/chat", s.handleChatHistory)
			r.Post("/chat", s.handleChatSend)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(s.jwt))
		r.Get("/ws/voice", s.handleVoice)
	})

	return r
}

// writeJSON writes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error body: {"error": "..."}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes a JSON request body into v.
func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
