package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hoangnt/moneytalk/internal/assistant"
	"github.com/hoangnt/moneytalk/internal/auth"
	"github.com/hoangnt/moneytalk/internal/book"
	"github.com/hoangnt/moneytalk/internal/config"
	"github.com/hoangnt/moneytalk/internal/server"
	"github.com/hoangnt/moneytalk/internal/service"
	"github.com/hoangnt/moneytalk/internal/storage/sqlite"
	"github.com/hoangnt/moneytalk/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logging.Setup()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	shelf := book.NewShelf(store, store)
	classifier := assistant.NewGemini(cfg.Gemini.APIKey, cfg.Gemini.Model)
	chatService := service.NewChatService(store, shelf, classifier)
	dashboardService := service.NewDashboardService(shelf)

	srv := server.New(store, authenticator, jwtManager, shelf, chatService, dashboardService, cfg)

	// h2c keeps HTTP/2 available without TLS termination in front.
	handler := h2c.NewHandler(srv.Routes(), &http2.Server{})

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
