package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"chatloom/backend/internal/api"
	"chatloom/backend/internal/config"
	"chatloom/backend/internal/database"
	"chatloom/backend/internal/llm"
	"chatloom/backend/internal/service"
	"chatloom/backend/internal/store"
)

// App holds the wired application. Split from Run so tests can construct it
// against fakes without starting the server.
type App struct {
	Config  *config.Config
	DB      *sql.DB
	Server  *http.Server
	Service *service.ConversationService
}

// NewApp wires configuration, storage, backends, the coordinator and the
// HTTP server.
func NewApp(cfg *config.Config) (*App, error) {
	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("Successfully connected to SQLite database.")

	live := service.Sources{
		Store:   store.NewSQLiteStore(db),
		Backend: llm.NewOllamaBackend(cfg.OllamaURL),
	}
	demo := service.Sources{
		Store:   store.NewMemoryStore(),
		Backend: llm.NewDemoBackend(40 * time.Millisecond),
	}

	conversationService := service.NewConversationService(live, demo, service.Options{
		MainModel:     cfg.MainModel,
		SystemPrompt:  cfg.SystemPrompt,
		QueueSize:     cfg.ChunkQueueSize,
		ChunkPacing:   cfg.ChunkPacing(),
		UndoRetention: cfg.UndoRetention(),
	})

	handler := api.NewConversationHandler(conversationService)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      0, // Disabled for streaming endpoints
		IdleTimeout:       120 * time.Second,
	}

	return &App{Config: cfg, DB: db, Server: server, Service: conversationService}, nil
}

// Run loads configuration, wires the app and serves until interrupted.
func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger for this critical error.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)
	logConfigSource()

	waitForOllama(cfg.OllamaURL)

	a, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := a.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Starting server", "port", cfg.AppPort)
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		a.Service.StartSweeper(gctx, cfg.UndoSweepInterval())
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.Server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func waitForOllama(ollamaURL string) {
	slog.Info("Waiting for Ollama to be ready...")
	client := &http.Client{Timeout: 2 * time.Second}
	for range 10 {
		resp, err := client.Get(ollamaURL)
		if err == nil && resp.StatusCode == http.StatusOK {
			if bErr := resp.Body.Close(); bErr != nil {
				slog.Warn("Failed to close response body in ollama health check", "error", bErr)
			}
			slog.Info("Ollama is ready.")
			return
		}
		if resp != nil {
			if bErr := resp.Body.Close(); bErr != nil {
				slog.Warn("Failed to close response body in ollama health check (retry path)", "error", bErr)
			}
		}
		slog.Debug("Ollama not ready yet, retrying in 3 seconds...", "url", ollamaURL, "error", err)
		time.Sleep(3 * time.Second)
	}
	// Demo mode works without Ollama, so start anyway and let the live mode
	// degrade until the backend comes up.
	slog.Warn("Ollama did not become ready; starting in degraded live mode.", "url", ollamaURL)
}
