package api

import (
	"net/http"
	"time"

	// This blank import is required by swaggo to find the API definitions.
	_ "chatloom/backend/docs"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter creates and configures a chi router with all application routes.
func NewRouter(conversationHandler *ConversationHandler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Serves the auto-generated Swagger UI for API documentation.
	r.Get("/api/swagger/*", httpSwagger.WrapHandler)

	// Prometheus scrape endpoint: queue depth, dropped chunks, purged
	// tombstones and the default process metrics.
	r.Handle("/metrics", promhttp.Handler())

	// Health check for container orchestration liveness/readiness probes.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// Standard JSON routes get a request timeout so client connections
		// can't hang indefinitely.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))

			r.Get("/conversation", conversationHandler.GetView)
			r.Post("/conversation/stop", conversationHandler.HandleStop)
			r.Delete("/conversation/messages/{messageID}", conversationHandler.DeleteMessage)
			r.Post("/conversation/messages/batch-delete", conversationHandler.BatchDeleteMessages)
			r.Post("/conversation/undo", conversationHandler.HandleUndo)

			r.Get("/threads", conversationHandler.ListThreads)
			r.Post("/threads", conversationHandler.CreateThread)
			r.Post("/threads/batch-delete", conversationHandler.BatchDeleteThreads)
			r.Post("/threads/{threadID}/select", conversationHandler.SelectThread)
			r.Put("/threads/{threadID}/title", conversationHandler.UpdateThreadTitle)
			r.Delete("/threads/{threadID}", conversationHandler.DeleteThread)

			r.Put("/mode", conversationHandler.SwitchMode)
		})

		// The streaming endpoint holds its connection open for the whole
		// generation and must not have a timeout.
		r.Group(func(r chi.Router) {
			r.Post("/conversation/messages", conversationHandler.HandleSendMessage)
		})
	})

	return r
}
