// Package api wires handlers and middleware into the HTTP router.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"tasktrack/internal/api/handlers"
	"tasktrack/internal/api/middleware"
	"tasktrack/internal/config"
	"tasktrack/internal/docs"
	"tasktrack/internal/logging"
	"tasktrack/internal/tasks"
)

// Router holds the configured HTTP routes for the service.
type Router struct {
	mux *chi.Mux
}

// NewRouter builds the service router from its dependencies.
func NewRouter(cfg *config.Config, service *tasks.Service, docsHandler *docs.Handler, logger logging.Logger) *Router {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.Recoverer)
	mux.Use(middleware.NewLoggingMiddleware(logger).Handler())
	mux.Use(chimiddleware.Timeout(30 * time.Second))
	mux.Use(chimiddleware.RequestSize(1 << 20))
	mux.Use(chimiddleware.Heartbeat("/ping"))

	taskHandler := handlers.NewTaskHandler(service, logger)
	healthHandler := handlers.NewHealthHandler(cfg)

	mux.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs", http.StatusTemporaryRedirect)
	})
	mux.Get("/docs", docsHandler.ServeUI)
	mux.Get("/openapi.json", docsHandler.ServeSpec)
	mux.Get("/health", healthHandler.Handle)

	mux.Post("/task", taskHandler.Create)
	mux.Get("/task", taskHandler.List)
	mux.Put("/task", taskHandler.Update)
	mux.Delete("/task", taskHandler.Delete)
	mux.Post("/smart_task", taskHandler.CreateSmart)

	return &Router{mux: mux}
}

// Handler returns the router as an http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}
