// Package rest wires the chi router over the sentence and catalogue
// handlers, grounded on this codebase's interfaces/http/rest/router.go.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	appservices "depconstraints/application/services"
	"depconstraints/application/ports"
	"depconstraints/infrastructure/observability"
	"depconstraints/interfaces/http/rest/handlers"
	"depconstraints/interfaces/http/rest/middleware"
)

// Router builds the HTTP handler for the parser service.
type Router struct {
	parser *appservices.ParserService
	catalogues ports.CatalogueRepository
	collector *observability.Collector
	logger *zap.Logger
}

// NewRouter wires a Router over its collaborators.
func NewRouter(parser *appservices.ParserService, catalogues ports.CatalogueRepository, collector *observability.Collector, logger *zap.Logger) *Router {
	return &Router{parser: parser, catalogues: catalogues, collector: collector, logger: logger}
}

// Setup builds the chi mux: global middleware, health/ready/metrics, and
// the /v1 API surface.
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.collector))
	router.Use(middleware.CORS())

	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	router.Handle("/metrics", promhttp.HandlerFor(rt.collector.Registry(), promhttp.HandlerOpts{}))

	router.Route("/v1", func(r chi.Router) {
		sentenceHandler := handlers.NewSentenceHandler(rt.parser, rt.logger)
		r.Route("/sentences", func(r chi.Router) {
			r.Post("/validate", sentenceHandler.Validate)
			r.Post("/solve", sentenceHandler.Solve)
			r.Get("/{id}/violations", sentenceHandler.Explain)
		})

		catalogueHandler := handlers.NewCatalogueHandler(rt.catalogues, rt.logger)
		r.Route("/catalogues", func(r chi.Router) {
			r.Post("/", catalogueHandler.Save)
			r.Get("/{id}", catalogueHandler.Get)
			r.Delete("/{id}", catalogueHandler.Delete)
		})
	})

	return router
}

func (rt *Router) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

func (rt *Router) readinessCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
