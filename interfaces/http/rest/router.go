package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"railmap/application/services"
	"railmap/infrastructure/config"
	"railmap/interfaces/http/rest/handlers"
	"railmap/interfaces/http/rest/middleware"
)

// Router creates and configures the HTTP router
type Router struct {
	service *services.RouteService
	cfg     *config.Config
	logger  *zap.Logger

	metricsHandler  http.Handler
	requestObserver middleware.RequestObserver
}

// NewRouter creates a new router instance. metricsHandler and observer may
// be nil when metrics are disabled.
func NewRouter(
	service *services.RouteService,
	cfg *config.Config,
	logger *zap.Logger,
	metricsHandler http.Handler,
	observer middleware.RequestObserver,
) *Router {
	return &Router{
		service:         service,
		cfg:             cfg,
		logger:          logger,
		metricsHandler:  metricsHandler,
		requestObserver: observer,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.requestObserver != nil {
		router.Use(middleware.Metrics(rt.requestObserver))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)

	if rt.metricsHandler != nil {
		router.Handle("/metrics", rt.metricsHandler)
	}

	router.Route("/api/v1", func(r chi.Router) {
		networkHandler := handlers.NewNetworkHandler(rt.service, rt.logger)
		branchHandler := handlers.NewBranchHandler(rt.service, rt.logger)
		historyHandler := handlers.NewHistoryHandler(rt.service, rt.logger)

		r.Get("/network", networkHandler.GetNetwork)

		r.Route("/cities", func(r chi.Router) {
			r.Get("/", networkHandler.GetCities)
			r.Post("/", networkHandler.CreateCity)
			r.Put("/{name}", networkHandler.UpdateCity)
			r.Delete("/{name}", networkHandler.DeleteCity)
			r.Post("/bulk-delete", networkHandler.BulkDeleteCities)
		})

		r.Route("/connections", func(r chi.Router) {
			r.Post("/", networkHandler.CreateConnection)
			r.Delete("/", networkHandler.DeleteConnection)
			r.Put("/class", networkHandler.SetTransportClass)
			r.Get("/travel-time", networkHandler.GetTravelTime)
			r.Put("/travel-time", networkHandler.SetTravelTime)
			r.Delete("/travel-time", networkHandler.ClearTravelTime)
			r.Post("/daybreak", networkHandler.MarkDaybreak)
			r.Delete("/daybreak", networkHandler.UnmarkDaybreak)
		})

		r.Route("/chains", func(r chi.Router) {
			r.Get("/", networkHandler.GetChains)
			r.Put("/name", networkHandler.SetChainName)
		})

		r.Route("/branches", func(r chi.Router) {
			r.Get("/", branchHandler.ListBranches)
			r.Get("/tree", branchHandler.GetTree)
			r.Post("/initialize", branchHandler.Initialize)
			r.Post("/merge", branchHandler.Merge)
			r.Post("/{branchID}/split", branchHandler.Split)
			r.Post("/{branchID}/activate", branchHandler.Activate)
			r.Post("/{branchID}/apply", branchHandler.Apply)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", historyHandler.List)
			r.Post("/undo", historyHandler.Undo)
			r.Post("/redo", historyHandler.Redo)
		})

		r.Route("/zoom-states", func(r chi.Router) {
			r.Get("/", networkHandler.GetZoomStates)
			r.Put("/", networkHandler.SetZoomStates)
		})

		r.Post("/save", networkHandler.Save)
		r.Post("/load", networkHandler.Load)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
