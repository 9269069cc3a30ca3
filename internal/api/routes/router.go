package routes

import (
	"net/http"

	"github.com/farmaciavallenar/backend/internal/api/handlers"
	"github.com/farmaciavallenar/backend/internal/api/middleware"
	"github.com/farmaciavallenar/backend/internal/infrastructure/observability"
)

// Router owns the HTTP surface: search, product lookup and substitution
// alternatives, plus a health probe for the load balancer.
type Router struct {
	mux             *http.ServeMux
	searchHandler   *handlers.SearchHandler
	productHandler  *handlers.ProductHandler
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates the router. cacheMiddleware and metrics may be nil
// when Redis or the OTEL exporter are not configured.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	productHandler *handlers.ProductHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		searchHandler:   searchHandler,
		productHandler:  productHandler,
		cacheMiddleware: cacheMiddleware,
		metrics:         metrics,
	}
}

// SetupRoutes registers all endpoints and wraps the mux with the
// middleware chain. The returned handler is ready for http.Server.
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)
	r.mux.HandleFunc("GET /api/products/{id}", r.productHandler.GetProduct)
	r.mux.HandleFunc("GET /api/products/{id}/alternatives", r.productHandler.GetAlternatives)

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
