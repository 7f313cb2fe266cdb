// Package router sets up and configures the HTTP router and all API endpoints.
package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	"github.com/agentview/api/internal/middleware"
	"github.com/agentview/api/internal/service"
)

// Dependencies holds all the dependencies needed to create routes.
type Dependencies struct {
	Service        *service.Service
	OperatorToken  func() string
	AllowedOrigins []string
}

// New creates a new HTTP handler with all routes configured.
func New(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	// Provisioning talks to the platform API for every request, so it
	// gets a stricter limit than the global one.
	provisionLimiter := NewRateLimiter(rate.Limit(2), 5)

	registerAPIRoutes(mux, deps.Service, provisionLimiter)
	registerUtilityRoutes(mux)

	// Global rate limiter (100 requests per second per IP)
	globalRateLimiter := NewRateLimiter(rate.Limit(100), 100)

	var handler http.Handler = mux

	// Apply request ID middleware first
	handler = middleware.RequestIDMiddleware(handler)

	// Expose the request to audit logging
	handler = middleware.RequestContextMiddleware(handler)

	// Apply global rate limiter
	handler = globalRateLimiter.LimitByIP(handler)

	// Apply security headers
	handler = middleware.SecurityHeadersMiddleware(handler)

	// Enforce the operator token
	if deps.OperatorToken != nil {
		auth := middleware.NewOperatorAuth(deps.OperatorToken)
		handler = auth.Middleware(handler)
	}

	// Log all HTTP requests with status codes
	handler = middleware.AccessLogger(handler)

	// Apply CORS
	handler = middleware.CorsMiddleware(handler, deps.AllowedOrigins)

	// Add OpenTelemetry instrumentation
	handler = otelhttp.NewHandler(handler, "agentview-api")

	// Enable h2c so proxies can speak HTTP/2 without TLS to this process
	handler = h2c.NewHandler(handler, &http2.Server{})

	return handler
}

// registerAPIRoutes adds the deployment API endpoints.
func registerAPIRoutes(mux *http.ServeMux, svc *service.Service, provisionLimiter *RateLimiter) {
	mux.HandleFunc("POST /v1/connections", svc.HandleCreateConnection)
	mux.HandleFunc("DELETE /v1/connections/{customerID}", svc.HandleDisconnect)

	mux.Handle("POST /v1/deployments", provisionLimiter.LimitByIP(http.HandlerFunc(svc.HandleCreateDeployment)))
	mux.HandleFunc("GET /v1/deployments/{id}", svc.HandleGetDeployment)
	mux.HandleFunc("DELETE /v1/deployments/{id}", svc.HandleDeleteDeployment)
	mux.HandleFunc("POST /v1/deployments/{id}/resync", svc.HandleResync)
	mux.HandleFunc("PUT /v1/deployments/{id}/variants", svc.HandleUpsertVariant)
	mux.HandleFunc("DELETE /v1/deployments/{id}/variants", svc.HandleDeleteVariant)

	mux.HandleFunc("GET /v1/customers/{customerID}/deployments", svc.HandleListDeployments)
}

// registerUtilityRoutes adds health, version, and metrics routes.
func registerUtilityRoutes(mux *http.ServeMux) {
	// Health check
	mux.HandleFunc("/health", handleHealth)

	// Version
	mux.HandleFunc("/version", handleVersion)

	// Metrics
	mux.Handle("/metrics", promhttp.Handler())
}

// HTTP Handlers

// handleHealth responds to health check requests.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleVersion responds with the API version.
func handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"version":"v1.0.0","api":"agentview"}`))
}
