// Package rest assembles the emulator's HTTP surface: the DynamoDB
// catch-all endpoint, a health check, and a Prometheus metrics endpoint.
package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ddblocal/interfaces/http/rest/middleware"
	"ddblocal/internal/dispatcher"
)

// NewRouter builds the chi mux for the emulator. Every method and path
// other than /_health and /metrics falls through to the dispatcher, since
// the AWS SDK always POSTs to "/" and distinguishes operations purely by
// the x-amz-target header.
func NewRouter(srv *dispatcher.Server, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))

	r.Get("/_health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.NotFound(srv.ServeHTTP)
	r.MethodNotAllowed(srv.ServeHTTP)
	r.Handle("/*", srv)

	return r
}
