package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/vfg2006/mruda-api/pkg/metrics"
)

// RouteMatcher identifica caminhos registrados no roteador
type RouteMatcher interface {
	Match(method, path string) bool
}

// MetricsMiddleware registra contagem e duração das requisições
func MetricsMiddleware(registry *metrics.Registry, routes RouteMatcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := newLoggingResponseWriter(w)

			next.ServeHTTP(lrw, r)

			path := routeLabel(routes, r)
			registry.HTTPRequests.WithLabelValues(path, r.Method, strconv.Itoa(lrw.statusCode)).Inc()
			registry.HTTPDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// routeLabel agrupa caminhos desconhecidos para conter a cardinalidade
func routeLabel(routes RouteMatcher, r *http.Request) string {
	if routes == nil || routes.Match(r.Method, r.URL.Path) {
		return r.URL.Path
	}
	return "unmatched"
}
