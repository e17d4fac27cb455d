package handler

import (
	"net/http"

	"github.com/vfg2006/mruda-api/infrastructure/integrator/meta"
	"github.com/vfg2006/mruda-api/internal/api/handler/router"
	"github.com/vfg2006/mruda-api/internal/usecases/analyzing"
	"github.com/vfg2006/mruda-api/internal/usecases/authenticating"
	"github.com/vfg2006/mruda-api/pkg/metrics"
	"github.com/vfg2006/mruda-api/pkg/middleware"
)

func Healthcheck(registry *metrics.Registry) []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: registry.Handler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
	}
}

func Analysis(service analyzing.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/analysis/run",
			Method:      http.MethodPost,
			Handler:     RunAnalysis(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/insights/latest",
			Method:      http.MethodGet,
			Handler:     GetLatestInsight(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/insights",
			Method:      http.MethodGet,
			Handler:     ListInsights(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Meta(integrator meta.Integrator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/meta/validate-token",
			Method:      http.MethodGet,
			Handler:     ValidateMetaToken(integrator),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/meta/account-info",
			Method:      http.MethodGet,
			Handler:     GetMetaAccountInfo(integrator),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

// CronJobs registra uma rota estática por job. O httprouter não aceita
// /v1/cron/:type/run ao lado de /v1/cron/status.
func CronJobs(services CronJobServices) []router.Route {
	routes := []router.Route{
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}

	for name := range services {
		routes = append(routes, router.Route{
			Path:        "/v1/cron/" + name + "/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services, name),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		})
	}

	return routes
}
