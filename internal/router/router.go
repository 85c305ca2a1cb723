package router

import (
	"github.com/fasthttp/router"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	apiHandler "github.com/fastygo/tasktracker/api/handler"
)

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Profile *apiHandler.ProfileHandler
	Task    *apiHandler.TaskHandler
	Health  *apiHandler.HealthHandler
}

type Options struct {
	// Auth guards every route that acts on behalf of a user.
	Auth Middleware
	// RateLimit wraps register and login. Nil disables limiting.
	RateLimit Middleware
	// Metrics exposes the Prometheus registry on /metrics.
	Metrics bool
}

func New(handlers Handlers, opts Options) *router.Router {
	r := router.New()
	authed := opts.Auth
	limited := opts.RateLimit
	if limited == nil {
		limited = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}

	r.GET("/health", handlers.Health.Check)
	if opts.Metrics {
		r.GET("/metrics", fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler()))
	}

	// Auth routes
	r.POST("/api/v1/auth/register", limited(handlers.Auth.Register))
	r.POST("/api/v1/auth/login", limited(handlers.Auth.Login))
	r.POST("/api/v1/auth/refresh", authed(handlers.Auth.Refresh))
	r.POST("/api/v1/auth/logout", authed(handlers.Auth.Logout))

	// Protected routes
	r.GET("/api/v1/profile", authed(handlers.Profile.GetProfile))
	r.POST("/api/v1/preferences/theme", authed(handlers.Profile.ToggleTheme))

	r.GET("/api/v1/tasks", authed(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authed(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/{id}/complete", authed(handlers.Task.CompleteTask))
	r.DELETE("/api/v1/tasks/{id}", authed(handlers.Task.DeleteTask))

	return r
}
