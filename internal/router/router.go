package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/funtiknax13/task-manager/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

// New wires the route table. Every task route sits behind the session gate;
// registration and login are the only open application routes.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/register", handlers.Auth.Register)
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/logout", handlers.Auth.Logout)

	// Protected routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.List))
	r.GET("/api/v1/tasks/overdue", authMiddleware(handlers.Task.ListOverdue))
	r.GET("/api/v1/tasks/duesoon", authMiddleware(handlers.Task.ListDueSoon))
	r.GET("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Get))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.Create))
	r.PUT("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Update))
	r.PATCH("/api/v1/tasks/{id}/status", authMiddleware(handlers.Task.SetStatus))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.Delete))

	return r
}
