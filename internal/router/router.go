package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/shahzaib1233/todo-app-phase-2/api/handler"
)

type Handlers struct {
	Auth   *apiHandler.AuthHandler
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
	Errors *apiHandler.ErrorHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New registers every route. authMiddleware guards the task routes; global
// middleware wraps the whole router, outermost first.
func New(handlers Handlers, authMiddleware Middleware, global ...Middleware) fasthttp.RequestHandler {
	r := router.New()
	r.RedirectTrailingSlash = false
	r.HandleOPTIONS = false

	r.GET("/", handlers.Health.Root)
	r.GET("/health", handlers.Health.Check)

	auth := r.Group("/api/auth")
	auth.POST("/signup", handlers.Auth.Signup)
	auth.POST("/signin", handlers.Auth.Signin)
	auth.POST("/signout", handlers.Auth.Signout)

	// Static "/api/auth" segments take priority over the {user_id} wildcard.
	tasks := r.Group("/api/{user_id}")
	tasks.POST("/tasks", authMiddleware(handlers.Task.CreateTask))
	tasks.GET("/tasks", authMiddleware(handlers.Task.ListTasks))
	tasks.GET("/tasks/{task_id}", authMiddleware(handlers.Task.GetTask))
	tasks.PUT("/tasks/{task_id}", authMiddleware(handlers.Task.UpdateTask))
	tasks.DELETE("/tasks/{task_id}", authMiddleware(handlers.Task.DeleteTask))
	tasks.PATCH("/tasks/{task_id}/complete", authMiddleware(handlers.Task.ToggleComplete))

	if handlers.Errors != nil {
		r.NotFound = handlers.Errors.NotFound
		r.MethodNotAllowed = handlers.Errors.MethodNotAllowed
		r.PanicHandler = handlers.Errors.Panic
	}

	h := r.Handler
	for i := len(global) - 1; i >= 0; i-- {
		h = global[i](h)
	}
	return h
}
