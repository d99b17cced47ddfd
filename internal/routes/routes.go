package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/yukikurage/todo-api/internal/config"
	"github.com/yukikurage/todo-api/internal/constants"
	apierrors "github.com/yukikurage/todo-api/internal/errors"
	"github.com/yukikurage/todo-api/internal/handlers"
	"github.com/yukikurage/todo-api/internal/middleware"
	"github.com/yukikurage/todo-api/internal/services"
)

// Dependencies are the components the router wires into handlers.
type Dependencies struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Store       handlers.Pinger
	Tokens      middleware.TokenVerifier
	Auth        *services.AuthService
	Todos       *services.TodoService
	Suggestions *services.SuggestionService
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestLogger(deps.Logger),
		middleware.ErrorDetail(!deps.Config.IsProduction()),
		gin.CustomRecovery(func(c *gin.Context, recovered any) {
			apierrors.InternalError(c, "", fmt.Errorf("panic: %v", recovered))
		}),
	)
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "Route not found")
	})

	gate := middleware.NewGate(deps.Tokens)
	authHandler := handlers.NewAuthHandler(deps.Auth)
	todoHandler := handlers.NewTodoHandler(deps.Todos, deps.Suggestions)
	healthHandler := handlers.NewHealthHandler(deps.Store)

	r.GET("/", healthHandler.Root)
	r.GET("/health", healthHandler.Health)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", gate.RequireAuth(), middleware.WithIdentity(authHandler.Logout))
			auth.GET("/me", gate.RequireAuth(), middleware.WithIdentity(authHandler.GetCurrentUser))
		}

		// Todo routes (protected)
		todos := api.Group("/todos")
		todos.Use(gate.RequireAuth())
		{
			todos.GET("", middleware.WithIdentity(todoHandler.ListTodos))
			todos.POST("", middleware.WithIdentity(todoHandler.CreateTodo))
			todos.POST("/suggest", middleware.WithIdentity(todoHandler.SuggestTodos))
			todos.GET("/:id", middleware.WithIdentity(todoHandler.GetTodo))
			todos.PUT("/:id", middleware.WithIdentity(todoHandler.UpdateTodo))
			todos.DELETE("/:id", middleware.WithIdentity(todoHandler.DeleteTodo))
		}
	}

	return r
}

// WithCORS wraps the router with the configured cross-origin policy.
func WithCORS(cfg config.CORSConfig, next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{constants.AuthorizationHeader, "Content-Type", constants.RequestIDHeader},
		ExposedHeaders:   []string{constants.TotalCountHeader, constants.RequestIDHeader},
		AllowCredentials: true,
	})
	return c.Handler(next)
}

// Setup returns the complete HTTP handler served by the process.
func Setup(deps Dependencies) http.Handler {
	return WithCORS(deps.Config.CORS, NewRouter(deps))
}
