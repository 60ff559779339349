package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/recipeapp/recipe-api/docs"
	"github.com/recipeapp/recipe-api/internal/api/handler"
	"github.com/recipeapp/recipe-api/internal/api/middleware"
	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

// Dependencies are the use cases and settings the router wires into handlers.
type Dependencies struct {
	Users      ports.UserService
	Attributes ports.AttributeService
	Recipes    ports.RecipeService
	Checks     map[string]handler.Check

	// MediaRoot is served read-only under MediaURL.
	MediaRoot string
	MediaURL  string

	Log zerolog.Logger
	// Registerer and Gatherer default to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echomiddleware.BodyLimit("12M"))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "recipe_api",
		Registerer: deps.Registerer,
	}))

	// --- Dependencies ---
	userHandler := handler.NewUserHandler(deps.Users)
	tagHandler := handler.NewAttributeHandler(deps.Attributes, domain.KindTag)
	ingredientHandler := handler.NewAttributeHandler(deps.Attributes, domain.KindIngredient)
	recipeHandler := handler.NewRecipeHandler(deps.Recipes)
	healthHandler := handler.NewHealthHandler(deps.Checks)
	auth := middleware.Auth(deps.Users)

	// --- User routes ---
	user := e.Group("/api/user")
	user.POST("/create", userHandler.Create)
	user.POST("/token", userHandler.Token)
	user.GET("/me", userHandler.Me, auth)
	user.PATCH("/me", userHandler.UpdateMe, auth)

	// --- Recipe book routes (token required) ---
	recipe := e.Group("/api/recipe", auth)
	recipe.GET("/tags", tagHandler.List)
	recipe.POST("/tags", tagHandler.Create)
	recipe.GET("/ingredients", ingredientHandler.List)
	recipe.POST("/ingredients", ingredientHandler.Create)
	recipe.GET("/recipes", recipeHandler.List)
	recipe.POST("/recipes", recipeHandler.Create)
	recipe.GET("/recipes/:id", recipeHandler.Get)
	recipe.PUT("/recipes/:id", recipeHandler.Update)
	recipe.PATCH("/recipes/:id", recipeHandler.Patch)
	recipe.DELETE("/recipes/:id", recipeHandler.Delete)
	recipe.POST("/recipes/:id/upload-image", recipeHandler.UploadImage)

	// --- Admin routes ---
	admin := e.Group("/api/admin", auth, middleware.RequireStaff())
	admin.GET("/users", userHandler.ListUsers)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if deps.MediaRoot != "" && deps.MediaURL != "" {
		e.Static(deps.MediaURL, deps.MediaRoot)
	}

	return e
}

// requestLogger emits one zerolog event per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil || v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
