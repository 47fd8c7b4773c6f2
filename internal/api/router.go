package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/learnhub/course-marketplace/docs"
	"github.com/learnhub/course-marketplace/internal/api/handler"
	"github.com/learnhub/course-marketplace/internal/api/middleware"
	"github.com/learnhub/course-marketplace/internal/core/ports"
	"github.com/learnhub/course-marketplace/internal/infrastructure/http/handlers"
)

// Dependencies are the services the HTTP layer is built on.
type Dependencies struct {
	Log       zerolog.Logger
	JWTSecret string

	// Users resolves token subjects into accounts for LoadUser.
	Users middleware.UserFinder

	Auth      ports.AuthService
	UserSvc   ports.UserService
	Courses   ports.CourseService
	Modules   ports.ModuleService
	Purchases ports.PurchaseService
	Progress  ports.ProgressService

	// HealthChecks are run by /health/ready. Disabled stores are left out.
	HealthChecks []handlers.DependencyCheck
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddleware("marketplace"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	courseHandler := handler.NewCourseHandler(deps.Courses, deps.Purchases, deps.Progress)
	moduleHandler := handler.NewModuleHandler(deps.Modules, deps.Courses, deps.Purchases, deps.Progress)
	userHandler := handler.NewUserHandler(deps.UserSvc, deps.Purchases)

	authMiddleware := middleware.Auth(deps.JWTSecret)
	loadUser := middleware.LoadUser(deps.Users)
	authenticated := []echo.MiddlewareFunc{authMiddleware, loadUser}
	adminOnly := []echo.MiddlewareFunc{authMiddleware, loadUser, middleware.AdminOnly()}

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/self", authHandler.Self, authenticated...)

	// --- Course routes ---
	courses := api.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("", courseHandler.Create, adminOnly...)
	// my-courses is registered before :id so it is not taken for an id.
	courses.GET("/my-courses", courseHandler.MyCourses, authenticated...)
	courses.GET("/:id", courseHandler.Get)
	courses.PUT("/:id", courseHandler.Update, adminOnly...)
	courses.DELETE("/:id", courseHandler.Delete, adminOnly...)
	courses.POST("/:id/buy", courseHandler.Buy, authenticated...)
	courses.GET("/:id/certificate", courseHandler.Certificate, authenticated...)
	courses.GET("/:id/modules", moduleHandler.ListByCourse, authenticated...)
	courses.POST("/:id/modules", moduleHandler.Create, adminOnly...)
	courses.PATCH("/:id/modules/reorder", moduleHandler.Reorder, adminOnly...)

	// --- Module routes ---
	modules := api.Group("/modules")
	modules.GET("/:id", moduleHandler.Get, authenticated...)
	modules.PUT("/:id", moduleHandler.Update, adminOnly...)
	modules.DELETE("/:id", moduleHandler.Delete, adminOnly...)
	modules.PATCH("/:id/complete", moduleHandler.Complete, authenticated...)

	// --- User routes ---
	users := api.Group("/users")
	users.GET("", userHandler.List, adminOnly...)
	users.GET("/:id", userHandler.Get, authenticated...)
	users.PUT("/:id", userHandler.Update, adminOnly...)
	users.DELETE("/:id", userHandler.Delete, adminOnly...)
	users.POST("/:id/balance", userHandler.Balance, adminOnly...)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger emits one zerolog entry per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil || v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
