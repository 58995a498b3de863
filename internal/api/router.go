package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/xwanai/xwan-client/internal/api/backend"
	"github.com/xwanai/xwan-client/internal/api/handler"
	"github.com/xwanai/xwan-client/internal/api/middleware"
)

// NewRouter builds the stub server with every route the client calls.
func NewRouter(b *backend.Backend, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// HTTP metrics go to a per-router registry so several routers can live in one process.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "xwan_stub",
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics" || c.Path() == "/health"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(b)
	characterHandler := handler.NewCharacterHandler(b)
	chatHandler := handler.NewChatHandler(b)
	profileHandler := handler.NewProfileHandler(b)
	requireUser := middleware.Auth(b)
	maybeUser := middleware.OptionalAuth(b)

	// --- Probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(
		prometheus.Gatherers{reg, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)))

	api := e.Group("/api")

	// --- Auth ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout, requireUser)
	auth.GET("/me", authHandler.Me, requireUser)

	// --- Characters ---
	character := api.Group("/character")
	character.POST("/create", characterHandler.Create, requireUser)
	character.GET("/my-characters", characterHandler.ListOwned, requireUser)
	character.GET("/public", characterHandler.ListPublic)
	character.GET("/:id", characterHandler.Get, maybeUser)
	character.DELETE("/:id", characterHandler.Delete, requireUser)

	// --- Chat ---
	chat := api.Group("/chat", requireUser)
	chat.POST("/send", chatHandler.Send)
	chat.GET("/conversation/:characterId", chatHandler.Conversation)
	chat.GET("/my-conversations", chatHandler.MyConversations)

	// --- BaZi profile ---
	profile := api.Group("/profile", requireUser)
	profile.POST("/bazi", profileHandler.Create)
	profile.GET("/bazi/me", profileHandler.Mine)
	profile.DELETE("/bazi/me", profileHandler.Delete)

	return e
}
