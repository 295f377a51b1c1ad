package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	custommiddleware "finance/internal/middleware"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	AuthHandler    *AuthHandler
	TradingHandler *TradingHandler
	Sessions       custommiddleware.SessionResolver
	Ops            http.Handler
}

// NewServer creates an echo instance with the API error handler and validator installed
func NewServer() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = NewRequestValidator()
	return e
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	// Middleware
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/ops/")
		},
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(log.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			})
			if v.Error != nil {
				entry = entry.WithError(v.Error)
			}
			entry.Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())
	e.Use(custommiddleware.NoCache)

	// Health and readiness
	if config.Ops != nil {
		e.Any("/ops/*", echo.WrapHandler(http.StripPrefix("/ops", config.Ops)))
	}

	// API group
	api := e.Group("/api")

	// Auth routes (public)
	auth := api.Group("/auth")
	{
		auth.POST("/register", config.AuthHandler.Register)
		auth.POST("/login", config.AuthHandler.Login)
		auth.POST("/logout", config.AuthHandler.Logout)
	}

	// Trading routes (protected with RequireSession)
	trading := api.Group("", custommiddleware.RequireSession(config.Sessions))
	{
		trading.GET("/quote", config.TradingHandler.GetQuote)
		trading.POST("/buy", config.TradingHandler.Buy)
		trading.POST("/sell", config.TradingHandler.Sell)
		trading.GET("/portfolio", config.TradingHandler.GetPortfolio)
		trading.GET("/history", config.TradingHandler.GetHistory)
		trading.GET("/symbols", config.TradingHandler.GetSymbols)
	}
}
