package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// APIPrefix is the group every rewriting route is mounted under.
const APIPrefix = "/api/v1"

// RouterOptions configures NewRouter.
type RouterOptions struct {
	MaxBodyBytes int64
	// Gatherer serves /metrics when non-nil.
	Gatherer prometheus.Gatherer
	Logger   zerolog.Logger
}

// NewRouter builds the echo instance with every route registered.
func NewRouter(stripHandler *StripHandler, rulesHandler *RulesHandler, opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(RequestLoggerMiddleware(opts.Logger))
	e.Use(BodyLimitMiddleware(opts.MaxBodyBytes))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if opts.Gatherer != nil {
		e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	api := e.Group(APIPrefix)
	stripHandler.RegisterRoutes(api)
	rulesHandler.RegisterRoutes(api)

	return e
}
