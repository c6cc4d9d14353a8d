package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "apod/server/docs"
	"apod/server/internal/handler"
	"apod/server/internal/metrics"
)

type RouterOptions struct {
	APOD         *handler.APODHandler
	Health       *handler.HealthHandler
	Metrics      *metrics.Metrics
	WallpaperDir string
}

func NewRouter(opts RouterOptions) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestIDMiddleware())
	e.Use(RequestLoggerMiddleware())

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	if opts.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(opts.Metrics.Handler()))
	}
	if opts.Health != nil {
		opts.Health.RegisterRoutes(e)
	}

	api := e.Group("")
	opts.APOD.RegisterRoutes(api)

	registerWallpapers(e, opts.WallpaperDir)

	return e
}
