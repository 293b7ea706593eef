package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Newはechoサーバーを組み立てて返す。起動はmain側で行う。
func New(
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	categoryH *handler.CategoryHandler,
	fileH *handler.FileHandler,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.Metrics())

	// Prometheus
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	RegisterRoutes(e, cfg, authH, productH, categoryH, fileH)

	return e
}

// ログインの総当たり対策
func loginRateLimiter() echo.MiddlewareFunc {
	return echomw.RateLimiter(echomw.NewRateLimiterMemoryStore(rate.Limit(10)))
}
