package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dursunkatar/OrderManagementSystem/internal/config"
	"github.com/dursunkatar/OrderManagementSystem/internal/handler"
)

func Start(
	addr string,
	cfg config.Config,
	authH *handler.AuthHandler,
	productH *handler.ProductHandler,
	cartH *handler.CartHandler,
	orderH *handler.OrderHandler,
) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	authH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
	cartH.RegisterRoutes(e, cfg)
	orderH.RegisterRoutes(e, cfg)

	return e.Start(addr)
}
