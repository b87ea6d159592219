package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/token"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// Newはルーティング済みのechoアプリを作る
func New(cfg config.Config, issuer token.Issuer, authH *handler.AuthHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL}, //フロントのoriginだけ許可
		AllowCredentials: true,
	}))

	RegisterRoutes(e, issuer, authH)

	return e
}

// Startはサーバーを起動する
func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
