package server

import (
	"app/internal/handler"
	"app/internal/middleware"
	"app/internal/token"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, issuer token.Issuer, authH *handler.AuthHandler) {
	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.Refresh)
	auth.POST("/logout", authH.Logout)
	auth.POST("/forgot-password", authH.ForgotPassword)
	auth.POST("/reset-password", authH.ResetPassword)

	//access token必須
	api.GET("/me", authH.Me, middleware.AuthJWT(issuer))
}
