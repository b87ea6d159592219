package handler

import (
	"errors"
	"net/http"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authUC *usecase.AuthUsecase
}

// DIコンストラクタ
func NewAuthHandler(authUC *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

// /auth/refresh と /auth/logout のリクエストボディ。
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// /auth/forgot-password のリクエストボディ。
type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// /auth/reset-password のリクエストボディ。
type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// エラーは全エンドポイント共通で {"message": "..."} に揃える
type errorResponse struct {
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// RegisterはPOST /api/auth/registerのハンドラ
func (h *AuthHandler) Register(c echo.Context) error {
	var req usecase.AuthRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid email or password"})
	}

	out, err := h.authUC.Register(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid email or password"})
		case errors.Is(err, usecase.ErrConflict):
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "user already exists"})
		default:
			return c.JSON(http.StatusInternalServerError, errorResponse{Message: "server error"})
		}
	}

	return c.JSON(http.StatusCreated, out)
}

// LoginはPOST /api/auth/login のハンドラ。
func (h *AuthHandler) Login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: "invalid email or password"})
	}

	out, err := h.authUC.Login(c.Request().Context(), req)
	if err != nil {
		switch {
		//入力不足も認証失敗と同じ応答にする（列挙の手がかりを残さない）
		case errors.Is(err, usecase.ErrValidation), errors.Is(err, usecase.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, errorResponse{Message: "invalid email or password"})
		default:
			return c.JSON(http.StatusInternalServerError, errorResponse{Message: "server error"})
		}
	}

	return c.JSON(http.StatusOK, out)
}

// RefreshはPOST /api/auth/refresh のハンドラ。
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "refreshToken is required"})
	}

	out, err := h.authUC.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "refreshToken is required"})
		case errors.Is(err, usecase.ErrUnauthorized):
			return c.JSON(http.StatusUnauthorized, errorResponse{Message: "invalid or expired refresh token"})
		default:
			return c.JSON(http.StatusInternalServerError, errorResponse{Message: "server error"})
		}
	}

	return c.JSON(http.StatusOK, out)
}

// LogoutはPOST /api/auth/logout のハンドラ。
// tokenが台帳に無くても成功を返す（冪等）
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "refreshToken is required"})
	}

	if err := h.authUC.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "refreshToken is required"})
		default:
			return c.JSON(http.StatusInternalServerError, errorResponse{Message: "server error"})
		}
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// ForgotPasswordはPOST /api/auth/forgot-password のハンドラ。
// emailの存在有無にかかわらず同じ応答を返す
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusOK, statusResponse{
			Message: "if email exists, reset link sent",
			Status:  "success",
		})
	}

	if err := h.authUC.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: "server error"})
	}

	return c.JSON(http.StatusOK, statusResponse{
		Message: "if email exists, reset link sent",
		Status:  "success",
	})
}

// ResetPasswordはPOST /api/auth/reset-password のハンドラ。
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid input"})
	}

	if err := h.authUC.ResetPassword(c.Request().Context(), req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, usecase.ErrValidation):
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid input"})
		case errors.Is(err, usecase.ErrInvalidResetToken):
			return c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid or expired token"})
		default:
			return c.JSON(http.StatusInternalServerError, errorResponse{Message: "server error"})
		}
	}

	return c.JSON(http.StatusOK, statusResponse{
		Message: "password updated successfully",
		Status:  "success",
	})
}

// MeはGET /api/me のハンドラ。AuthJWTの後ろで動く
func (h *AuthHandler) Me(c echo.Context) error {
	userID, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || userID == "" {
		return c.JSON(http.StatusUnauthorized, errorResponse{Message: "invalid or expired token"})
	}

	out, err := h.authUC.Me(c.Request().Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Message: "user not found"})
		default:
			return c.JSON(http.StatusInternalServerError, errorResponse{Message: "server error"})
		}
	}

	return c.JSON(http.StatusOK, out)
}
