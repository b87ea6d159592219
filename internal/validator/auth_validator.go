package validator

import (
	"context"
	"strings"

	"app/internal/usecase"

	playground "github.com/go-playground/validator/v10"
)

// パスワード最低文字数
const minPasswordLength = 6

type authValidator struct {
	validate *playground.Validate
}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{
		validate: playground.New(),
	}
}

// 会員登録の入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)

	// 必須チェック
	if email == "" || password == "" {
		return usecase.ErrValidation
	}

	// email形式
	if err := v.validate.VarCtx(ctx, email, "required,email"); err != nil {
		return usecase.ErrValidation
	}

	// パスワード最低文字数
	if len(password) < minPasswordLength {
		return usecase.ErrValidation
	}

	return nil
}

// ログインの入力を検証
// 形式チェックはしない。存在有無を推測させないため失敗はusecase側で401に潰す
func (v *authValidator) ValidateLogin(ctx context.Context, email string, password string) error {
	if strings.TrimSpace(email) == "" || password == "" {
		return usecase.ErrValidation
	}
	return nil
}

// refreshの入力を検証
func (v *authValidator) ValidateRefresh(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return usecase.ErrValidation
	}
	return nil
}

// logoutの入力を検証
func (v *authValidator) ValidateLogout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return usecase.ErrValidation
	}
	return nil
}

// リセットの入力を検証
func (v *authValidator) ValidateReset(ctx context.Context, resetToken string, newPassword string) error {
	if strings.TrimSpace(resetToken) == "" {
		return usecase.ErrValidation
	}
	if len(newPassword) < minPasswordLength {
		return usecase.ErrValidation
	}
	return nil
}
