package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrPasswordResetNotFound = errors.New("password reset not found")

// パスワードリセットトークン台帳の保存・照合・削除
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *model.PasswordReset) error
	//tokenが一致し、期限が未来の1件を返す
	FindValid(ctx context.Context, token string, now time.Time) (*model.PasswordReset, error)
	//tokenで削除（単回使用の確定）
	DeleteByToken(ctx context.Context, token string) error
	//期限切れ行をまとめて削除する（定期掃除用）
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
