package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
	"time"
)

var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// リフレッシュトークン台帳の保存・照合・削除
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	//token文字列＋userIDが一致し、期限が未来の1件を返す
	FindValid(ctx context.Context, token string, userID string, now time.Time) (*model.RefreshToken, error)
	//tokenで削除。存在しなくてもエラーにしない（logoutは冪等）
	DeleteByToken(ctx context.Context, token string) error
	//期限切れ行をまとめて削除する（定期掃除用）
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
