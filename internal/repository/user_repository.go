package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// emailの一意制約違反を統一
var ErrEmailTaken = errors.New("email already taken")

// ユーザーの保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成（email重複はErrEmailTaken）
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。
	FindByID(ctx context.Context, userID string) (*model.User, error)
	//メールからユーザーを1件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//パスワードハッシュを更新する（リセット成功時）
	UpdatePasswordHash(ctx context.Context, userID string, passwordHash string) error
}
