package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	users          repo.UserRepository
	refreshTokens  repo.RefreshTokenRepository
	passwordResets repo.PasswordResetRepository
}

func (r *txReposGorm) Users() repo.UserRepository                   { return r.users }
func (r *txReposGorm) RefreshTokens() repo.RefreshTokenRepository   { return r.refreshTokens }
func (r *txReposGorm) PasswordResets() repo.PasswordResetRepository { return r.passwordResets }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:          NewUserGormRepository(tx),
			refreshTokens:  NewRefreshTokenRepository(tx),
			passwordResets: NewPasswordResetRepository(tx),
		}
		return fn(r)
	})
}
