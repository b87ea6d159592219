package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type passwordResetGormRepository struct {
	db *gorm.DB
}

// GORM実装
func NewPasswordResetRepository(db *gorm.DB) repo.PasswordResetRepository {
	return &passwordResetGormRepository{db: db}
}

// リセットトークンを保存します。
func (r *passwordResetGormRepository) Create(ctx context.Context, reset *model.PasswordReset) error {
	if err := r.db.WithContext(ctx).Create(reset).Error; err != nil {
		return err
	}
	return nil
}

// tokenが一致して未失効の1件を検索します。
func (r *passwordResetGormRepository) FindValid(ctx context.Context, token string, now time.Time) (*model.PasswordReset, error) {
	var pr model.PasswordReset

	err := r.db.WithContext(ctx).
		Where("token = ? AND expires_at > ?", token, now).
		First(&pr).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repo.ErrPasswordResetNotFound
		}
		return nil, err
	}

	return &pr, nil
}

// tokenで削除します（単回使用の確定）。
func (r *passwordResetGormRepository) DeleteByToken(ctx context.Context, token string) error {
	if err := r.db.WithContext(ctx).
		Where("token = ?", token).
		Delete(&model.PasswordReset{}).Error; err != nil {
		return err
	}
	return nil
}

// 期限切れの行をまとめて削除します。
func (r *passwordResetGormRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&model.PasswordReset{})

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
