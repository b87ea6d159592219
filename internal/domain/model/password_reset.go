package model

import "time"

// PasswordResetは単回使用のパスワードリセットトークン
// 使用成功時に削除する（使い回し不可）
type PasswordReset struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"` // 32byte乱数のhex
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
