package model

import "time"

// RefreshTokenは発行済みリフレッシュトークンの台帳レコード
// 1ユーザーに複数行を許す（マルチデバイス）
type RefreshToken struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
