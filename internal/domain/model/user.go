package model

import "time"

// Userは認証の主体となる会員レコード
type User struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"column:password_hash;not null"` // bcryptハッシュ（平文は保存しない）
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
