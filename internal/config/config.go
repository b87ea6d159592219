package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Configはアプリ全体の設定
type Config struct {
	Port string `env:"PORT" envDefault:"3000"` // サーバーポート

	DatabaseURL string `env:"DATABASE_URL"` // あれば最優先で使うDSN

	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"app"`
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	JWTSecret string `env:"JWT_SECRET"` // JWT署名シークレット

	FEURL string `env:"FE_URL" envDefault:"http://localhost:5173"` // フロントURL（CORSとリセットリンクで使う）

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM" envDefault:"no-reply@myapp.com"`

	StoreTimeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"5s"`    // DB・メール呼び出しの上限
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"` // 期限切れレコード掃除の間隔
}

// Loadは環境変数から設定を読み込む
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.StoreTimeout <= 0 {
		return Config{}, fmt.Errorf("STORE_TIMEOUT must be positive")
	}
	if cfg.CleanupInterval <= 0 {
		return Config{}, fmt.Errorf("CLEANUP_INTERVAL must be positive")
	}

	return cfg, nil
}
