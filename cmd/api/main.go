package main

import (
	"context"
	"log/slog"
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/db"
	infraRepo "app/internal/infra/repository"
	"app/internal/logger"
	"app/internal/mailer"
	"app/internal/password"
	"app/internal/server"
	"app/internal/token"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	//.envがあれば読む（なくても環境変数だけで動く）
	_ = godotenv.Load()

	log := logger.New(slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config failed", "error", err)
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatal("db connect failed", "error", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.PasswordReset{},
	); err != nil {
		log.Fatal("db migrate failed", "error", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	rtRepo := infraRepo.NewRefreshTokenRepository(gormDB)
	prRepo := infraRepo.NewPasswordResetRepository(gormDB)
	txm := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//bcrypt（会員登録とリセットでHash / ログインでVerify）
	hasher := password.NewBcryptHasher(bcrypt.DefaultCost)

	//JWT issuer
	issuer := token.NewJWTIssuer(cfg.JWTSecret)

	//SMTPメーラー
	mail, err := mailer.NewSMTPMailer(cfg)
	if err != nil {
		log.Fatal("mailer init failed", "error", err)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(
		cfg,
		userRepo, rtRepo, prRepo, txm,
		hasher, issuer, mail,
		validator.NewAuthValidator(),
		idGen, clock, log,
	)

	//期限切れレコードの定期掃除
	go runCleanup(context.Background(), authUC, cfg.CleanupInterval, log)

	//Handler生成
	authH := handler.NewAuthHandler(authUC)

	//Server起動
	addr := cfg.Port
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}

	e := server.New(cfg, issuer, authH)
	log.Info("server starting", "addr", addr)
	if err := server.Start(e, addr); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

// 両台帳の期限切れ行をintervalごとに削除する
func runCleanup(ctx context.Context, authUC *usecase.AuthUsecase, interval time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := authUC.PurgeExpired(ctx)
			if err != nil {
				log.Error("purge expired failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("purged expired records", "count", n)
			}
		}
	}
}
