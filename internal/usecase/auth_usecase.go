package usecase

import (
	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/logger"
	"app/internal/mailer"
	"app/internal/password"
	"app/internal/repository"
	"app/internal/token"

	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//400 email重複
	ErrConflict = errors.New("conflict")
	//401 認証失敗（どの項目が悪いかは明かさない）
	ErrUnauthorized = errors.New("unauthorized")
	//400 リセットトークンが無効か期限切れ
	ErrInvalidResetToken = errors.New("invalid reset token")
	//404
	ErrNotFound = errors.New("not found")
	//500 依存先がタイムアウト
	ErrDependencyTimeout = errors.New("dependency timeout")
	//500
	ErrInternal = errors.New("internal error")
)

// リセットトークンの有効期限
const passwordResetTTL = 15 * time.Minute

// リセットトークンの乱数長（hexで64文字）
const passwordResetTokenBytes = 32

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateRefresh(ctx context.Context, refreshToken string) error
	ValidateLogout(ctx context.Context, refreshToken string) error
	ValidateReset(ctx context.Context, resetToken string, newPassword string) error
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

type UserDTO struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	rtRepo    repository.RefreshTokenRepository
	prRepo    repository.PasswordResetRepository
	txm       repository.TransactionManager
	hasher    password.Hasher
	issuer    token.Issuer
	mail      mailer.Mailer
	validator AuthValidator
	idGen     IDGenerator
	clock     Clock
	log       *logger.Logger
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	rtRepo repository.RefreshTokenRepository,
	prRepo repository.PasswordResetRepository,
	txm repository.TransactionManager,
	hasher password.Hasher,
	issuer token.Issuer,
	mail mailer.Mailer,
	validator AuthValidator,
	idGen IDGenerator,
	clock Clock,
	log *logger.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		rtRepo:    rtRepo,
		prRepo:    prRepo,
		txm:       txm,
		hasher:    hasher,
		issuer:    issuer,
		mail:      mail,
		validator: validator,
		idGen:     idGen,
		clock:     clock,
		log:       log,
	}
}

// Registerは会員登録してトークンペアを返す
// refresh tokenはログインと同様に台帳へ保存する
func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*TokenPairResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := u.hasher.Hash(req.Password)
	if err != nil {
		return nil, ErrInternal
	}

	now := u.clock.Now()

	var out *TokenPairResponse

	//重複チェック→insert→台帳保存を1トランザクションで行う
	txErr := u.txm.WithinTx(ctx, func(r repository.TxRepos) error {
		existing, err := r.Users().FindByEmail(ctx, req.Email)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		if existing != nil {
			return ErrConflict
		}

		user := &model.User{
			ID:           u.idGen.NewID(),
			Email:        req.Email,
			PasswordHash: pwHash,
		}

		if err := r.Users().Create(ctx, user); err != nil {
			// 一意制約違反はレースで起きうる
			if errors.Is(err, repository.ErrEmailTaken) {
				return ErrConflict
			}
			return err
		}

		accessToken, _, err := u.issuer.IssueAccess(user.ID, user.Email, now)
		if err != nil {
			return err
		}

		refreshToken, refreshExp, err := u.issuer.IssueRefresh(user.ID, user.Email, now)
		if err != nil {
			return err
		}

		rt := &model.RefreshToken{
			ID:        u.idGen.NewID(),
			UserID:    user.ID,
			Token:     refreshToken,
			ExpiresAt: refreshExp,
		}
		if err := r.RefreshTokens().Create(ctx, rt); err != nil {
			return err
		}

		out = &TokenPairResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, u.storeFailure(ctx, "register", txErr)
	}

	return out, nil
}

// Loginはemailとパスワードを照合してトークンペアを返す
// 失敗理由はemail違いもパスワード違いも同じErrUnauthorizedに潰す
func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*TokenPairResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	//ユーザー取得
	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, u.storeFailure(ctx, "login", err)
	}

	//パスワード照合
	if ok := u.hasher.Verify(req.Password, user.PasswordHash); !ok {
		return nil, ErrUnauthorized
	}

	now := u.clock.Now()

	//access token発行（保存しない）
	accessToken, _, err := u.issuer.IssueAccess(user.ID, user.Email, now)
	if err != nil {
		return nil, ErrInternal
	}

	//refresh token発行（台帳へ保存。logoutで失効できるように）
	refreshToken, refreshExp, err := u.issuer.IssueRefresh(user.ID, user.Email, now)
	if err != nil {
		return nil, ErrInternal
	}

	rt := &model.RefreshToken{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: refreshExp,
	}
	if err := u.rtRepo.Create(ctx, rt); err != nil {
		return nil, u.storeFailure(ctx, "login", err)
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refreshは新しいaccess tokenだけを発行する（refresh tokenは回転させない）
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*AccessTokenResponse, error) {
	if err := u.validator.ValidateRefresh(ctx, refreshToken); err != nil {
		return nil, err
	}

	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	//署名と期限を検証
	claims, err := u.issuer.Verify(refreshToken)
	if err != nil {
		return nil, ErrUnauthorized
	}

	//台帳照合。未発行・logout済み・期限切れはすべて同じ失敗にする
	now := u.clock.Now()
	if _, err := u.rtRepo.FindValid(ctx, refreshToken, claims.UserID, now); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, u.storeFailure(ctx, "refresh", err)
	}

	accessToken, _, err := u.issuer.IssueAccess(claims.UserID, claims.Email, now)
	if err != nil {
		return nil, ErrInternal
	}

	return &AccessTokenResponse{AccessToken: accessToken}, nil
}

// Logoutは台帳からrefresh tokenを削除する
// 0件削除でも成功。tokenの有効無効を漏らさない
func (u *AuthUsecase) Logout(ctx context.Context, refreshToken string) error {
	if err := u.validator.ValidateLogout(ctx, refreshToken); err != nil {
		return err
	}

	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	if err := u.rtRepo.DeleteByToken(ctx, refreshToken); err != nil {
		return u.storeFailure(ctx, "logout", err)
	}

	return nil
}

// ForgotPasswordはリセットトークンを発行してメールを送る
// emailが存在してもしなくても呼び出し側には同じ結果を返す
func (u *AuthUsecase) ForgotPassword(ctx context.Context, email string) error {
	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// 存在しないemailでもレスポンスは変えない
			return nil
		}
		return u.storeFailure(ctx, "forgot_password", err)
	}

	//推測不能なopaqueトークン（256bit, hex）
	resetToken, err := generateResetToken()
	if err != nil {
		return ErrInternal
	}

	now := u.clock.Now()

	pr := &model.PasswordReset{
		ID:        u.idGen.NewID(),
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: now.Add(passwordResetTTL),
	}
	if err := u.prRepo.Create(ctx, pr); err != nil {
		return u.storeFailure(ctx, "forgot_password", err)
	}

	//メール送信は応答をブロックしない。失敗はログに残すだけ
	go u.sendResetMail(email, resetToken)

	return nil
}

// リセットメールを別goroutineで送る
func (u *AuthUsecase) sendResetMail(email string, resetToken string) {
	ctx, cancel := context.WithTimeout(context.Background(), u.cfg.StoreTimeout)
	defer cancel()

	resetLink := fmt.Sprintf("%s/reset-password/%s", u.cfg.FEURL, resetToken)
	body := fmt.Sprintf(`
    <p>You requested a password reset.</p>
    <p>Click the link below to reset your password (valid for 15 minutes):</p>
    <a href="%s">%s</a>
  `, resetLink, resetLink)

	if err := u.mail.Send(ctx, email, "Password Reset Request", body); err != nil {
		u.log.Error("send reset mail failed", "error", err)
	}
}

// ResetPasswordはトークンを1回だけ消費してパスワードを更新する
func (u *AuthUsecase) ResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	if err := u.validator.ValidateReset(ctx, resetToken, newPassword); err != nil {
		return err
	}

	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	pwHash, err := u.hasher.Hash(newPassword)
	if err != nil {
		return ErrInternal
	}

	now := u.clock.Now()

	//照合→更新→削除を1トランザクションで行う
	//削除はパスワード更新のcommitと同時に確定する（単回使用）
	txErr := u.txm.WithinTx(ctx, func(r repository.TxRepos) error {
		pr, err := r.PasswordResets().FindValid(ctx, resetToken, now)
		if err != nil {
			if errors.Is(err, repository.ErrPasswordResetNotFound) {
				return ErrInvalidResetToken
			}
			return err
		}

		if err := r.Users().UpdatePasswordHash(ctx, pr.UserID, pwHash); err != nil {
			return err
		}

		return r.PasswordResets().DeleteByToken(ctx, resetToken)
	})
	if txErr != nil {
		if errors.Is(txErr, ErrInvalidResetToken) {
			return ErrInvalidResetToken
		}
		return u.storeFailure(ctx, "reset_password", txErr)
	}

	return nil
}

// Meはaccess tokenのsubからユーザーを引く
func (u *AuthUsecase) Me(ctx context.Context, userID string) (*UserDTO, error) {
	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		// token発行後にユーザーが消えているケース
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, u.storeFailure(ctx, "me", err)
	}

	//password hashは外に出さない
	return &UserDTO{
		ID:    user.ID,
		Email: user.Email,
	}, nil
}

// PurgeExpiredは両台帳の期限切れ行を削除する
func (u *AuthUsecase) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, cancel := u.withStoreTimeout(ctx)
	defer cancel()

	now := u.clock.Now()

	rtN, err := u.rtRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, u.storeFailure(ctx, "purge_expired", err)
	}

	prN, err := u.prRepo.DeleteExpired(ctx, now)
	if err != nil {
		return rtN, u.storeFailure(ctx, "purge_expired", err)
	}

	return rtN + prN, nil
}

// 依存先呼び出しに上限を付ける
func (u *AuthUsecase) withStoreTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, u.cfg.StoreTimeout)
}

// 依存先エラーをタイムアウトとそれ以外に分ける
// 内部事情はレスポンスに出さずログに残す
func (u *AuthUsecase) storeFailure(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		u.log.Error("dependency timeout", "op", op, "error", err)
		return ErrDependencyTimeout
	}
	u.log.Error("dependency failure", "op", op, "error", err)
	return ErrInternal
}

// 256bitの乱数をhexで返す
func generateResetToken() (string, error) {
	b := make([]byte, passwordResetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
