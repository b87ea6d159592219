package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// 署名不正・形式不正
	ErrTokenInvalid = errors.New("token invalid")
	// 期限切れ
	ErrTokenExpired = errors.New("token expired")
)

// アクセストークンの有効期限
const AccessTokenTTL = 15 * time.Minute

// リフレッシュトークンの有効期限
const RefreshTokenTTL = 7 * 24 * time.Hour

// 検証済みトークンから取り出すクレーム
type Claims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// JWTの発行と検証の約束
type Issuer interface {
	IssueAccess(userID string, email string, now time.Time) (string, time.Time, error)
	IssueRefresh(userID string, email string, now time.Time) (string, time.Time, error)
	Verify(raw string) (Claims, error)
}

// HS256のJWT発行者
// secretはプロセス全体で1つ。起動時にconfigから注入する
type JWTIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// DI
func NewJWTIssuer(secret string) *JWTIssuer {
	return &JWTIssuer{
		secret:     []byte(secret),
		accessTTL:  AccessTokenTTL,
		refreshTTL: RefreshTokenTTL,
	}
}

// アクセストークンを発行する（15分）
func (i *JWTIssuer) IssueAccess(userID string, email string, now time.Time) (string, time.Time, error) {
	return i.issue(userID, email, now, i.accessTTL)
}

// リフレッシュトークンを発行する（7日）
func (i *JWTIssuer) IssueRefresh(userID string, email string, now time.Time) (string, time.Time, error) {
	return i.issue(userID, email, now, i.refreshTTL)
}

func (i *JWTIssuer) issue(userID string, email string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

// Verifyは署名と期限を検証してクレームを返す
func (i *JWTIssuer) Verify(raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if tok == nil || !tok.Valid {
		return Claims{}, ErrTokenInvalid
	}

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok || sub == "" {
		return Claims{}, ErrTokenInvalid
	}

	email, ok := mapClaims["email"].(string)
	if !ok {
		return Claims{}, ErrTokenInvalid
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{
		UserID:    sub,
		Email:     email,
		ExpiresAt: exp.Time,
	}, nil
}
