package repository_test

import (
	"context"
	"testing"
	"time"

	infraRepo "app/internal/infra/repository"
	domainrepo "app/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// sqlmockを裏に挿したgorm.DBを作る
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	assert.NoError(t, err)

	return gormDB, mock
}

// =====================
// RefreshTokenRepository
// =====================

func TestRefreshTokenFindValid_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewRefreshTokenRepository(db)

	now := time.Now()
	exp := now.Add(time.Hour)

	rows := sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}).
		AddRow("rt-1", "u-1", "tok-1", exp, now)

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens" WHERE token = \$1 AND user_id = \$2 AND expires_at > \$3`).
		WillReturnRows(rows)

	rt, err := repo.FindValid(context.Background(), "tok-1", "u-1", now)

	assert.NoError(t, err)
	assert.Equal(t, "rt-1", rt.ID)
	assert.Equal(t, "u-1", rt.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenFindValid_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewRefreshTokenRepository(db)

	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "refresh_tokens"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}))

	rt, err := repo.FindValid(context.Background(), "unknown", "u-1", now)

	assert.Nil(t, rt)
	assert.ErrorIs(t, err, domainrepo.ErrRefreshTokenNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenDeleteByToken_ZeroRowsIsSuccess(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewRefreshTokenRepository(db)

	//対象行が無くてもエラーにしない（logoutの冪等性）
	mock.ExpectExec(`DELETE FROM "refresh_tokens" WHERE token = \$1`).
		WithArgs("unknown").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByToken(context.Background(), "unknown")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRefreshTokenDeleteExpired(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewRefreshTokenRepository(db)

	now := time.Now()

	mock.ExpectExec(`DELETE FROM "refresh_tokens" WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteExpired(context.Background(), now)

	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =====================
// PasswordResetRepository
// =====================

func TestPasswordResetFindValid_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewPasswordResetRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "password_resets" WHERE token = \$1 AND expires_at > \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "token", "expires_at", "created_at"}))

	pr, err := repo.FindValid(context.Background(), "unknown", time.Now())

	assert.Nil(t, pr)
	assert.ErrorIs(t, err, domainrepo.ErrPasswordResetNotFound)
}

func TestPasswordResetDeleteByToken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewPasswordResetRepository(db)

	mock.ExpectExec(`DELETE FROM "password_resets" WHERE token = \$1`).
		WithArgs("tok-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.DeleteByToken(context.Background(), "tok-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

// =====================
// UserRepository
// =====================

func TestUserFindByEmail_Found(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewUserGormRepository(db)

	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}).
		AddRow("u-1", "alice@example.com", "hash", now, now)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "alice@example.com")

	assert.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "alice@example.com", u.Email)
}

func TestUserFindByEmail_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewUserGormRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash", "created_at", "updated_at"}))

	u, err := repo.FindByEmail(context.Background(), "ghost@example.com")

	assert.Nil(t, u)
	assert.ErrorIs(t, err, domainrepo.ErrUserNotFound)
}

func TestUserUpdatePasswordHash_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	repo := infraRepo.NewUserGormRepository(db)

	mock.ExpectExec(`UPDATE "users" SET "password_hash"=\$1 WHERE id = \$2`).
		WithArgs("new-hash", "u-gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash(context.Background(), "u-gone", "new-hash")

	assert.ErrorIs(t, err, domainrepo.ErrUserNotFound)
}
