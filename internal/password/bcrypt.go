package password

import "golang.org/x/crypto/bcrypt"

// Hasherは平文パスワードのハッシュ化と照合の約束
type Hasher interface {
	Hash(plain string) (string, error)
	//照合に失敗してもエラーは返さずfalseを返す
	Verify(plain string, hashed string) bool
}

// bcryptハッシュ化
type BcryptHasher struct {
	cost int
}

// DI
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// bcryptでハッシュ化
// ソルトとコストはダイジェスト自身に埋め込まれる
func (h *BcryptHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// 平文(plain)をbcryptで比較
func (h *BcryptHasher) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
