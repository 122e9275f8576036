// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュであり、APIレスポンスには含めない。
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity は検証済みクレデンシャルから得た認証済みユーザーの識別情報を表す。
// トークンコーデックが発行・復号する最小単位。
type Identity struct {
	UserID string
	Email  string
}

// DisplayName は表示名を返す。
// nameが未設定の場合はメールアドレスのローカル部をフォールバックとして使用する。
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	for i := 0; i < len(u.Email); i++ {
		if u.Email[i] == '@' {
			return u.Email[:i]
		}
	}
	return u.Email
}
