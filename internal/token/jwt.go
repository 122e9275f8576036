// Package token は署名付き・期限付きのアイデンティティクレデンシャルの
// 発行と復号を提供する。
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hitoshi/taskdeck/internal/model"
)

// Claims はJWTクレーム。標準クレームにユーザーIDとメールアドレスを加える。
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Codec はHMAC署名付きJWTによるクレデンシャルのコーデック。
// 同一のsecretで発行・復号を行う。復号はトークン・secret・現在時刻の純関数。
type Codec struct {
	secret []byte
	maxAge time.Duration
}

// NewCodec はCodecを生成する。secretが空の場合はエラーを返す
// （プロセス起動時に検出されるべき設定不備）。
func NewCodec(secret string, maxAge time.Duration) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is not configured")
	}
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}
	return &Codec{secret: []byte(secret), maxAge: maxAge}, nil
}

// Issue はアイデンティティを符号化した署名付きトークンを発行する。
// 有効期限は発行時刻からmaxAge（デフォルト7日）。
func (c *Codec) Issue(identity model.Identity) (string, error) {
	now := time.Now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.maxAge)),
		},
		UserID: identity.UserID,
		Email:  identity.Email,
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode はトークンを検証し、アイデンティティを返す。
// 署名不正・改ざん・期限切れ・形式不正のいずれの場合もnilを返し、
// エラーを呼び出し元に伝播しない。
func (c *Codec) Decode(tokenString string) *model.Identity {
	claims := &Claims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return c.secret, nil
	})
	if err != nil || !t.Valid {
		return nil
	}
	if claims.UserID == "" {
		return nil
	}

	return &model.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
	}
}
