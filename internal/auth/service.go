// Package auth はパスワード認証とクレデンシャル発行を提供する。
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// minPasswordLength はパスワードの最小文字数。
const minPasswordLength = 8

// TokenIssuer はクレデンシャルトークンの発行に必要なインターフェース。
// token.Codecの部分集合として定義する。
type TokenIssuer interface {
	Issue(identity model.Identity) (string, error)
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
	issuer   TokenIssuer
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository, issuer TokenIssuer) *Service {
	return &Service{
		userRepo: userRepo,
		issuer:   issuer,
	}
}

// Signup は新規ユーザーを登録し、クレデンシャルトークンを発行する。
// メールアドレスは小文字に正規化して保存する。
func (s *Service) Signup(ctx context.Context, email, password, name string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, "", model.NewInvalidEmailError()
	}
	if len(password) < minPasswordLength {
		return nil, "", model.NewWeakPasswordError()
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		return nil, "", model.NewEmailTakenError()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	u := &model.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	tokenString, err := s.issuer.Issue(model.Identity{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", u.ID),
	)

	return u, tokenString, nil
}

// Login はメールアドレスとパスワードを検証し、クレデンシャルトークンを発行する。
// メール未登録とパスワード不一致はどちらもINVALID_CREDENTIALSであり区別しない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to find user by email: %w", err)
	}
	if u == nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", model.NewInvalidCredentialsError()
	}

	tokenString, err := s.issuer.Issue(model.Identity{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	slog.Info("user logged in",
		slog.String("user_id", u.ID),
	)

	return u, tokenString, nil
}

// normalizeEmail はメールアドレスをトリムして小文字化する。
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validEmail は最小限のメールアドレス形式チェックを行う。
// 厳密なRFC検証はせず、ローカル部とドメイン部の存在のみ確認する。
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.Contains(email[at+1:], "@")
}
