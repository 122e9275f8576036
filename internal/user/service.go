// Package user はユーザープロフィールに関するビジネスロジックを提供する。
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
)

// Profile は表示用のユーザープロフィール。
// 名前が未設定の場合はメールアドレスのローカル部が入る。
type Profile struct {
	ID        string
	Name      string
	Email     string
	AvatarURL string
	CreatedAt time.Time
}

// Service はユーザープロフィールに関するビジネスロジックを提供する。
type Service struct {
	userRepo repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(userRepo repository.UserRepository) *Service {
	return &Service{userRepo: userRepo}
}

// GetProfile は指定ユーザーのプロフィールを返す。
// ユーザーが存在しない場合はUSER_NOT_FOUNDを返す
// （トークンは有効だがユーザーが削除済みのケース）。
func (s *Service) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if u == nil {
		return nil, model.NewUserNotFoundError()
	}

	name := u.DisplayName()
	return &Profile{
		ID:        u.ID,
		Name:      name,
		Email:     u.Email,
		AvatarURL: GenerateAvatarURL(name, DefaultAvatarSize),
		CreatedAt: u.CreatedAt,
	}, nil
}
