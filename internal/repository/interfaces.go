// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/taskdeck/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error
}

// TaskRepository はタスクデータの永続化インターフェース。
// 所有権チェックはサービス層の責務であり、FindByID/Update/DeleteByIDは
// user_idで絞り込まない。
type TaskRepository interface {
	// ListByUserID は指定ユーザーの全タスクを返す。
	// 並び順: 未完了が先、優先度降順（HIGH > MEDIUM > LOW）、
	// 期日昇順（期日なしは同一バケット内で期日ありの後: NULLS LAST）、
	// 最後に作成日時降順。
	ListByUserID(ctx context.Context, userID string) ([]*model.Task, error)

	// FindByID は指定IDのタスクを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Task, error)

	// Create はタスクを作成する。
	Create(ctx context.Context, task *model.Task) error

	// Update はタスクの全フィールドを上書き更新する。
	// 部分更新のマージはサービス層で行う。
	Update(ctx context.Context, task *model.Task) error

	// DeleteByID は指定IDのタスクを削除する。
	DeleteByID(ctx context.Context, id string) error
}
