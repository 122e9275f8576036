// Package model はドメインモデルを定義する。
package model

import "time"

// Priority はタスクの優先度を表す。
type Priority string

const (
	// PriorityLow は低優先度。
	PriorityLow Priority = "LOW"
	// PriorityMedium は中優先度（デフォルト）。
	PriorityMedium Priority = "MEDIUM"
	// PriorityHigh は高優先度。
	PriorityHigh Priority = "HIGH"
)

// Valid は優先度が定義済みの値かどうかを判定する。
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Rank はソート用の優先度ランクを返す。HIGH > MEDIUM > LOW の順。
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Category はタスクのカテゴリを表す。
type Category string

const (
	// CategoryPersonal は個人タスクのカテゴリ（デフォルト）。
	CategoryPersonal Category = "PERSONAL"
	// CategoryWork は仕事タスクのカテゴリ。
	CategoryWork Category = "WORK"
)

// Valid はカテゴリが定義済みの値かどうかを判定する。
func (c Category) Valid() bool {
	return c == CategoryPersonal || c == CategoryWork
}

// Status はタスクの進行状態を表す。
type Status string

const (
	// StatusTodo は未着手状態（デフォルト）。
	StatusTodo Status = "TODO"
	// StatusInProgress は進行中状態。
	StatusInProgress Status = "IN_PROGRESS"
	// StatusCompleted は完了状態。
	StatusCompleted Status = "COMPLETED"
)

// Valid はステータスが定義済みの値かどうかを判定する。
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task はユーザーが管理する単一のタスクを表す。
// completedはstatusから導出される（status == COMPLETED のときのみtrue）。
type Task struct {
	ID          string
	UserID      string
	Title       string
	Description *string
	Priority    Priority
	Category    Category
	Status      Status
	Completed   bool
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
