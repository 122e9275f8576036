// Package task はタスクCRUDのビジネスロジックを提供する。
// 所有権チェックとフィールドバリデーションはすべてこの層で行い、
// リポジトリには検証済みの値のみを渡す。
package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/repository"
	"github.com/hitoshi/taskdeck/internal/security"
)

// dueDateLayouts は期日文字列の受理フォーマット。先頭から順に試行する。
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// WriteMetrics はタスク書き込み操作のメトリクス記録に必要なインターフェース。
// metrics.Collectorの部分集合として定義する。
type WriteMetrics interface {
	RecordTaskCreated()
	RecordTaskUpdated()
	RecordTaskDeleted()
}

// Service はタスクに関するビジネスロジックを提供する。
type Service struct {
	repo      repository.TaskRepository
	sanitizer security.TextSanitizerService
	metrics   WriteMetrics
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(repo repository.TaskRepository, sanitizer security.TextSanitizerService, metrics WriteMetrics) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
		metrics:   metrics,
	}
}

// CreateInput はタスク作成の入力。
// Priority/Category/Statusは空文字列の場合デフォルト値が適用される。
// DueDateは生の文字列で受け取り、この層でパースする。
type CreateInput struct {
	Title       string
	Description *string
	Priority    string
	Category    string
	Status      string
	DueDate     string
}

// List は指定ユーザーの全タスクを規定の並び順で返す。
func (s *Service) List(ctx context.Context, userID string) ([]*model.Task, error) {
	tasks, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Create はタスクを検証して作成する。所有者は常に呼び出し元のユーザー。
// completedはstatusから導出される。
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*model.Task, error) {
	title := s.cleanText(input.Title)
	if title == "" {
		return nil, model.NewTitleRequiredError()
	}

	priority := model.PriorityMedium
	if input.Priority != "" {
		priority = model.Priority(input.Priority)
		if !priority.Valid() {
			return nil, model.NewInvalidPriorityError()
		}
	}

	category := model.CategoryPersonal
	if input.Category != "" {
		category = model.Category(input.Category)
		if !category.Valid() {
			return nil, model.NewInvalidCategoryError()
		}
	}

	status := model.StatusTodo
	if input.Status != "" {
		status = model.Status(input.Status)
		if !status.Valid() {
			return nil, model.NewInvalidStatusError()
		}
	}

	var dueDate *time.Time
	if input.DueDate != "" {
		parsed, err := parseDueDate(input.DueDate)
		if err != nil {
			return nil, model.NewInvalidDueDateError()
		}
		dueDate = parsed
	}

	now := time.Now()
	t := &model.Task{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: s.cleanOptionalText(input.Description),
		Priority:    priority,
		Category:    category,
		Status:      status,
		Completed:   status == model.StatusCompleted,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTaskCreated()
	}

	return t, nil
}

// Update はタスクを部分更新する。
// 指定されていないフィールドは変更されない。DueDateの明示的nullはクリアを意味する。
// completedの単独の源泉はstatusであり、completedフィールドへの直接書き込みは
// statusの書き込みに変換される（両方指定時はstatusが優先）。
func (s *Service) Update(ctx context.Context, userID string, patch Patch) (*model.Task, error) {
	if patch.ID == "" {
		return nil, model.NewTaskIDRequiredError()
	}

	t, err := s.repo.FindByID(ctx, patch.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	if t == nil {
		return nil, model.NewTaskNotFoundError()
	}
	if t.UserID != userID {
		return nil, model.NewForbiddenError()
	}

	// 永続化の前にすべての検証を終える（失敗時は無変更）
	if patch.Priority != nil && !model.Priority(*patch.Priority).Valid() {
		return nil, model.NewInvalidPriorityError()
	}
	if patch.Category != nil && !model.Category(*patch.Category).Valid() {
		return nil, model.NewInvalidCategoryError()
	}
	if patch.Status != nil && !model.Status(*patch.Status).Valid() {
		return nil, model.NewInvalidStatusError()
	}

	var newDueDate *time.Time
	if patch.DueDate.Set && patch.DueDate.Value != nil {
		parsed, err := parseDueDate(*patch.DueDate.Value)
		if err != nil {
			return nil, model.NewInvalidDueDateError()
		}
		newDueDate = parsed
	}

	if patch.Title != nil {
		title := s.cleanText(*patch.Title)
		if title == "" {
			return nil, model.NewTitleRequiredError()
		}
		t.Title = title
	}

	if patch.Description.Set {
		t.Description = s.cleanOptionalText(patch.Description.Value)
	}

	if patch.Priority != nil {
		t.Priority = model.Priority(*patch.Priority)
	}
	if patch.Category != nil {
		t.Category = model.Category(*patch.Category)
	}

	// statusとcompletedの同期: statusが単独の源泉。
	// completed単独指定はstatusの書き込みに変換し、両方指定時はstatusが勝つ。
	switch {
	case patch.Status != nil:
		t.Status = model.Status(*patch.Status)
	case patch.Completed != nil:
		if *patch.Completed {
			t.Status = model.StatusCompleted
		} else if t.Status == model.StatusCompleted {
			t.Status = model.StatusTodo
		}
	}
	t.Completed = t.Status == model.StatusCompleted

	if patch.DueDate.Set {
		t.DueDate = newDueDate
	}

	t.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTaskUpdated()
	}

	return t, nil
}

// Delete はタスクを削除する。所有者のみが削除できる。
// 同一IDへの2回目の削除はTASK_NOT_FOUNDになる（冪等な失敗）。
func (s *Service) Delete(ctx context.Context, userID, taskID string) error {
	if taskID == "" {
		return model.NewTaskIDRequiredError()
	}

	t, err := s.repo.FindByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	if t == nil {
		return model.NewTaskNotFoundError()
	}
	if t.UserID != userID {
		return model.NewForbiddenError()
	}

	if err := s.repo.DeleteByID(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordTaskDeleted()
	}

	return nil
}

// cleanText はユーザー入力テキストをサニタイズしてトリムする。
func (s *Service) cleanText(raw string) string {
	if s.sanitizer != nil {
		return s.sanitizer.Sanitize(raw)
	}
	return strings.TrimSpace(raw)
}

// cleanOptionalText は任意テキストをサニタイズする。
// nilまたはトリム後に空になる値はnilに正規化する。
func (s *Service) cleanOptionalText(raw *string) *string {
	if raw == nil {
		return nil
	}
	cleaned := s.cleanText(*raw)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}

// parseDueDate は期日文字列をパースする。
func parseDueDate(value string) (*time.Time, error) {
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("unrecognized due date format: %q", value)
}
