package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/taskdeck/internal/dashboard"
	"github.com/hitoshi/taskdeck/internal/middleware"
	"github.com/hitoshi/taskdeck/internal/model"
	"github.com/hitoshi/taskdeck/internal/task"
)

// TaskServiceInterface はタスクハンドラーが必要とするサービスインターフェース。
type TaskServiceInterface interface {
	// List は指定ユーザーの全タスクを規定の並び順で返す。
	List(ctx context.Context, userID string) ([]*model.Task, error)
	// Create はタスクを検証して作成する。
	Create(ctx context.Context, userID string, input task.CreateInput) (*model.Task, error)
	// Update はタスクを部分更新する。
	Update(ctx context.Context, userID string, patch task.Patch) (*model.Task, error)
	// Delete はタスクを削除する。
	Delete(ctx context.Context, userID, taskID string) error
}

// TaskHandler はタスク管理のHTTPハンドラー。
type TaskHandler struct {
	service TaskServiceInterface
}

// NewTaskHandler はTaskHandlerを生成する。
func NewTaskHandler(service TaskServiceInterface) *TaskHandler {
	return &TaskHandler{service: service}
}

// --- リクエスト・レスポンス型 ---

// taskResponse はタスクのJSON表現。
type taskResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"userId"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Completed   bool       `json:"completed"`
	Priority    string     `json:"priority"`
	Category    string     `json:"category"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// taskListResponse はタスク一覧のレスポンス。
type taskListResponse struct {
	Tasks []taskResponse `json:"tasks"`
}

// taskGroupResponse はカテゴリ別グループのレスポンス。
type taskGroupResponse struct {
	Category string         `json:"category"`
	Tasks    []taskResponse `json:"tasks"`
}

// taskGroupedListResponse はグルーピング済みタスク一覧のレスポンス。
type taskGroupedListResponse struct {
	Groups []taskGroupResponse `json:"groups"`
}

// taskCreateRequest はタスク作成リクエストのボディ。
type taskCreateRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	Category    string  `json:"category"`
	Status      string  `json:"status"`
	DueDate     string  `json:"dueDate"`
}

// taskUpdateRequest はタスク更新リクエストのボディ。
// descriptionとdueDateはjson.RawMessageで受け取り、
// 「未指定」と「明示的null」を区別する。
type taskUpdateRequest struct {
	ID          string          `json:"id"`
	Title       *string         `json:"title"`
	Description json.RawMessage `json:"description"`
	Completed   *bool           `json:"completed"`
	Priority    *string         `json:"priority"`
	Category    *string         `json:"category"`
	Status      *string         `json:"status"`
	DueDate     json.RawMessage `json:"dueDate"`
}

// overviewResponse はタスク概況サマリーのレスポンス。
type overviewResponse struct {
	Total     int                    `json:"total"`
	Completed int                    `json:"completed"`
	Remaining int                    `json:"remaining"`
	Personal  categoryCountsResponse `json:"personal"`
	Work      categoryCountsResponse `json:"work"`
}

// categoryCountsResponse はカテゴリ別件数のレスポンス。
type categoryCountsResponse struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Remaining int `json:"remaining"`
}

// ListTasks はタスク一覧を取得する。
// GET /api/tasks?category=ALL|PERSONAL|WORK&status=ALL|COMPLETED|REMAINING&q=xxx&grouped=true
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	pipeline, apiErr := pipelineFromQuery(r)
	if apiErr != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, apiErr)
		return
	}

	tasks, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	filtered := pipeline.Apply(tasks)

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("grouped") == "true" {
		groups := pipeline.Group(filtered)
		resp := taskGroupedListResponse{Groups: make([]taskGroupResponse, 0, len(groups))}
		for _, g := range groups {
			resp.Groups = append(resp.Groups, taskGroupResponse{
				Category: string(g.Category),
				Tasks:    toTaskResponses(g.Tasks),
			})
		}
		json.NewEncoder(w).Encode(resp)
		return
	}
	json.NewEncoder(w).Encode(taskListResponse{Tasks: toTaskResponses(filtered)})
}

// GetTaskOverview はタスク全体の概況サマリーを取得する。
// GET /api/tasks/overview
func (h *TaskHandler) GetTaskOverview(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	tasks, err := h.service.List(r.Context(), identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	o := dashboard.Summarize(tasks)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(overviewResponse{
		Total:     o.Total,
		Completed: o.Completed,
		Remaining: o.Remaining,
		Personal:  categoryCountsResponse(o.Personal),
		Work:      categoryCountsResponse(o.Work),
	})
}

// CreateTask はタスクを作成する。
// POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req taskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	created, err := h.service.Create(r.Context(), identity.UserID, task.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Status:      req.Status,
		DueDate:     req.DueDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(toTaskResponse(created))
}

// UpdateTask はタスクを部分更新する。対象タスクはボディのidで指定する。
// PATCH /api/tasks
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req taskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	description, ok := optionalStringFromRaw(req.Description)
	if !ok {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}
	dueDate, ok := optionalStringFromRaw(req.DueDate)
	if !ok {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	updated, err := h.service.Update(r.Context(), identity.UserID, task.Patch{
		ID:          req.ID,
		Title:       req.Title,
		Description: description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		Category:    req.Category,
		Status:      req.Status,
		DueDate:     dueDate,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(toTaskResponse(updated))
}

// DeleteTask はタスクを削除する。対象タスクはクエリパラメータのidで指定する。
// DELETE /api/tasks?id=xxx
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, r.URL.Query().Get("id")); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Task deleted successfully"})
}

// pipelineFromQuery はクエリパラメータから表示パイプラインを構築する。
// 無効なフィルタ値はバリデーションエラーを返す。
func pipelineFromQuery(r *http.Request) (dashboard.Pipeline, *model.APIError) {
	p := dashboard.Pipeline{
		Category: dashboard.CategoryAll,
		Status:   dashboard.StatusAll,
		Query:    r.URL.Query().Get("q"),
	}

	if v := r.URL.Query().Get("category"); v != "" {
		p.Category = dashboard.CategoryFilter(v)
		if !p.Category.Valid() {
			return p, model.NewInvalidCategoryError()
		}
	}
	if v := r.URL.Query().Get("status"); v != "" {
		p.Status = dashboard.StatusFilter(v)
		if !p.Status.Valid() {
			return p, model.NewInvalidStatusError()
		}
	}
	return p, nil
}

// optionalStringFromRaw はjson.RawMessageを3状態のOptionalStringに変換する。
// rawがnilなら未指定、JSONのnullなら明示的クリア、文字列なら値あり。
// 文字列以外の値が来た場合はok=falseを返す。
func optionalStringFromRaw(raw json.RawMessage) (task.OptionalString, bool) {
	if raw == nil {
		return task.OptionalString{}, true
	}

	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return task.OptionalString{}, false
	}
	return task.OptionalString{Set: true, Value: value}, true
}

func toTaskResponse(t *model.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Priority:    string(t.Priority),
		Category:    string(t.Category),
		Status:      string(t.Status),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskResponses(tasks []*model.Task) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}
