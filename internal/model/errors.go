// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, task, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeTaskNotFound       = "TASK_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeTaskIDRequired     = "TASK_ID_REQUIRED"
	ErrCodeTitleRequired      = "TITLE_REQUIRED"
	ErrCodeInvalidPriority    = "INVALID_PRIORITY"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidDueDate     = "INVALID_DUE_DATE"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeEmailTaken         = "EMAIL_TAKEN"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidEmail       = "INVALID_EMAIL"
	ErrCodeWeakPassword       = "WEAK_PASSWORD"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "Unauthorized",
		Category: "auth",
		Action:   "Log in and try again.",
	}
}

// NewForbiddenError は他ユーザー所有リソースへの操作エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "Forbidden",
		Category: "auth",
		Action:   "You can only modify your own tasks.",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  "Task not found",
		Category: "task",
		Action:   "Reload the task list and try again.",
	}
}

// NewUserNotFoundError はユーザー未検出エラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "User not found",
		Category: "auth",
		Action:   "Log in again.",
	}
}

// NewTaskIDRequiredError はタスクID未指定エラーを生成する。
func NewTaskIDRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTaskIDRequired,
		Message:  "Task ID is required",
		Category: "validation",
		Action:   "Specify the id of the task to modify.",
	}
}

// NewTitleRequiredError はタイトル未入力エラーを生成する。
// 空白のみのタイトルも未入力として扱う。
func NewTitleRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeTitleRequired,
		Message:  "Title is required",
		Category: "validation",
		Action:   "Enter a non-empty task title.",
	}
}

// NewInvalidPriorityError は無効な優先度エラーを生成する。
func NewInvalidPriorityError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPriority,
		Message:  "Invalid priority value",
		Category: "validation",
		Action:   "Use one of LOW, MEDIUM or HIGH.",
	}
}

// NewInvalidCategoryError は無効なカテゴリエラーを生成する。
func NewInvalidCategoryError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCategory,
		Message:  "Invalid category value",
		Category: "validation",
		Action:   "Use one of PERSONAL or WORK.",
	}
}

// NewInvalidStatusError は無効なステータスエラーを生成する。
func NewInvalidStatusError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidStatus,
		Message:  "Invalid status value",
		Category: "validation",
		Action:   "Use one of TODO, IN_PROGRESS or COMPLETED.",
	}
}

// NewInvalidDueDateError は期日の形式エラーを生成する。
func NewInvalidDueDateError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDueDate,
		Message:  "Invalid due date format",
		Category: "validation",
		Action:   "Use an RFC 3339 timestamp or a YYYY-MM-DD date.",
	}
}

// NewInvalidRequestError はリクエストボディの解析エラーを生成する。
func NewInvalidRequestError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  "Invalid request body",
		Category: "validation",
		Action:   "Send a well-formed JSON body.",
	}
}

// NewEmailTakenError はメールアドレス重複エラーを生成する。
func NewEmailTakenError() *APIError {
	return &APIError{
		Code:     ErrCodeEmailTaken,
		Message:  "Email is already registered",
		Category: "validation",
		Action:   "Log in with this email or use another one.",
	}
}

// NewInvalidEmailError はメールアドレスの形式エラーを生成する。
func NewInvalidEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  "A valid email address is required",
		Category: "validation",
		Action:   "Enter an email address like name@example.com.",
	}
}

// NewWeakPasswordError はパスワード強度不足エラーを生成する。
func NewWeakPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeWeakPassword,
		Message:  "Password must be at least 8 characters",
		Category: "validation",
		Action:   "Choose a longer password.",
	}
}

// NewInvalidCredentialsError は認証情報不一致エラーを生成する。
// メール未登録とパスワード不一致を区別しない。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "Invalid email or password",
		Category: "auth",
		Action:   "Check your email and password.",
	}
}
