package models

import (
	"time"

	"github.com/google/uuid"
)

// LLMUsage represents a single model call's token usage
type LLMUsage struct {
	ID               uuid.UUID `json:"id" db:"id"`
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	RunID            string    `json:"run_id" db:"run_id"`
	Provider         string    `json:"provider" db:"provider"`             // 'openai', 'heuristic'
	Model            string    `json:"model" db:"model"`                   // 'gpt-5', 'gpt-4o-mini', etc.
	OperationType    string    `json:"operation_type" db:"operation_type"` // pipeline task, see Op constants
	PromptTokens     int       `json:"prompt_tokens" db:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens" db:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens" db:"total_tokens"`
	Cached           bool      `json:"cached" db:"cached"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}

// UserUsageSummary provides aggregated usage statistics for a user
type UserUsageSummary struct {
	UserID                uuid.UUID                 `json:"user_id"`
	PeriodStart           time.Time                 `json:"period_start"`
	PeriodEnd             time.Time                 `json:"period_end"`
	TotalTokens           int                       `json:"total_tokens"`
	TotalPromptTokens     int                       `json:"total_prompt_tokens"`
	TotalCompletionTokens int                       `json:"total_completion_tokens"`
	ByOperation           map[string]OperationUsage `json:"by_operation"`
	ByModel               map[string]ModelUsage     `json:"by_model"`
	RequestCount          int                       `json:"request_count"`
	RunCount              int                       `json:"run_count"`
}

// OperationUsage represents usage aggregated by pipeline task
type OperationUsage struct {
	Operation    string `json:"operation"`
	TotalTokens  int    `json:"total_tokens"`
	RequestCount int    `json:"request_count"`
}

// ModelUsage represents usage aggregated by model
type ModelUsage struct {
	Model        string `json:"model"`
	Provider     string `json:"provider"`
	TotalTokens  int    `json:"total_tokens"`
	RequestCount int    `json:"request_count"`
}

// RunUsage totals one generation run.
type RunUsage struct {
	RunID        string `json:"run_id" db:"run_id"`
	TotalTokens  int    `json:"total_tokens" db:"total_tokens"`
	RequestCount int    `json:"request_count" db:"request_count"`
	CachedCount  int    `json:"cached_count" db:"cached_count"`
}

// Operation types for categorization
const (
	OpAnalysis   = "analysis"
	OpPlanning   = "planning"
	OpDesign     = "design"
	OpComponents = "components"
	OpValidation = "validation"
)
