package postgres

import (
	"context"
	"time"

	"surveygen/models"
	"surveygen/ports"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// LLMUsageRepositoryImpl implements LLMUsageRepository for PostgreSQL
type LLMUsageRepositoryImpl struct {
	db *sqlx.DB
}

// NewLLMUsageRepository creates a new PostgreSQL LLM usage repository
func NewLLMUsageRepository(db *sqlx.DB) ports.LLMUsageRepository {
	return &LLMUsageRepositoryImpl{db: db}
}

// RecordUsage records LLM usage for an API call
func (r *LLMUsageRepositoryImpl) RecordUsage(ctx context.Context, usage *models.LLMUsage) error {
	if usage.ID == uuid.Nil {
		usage.ID = uuid.New()
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO llm_usage (
			id, user_id, run_id, provider, model, operation_type,
			prompt_tokens, completion_tokens, total_tokens, cached, created_at
		) VALUES (
			:id, :user_id, :run_id, :provider, :model, :operation_type,
			:prompt_tokens, :completion_tokens, :total_tokens, :cached, :created_at
		)
	`, usage)
	return err
}

// GetUserUsage retrieves usage records for a user within a date range
func (r *LLMUsageRepositoryImpl) GetUserUsage(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.LLMUsage, error) {
	var usages []*models.LLMUsage
	err := r.db.SelectContext(ctx, &usages, `
		SELECT id, user_id, run_id, provider, model, operation_type,
		       prompt_tokens, completion_tokens, total_tokens, cached, created_at
		FROM llm_usage
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at DESC
	`, userID, start, end)
	return usages, err
}

type usageTotals struct {
	RequestCount          int `db:"request_count"`
	RunCount              int `db:"run_count"`
	TotalTokens           int `db:"total_tokens"`
	TotalPromptTokens     int `db:"total_prompt_tokens"`
	TotalCompletionTokens int `db:"total_completion_tokens"`
}

// GetUserUsageSummary returns aggregated usage statistics for a user
func (r *LLMUsageRepositoryImpl) GetUserUsageSummary(ctx context.Context, userID uuid.UUID, start, end time.Time) (*models.UserUsageSummary, error) {
	var totals usageTotals
	err := r.db.GetContext(ctx, &totals, `
		SELECT
			COUNT(*) AS request_count,
			COUNT(DISTINCT run_id) AS run_count,
			COALESCE(SUM(total_tokens), 0) AS total_tokens,
			COALESCE(SUM(prompt_tokens), 0) AS total_prompt_tokens,
			COALESCE(SUM(completion_tokens), 0) AS total_completion_tokens
		FROM llm_usage
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
	`, userID, start, end)
	if err != nil {
		return nil, err
	}

	summary := &models.UserUsageSummary{
		UserID:                userID,
		PeriodStart:           start,
		PeriodEnd:             end,
		TotalTokens:           totals.TotalTokens,
		TotalPromptTokens:     totals.TotalPromptTokens,
		TotalCompletionTokens: totals.TotalCompletionTokens,
		RequestCount:          totals.RequestCount,
		RunCount:              totals.RunCount,
		ByOperation:           make(map[string]models.OperationUsage),
		ByModel:               make(map[string]models.ModelUsage),
	}

	byOperation, err := r.GetUsageByOperation(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}
	for op, usage := range byOperation {
		summary.ByOperation[op] = *usage
	}

	// Get model breakdown
	modelRows, err := r.db.QueryContext(ctx, `
		SELECT model, provider, SUM(total_tokens) as total_tokens, COUNT(*) as request_count
		FROM llm_usage
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY model, provider
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer modelRows.Close()

	for modelRows.Next() {
		var model models.ModelUsage
		if err := modelRows.Scan(&model.Model, &model.Provider, &model.TotalTokens, &model.RequestCount); err != nil {
			return nil, err
		}
		summary.ByModel[model.Model] = model
	}

	return summary, modelRows.Err()
}

// GetUsageByOperation returns usage aggregated by pipeline task
func (r *LLMUsageRepositoryImpl) GetUsageByOperation(ctx context.Context, userID uuid.UUID, start, end time.Time) (map[string]*models.OperationUsage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT operation_type, SUM(total_tokens) as total_tokens, COUNT(*) as request_count
		FROM llm_usage
		WHERE user_id = $1 AND created_at >= $2 AND created_at <= $3
		GROUP BY operation_type
	`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]*models.OperationUsage)
	for rows.Next() {
		var op models.OperationUsage
		if err := rows.Scan(&op.Operation, &op.TotalTokens, &op.RequestCount); err != nil {
			return nil, err
		}
		result[op.Operation] = &op
	}

	return result, rows.Err()
}

// GetRunUsage totals the calls made by one generation run
func (r *LLMUsageRepositoryImpl) GetRunUsage(ctx context.Context, runID string) (*models.RunUsage, error) {
	usage := &models.RunUsage{}
	err := r.db.GetContext(ctx, usage, `
		SELECT
			$1::text AS run_id,
			COALESCE(SUM(total_tokens), 0) AS total_tokens,
			COUNT(*) AS request_count,
			COUNT(*) FILTER (WHERE cached) AS cached_count
		FROM llm_usage
		WHERE run_id = $1
	`, runID)
	if err != nil {
		return nil, err
	}
	return usage, nil
}
