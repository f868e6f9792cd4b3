package ports

import (
	"context"
	"time"

	"surveygen/models"

	"github.com/google/uuid"
)

// LLMUsageRepository defines the interface for LLM usage data operations
type LLMUsageRepository interface {
	// Record usage for an LLM call
	RecordUsage(ctx context.Context, usage *models.LLMUsage) error

	// Get usage for a user within date range
	GetUserUsage(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*models.LLMUsage, error)

	// Get aggregated usage summary for a user
	GetUserUsageSummary(ctx context.Context, userID uuid.UUID, start, end time.Time) (*models.UserUsageSummary, error)

	// Get usage by pipeline task
	GetUsageByOperation(ctx context.Context, userID uuid.UUID, start, end time.Time) (map[string]*models.OperationUsage, error)

	// Get token totals per generation run
	GetRunUsage(ctx context.Context, runID string) (*models.RunUsage, error)
}
