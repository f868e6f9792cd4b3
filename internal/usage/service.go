package usage

import (
	"context"
	"sync"
	"time"

	"surveygen/domain/core"
	"surveygen/internal"
	"surveygen/models"
	"surveygen/ports"

	"github.com/google/uuid"
)

// Service handles LLM usage tracking and persistence
type Service struct {
	repo      ports.LLMUsageRepository
	logger    *internal.Logger
	baseDelay time.Duration
	pending   sync.WaitGroup
}

// NewService creates a new usage service
func NewService(repo ports.LLMUsageRepository, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{repo: repo, logger: logger.With("UsageService"), baseDelay: 100 * time.Millisecond}
}

// Record describes one metered call.
type Record struct {
	UserID    core.UserID
	RunID     string
	Operation string
	Usage     *ports.UsageData
	Cached    bool
}

// RecordUsage asynchronously records LLM usage for a user operation
func (s *Service) RecordUsage(ctx context.Context, rec Record) error {
	// Validate usage data
	if rec.Usage == nil {
		s.logger.Error("nil usage data provided")
		return nil // Don't fail the caller for tracking issues
	}

	usage := rec.Usage
	if usage.PromptTokens < 0 || usage.CompletionTokens < 0 || usage.TotalTokens < 0 {
		s.logger.Error("invalid token counts: %+v", usage)
		return nil
	}

	total := usage.TotalTokens
	if total == 0 {
		total = usage.PromptTokens + usage.CompletionTokens
	}

	// Create usage record
	llmUsage := &models.LLMUsage{
		ID:               uuid.New(),
		UserID:           rec.UserID.UUID(),
		RunID:            rec.RunID,
		Provider:         usage.Provider,
		Model:            usage.Model,
		OperationType:    rec.Operation,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      total,
		Cached:           rec.Cached,
		CreatedAt:        time.Now(),
	}

	// Async persistence to avoid blocking LLM calls
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.persistWithRetry(llmUsage); err != nil {
			s.logger.Error("failed to persist usage after retries: %v", err)
		}
	}()

	return nil
}

// Flush waits for in-flight records to finish persisting.
func (s *Service) Flush() {
	s.pending.Wait()
}

// persistWithRetry attempts to persist usage with linear backoff
func (s *Service) persistWithRetry(usage *models.LLMUsage) error {
	const maxRetries = 3

	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = s.repo.RecordUsage(ctx, usage)
		cancel()
		if err == nil {
			return nil // Success
		}

		if attempt < maxRetries-1 {
			time.Sleep(time.Duration(attempt+1) * s.baseDelay)
		}
	}
	return err
}

// GetUserUsageSummary returns aggregated usage for a user in a time period
func (s *Service) GetUserUsageSummary(ctx context.Context, userID core.UserID, start, end time.Time) (*models.UserUsageSummary, error) {
	return s.repo.GetUserUsageSummary(ctx, userID.UUID(), start, end)
}

// GetUserUsage returns detailed usage records for a user
func (s *Service) GetUserUsage(ctx context.Context, userID core.UserID, start, end time.Time) ([]*models.LLMUsage, error) {
	return s.repo.GetUserUsage(ctx, userID.UUID(), start, end)
}

// GetRunUsage returns token totals for one generation run
func (s *Service) GetRunUsage(ctx context.Context, runID string) (*models.RunUsage, error) {
	return s.repo.GetRunUsage(ctx, runID)
}
