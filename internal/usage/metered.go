package usage

import (
	"context"

	"surveygen/domain/core"
	"surveygen/ports"
)

// MeteredProvider records the usage of every successful call made through
// the wrapped provider. The user and run come from ports.RunInfoFrom(ctx).
type MeteredProvider struct {
	next    ports.ModelProvider
	service *Service
}

// NewMeteredProvider decorates next with usage recording.
func NewMeteredProvider(next ports.ModelProvider, service *Service) *MeteredProvider {
	return &MeteredProvider{next: next, service: service}
}

func (p *MeteredProvider) Invoke(ctx context.Context, req ports.ModelRequest) (*ports.LLMResponse, error) {
	resp, err := p.next.Invoke(ctx, req)
	if err != nil || resp == nil {
		return resp, err
	}

	info, _ := ports.RunInfoFrom(ctx)
	usage := resp.Usage
	if usage == nil {
		usage = &ports.UsageData{}
	}
	if usage.Model == "" {
		copied := *usage
		copied.Model = req.Model
		usage = &copied
	}

	_ = p.service.RecordUsage(ctx, Record{
		UserID:    core.ParseUserID(info.UserID),
		RunID:     info.RunID,
		Operation: string(req.Task),
		Usage:     usage,
		Cached:    resp.Cached,
	})
	return resp, nil
}

// ListModels delegates to the wrapped provider.
func (p *MeteredProvider) ListModels(ctx context.Context) ([]string, error) {
	if lister, ok := p.next.(ports.ModelLister); ok {
		return lister.ListModels(ctx)
	}
	return nil, nil
}
