package ai

import (
	"context"
	"time"

	"surveygen/internal"
	"surveygen/ports"
)

// Tier names reported by the resolver.
const (
	TierAdvanced = "advanced"
	TierStable   = "stable"
)

// TierConfig maps each task to a model per tier.
type TierConfig struct {
	Advanced map[ports.TaskCategory]string
	Stable   map[ports.TaskCategory]string
}

// DefaultTierConfig returns the built-in task mapping.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		Advanced: map[ports.TaskCategory]string{
			ports.TaskAnalysis:   "gpt-5",
			ports.TaskPlanning:   "gpt-5",
			ports.TaskDesign:     "gpt-5",
			ports.TaskComponents: "gpt-5",
			ports.TaskValidation: "gpt-5-mini",
		},
		Stable: map[ports.TaskCategory]string{
			ports.TaskAnalysis:   "gpt-4o",
			ports.TaskPlanning:   "gpt-4o",
			ports.TaskDesign:     "gpt-4o",
			ports.TaskComponents: "gpt-4o",
			ports.TaskValidation: "gpt-4o-mini",
		},
	}
}

// WithOverrides returns a copy with per-task overrides keyed by task name.
func (c TierConfig) WithOverrides(advanced, stable map[string]string) TierConfig {
	out := TierConfig{
		Advanced: make(map[ports.TaskCategory]string, len(c.Advanced)),
		Stable:   make(map[ports.TaskCategory]string, len(c.Stable)),
	}
	for k, v := range c.Advanced {
		out.Advanced[k] = v
	}
	for k, v := range c.Stable {
		out.Stable[k] = v
	}
	for k, v := range advanced {
		out.Advanced[ports.TaskCategory(k)] = v
	}
	for k, v := range stable {
		out.Stable[ports.TaskCategory(k)] = v
	}
	return out
}

// TierResolver maps a task to the model to call. It never changes after
// construction, so any number of goroutines may read it.
type TierResolver struct {
	cfg      TierConfig
	advanced bool
}

// NewTierResolver builds a resolver for a known tier availability.
func NewTierResolver(cfg TierConfig, advancedAvailable bool) *TierResolver {
	return &TierResolver{cfg: cfg.WithOverrides(nil, nil), advanced: advancedAvailable}
}

// ProbeTiers reports whether the provider lists any advanced model. Listing
// failures are logged and treated as unavailable.
func ProbeTiers(ctx context.Context, lister ports.ModelLister, cfg TierConfig, logger *internal.Logger) bool {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.With("TierResolver")
	if lister == nil {
		logger.Info("No model lister configured, using stable tier")
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	ids, err := lister.ListModels(ctx)
	if err != nil {
		logger.Warn("Could not list models, using stable tier: %v", err)
		return false
	}

	listed := make(map[string]bool, len(ids))
	for _, id := range ids {
		listed[id] = true
	}
	for _, model := range cfg.Advanced {
		if listed[model] {
			logger.Info("Advanced model %s available, using advanced tier", model)
			return true
		}
	}
	logger.Info("No advanced model listed among %d models, using stable tier", len(ids))
	return false
}

// Resolve returns the model for task on the active tier.
func (r *TierResolver) Resolve(task ports.TaskCategory) string {
	if r.advanced {
		if m, ok := r.cfg.Advanced[task]; ok && m != "" {
			return m
		}
	}
	return r.Stable(task)
}

// Stable returns the stable-tier model for task.
func (r *TierResolver) Stable(task ports.TaskCategory) string {
	if m, ok := r.cfg.Stable[task]; ok && m != "" {
		return m
	}
	return DefaultTierConfig().Stable[task]
}

// IsAdvanced reports whether the advanced tier is active.
func (r *TierResolver) IsAdvanced() bool {
	return r.advanced
}

// Tier names the active tier.
func (r *TierResolver) Tier() string {
	if r.advanced {
		return TierAdvanced
	}
	return TierStable
}

// FallbackFor returns the stable model to retry task with, or false when the
// resolved model already is the stable one.
func (r *TierResolver) FallbackFor(task ports.TaskCategory) (string, bool) {
	stable := r.Stable(task)
	if !r.advanced || stable == r.Resolve(task) {
		return "", false
	}
	return stable, true
}

// Models returns the resolved model per task name.
func (r *TierResolver) Models() map[string]string {
	out := make(map[string]string, len(ports.AllTasks))
	for _, t := range ports.AllTasks {
		out[string(t)] = r.Resolve(t)
	}
	return out
}

// StableOnly returns a resolver with the same mapping pinned to the stable tier.
func (r *TierResolver) StableOnly() *TierResolver {
	return &TierResolver{cfg: r.cfg, advanced: false}
}
