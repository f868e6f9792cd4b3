package app

import (
	"context"
	"fmt"

	"surveygen/ai"
	"surveygen/domain/core"
	"surveygen/domain/design"
	"surveygen/domain/survey"
	"surveygen/internal"
	"surveygen/ports"
)

const reasoningGuidance = `
REASONING GUIDANCE:
Before answering, reason about the audience's expectations, the contrast ratio of every
text/background pair, and how the palette reads on small screens. Output only the result.
`

// Designer produces the UI design token set for a planned survey.
type Designer struct {
	client   *ai.StructuredClient[design.System]
	resolver *ai.TierResolver
	logger   *internal.Logger
}

// NewDesigner creates the Stage 3 service
func NewDesigner(inv *ai.Invoker, logger *internal.Logger) *Designer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Designer{
		client: ai.NewStructuredClient(inv, func(s *design.System) error {
			if missing := s.Missing(); len(missing) > 0 {
				return core.NewMissingFieldError(fmt.Sprintf("%s (+%d more)", missing[0], len(missing)-1))
			}
			return nil
		}),
		resolver: inv.Resolver,
		logger:   logger.With("Designer"),
	}
}

// Design returns a complete token set. Any failure substitutes
// design.Default(); the only error returned is the caller's context ending.
func (d *Designer) Design(ctx context.Context, a survey.Analysis, arch survey.Architecture) (design.System, error) {
	guidance := ""
	if d.resolver != nil && d.resolver.IsAdvanced() {
		guidance = reasoningGuidance
	}

	ds, info, err := d.client.Generate(ctx, ai.Call{
		Task:     ports.TaskDesign,
		Template: "design",
		Vars: map[string]string{
			"SURVEY_TYPE":        string(a.SurveyType),
			"COMPLEXITY":         string(a.Complexity),
			"AUDIENCE":           a.TargetAudience,
			"INDUSTRY":           a.Industry,
			"TONE":               string(a.Tone),
			"OBJECTIVES":         joinOrNone(a.Objectives),
			"THEME":              arch.Design.Theme,
			"REASONING_GUIDANCE": guidance,
		},
		Options: ports.InvokeOptions{
			Temperature:     0.4,
			MaxOutputTokens: 3000,
			ReasoningEffort: "high",
			Verbosity:       "medium",
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return design.System{}, core.NewStageError("design", ctx.Err())
		}
		d.logger.Warn("Design generation failed, using default design system: %v", err)
		return design.Default(), nil
	}

	d.logger.Debug("Design system from %s, primary %s", info.Model, ds.ColorPalette.Primary)
	return *ds, nil
}
