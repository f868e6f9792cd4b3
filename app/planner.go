package app

import (
	"context"
	"strings"

	"surveygen/ai"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/domain/template"
	"surveygen/internal"
	"surveygen/ports"
)

// Planning sources recorded on a PlanResult.
const (
	PlanSourceTemplate = "template"
	PlanSourceModel    = "model"
	PlanSourceFallback = "fallback"
)

// PlanResult is the repaired architecture plus how it was obtained.
type PlanResult struct {
	Architecture survey.Architecture
	TemplateKey  string // empty unless the template path was taken
	Repairs      survey.RepairReport
	Source       string
}

// Planner chooses between the template library and a planning model call.
type Planner struct {
	library *template.Library
	client  *ai.StructuredClient[survey.Architecture]
	logger  *internal.Logger
}

// NewPlanner creates the Stage 2 service
func NewPlanner(inv *ai.Invoker, library *template.Library, logger *internal.Logger) *Planner {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Planner{
		library: library,
		client:  ai.NewStructuredClient(inv, func(a *survey.Architecture) error { return a.Validate() }),
		logger:  logger.With("Planner"),
	}
}

// Plan builds the architecture for analysis. useTemplate false forces the
// model path. Model failures substitute survey.FallbackArchitecture(); the
// only error returned is the caller's context ending.
func (p *Planner) Plan(ctx context.Context, analysis survey.Analysis, useTemplate bool) (PlanResult, error) {
	var result PlanResult

	if useTemplate && p.library != nil && template.ShouldUse(analysis) {
		tpl, err := p.library.Get(string(analysis.SurveyType))
		if err == nil {
			custom := template.Customize(tpl, analysis)
			result.Architecture = custom.Architecture
			result.TemplateKey = custom.Key
			result.Source = PlanSourceTemplate
			p.logger.Info("Using template %s", custom.Key)
		} else {
			p.logger.Warn("Template lookup failed, planning with model: %v", err)
		}
	}

	if result.Source == "" {
		arch, err := p.planWithModel(ctx, analysis)
		if err != nil {
			if ctx.Err() != nil {
				return PlanResult{}, core.NewStageError("planning", ctx.Err())
			}
			p.logger.Warn("Planning failed, using fallback architecture: %v", err)
			arch = survey.FallbackArchitecture()
			result.Source = PlanSourceFallback
		} else {
			result.Source = PlanSourceModel
		}
		result.Architecture = arch
	}

	result.Architecture, result.Repairs = survey.Repair(result.Architecture)
	if result.Repairs.Changed() {
		p.logger.Debug("Repaired architecture: %d renamed questions, %d dropped refs",
			len(result.Repairs.RenamedQuestions), len(result.Repairs.DroppedRefs))
	}
	return result, nil
}

func (p *Planner) planWithModel(ctx context.Context, a survey.Analysis) (survey.Architecture, error) {
	arch, _, err := p.client.Generate(ctx, ai.Call{
		Task:     ports.TaskPlanning,
		Template: "planning",
		Vars: map[string]string{
			"SURVEY_TYPE":          string(a.SurveyType),
			"COMPLEXITY":           string(a.Complexity),
			"AUDIENCE":             a.TargetAudience,
			"INDUSTRY":             a.Industry,
			"LENGTH":               string(a.EstimatedLength),
			"OBJECTIVES":           joinOrNone(a.Objectives),
			"SPECIAL_REQUIREMENTS": joinOrNone(a.SpecialRequirements),
		},
		Options: ports.InvokeOptions{Temperature: 0.2},
	})
	if err != nil {
		return survey.Architecture{}, err
	}
	return *arch, nil
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, "; ")
}
