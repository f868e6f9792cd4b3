package app

import (
	"context"
	"encoding/json"
	"math"
	"strconv"

	"surveygen/ai"
	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/internal"
	"surveygen/ports"
)

const validatorSystem = `You are a senior survey methodologist and accessibility auditor. Review the
survey and report problems with:
1. Question wording: clarity, leading or loaded phrasing, double-barreled questions
2. Bias: order effects, unbalanced scales, missing neutral options
3. Flow: logical ordering, page grouping, skip logic that makes sense
4. Accessibility: labels, keyboard operation, screen reader support (WCAG 2.1 AA)
5. Completion: length and cognitive load relative to the audience
6. Data quality: validation rules, attention checks where rigor requires them

Respond with ONLY a JSON object of this shape:
{
  "isValid": boolean,
  "score": number (0-100),
  "issues": [{ "type": string, "severity": "low" | "medium" | "high", "description": string, "suggestion": string }],
  "optimizations": [{ "type": string, "description": string, "impact": "low" | "medium" | "high" }],
  "accessibility": { "score": number (0-100), "issues": string[] },
  "performance": { "score": number (0-100), "recommendations": string[] }
}`

// validationWire is the shape decoded from the model. isValid and score are
// required; a response without them is unusable.
type validationWire struct {
	IsValid       *bool                   `json:"isValid"`
	Score         *float64                `json:"score"`
	Issues        []artifact.Issue        `json:"issues"`
	Optimizations []artifact.Optimization `json:"optimizations"`
	Accessibility struct {
		Score  *float64 `json:"score"`
		Issues []string `json:"issues"`
	} `json:"accessibility"`
	Performance struct {
		Score           *float64 `json:"score"`
		Recommendations []string `json:"recommendations"`
	} `json:"performance"`
}

func (w *validationWire) validate() error {
	if w.IsValid == nil {
		return core.NewMissingFieldError("isValid")
	}
	if w.Score == nil {
		return core.NewMissingFieldError("score")
	}
	return nil
}

func (w *validationWire) result() artifact.ValidationResult {
	neutral := artifact.NeutralValidation()
	score := func(v *float64, fallback int) int {
		if v == nil || math.IsNaN(*v) {
			return fallback
		}
		return artifact.ClampScore(int(math.Round(math.Max(-1, math.Min(101, *v)))))
	}
	out := artifact.ValidationResult{
		IsValid:       *w.IsValid,
		Score:         score(w.Score, neutral.Score),
		Issues:        w.Issues,
		Optimizations: w.Optimizations,
		Accessibility: artifact.Accessibility{
			Score:  score(w.Accessibility.Score, neutral.Accessibility.Score),
			Issues: w.Accessibility.Issues,
		},
		Performance: artifact.Performance{
			Score:           score(w.Performance.Score, neutral.Performance.Score),
			Recommendations: w.Performance.Recommendations,
		},
	}
	return out.Normalize()
}

// Validator scores the planned survey and its components.
type Validator struct {
	client *ai.StructuredClient[validationWire]
	logger *internal.Logger
}

// NewValidator creates the Stage 5 service
func NewValidator(inv *ai.Invoker, logger *internal.Logger) *Validator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Validator{
		client: ai.NewStructuredClient(inv, (*validationWire).validate),
		logger: logger.With("Validator"),
	}
}

// Validate returns the normalized review. Unparseable output yields
// artifact.NeutralValidation(); provider failures are returned.
func (v *Validator) Validate(ctx context.Context, a survey.Analysis, arch survey.Architecture, components []artifact.Component) (artifact.ValidationResult, error) {
	analysisJSON, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return artifact.ValidationResult{}, err
	}
	archJSON, err := json.MarshalIndent(arch, "", "  ")
	if err != nil {
		return artifact.ValidationResult{}, err
	}

	wire, _, err := v.client.Generate(ctx, ai.Call{
		Task:     ports.TaskValidation,
		Template: "validation",
		System:   validatorSystem,
		Vars: map[string]string{
			"ANALYSIS_JSON":     string(analysisJSON),
			"ARCHITECTURE_JSON": string(archJSON),
			"COMPONENT_COUNT":   strconv.Itoa(len(components)),
		},
		Options: ports.InvokeOptions{Temperature: 0.1},
	})
	switch {
	case err == nil:
		result := wire.result()
		v.logger.Info("Validation score %d (valid: %t, %d issues)", result.Score, result.IsValid, len(result.Issues))
		return result, nil
	case core.IsParseError(err) && ctx.Err() == nil:
		v.logger.Warn("Validation response unusable, using neutral result: %v", err)
		return artifact.NeutralValidation(), nil
	default:
		return artifact.ValidationResult{}, core.NewStageError("validation", err)
	}
}
