package app

import (
	"context"
	"fmt"
	"strings"

	"surveygen/ai"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/internal"
	"surveygen/ports"
)

const analyzerSystem = "You are a PhD-level survey methodology expert. Analyze the user's survey request and extract structured requirements as JSON."

// AnalyzeRequest is the input of Stage 1.
type AnalyzeRequest struct {
	Prompt  string
	Context survey.Hints
	UserID  core.UserID
}

// Analyzer turns a free-text prompt into a validated survey.Analysis.
type Analyzer struct {
	client *ai.StructuredClient[survey.Analysis]
	logger *internal.Logger
}

// NewAnalyzer creates the Stage 1 service
func NewAnalyzer(inv *ai.Invoker, logger *internal.Logger) *Analyzer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Analyzer{
		client: ai.NewStructuredClient(inv, func(a *survey.Analysis) error { return a.Validate() }),
		logger: logger.With("Analyzer"),
	}
}

// Analyze returns the structured requirements for req. An empty prompt and
// any unparseable response yield survey.DefaultAnalysis(); provider failures
// that survive the stable-tier retry are returned.
func (a *Analyzer) Analyze(ctx context.Context, req AnalyzeRequest) (survey.Analysis, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		a.logger.Info("Empty prompt, using default analysis")
		return survey.DefaultAnalysis(), nil
	}

	result, info, err := a.client.Generate(ctx, ai.Call{
		Task:     ports.TaskAnalysis,
		Template: "analysis",
		System:   analyzerSystem,
		Vars: map[string]string{
			"PROMPT":  prompt,
			"CONTEXT": formatHints(req.Context),
		},
		Options: ports.InvokeOptions{Temperature: 0.1},
	})
	switch {
	case err == nil:
		analysis := result.Normalize()
		a.logger.Info("Analysis for user %s: %s/%s via %s", req.UserID, analysis.SurveyType, analysis.Complexity, info.Model)
		return analysis, nil
	case core.IsParseError(err) && ctx.Err() == nil:
		a.logger.Warn("Analysis response unusable, using default analysis: %v", err)
		return survey.DefaultAnalysis(), nil
	default:
		return survey.Analysis{}, core.NewStageError("analysis", err)
	}
}

func formatHints(h survey.Hints) string {
	if h.IsZero() {
		return "none"
	}
	var lines []string
	add := func(name, value string) {
		if v := strings.TrimSpace(value); v != "" {
			lines = append(lines, fmt.Sprintf("- %s: %s", name, v))
		}
	}
	add("surveyType", h.SurveyType)
	add("complexity", h.Complexity)
	add("targetAudience", h.TargetAudience)
	add("industry", h.Industry)
	add("estimatedLength", h.Length)
	add("designStyle", h.DesignStyle)
	if len(lines) == 0 {
		return "none"
	}
	return strings.Join(lines, "\n")
}
