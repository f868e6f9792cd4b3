package app

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"

	"surveygen/ai"
	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/domain/design"
	"surveygen/domain/survey"
	"surveygen/internal"
	"surveygen/ports"
)

// DefaultMaxParallel bounds concurrent component calls when no limit is configured.
const DefaultMaxParallel = 4

// ComponentResult holds the generated components in page then question
// order, and the ids of questions for which no component could be produced.
type ComponentResult struct {
	Components []artifact.Component
	Omitted    []string
}

// ComponentGenerator renders one component per question with a bounded fan-out.
type ComponentGenerator struct {
	client      *ai.TextClient
	maxParallel int
	logger      *internal.Logger
}

// NewComponentGenerator creates the Stage 4 service; maxParallel < 1 uses DefaultMaxParallel.
func NewComponentGenerator(inv *ai.Invoker, maxParallel int, logger *internal.Logger) *ComponentGenerator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	return &ComponentGenerator{
		client:      ai.NewTextClient(inv, ai.ExtractCode),
		maxParallel: maxParallel,
		logger:      logger.With("Components"),
	}
}

type componentJob struct {
	index int
	page  survey.Page
	q     survey.Question
}

// Generate produces components for every question in arch. A question whose
// primary and reduced-scope calls both fail is omitted; it never cancels the
// others. The only error returned is the caller's context ending.
func (g *ComponentGenerator) Generate(ctx context.Context, a survey.Analysis, arch survey.Architecture, ds design.System) (ComponentResult, error) {
	var jobs []componentJob
	for _, p := range arch.Pages {
		for _, q := range p.Questions {
			jobs = append(jobs, componentJob{index: len(jobs), page: p, q: q})
		}
	}

	designJSON, err := json.Marshal(ds)
	if err != nil {
		return ComponentResult{}, fmt.Errorf("failed to encode design system: %w", err)
	}

	slots := make([]*artifact.Component, len(jobs))
	var eg errgroup.Group
	eg.SetLimit(g.maxParallel)
	for _, job := range jobs {
		eg.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					g.logger.Error("Component %s panicked: %v", job.q.ID, r)
				}
			}()
			if c, ok := g.generateOne(ctx, a, arch, string(designJSON), job); ok {
				slots[job.index] = &c
			}
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return ComponentResult{}, core.NewStageError("components", err)
	}

	result := ComponentResult{Components: make([]artifact.Component, 0, len(jobs)), Omitted: []string{}}
	for i, c := range slots {
		if c == nil {
			result.Omitted = append(result.Omitted, jobs[i].q.ID)
			continue
		}
		result.Components = append(result.Components, *c)
	}
	if len(result.Omitted) > 0 {
		g.logger.Warn("Omitted %d of %d questions: %v", len(result.Omitted), len(jobs), result.Omitted)
	}
	return result, nil
}

func (g *ComponentGenerator) generateOne(ctx context.Context, a survey.Analysis, arch survey.Architecture, designJSON string, job componentJob) (artifact.Component, bool) {
	scope := artifact.ScopeFull
	code, info, err := g.call(ctx, a, designJSON, job.page, job.q)
	if err != nil && ctx.Err() == nil {
		g.logger.Debug("Component %s failed with page context, retrying alone: %v", job.q.ID, err)
		reduced := job.page
		reduced.Questions = []survey.Question{job.q}
		scope = artifact.ScopeReduced
		code, info, err = g.call(ctx, a, designJSON, reduced, job.q)
	}
	if err != nil {
		g.logger.Warn("Component %s omitted: %v", job.q.ID, err)
		return artifact.Component{}, false
	}

	strategy := StrategyFor(job.q.Type)
	deps := append([]string(nil), strategy.Dependencies...)
	if arch.Design.Animations {
		deps = append(deps, "framer-motion")
	}
	return artifact.Component{
		ID:           job.q.ID,
		Name:         ComponentName(job.q.Type, job.q.ID),
		Type:         job.q.Type,
		Code:         code,
		Dependencies: deps,
		Metadata: artifact.ComponentMetadata{
			Question:    job.q.Clone(),
			Theme:       arch.Design.Theme,
			Complexity:  a.Complexity,
			GeneratedAt: core.Now(),
			Strategy:    string(job.q.Type),
			Model:       info.Model,
			Scope:       scope,
		},
	}, true
}

func (g *ComponentGenerator) call(ctx context.Context, a survey.Analysis, designJSON string, page survey.Page, q survey.Question) (string, ai.CallInfo, error) {
	questionJSON, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return "", ai.CallInfo{}, err
	}
	pageJSON, err := json.MarshalIndent(page, "", "  ")
	if err != nil {
		return "", ai.CallInfo{}, err
	}

	return g.client.Generate(ctx, ai.Call{
		Task:     ports.TaskComponents,
		Template: "component",
		Vars: map[string]string{
			"QUESTION_JSON":      string(questionJSON),
			"PAGE_JSON":          string(pageJSON),
			"SURVEY_TYPE":        string(a.SurveyType),
			"COMPLEXITY":         string(a.Complexity),
			"AUDIENCE":           a.TargetAudience,
			"TONE":               string(a.Tone),
			"DESIGN_SYSTEM_JSON": designJSON,
			"TYPE_HINT":          StrategyFor(q.Type).Hint,
			"COMPONENT_NAME":     ComponentName(q.Type, q.ID),
			"QUESTION_ID":        q.ID,
		},
		Options: ports.InvokeOptions{Temperature: 0.3, MaxOutputTokens: 2000},
	})
}

// ScaffoldComponents renders every question locally, stamping theme and time.
func ScaffoldComponents(a survey.Analysis, arch survey.Architecture, ds design.System) []artifact.Component {
	now := core.Now()
	var out []artifact.Component
	for _, p := range arch.Pages {
		for _, q := range p.Questions {
			c := StrategyFor(q.Type).Scaffold(q, a, ds)
			c.Metadata.Theme = arch.Design.Theme
			c.Metadata.GeneratedAt = now
			out = append(out, c)
		}
	}
	return out
}
