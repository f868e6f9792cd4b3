package app

import (
	"context"
	"regexp"
	"strings"

	"surveygen/ai"
	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/domain/design"
	"surveygen/domain/survey"
	"surveygen/internal"
	"surveygen/ports"
)

var (
	academicWords = regexp.MustCompile(`\b(phd|research|study|hypothesis|methodology|academic|thesis)\b`)
	researchWords = regexp.MustCompile(`\b(analysis|data|survey|questionnaire|statistical|validation)\b`)
	simpleWords   = regexp.MustCompile(`\b(quick|simple|fast|basic|feedback|opinion)\b`)
)

// InferComplexity grades a request by caller hints, then by prompt keywords.
func InferComplexity(prompt string, hints survey.Hints) survey.Complexity {
	if c := survey.Complexity(strings.ToLower(hints.Complexity)); c.Valid() {
		return c
	}
	switch strings.ToLower(hints.SurveyType) {
	case "academic", string(survey.TypeAcademicStudy):
		return survey.ComplexityAcademic
	case "research":
		return survey.ComplexityResearch
	case "marketing":
		return survey.ComplexitySimple
	}

	lower := strings.ToLower(prompt)
	switch {
	case academicWords.MatchString(lower):
		return survey.ComplexityAcademic
	case researchWords.MatchString(lower):
		return survey.ComplexityResearch
	case simpleWords.MatchString(lower):
		return survey.ComplexitySimple
	}
	return survey.ComplexityProfessional
}

// FallbackGenerator produces an artifact when the staged pipeline fails. It
// makes at most one stable-tier planning call and renders components locally.
type FallbackGenerator struct {
	client *ai.StructuredClient[survey.Architecture]
	logger *internal.Logger
}

// NewFallbackGenerator creates the fallback generator; a nil invoker skips the planning call.
func NewFallbackGenerator(inv *ai.Invoker, logger *internal.Logger) *FallbackGenerator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	g := &FallbackGenerator{logger: logger.With("Fallback")}
	if inv != nil {
		g.client = ai.NewStructuredClient(inv.StableOnly(), func(a *survey.Architecture) error { return a.Validate() })
	}
	return g
}

// Generate always returns an artifact. prior, when set, is the analysis the
// pipeline already produced; otherwise a default analysis graded by
// InferComplexity is used.
func (g *FallbackGenerator) Generate(ctx context.Context, req GenerateRequest, prior *survey.Analysis) *artifact.FinalArtifact {
	started := core.Now()

	var a survey.Analysis
	if prior != nil {
		a = prior.Normalize()
	} else {
		a = survey.DefaultAnalysis()
		a.Complexity = InferComplexity(req.Prompt, req.Context)
		if st := survey.SurveyType(req.Context.SurveyType); st.Valid() {
			a.SurveyType = st
		}
	}

	arch, repairs := survey.Repair(g.plan(ctx, req.Prompt))
	ds := design.Default()
	components := ScaffoldComponents(a, arch, ds)
	validation := artifact.EstimateQuality(arch, components)

	fa := Assemble(AssembleInput{
		Analysis:     a,
		Architecture: arch,
		DesignSystem: ds,
		Components:   components,
		Validation:   validation,
		Metadata: artifact.Metadata{
			Pipeline:         artifact.PipelineFallback,
			OmittedQuestions: []string{},
			Repairs:          repairs,
		},
	})
	fa.Metadata.GenerationTimeMs = started.Since()
	g.logger.Info("Fallback artifact with %d components, quality %d", len(components), fa.Metadata.QualityScore)
	return &fa
}

func (g *FallbackGenerator) plan(ctx context.Context, prompt string) survey.Architecture {
	prompt = strings.TrimSpace(prompt)
	if g.client == nil || prompt == "" || ctx.Err() != nil {
		return survey.QuickArchitecture()
	}

	arch, _, err := g.client.Generate(ctx, ai.Call{
		Task:     ports.TaskPlanning,
		Template: "fallback_planning",
		Vars:     map[string]string{"PROMPT": prompt},
		Options:  ports.InvokeOptions{Temperature: 0.2},
	})
	if err != nil {
		g.logger.Warn("Fallback planning failed, using quick survey: %v", err)
		return survey.QuickArchitecture()
	}
	return *arch
}
