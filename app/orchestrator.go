package app

import (
	"context"
	"fmt"
	"time"

	"surveygen/ai"
	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/domain/stage"
	"surveygen/domain/survey"
	"surveygen/domain/template"
	"surveygen/internal"
	"surveygen/ports"
)

// GenerateRequest is the input of a generation run.
type GenerateRequest struct {
	Prompt      string       `json:"prompt"`
	Context     survey.Hints `json:"context"`
	UserID      core.UserID  `json:"userId"`
	UseTemplate *bool        `json:"useTemplate,omitempty"` // nil uses the configured default
}

// PipelineOptions are the orchestration limits.
type PipelineOptions struct {
	MaxParallel     int
	Timeout         time.Duration // zero disables the run deadline
	FallbackTimeout time.Duration
	UseTemplates    bool
}

// DefaultPipelineOptions mirrors the configuration defaults.
func DefaultPipelineOptions() PipelineOptions {
	return PipelineOptions{
		MaxParallel:     DefaultMaxParallel,
		FallbackTimeout: 45 * time.Second,
		UseTemplates:    true,
	}
}

// Orchestrator runs the six stages in order and falls back to the local
// generator when any of them fails.
type Orchestrator struct {
	analyzer   *Analyzer
	planner    *Planner
	designer   *Designer
	components *ComponentGenerator
	validator  *Validator
	fallback   *FallbackGenerator
	opts       PipelineOptions
	logger     *internal.Logger
}

// NewOrchestrator wires the stage services over one shared invoker.
func NewOrchestrator(inv *ai.Invoker, library *template.Library, opts PipelineOptions, logger *internal.Logger) *Orchestrator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if opts.FallbackTimeout <= 0 {
		opts.FallbackTimeout = DefaultPipelineOptions().FallbackTimeout
	}
	return &Orchestrator{
		analyzer:   NewAnalyzer(inv, logger),
		planner:    NewPlanner(inv, library, logger),
		designer:   NewDesigner(inv, logger),
		components: NewComponentGenerator(inv, opts.MaxParallel, logger),
		validator:  NewValidator(inv, logger),
		fallback:   NewFallbackGenerator(inv, logger),
		opts:       opts,
		logger:     logger.With("Orchestrator"),
	}
}

// runState carries what earlier stages produced into the fallback.
type runState struct {
	analysis *survey.Analysis
}

// Generate runs the pipeline for req and always returns an artifact. Stage
// failures, panics, and deadlines move the run to the fallback generator.
func (o *Orchestrator) Generate(ctx context.Context, req GenerateRequest) *artifact.FinalArtifact {
	started := core.Now()
	runID := core.NewRunID()
	req.UserID = core.ParseUserID(string(req.UserID))

	trace := ai.NewCallTrace()
	ctx = ai.WithCallTrace(ctx, trace)
	ctx = ports.WithRunInfo(ctx, ports.RunInfo{UserID: req.UserID.String(), RunID: runID.String()})

	stageCtx := ctx
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}

	o.logger.Info("Run %s started for user %s (prompt %q)", runID, req.UserID, internal.Preview(req.Prompt, 80))

	m := stage.NewMachine()
	var st runState
	fa, err := o.runStages(stageCtx, m, req, &st)
	if err != nil {
		o.logger.Warn("Run %s failed in %s, using fallback generator: %v", runID, m.Current(), err)
		if ferr := m.Fail(err); ferr != nil {
			o.logger.Error("Run %s could not record failure: %v", runID, ferr)
		}

		fallbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.FallbackTimeout)
		defer cancel()
		fa = o.fallback.Generate(fallbackCtx, req, st.analysis)
		if aerr := m.Advance(stage.StateFallbackDone); aerr != nil {
			o.logger.Error("Run %s: %v", runID, aerr)
		}
		fa.Metadata.FailureReason = err.Error()
	}

	fa.Metadata.RunID = runID
	fa.Metadata.States = m.Path()
	if models := trace.Models(); len(models) > 0 {
		fa.Metadata.Models = models
	}
	fa.Metadata.GenerationTimeMs = started.Since()

	o.logger.Info("Run %s finished: pipeline=%s quality=%d calls=%d fallbacks=%d cached=%d in %dms",
		runID, fa.Metadata.Pipeline, fa.Metadata.QualityScore, trace.Calls(), trace.Fallbacks(), trace.Cached(), fa.Metadata.GenerationTimeMs)
	return fa
}

func (o *Orchestrator) runStages(ctx context.Context, m *stage.Machine, req GenerateRequest, st *runState) (fa *artifact.FinalArtifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			fa = nil
			err = fmt.Errorf("%w: panic in %s: %v", core.ErrStageFailed, m.Current(), r)
		}
	}()

	enter := func(s stage.State) error {
		if err := ctx.Err(); err != nil {
			return core.NewStageError(string(m.Current()), err)
		}
		return m.Advance(s)
	}

	if err := enter(stage.StateAnalyzing); err != nil {
		return nil, err
	}
	analysis, err := o.analyzer.Analyze(ctx, AnalyzeRequest{Prompt: req.Prompt, Context: req.Context, UserID: req.UserID})
	if err != nil {
		return nil, err
	}
	st.analysis = &analysis

	if err := enter(stage.StatePlanning); err != nil {
		return nil, err
	}
	useTemplate := o.opts.UseTemplates
	if req.UseTemplate != nil {
		useTemplate = *req.UseTemplate
	}
	plan, err := o.planner.Plan(ctx, analysis, useTemplate)
	if err != nil {
		return nil, err
	}

	if err := enter(stage.StateDesigning); err != nil {
		return nil, err
	}
	ds, err := o.designer.Design(ctx, analysis, plan.Architecture)
	if err != nil {
		return nil, err
	}

	if err := enter(stage.StateGenerating); err != nil {
		return nil, err
	}
	components, err := o.components.Generate(ctx, analysis, plan.Architecture, ds)
	if err != nil {
		return nil, err
	}

	if err := enter(stage.StateValidating); err != nil {
		return nil, err
	}
	validation, err := o.validator.Validate(ctx, analysis, plan.Architecture, components.Components)
	if err != nil {
		return nil, err
	}

	if err := enter(stage.StateAssembling); err != nil {
		return nil, err
	}
	assembled := Assemble(AssembleInput{
		Analysis:     analysis,
		Architecture: plan.Architecture,
		DesignSystem: ds,
		Components:   components.Components,
		Validation:   validation,
		Metadata: artifact.Metadata{
			Pipeline:         artifact.PipelineAdvanced,
			Template:         plan.TemplateKey,
			OmittedQuestions: components.Omitted,
			Repairs:          plan.Repairs,
		},
	})

	if err := m.Advance(stage.StateDone); err != nil {
		return nil, err
	}
	return &assembled, nil
}
