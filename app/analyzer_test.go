package app

import (
	"context"
	"errors"
	"testing"

	"surveygen/adapters/llm"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeEmptyPromptMakesNoCall(t *testing.T) {
	mock := llm.NewMockLLMClient()
	analyzer := NewAnalyzer(newTestInvoker(mock, true), quietLogger)

	for _, prompt := range []string{"", "   \n\t"} {
		got, err := analyzer.Analyze(context.Background(), AnalyzeRequest{Prompt: prompt})
		require.NoError(t, err)
		assert.Equal(t, survey.DefaultAnalysis(), got)
	}
	assert.Empty(t, mock.Calls())
}

func TestAnalyzeDecodesAndSendsHints(t *testing.T) {
	want := academicAnalysis()
	want.SpecialRequirements = nil
	mock := llm.NewMockLLMClient().OnTask(ports.TaskAnalysis, "```json\n"+toJSON(t, want)+"\n```")
	analyzer := NewAnalyzer(newTestInvoker(mock, false), quietLogger)

	got, err := analyzer.Analyze(context.Background(), AnalyzeRequest{
		Prompt:  "Sleep study for my thesis",
		Context: survey.Hints{Industry: "healthcare", Length: "long"},
	})

	require.NoError(t, err)
	assert.Equal(t, survey.TypeAcademicStudy, got.SurveyType)
	assert.NotNil(t, got.SpecialRequirements)

	calls := mock.CallsFor(ports.TaskAnalysis)
	require.Len(t, calls, 1)
	assert.Equal(t, analyzerSystem, calls[0].System)
	assert.Equal(t, 0.1, calls[0].Options.Temperature)
	assert.True(t, calls[0].Options.JSON)
	assert.Contains(t, calls[0].Prompt, `"Sleep study for my thesis"`)
	assert.Contains(t, calls[0].Prompt, "- industry: healthcare")
	assert.Contains(t, calls[0].Prompt, "- estimatedLength: long")
}

func TestAnalyzeSubstitutesDefaultOnUnknownEnum(t *testing.T) {
	bad := survey.DefaultAnalysis()
	bad.SurveyType = "poll"
	mock := llm.NewMockLLMClient().OnTask(ports.TaskAnalysis, toJSON(t, bad))

	got, err := NewAnalyzer(newTestInvoker(mock, false), quietLogger).
		Analyze(context.Background(), AnalyzeRequest{Prompt: "a poll"})

	require.NoError(t, err)
	assert.Equal(t, survey.DefaultAnalysis(), got)
	assert.Len(t, mock.Calls(), 1)
}

func TestAnalyzeRetriesMalformedJSONOnStableTier(t *testing.T) {
	mock := llm.NewMockLLMClient().Handle(func(req ports.ModelRequest) (*ports.LLMResponse, error) {
		if req.Model == "gpt-5" {
			return &ports.LLMResponse{Content: "{not json"}, nil
		}
		return &ports.LLMResponse{Content: toJSON(t, academicAnalysis())}, nil
	})

	got, err := NewAnalyzer(newTestInvoker(mock, true), quietLogger).
		Analyze(context.Background(), AnalyzeRequest{Prompt: "Sleep study"})

	require.NoError(t, err)
	assert.Equal(t, survey.ComplexityAcademic, got.Complexity)
	assert.Len(t, mock.Calls(), 2)
}

func TestAnalyzeReturnsProviderFailure(t *testing.T) {
	mock := llm.NewMockLLMClient().FailTask(ports.TaskAnalysis, errors.New("503 service unavailable"))

	_, err := NewAnalyzer(newTestInvoker(mock, true), quietLogger).
		Analyze(context.Background(), AnalyzeRequest{Prompt: "anything"})

	require.Error(t, err)
	assert.True(t, core.IsProviderError(err))
	assert.ErrorIs(t, err, core.ErrStageFailed)
	assert.Len(t, mock.Calls(), 2, "advanced call plus one stable retry")
}
