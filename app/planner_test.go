package app

import (
	"context"
	"errors"
	"testing"

	"surveygen/adapters/llm"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/domain/template"
	"surveygen/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPlanner(t *testing.T, p ports.ModelProvider) *Planner {
	t.Helper()
	lib, err := template.Default()
	require.NoError(t, err)
	return NewPlanner(newTestInvoker(p, false), lib, quietLogger)
}

func TestPlanUsesTemplateForProfessionalSurveys(t *testing.T) {
	mock := llm.NewMockLLMClient()
	a := survey.DefaultAnalysis()
	a.SurveyType = survey.TypeCustomerSatisfaction

	plan, err := newTestPlanner(t, mock).Plan(context.Background(), a, true)

	require.NoError(t, err)
	assert.Equal(t, "customer-satisfaction", plan.TemplateKey)
	assert.Equal(t, PlanSourceTemplate, plan.Source)
	assert.NotZero(t, plan.Architecture.QuestionCount())
	assert.Empty(t, mock.Calls())
}

func TestPlanTemplateFlagForcesModel(t *testing.T) {
	arch := plannedArchitecture()
	mock := llm.NewMockLLMClient().OnTask(ports.TaskPlanning, toJSON(t, arch))
	a := survey.DefaultAnalysis()
	a.SurveyType = survey.TypeCustomerSatisfaction

	plan, err := newTestPlanner(t, mock).Plan(context.Background(), a, false)

	require.NoError(t, err)
	assert.Empty(t, plan.TemplateKey)
	assert.Equal(t, PlanSourceModel, plan.Source)
	assert.Equal(t, 5, plan.Architecture.QuestionCount())

	calls := mock.CallsFor(ports.TaskPlanning)
	require.Len(t, calls, 1)
	assert.Equal(t, 0.2, calls[0].Options.Temperature)
	assert.Contains(t, calls[0].Prompt, "Gather user feedback; Improve product experience")
}

func TestPlanRepairsModelOutput(t *testing.T) {
	arch := plannedArchitecture()
	arch.Pages[1].Questions[0].ID = "q1"
	arch.Pages[1].Questions[1].Logic.ShowIf = "nowhere"
	arch.Pages[1].Position = 5
	mock := llm.NewMockLLMClient().OnTask(ports.TaskPlanning, toJSON(t, arch))

	plan, err := newTestPlanner(t, mock).Plan(context.Background(), academicAnalysis(), true)

	require.NoError(t, err)
	assert.True(t, plan.Repairs.Changed())
	assert.Equal(t, 1, plan.Architecture.Pages[0].Position)
	assert.Equal(t, 2, plan.Architecture.Pages[1].Position)
	assert.Equal(t, "q1_2", plan.Architecture.Pages[1].Questions[0].ID)
	assert.Empty(t, plan.Architecture.Pages[1].Questions[1].Logic.ShowIf)
}

func TestPlanFallsBackWhenModelFails(t *testing.T) {
	tests := []struct {
		name string
		mock *llm.MockLLMClient
	}{
		{"provider error", llm.NewMockLLMClient().FailTask(ports.TaskPlanning, errors.New("timeout"))},
		{"empty object", llm.NewMockLLMClient().OnTask(ports.TaskPlanning, "{}")},
		{"prose", llm.NewMockLLMClient().OnTask(ports.TaskPlanning, "I cannot help with that.")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := newTestPlanner(t, tt.mock).Plan(context.Background(), academicAnalysis(), true)

			require.NoError(t, err)
			assert.Equal(t, PlanSourceFallback, plan.Source)
			want, _ := survey.Repair(survey.FallbackArchitecture())
			assert.Equal(t, want, plan.Architecture)
		})
	}
}

func TestPlanReturnsErrorWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestPlanner(t, llm.NewMockLLMClient()).Plan(ctx, academicAnalysis(), true)

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStageFailed)
	assert.ErrorIs(t, err, context.Canceled)
}
