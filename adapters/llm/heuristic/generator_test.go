package heuristic

import (
	"context"
	"encoding/json"
	"testing"

	"surveygen/domain/survey"
	"surveygen/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		prompt     string
		surveyType survey.SurveyType
		complexity survey.Complexity
	}{
		{"Quick employee engagement pulse for my team", survey.TypeEmployeeEngagement, survey.ComplexitySimple},
		{"Academic study on sleep habits for my dissertation", survey.TypeAcademicStudy, survey.ComplexityAcademic},
		{"Customer satisfaction survey for a coffee shop", survey.TypeCustomerSatisfaction, survey.ComplexityProfessional},
		{"", survey.TypeUserResearch, survey.ComplexityProfessional},
	}
	for _, tt := range tests {
		t.Run(tt.prompt, func(t *testing.T) {
			a := Classify(tt.prompt)
			require.NoError(t, a.Validate())
			assert.Equal(t, tt.surveyType, a.SurveyType)
			assert.Equal(t, tt.complexity, a.Complexity)
		})
	}
}

func TestInvokeAnalysisReadsRequestFromPrompt(t *testing.T) {
	prompt := "Analyze this.\n\nSURVEY REQUEST:\n\"Casual product feedback for our beta app\"\n\nCALLER HINTS (may be empty):\nnone\n\nschema mentions academic-study"
	resp, err := NewGenerator().Invoke(context.Background(), ports.ModelRequest{Task: ports.TaskAnalysis, Prompt: prompt})
	require.NoError(t, err)

	var a survey.Analysis
	require.NoError(t, json.Unmarshal([]byte(resp.Content), &a))
	assert.Equal(t, survey.TypeProductFeedback, a.SurveyType)
	assert.Equal(t, survey.ToneCasual, a.Tone)
}

func TestInvokeOtherTasks(t *testing.T) {
	g := NewGenerator()
	ctx := context.Background()

	resp, err := g.Invoke(ctx, ports.ModelRequest{Task: ports.TaskPlanning, Options: ports.InvokeOptions{JSON: true}})
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.Content)

	resp, err = g.Invoke(ctx, ports.ModelRequest{Task: ports.TaskDesign})
	require.NoError(t, err)
	assert.Empty(t, resp.Content)

	resp, err = g.Invoke(ctx, ports.ModelRequest{
		Task:   ports.TaskComponents,
		Prompt: "export default function RadioGroup_q7() {\n const value = responses['q7']",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.Content, "export default function RadioGroup_q7()")
	assert.Contains(t, resp.Content, "responses['q7']")

	ids, err := g.ListModels(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
