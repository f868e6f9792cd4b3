package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"surveygen/app"
	"surveygen/domain/artifact"
	"surveygen/domain/survey"
	"surveygen/domain/template"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSurveys struct{ mock.Mock }

func (m *mockSurveys) Generate(ctx context.Context, req app.GenerateRequest) *artifact.FinalArtifact {
	return m.Called(req).Get(0).(*artifact.FinalArtifact)
}

type mockFrontend struct{ mock.Mock }

func (m *mockFrontend) GenerateFrontend(ctx context.Context, req app.FrontendRequest) (*app.FrontendResult, error) {
	args := m.Called(req)
	res, _ := args.Get(0).(*app.FrontendResult)
	return res, args.Error(1)
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(r *mcp.CallToolResult) string {
	if r == nil {
		return ""
	}
	for _, c := range r.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func stubArtifact() *artifact.FinalArtifact {
	return &artifact.FinalArtifact{
		Survey: artifact.Survey{
			ID:    "survey-1",
			Title: "Cafeteria Feedback",
			Pages: []artifact.SurveyPage{{ID: "p1", Components: []artifact.PageComponent{{ID: "q1"}, {ID: "q2"}}}},
		},
		Metadata: artifact.Metadata{RunID: "run-1", Pipeline: artifact.PipelineAdvanced},
	}
}

func TestGenerateSurveyToolDefinition(t *testing.T) {
	def := NewGenerateSurveyTool(nil).Definition()

	assert.Equal(t, "generate_survey", def.Name)
	for _, p := range []string{"prompt", "survey_type", "complexity", "target_audience", "industry", "user_id", "use_template"} {
		assert.Contains(t, def.InputSchema.Properties, p)
	}
	assert.Equal(t, []string{"prompt"}, def.InputSchema.Required)
}

func TestGenerateSurveyToolHandle(t *testing.T) {
	surveys := new(mockSurveys)
	useTemplate := false
	surveys.On("Generate", app.GenerateRequest{
		Prompt:      "Cafeteria feedback",
		Context:     survey.Hints{SurveyType: "customer-satisfaction", Complexity: "simple"},
		UserID:      "u-3",
		UseTemplate: &useTemplate,
	}).Return(stubArtifact())

	result, err := NewGenerateSurveyTool(surveys).Handle(context.Background(), makeReq(map[string]interface{}{
		"prompt":       " Cafeteria feedback ",
		"survey_type":  "customer-satisfaction",
		"complexity":   "simple",
		"user_id":      "u-3",
		"use_template": false,
	}))

	require.NoError(t, err)
	require.False(t, result.IsError)
	var fa artifact.FinalArtifact
	require.NoError(t, json.Unmarshal([]byte(resultText(result)), &fa))
	assert.Equal(t, "Cafeteria Feedback", fa.Survey.Title)
	assert.Equal(t, []string{"q1", "q2"}, fa.QuestionIDs())
	surveys.AssertExpectations(t)
}

func TestGenerateSurveyToolRequiresPrompt(t *testing.T) {
	surveys := new(mockSurveys)

	result, err := NewGenerateSurveyTool(surveys).Handle(context.Background(), makeReq(map[string]interface{}{"prompt": "  "}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "prompt")
	surveys.AssertNotCalled(t, "Generate", mock.Anything)
}

func TestFrontendToolHandle(t *testing.T) {
	frontend := new(mockFrontend)
	frontend.On("GenerateFrontend", mock.MatchedBy(func(req app.FrontendRequest) bool {
		return req.Prompt == "Cafeteria feedback" && req.StyleDirection == "bold" &&
			req.ReferenceImage != nil && req.ReferenceImage.MimeType == "image/png"
	})).Return(&app.FrontendResult{
		Artifact: stubArtifact(),
		HTML:     "<html><body>survey</body></html>",
		Source:   app.FrontendSourceModel,
		Model:    "gpt-4o",
	}, nil)

	result, err := NewFrontendTool(frontend).Handle(context.Background(), makeReq(map[string]interface{}{
		"prompt":               "Cafeteria feedback",
		"style_direction":      "bold",
		"reference_image":      "iVBORw==",
		"reference_image_mime": "image/png",
	}))

	require.NoError(t, err)
	require.False(t, result.IsError, resultText(result))
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(result)), &out))
	assert.Equal(t, "<html><body>survey</body></html>", out["html"])
	assert.Equal(t, "model", out["source"])
	assert.Equal(t, "gpt-4o", out["model"])
	assert.Equal(t, []any{"q1", "q2"}, out["questions"])
	frontend.AssertExpectations(t)
}

func TestFrontendToolRejectsBadImage(t *testing.T) {
	frontend := new(mockFrontend)

	result, err := NewFrontendTool(frontend).Handle(context.Background(), makeReq(map[string]interface{}{
		"prompt":               "Cafeteria feedback",
		"reference_image":      "aGk=",
		"reference_image_mime": "text/plain",
	}))

	require.NoError(t, err)
	assert.True(t, result.IsError)
	frontend.AssertNotCalled(t, "GenerateFrontend", mock.Anything)
}

func TestFrontendToolPropagatesFailure(t *testing.T) {
	frontend := new(mockFrontend)
	frontend.On("GenerateFrontend", mock.Anything).Return(nil, errors.New("context canceled"))

	_, err := NewFrontendTool(frontend).Handle(context.Background(), makeReq(map[string]interface{}{"prompt": "x"}))

	assert.ErrorContains(t, err, "context canceled")
}

func TestTemplatesToolHandle(t *testing.T) {
	lib, err := template.Default()
	require.NoError(t, err)

	result, err := NewTemplatesTool(lib).Handle(context.Background(), makeReq(nil))

	require.NoError(t, err)
	var out []templateSummary
	require.NoError(t, json.Unmarshal([]byte(resultText(result)), &out))
	require.Len(t, out, len(survey.AllSurveyTypes))
	for _, s := range out {
		assert.NotEmpty(t, s.Key)
		assert.NotEmpty(t, s.Pages)
		assert.Positive(t, s.Questions)
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	lib, err := template.Default()
	require.NoError(t, err)

	s := NewServer("test", new(mockSurveys), new(mockFrontend), lib)

	require.NotNil(t, s)
	tools := s.ListTools()
	for _, name := range []string{"generate_survey", "generate_survey_frontend", "list_survey_templates"} {
		assert.Contains(t, tools, name)
	}
}
