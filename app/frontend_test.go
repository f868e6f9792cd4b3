package app

import (
	"context"
	"errors"
	"testing"

	"surveygen/adapters/llm"
	"surveygen/domain/artifact"
	"surveygen/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSurveyGenerator struct {
	mock.Mock
}

func (m *mockSurveyGenerator) Generate(ctx context.Context, req GenerateRequest) *artifact.FinalArtifact {
	args := m.Called(ctx, req)
	return args.Get(0).(*artifact.FinalArtifact)
}

func stubArtifact() *artifact.FinalArtifact {
	in := assembleInput()
	in.Metadata.RunID = "run-1"
	fa := Assemble(in)
	return &fa
}

func newTestFrontend(surveys SurveyGenerator, p ports.ModelProvider) *FrontendGenerator {
	return NewFrontendGenerator(surveys, newTestInvoker(p, false), quietLogger)
}

const modelDocument = "```html\n<!DOCTYPE html>\n<html><body><h1>Sleep</h1></body></html>\n```"

func TestGenerateFrontendUsesModelDocument(t *testing.T) {
	surveys := new(mockSurveyGenerator)
	surveys.On("Generate", mock.Anything, mock.Anything).Return(stubArtifact())
	provider := llm.NewMockLLMClient().OnTask(ports.TaskDesign, modelDocument)

	res, err := newTestFrontend(surveys, provider).GenerateFrontend(context.Background(), FrontendRequest{
		GenerateRequest: GenerateRequest{Prompt: "sleep study", UserID: "u-7"},
		StyleDirection:  "dark and calm",
	})

	require.NoError(t, err)
	assert.Equal(t, FrontendSourceModel, res.Source)
	assert.Equal(t, "gpt-4o", res.Model)
	assert.Equal(t, "<!DOCTYPE html>\n<html><body><h1>Sleep</h1></body></html>", res.HTML)
	assert.Equal(t, "run-1", res.Artifact.Metadata.RunID.String())

	call := provider.CallsFor(ports.TaskDesign)[0]
	assert.Equal(t, frontendSystem, call.System)
	assert.Equal(t, 0.5, call.Options.Temperature)
	assert.Contains(t, call.Prompt, "dark and calm")
	assert.Nil(t, call.Image)
	surveys.AssertExpectations(t)
}

func TestGenerateFrontendPassesReferenceImage(t *testing.T) {
	surveys := new(mockSurveyGenerator)
	surveys.On("Generate", mock.Anything, mock.Anything).Return(stubArtifact())
	provider := llm.NewMockLLMClient().OnTask(ports.TaskDesign, modelDocument)
	img := &ports.ImageInput{MimeType: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}}

	_, err := newTestFrontend(surveys, provider).GenerateFrontend(context.Background(), FrontendRequest{
		GenerateRequest: GenerateRequest{Prompt: "sleep study"},
		ReferenceImage:  img,
	})

	require.NoError(t, err)
	call := provider.CallsFor(ports.TaskDesign)[0]
	assert.Equal(t, img, call.Image)
	assert.Contains(t, call.Prompt, "reference image is attached")
}

func TestGenerateFrontendRendersLocallyWhenModelFails(t *testing.T) {
	tests := []struct {
		name     string
		provider *llm.MockLLMClient
	}{
		{"not a document", llm.NewMockLLMClient().OnTask(ports.TaskDesign, "<div>just a fragment</div>")},
		{"provider error", llm.NewMockLLMClient().FailTask(ports.TaskDesign, errors.New("quota exceeded"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surveys := new(mockSurveyGenerator)
			surveys.On("Generate", mock.Anything, mock.Anything).Return(stubArtifact())

			res, err := newTestFrontend(surveys, tt.provider).GenerateFrontend(context.Background(),
				FrontendRequest{GenerateRequest: GenerateRequest{Prompt: "sleep study"}})

			require.NoError(t, err)
			assert.Equal(t, FrontendSourceLocal, res.Source)
			assert.Empty(t, res.Model)
			assert.Contains(t, res.HTML, "<html")
			assert.Contains(t, res.HTML, "Research Study Questionnaire")
		})
	}
}

func TestGenerateFrontendFailsWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	surveys := new(mockSurveyGenerator)

	_, err := newTestFrontend(surveys, llm.NewMockLLMClient()).GenerateFrontend(ctx,
		FrontendRequest{GenerateRequest: GenerateRequest{Prompt: "sleep study"}})

	assert.ErrorIs(t, err, context.Canceled)
	surveys.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestRefineFrontend(t *testing.T) {
	original := "<html><body>v1</body></html>"
	t.Run("revised", func(t *testing.T) {
		provider := llm.NewMockLLMClient().OnTask(ports.TaskDesign, "```html\n<html><body>v2</body></html>\n```")

		got, err := newTestFrontend(nil, provider).RefineFrontend(context.Background(), original, "bigger buttons")

		require.NoError(t, err)
		assert.Equal(t, "<html><body>v2</body></html>", got)
		call := provider.Calls()[0]
		assert.Contains(t, call.Prompt, "bigger buttons")
		assert.Contains(t, call.Prompt, "v1")
	})
	t.Run("model failure keeps original", func(t *testing.T) {
		provider := llm.NewMockLLMClient().FailTask(ports.TaskDesign, errors.New("bad gateway"))

		got, err := newTestFrontend(nil, provider).RefineFrontend(context.Background(), original, "bigger buttons")

		require.NoError(t, err)
		assert.Equal(t, original, got)
	})
	t.Run("no feedback", func(t *testing.T) {
		provider := llm.NewMockLLMClient()

		got, err := newTestFrontend(nil, provider).RefineFrontend(context.Background(), original, "  ")

		require.NoError(t, err)
		assert.Equal(t, original, got)
		assert.Empty(t, provider.Calls())
	})
}

func TestDecodeReferenceImage(t *testing.T) {
	img, err := DecodeReferenceImage("", "data:image/png;base64,iVBORw==")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, img.Data)

	img, err = DecodeReferenceImage("IMAGE/JPEG", "/9g=")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", img.MimeType)

	img, err = DecodeReferenceImage("image/png", "  ")
	require.NoError(t, err)
	assert.Nil(t, img)

	_, err = DecodeReferenceImage("text/plain", "aGk=")
	assert.Error(t, err)
	_, err = DecodeReferenceImage("image/png", "%%%")
	assert.Error(t, err)
}
