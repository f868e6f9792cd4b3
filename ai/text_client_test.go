package ai

import (
	"context"
	"testing"

	"surveygen/domain/core"
	"surveygen/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no fence", "  export default function A() {}  ", "export default function A() {}"},
		{"jsx fence", "Sure!\n```jsx\nconst A = 1\n```\nDone.", "const A = 1"},
		{"prefers jsx over css", "```css\n.a{}\n```\n```tsx\nconst B = 2\n```", "const B = 2"},
		{"first fence otherwise", "```\nplain\n```\n```css\n.a{}\n```", "plain"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCode(tt.input))
		})
	}
}

func TestExtractHTML(t *testing.T) {
	assert.Equal(t, "<html></html>", ExtractHTML("```css\nbody{}\n```\n```html\n<html></html>\n```"))
	assert.Equal(t, "body{}", ExtractHTML("```css\nbody{}\n```"))
	assert.Equal(t, "<html>raw</html>", ExtractHTML("<html>raw</html>\n"))
}

func componentCall() Call {
	return Call{
		Task:     ports.TaskComponents,
		Template: "refine",
		Vars:     map[string]string{"HTML": "<html></html>", "FEEDBACK": "bigger"},
	}
}

func TestTextClientRetriesEmptyExtraction(t *testing.T) {
	p := &mockProvider{}
	p.On("Invoke", mock.Anything, forModel("gpt-5")).Return(&ports.LLMResponse{Content: "```jsx\n```"}, nil).Once()
	p.On("Invoke", mock.Anything, forModel("gpt-4o")).Return(&ports.LLMResponse{Content: "```jsx\nconst C = 3\n```"}, nil).Once()

	client := NewTextClient(newTestInvoker(p, true), ExtractCode)
	code, info, err := client.Generate(context.Background(), componentCall())

	require.NoError(t, err)
	assert.Equal(t, "const C = 3", code)
	assert.True(t, info.FellBack)
	p.AssertExpectations(t)
}

func TestTextClientEmptyIsProviderError(t *testing.T) {
	p := &mockProvider{}
	p.On("Invoke", mock.Anything, mock.Anything).Return(&ports.LLMResponse{Content: "```\n```"}, nil)

	_, _, err := NewTextClient(newTestInvoker(p, false), ExtractCode).Generate(context.Background(), componentCall())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrEmptyGeneration)
	assert.True(t, core.IsProviderError(err))
}
