package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"surveygen/adapters/llm"
	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/domain/design"
	"surveygen/domain/survey"
	"surveygen/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wideArchitecture(n int) survey.Architecture {
	arch := plannedArchitecture()
	arch.Pages = arch.Pages[:1]
	arch.Pages[0].Questions = nil
	for i := 0; i < n; i++ {
		id := "item_" + string(rune('a'+i))
		arch.Pages[0].Questions = append(arch.Pages[0].Questions, survey.Question{ID: id, Type: survey.QuestionTextInput, Label: id})
	}
	return arch
}

func TestComponentsPreserveOrderUnderBoundedFanOut(t *testing.T) {
	var inFlight, peak int32
	mock := llm.NewMockLLMClient().Handle(func(req ports.ModelRequest) (*ports.LLMResponse, error) {
		n := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		id := questionOf(req)
		// earlier questions finish last
		time.Sleep(time.Duration(10-int(id[len(id)-1]-'a')) * 3 * time.Millisecond)
		return &ports.LLMResponse{Content: componentFence("C_" + id)}, nil
	})

	arch := wideArchitecture(8)
	gen := NewComponentGenerator(newTestInvoker(mock, false), 3, quietLogger)
	result, err := gen.Generate(context.Background(), survey.DefaultAnalysis(), arch, design.Default())

	require.NoError(t, err)
	require.Len(t, result.Components, 8)
	assert.Empty(t, result.Omitted)
	for i, c := range result.Components {
		assert.Equal(t, arch.Pages[0].Questions[i].ID, c.ID)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
}

func TestComponentsRetryWithReducedScope(t *testing.T) {
	var mu sync.Mutex
	attempts := map[string]int{}
	var reducedPrompt string
	mock := llm.NewMockLLMClient().Handle(func(req ports.ModelRequest) (*ports.LLMResponse, error) {
		id := questionOf(req)
		mu.Lock()
		attempts[id]++
		n := attempts[id]
		if id == "q2" && n == 2 {
			reducedPrompt = req.Prompt
		}
		mu.Unlock()
		if id == "q2" && n == 1 {
			return &ports.LLMResponse{Content: "   "}, nil
		}
		return &ports.LLMResponse{Content: componentFence("X")}, nil
	})

	gen := NewComponentGenerator(newTestInvoker(mock, false), 2, quietLogger)
	result, err := gen.Generate(context.Background(), survey.DefaultAnalysis(), plannedArchitecture(), design.Default())

	require.NoError(t, err)
	require.Len(t, result.Components, 5)
	assert.Equal(t, 2, attempts["q2"])
	assert.Equal(t, 1, attempts["q1"])

	q2 := result.Components[1]
	assert.Equal(t, artifact.ScopeReduced, q2.Metadata.Scope)
	assert.Equal(t, artifact.ScopeFull, result.Components[0].Metadata.Scope)
	assert.Contains(t, reducedPrompt, "How often do you sleep badly?")
	assert.NotContains(t, reducedPrompt, "What is your role?", "reduced page carries only the question")
}

func TestComponentsOmitQuestionsThatFailTwice(t *testing.T) {
	mock := llm.NewMockLLMClient().Handle(func(req ports.ModelRequest) (*ports.LLMResponse, error) {
		if questionOf(req) == "q3" {
			return nil, core.NewProviderError(req.Model, errors.New("rate limited"))
		}
		return &ports.LLMResponse{Content: componentFence("Y")}, nil
	})

	gen := NewComponentGenerator(newTestInvoker(mock, false), 4, quietLogger)
	result, err := gen.Generate(context.Background(), survey.DefaultAnalysis(), plannedArchitecture(), design.Default())

	require.NoError(t, err)
	assert.Equal(t, []string{"q3"}, result.Omitted)
	ids := make([]string, len(result.Components))
	for i, c := range result.Components {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"q1", "q2", "q4", "q5"}, ids)
}

func TestComponentFields(t *testing.T) {
	mock := llm.NewMockLLMClient().OnTask(ports.TaskComponents, componentFence("RadioGroup_q2"))
	arch := plannedArchitecture()
	arch.Design.Animations = true

	gen := NewComponentGenerator(newTestInvoker(mock, false), 1, quietLogger)
	result, err := gen.Generate(context.Background(), academicAnalysis(), arch, customDesign())
	require.NoError(t, err)

	c := result.Components[1]
	assert.Equal(t, "q2", c.ID)
	assert.Equal(t, "RadioGroup_q2", c.Name)
	assert.Equal(t, survey.QuestionRadio, c.Type)
	assert.Equal(t, "export default function RadioGroup_q2() {\n  return null\n}", c.Code)
	assert.Equal(t, []string{"react", "framer-motion"}, c.Dependencies)
	assert.Equal(t, "How often do you sleep badly?", c.Metadata.Question.Label)
	assert.Equal(t, "academic-neutral", c.Metadata.Theme)
	assert.Equal(t, survey.ComplexityAcademic, c.Metadata.Complexity)
	assert.Equal(t, "gpt-4o", c.Metadata.Model)
	assert.False(t, c.Metadata.GeneratedAt.IsZero())

	call := mock.CallsFor(ports.TaskComponents)[0]
	assert.Equal(t, 0.3, call.Options.Temperature)
	assert.Equal(t, 2000, call.Options.MaxOutputTokens)
	assert.Contains(t, call.Prompt, "#112233")
	assert.True(t, strings.Contains(call.Prompt, StrategyFor(survey.QuestionTextInput).Hint))
}

func TestComponentsStopWhenContextEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewComponentGenerator(newTestInvoker(llm.NewMockLLMClient(), false), 2, quietLogger)
	_, err := gen.Generate(ctx, survey.DefaultAnalysis(), plannedArchitecture(), design.Default())

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrStageFailed)
}

func TestScaffoldComponentsCoverEveryQuestion(t *testing.T) {
	arch := plannedArchitecture()
	comps := ScaffoldComponents(survey.DefaultAnalysis(), arch, design.Default())

	require.Len(t, comps, arch.QuestionCount())
	for _, c := range comps {
		assert.Equal(t, "academic-neutral", c.Metadata.Theme)
		assert.Equal(t, artifact.ScopeLocal, c.Metadata.Scope)
		assert.False(t, c.Metadata.GeneratedAt.IsZero())
	}
}
