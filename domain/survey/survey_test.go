package survey

import (
	"encoding/json"
	"testing"

	"surveygen/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultAnalysisIsValid(t *testing.T) {
	a := DefaultAnalysis()
	require.NoError(t, a.Validate())
	assert.Equal(t, TypeUserResearch, a.SurveyType)
	assert.Equal(t, ComplexityProfessional, a.Complexity)
	assert.Equal(t, []string{"Gather user feedback", "Improve product experience"}, a.Objectives)
}

func TestAnalysisValidateRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Analysis)
		want   error
	}{
		{"unknown survey type", func(a *Analysis) { a.SurveyType = "poll" }, core.ErrUnknownEnum},
		{"missing survey type", func(a *Analysis) { a.SurveyType = "" }, core.ErrMissingField},
		{"unknown complexity", func(a *Analysis) { a.Complexity = "extreme" }, core.ErrUnknownEnum},
		{"missing data types", func(a *Analysis) { a.DataTypes = nil }, core.ErrMissingField},
		{"unknown data type", func(a *Analysis) { a.DataTypes = []DataType{"numeric"} }, core.ErrUnknownEnum},
		{"unknown tone", func(a *Analysis) { a.Tone = "snarky" }, core.ErrUnknownEnum},
		{"missing urgency", func(a *Analysis) { a.Urgency = "" }, core.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := DefaultAnalysis()
			tt.mutate(&a)
			err := a.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, core.IsParseError(err))
		})
	}
}

func TestCloneDoesNotShareState(t *testing.T) {
	original := QuickArchitecture()
	clone := original.Clone()

	clone.Pages[0].Questions[0].Label = "changed"
	clone.Pages[0].Questions[1].Scale.Labels[0] = "changed"
	clone.Pages[0].Questions[0].Validation.Messages["required"] = "changed"
	clone.Pages = append(clone.Pages, Page{ID: "extra"})

	assert.Equal(t, "What are your thoughts on this topic?", original.Pages[0].Questions[0].Label)
	assert.Equal(t, "Poor", original.Pages[0].Questions[1].Scale.Labels[0])
	assert.Equal(t, "Please share your thoughts", original.Pages[0].Questions[0].Validation.Messages["required"])
	assert.Len(t, original.Pages, 1)
}

func duplicateArchitecture() Architecture {
	return Architecture{
		Pages: []Page{
			{ID: "p", Position: 3, Questions: []Question{
				{ID: "q1", Type: QuestionRadio, Label: "A"},
				{ID: "q1", Type: QuestionScale, Label: "B", Logic: Logic{SkipTo: "missing"}},
			}},
			{ID: "p", Position: 1, Questions: []Question{
				{ID: "", Type: "slider", Label: "C", Logic: Logic{ShowIf: "q1"}},
				{ID: "q1_2", Type: QuestionTextarea, Label: "D"},
			}},
		},
	}
}

func TestRepairDeduplicatesWithoutDropping(t *testing.T) {
	input := duplicateArchitecture()
	repaired, report := Repair(input)

	require.Len(t, repaired.Pages, 2)
	assert.Equal(t, 1, repaired.Pages[0].Position)
	assert.Equal(t, 2, repaired.Pages[1].Position)
	assert.True(t, report.Renumbered)

	// page with position 1 sorts first
	assert.Equal(t, "C", repaired.Pages[0].Questions[0].Label)

	seen := map[string]bool{}
	labels := 0
	for _, p := range repaired.Pages {
		for _, q := range p.Questions {
			assert.NotEmpty(t, q.ID)
			assert.False(t, seen[q.ID], "duplicate id %s", q.ID)
			seen[q.ID] = true
			labels++
		}
	}
	assert.Equal(t, 4, labels)
	assert.NotEqual(t, repaired.Pages[0].ID, repaired.Pages[1].ID)

	// originals keep their ids; the blank id and the duplicate skip taken names
	assert.Equal(t, "q1_3", repaired.Pages[0].Questions[0].ID)
	assert.Equal(t, "q1_2", repaired.Pages[0].Questions[1].ID)
	assert.Equal(t, "q1", repaired.Pages[1].Questions[0].ID)
	assert.Equal(t, "q1_4", repaired.Pages[1].Questions[1].ID)

	assert.Equal(t, QuestionTextInput, repaired.Pages[0].Questions[0].Type)
	assert.Equal(t, "q1", repaired.Pages[0].Questions[0].Logic.ShowIf)
	assert.Empty(t, repaired.Pages[1].Questions[1].Logic.SkipTo)
	assert.Contains(t, report.DroppedRefs, "q1_4.skipTo=missing")

	// input untouched
	assert.Equal(t, "q1", input.Pages[0].Questions[1].ID)
}

func TestRepairDropsReferencesToAssignedIDs(t *testing.T) {
	arch := Architecture{
		Pages: []Page{
			{ID: "p1", Position: 1, Questions: []Question{
				{ID: "", Type: QuestionTextInput, Label: "A", Logic: Logic{SkipTo: "q1"}},
				{ID: "a", Type: QuestionTextInput, Label: "B"},
				{ID: "a", Type: QuestionTextInput, Label: "C"},
				{ID: "b", Type: QuestionTextInput, Label: "D", Logic: Logic{SkipTo: "a_2", ShowIf: "a"}},
			}},
		},
	}

	repaired, report := Repair(arch)
	qs := repaired.Pages[0].Questions

	assert.Equal(t, "q1", qs[0].ID)
	assert.Empty(t, qs[0].Logic.SkipTo, "must not skip to itself")
	assert.Equal(t, "a_2", qs[2].ID)
	assert.Empty(t, qs[3].Logic.SkipTo)
	assert.Equal(t, "a", qs[3].Logic.ShowIf)
	assert.ElementsMatch(t, []string{"q1.skipTo=q1", "b.skipTo=a_2"}, report.DroppedRefs)

	again, second := Repair(repaired)
	first, err := json.Marshal(repaired)
	require.NoError(t, err)
	next, err := json.Marshal(again)
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(next))
	assert.False(t, second.Changed())
}

func TestRepairIsIdempotent(t *testing.T) {
	once, _ := Repair(duplicateArchitecture())
	twice, report := Repair(once)

	a, err := json.Marshal(once)
	require.NoError(t, err)
	b, err := json.Marshal(twice)
	require.NoError(t, err)

	assert.JSONEq(t, string(a), string(b))
	assert.False(t, report.Changed())
}

func TestRepairLeavesValidArchitectureAlone(t *testing.T) {
	_, report := Repair(QuickArchitecture())
	assert.False(t, report.Changed())
}

func TestFallbackArchitectureShape(t *testing.T) {
	arch := FallbackArchitecture()
	require.NoError(t, arch.Validate())
	require.Len(t, arch.Pages, 1)
	require.Len(t, arch.Pages[0].Questions, 1)

	q := arch.Pages[0].Questions[0]
	assert.Equal(t, QuestionTextarea, q.Type)
	assert.True(t, q.Required)
	assert.Equal(t, NavigationLinear, arch.Flow.Navigation)
}

func TestEmptyArchitectureFailsValidation(t *testing.T) {
	arch := Architecture{Pages: []Page{{ID: "p1"}}}
	assert.Error(t, arch.Validate())
}

func TestAllQuestionTypesIncludeDisplayKinds(t *testing.T) {
	assert.Len(t, InputQuestionTypes, 10)
	assert.Len(t, AllQuestionTypes, 12)
	assert.True(t, QuestionInfoDisplay.IsDisplay())
	assert.False(t, QuestionRadio.IsDisplay())
}
