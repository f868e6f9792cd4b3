package template

import (
	"encoding/json"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveygen/domain/core"
	"surveygen/domain/survey"
)

func analysisFor(st survey.SurveyType) survey.Analysis {
	a := survey.DefaultAnalysis()
	a.SurveyType = st
	return a
}

func TestDefaultLibraryCoversEverySurveyType(t *testing.T) {
	lib, err := Default()
	require.NoError(t, err)
	assert.Len(t, lib.Keys(), len(survey.AllSurveyTypes))
	for _, st := range survey.AllSurveyTypes {
		tpl, err := lib.Get(string(st))
		require.NoError(t, err)
		assert.Equal(t, string(st), tpl.Key)
		assert.NotEmpty(t, tpl.Name)
		assert.Positive(t, tpl.Architecture.QuestionCount())
	}
}

func TestGetReturnsIndependentCopies(t *testing.T) {
	lib := MustDefault()
	first, err := lib.Get("market-research")
	require.NoError(t, err)
	first.Architecture.Pages[0].Questions[0].Label = "mutated"
	first.Architecture.Design.Theme = "mutated"

	second, err := lib.Get("market-research")
	require.NoError(t, err)
	assert.Equal(t, "Welcome to our market research study", second.Architecture.Pages[0].Questions[0].Label)
	assert.Equal(t, "professional-blue", second.Architecture.Design.Theme)
}

func TestGetUnknownKey(t *testing.T) {
	_, err := MustDefault().Get("poll")
	assert.ErrorIs(t, err, core.ErrTemplateNotFound)
	assert.True(t, core.IsNotFoundError(err))
}

func TestShouldUse(t *testing.T) {
	tests := []struct {
		surveyType survey.SurveyType
		complexity survey.Complexity
		want       bool
	}{
		{survey.TypeEmployeeEngagement, survey.ComplexityProfessional, true},
		{survey.TypeCustomerSatisfaction, survey.ComplexitySimple, true},
		{survey.TypeUserResearch, survey.ComplexityProfessional, true},
		{survey.TypeAcademicStudy, survey.ComplexityAcademic, false},
		{survey.TypeMarketResearch, survey.ComplexityResearch, false},
		{"poll", survey.ComplexitySimple, false},
	}
	for _, tt := range tests {
		a := analysisFor(tt.surveyType)
		a.Complexity = tt.complexity
		assert.Equal(t, tt.want, ShouldUse(a), "%s/%s", tt.surveyType, tt.complexity)
	}
}

func TestCustomizeIsDeterministic(t *testing.T) {
	lib := MustDefault()
	a := analysisFor(survey.TypeMarketResearch)
	a.Tone = survey.ToneCasual
	a.EstimatedLength = survey.LengthShort

	render := func() string {
		tpl, err := lib.Get(string(a.SurveyType))
		require.NoError(t, err)
		data, err := json.Marshal(Customize(tpl, a).Architecture)
		require.NoError(t, err)
		return string(data)
	}
	assert.Equal(t, render(), render())
}

func TestEmployeeEngagementTemplateKeepsFourPages(t *testing.T) {
	a := analysisFor(survey.TypeEmployeeEngagement)
	tpl, err := MustDefault().Get(string(a.SurveyType))
	require.NoError(t, err)

	out := Customize(tpl, a)
	require.Len(t, out.Architecture.Pages, 4)
	ids := []string{}
	for _, p := range out.Architecture.Pages {
		ids = append(ids, p.ID)
	}
	assert.Equal(t, []string{"introduction", "job_satisfaction", "management", "feedback"}, ids)
}

func TestCasualToneUsesThemeVariant(t *testing.T) {
	a := analysisFor(survey.TypeMarketResearch)
	a.Tone = survey.ToneCasual
	tpl, err := MustDefault().Get(string(a.SurveyType))
	require.NoError(t, err)

	out := Customize(tpl, a)
	assert.Equal(t, "friendly-blue", out.Architecture.Design.Theme)
	assert.Equal(t, "professional-blue", tpl.Architecture.Design.Theme)
}

func TestShortLengthTruncatesPages(t *testing.T) {
	a := analysisFor(survey.TypeMarketResearch)
	a.EstimatedLength = survey.LengthShort
	tpl, err := MustDefault().Get(string(a.SurveyType))
	require.NoError(t, err)
	require.Len(t, tpl.Architecture.Pages, 5)

	out := Customize(tpl, a)
	assert.Len(t, out.Architecture.Pages, MaxShortPages)
	assert.Equal(t, "product_usage", out.Architecture.Pages[2].ID)
}

func TestImmediateUrgencyDisablesAnimations(t *testing.T) {
	a := analysisFor(survey.TypeProductFeedback)
	a.Urgency = survey.UrgencyImmediate
	tpl, err := MustDefault().Get(string(a.SurveyType))
	require.NoError(t, err)
	require.True(t, tpl.Architecture.Design.Animations)

	out := Customize(tpl, a)
	assert.False(t, out.Architecture.Design.Animations)
}

func TestThemeVariantsCoverTemplateThemes(t *testing.T) {
	for _, tpl := range MustDefault().All() {
		_, ok := ThemeVariants[tpl.Architecture.Design.Theme]
		assert.True(t, ok, "theme %s of %s has no variant entry", tpl.Architecture.Design.Theme, tpl.Key)
	}
}

func TestUserResearchDanglingSkipIsRepaired(t *testing.T) {
	tpl, err := MustDefault().Get(string(survey.TypeUserResearch))
	require.NoError(t, err)
	require.Equal(t, "end_screen", tpl.Architecture.Pages[0].Questions[0].Logic.SkipTo)

	repaired, report := survey.Repair(tpl.Architecture)
	assert.Empty(t, repaired.Pages[0].Questions[0].Logic.SkipTo)
	assert.Contains(t, report.DroppedRefs, "target_user_check.skipTo=end_screen")
}

func TestLoadRejectsIncompleteLibraries(t *testing.T) {
	fsys := fstest.MapFS{
		"t/only.yaml": {Data: []byte(`
key: market-research
name: Only
architecture:
  pages:
  - id: p1
    position: 1
    questions:
    - id: q1
      type: textarea
      label: Thoughts?
`)},
	}
	_, err := Load(fsys, "t")
	assert.ErrorContains(t, err, "no template for survey type")

	fsys["t/bad.yaml"] = &fstest.MapFile{Data: []byte("key: poll\n")}
	_, err = Load(fsys, "t")
	assert.ErrorContains(t, err, "not a survey type")
}
