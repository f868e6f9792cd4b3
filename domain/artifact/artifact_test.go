package artifact

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveygen/domain/design"
	"surveygen/domain/survey"
)

func TestNormalizeClampsScores(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		v := ValidationResult{
			Score:         rng.Intn(2000) - 1000,
			Accessibility: Accessibility{Score: rng.Intn(2000) - 1000},
			Performance:   Performance{Score: rng.Intn(2000) - 1000},
		}
		n := v.Normalize()
		for _, s := range []int{n.Score, n.Accessibility.Score, n.Performance.Score} {
			assert.GreaterOrEqual(t, s, 0)
			assert.LessOrEqual(t, s, 100)
		}
	}
}

func TestNormalizeMapsUnknownSeverities(t *testing.T) {
	v := ValidationResult{
		Issues:        []Issue{{Severity: "critical"}, {Severity: SeverityLow}},
		Optimizations: []Optimization{{Impact: ""}},
	}
	n := v.Normalize()
	assert.Equal(t, SeverityMedium, n.Issues[0].Severity)
	assert.Equal(t, SeverityLow, n.Issues[1].Severity)
	assert.Equal(t, SeverityMedium, n.Optimizations[0].Impact)
	assert.NotNil(t, n.Accessibility.Issues)
	assert.NotNil(t, n.Performance.Recommendations)

	// input untouched
	assert.Equal(t, Severity("critical"), v.Issues[0].Severity)
}

func TestNeutralValidation(t *testing.T) {
	n := NeutralValidation()
	assert.True(t, n.IsValid)
	assert.Equal(t, 75, n.Score)
	assert.Equal(t, 80, n.Accessibility.Score)
	assert.Equal(t, 85, n.Performance.Score)
	assert.Empty(t, n.Issues)
}

func componentsFor(arch survey.Architecture) []Component {
	var out []Component
	for _, p := range arch.Pages {
		for _, q := range p.Questions {
			out = append(out, Component{ID: q.ID, Code: "export default function C() {}"})
		}
	}
	return out
}

func TestEstimateQualityRewardsCompleteSurveys(t *testing.T) {
	arch := survey.QuickArchitecture()
	good := EstimateQuality(arch, componentsFor(arch))
	assert.True(t, good.IsValid)
	assert.GreaterOrEqual(t, good.Score, 90)

	missing := EstimateQuality(arch, nil)
	assert.Less(t, missing.Score, good.Score)
	assert.NotEmpty(t, missing.Issues)
}

func TestEstimateQualityEmptyArchitecture(t *testing.T) {
	res := EstimateQuality(survey.Architecture{}, nil)
	assert.False(t, res.IsValid)
	assert.Equal(t, 0, res.Score)
	require.Len(t, res.Issues, 1)
	assert.Equal(t, SeverityHigh, res.Issues[0].Severity)
}

func TestResolveTheme(t *testing.T) {
	ds := design.Default()

	named := ResolveTheme("professional-blue", ds, true)
	assert.Equal(t, "#1e40af", named.PrimaryColor)
	assert.True(t, named.Animations)

	custom := ResolveTheme("sunset", ds, false)
	assert.Equal(t, ds.ColorPalette.Primary, custom.PrimaryColor)
	assert.Equal(t, "sunset", custom.Name)
	assert.False(t, custom.Animations)

	assert.True(t, KnownTheme("friendly-blue"))
	assert.False(t, KnownTheme("sunset"))
}
