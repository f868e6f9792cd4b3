package app

import (
	"encoding/json"
	"regexp"
	"testing"

	"surveygen/ai"
	"surveygen/domain/design"
	"surveygen/domain/survey"
	"surveygen/internal"
	"surveygen/ports"

	"github.com/stretchr/testify/require"
)

var quietLogger = internal.NewLogger(internal.LogLevelError)

func newTestInvoker(p ports.ModelProvider, advanced bool) *ai.Invoker {
	return ai.NewInvoker(p, ai.NewTierResolver(ai.DefaultTierConfig(), advanced), ai.NewPromptManager(""), quietLogger)
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

func academicAnalysis() survey.Analysis {
	a := survey.DefaultAnalysis()
	a.SurveyType = survey.TypeAcademicStudy
	a.Complexity = survey.ComplexityAcademic
	a.Tone = survey.ToneAcademic
	a.Objectives = []string{"Measure sleep quality"}
	return a
}

// plannedArchitecture has two pages and five questions of mixed types.
func plannedArchitecture() survey.Architecture {
	q := func(id string, t survey.QuestionType, label string, rules ...string) survey.Question {
		return survey.Question{
			ID:         id,
			Type:       t,
			Label:      label,
			Required:   len(rules) > 0,
			Validation: survey.QuestionValidation{Rules: rules, Messages: map[string]string{}},
			Analytics:  survey.QuestionAnalytics{TrackingEvents: []string{"view"}},
		}
	}
	return survey.Architecture{
		Pages: []survey.Page{
			{ID: "about", Name: "About you", Purpose: "Context", Position: 1, Questions: []survey.Question{
				q("q1", survey.QuestionTextInput, "What is your role?", "required"),
				q("q2", survey.QuestionRadio, "How often do you sleep badly?"),
				q("q3", survey.QuestionScale, "Rate your sleep", "required"),
			}},
			{ID: "habits", Name: "Habits", Purpose: "Behaviour", Position: 2, Questions: []survey.Question{
				q("q4", survey.QuestionCheckbox, "Which apply?"),
				q("q5", survey.QuestionTextarea, "Anything else?"),
			}},
		},
		Flow:       survey.Flow{Navigation: survey.NavigationLinear, ProgressType: "steps", AllowBack: true},
		Validation: survey.ValidationPolicy{RealTime: true, CompletionChecks: []string{}},
		Analytics:  survey.AnalyticsPolicy{TrackingLevel: "research", FraudDetection: true},
		Design:     survey.DesignHint{Theme: "academic-neutral", Layout: "clean", Animations: false},
	}
}

func customDesign() design.System {
	ds := design.Default()
	ds.ColorPalette.Primary = "#112233"
	return ds
}

const validValidation = `{"isValid": true, "score": 91, "issues": [], "optimizations": [],
	"accessibility": {"score": 95, "issues": []}, "performance": {"score": 90, "recommendations": []}}`

var questionIDPattern = regexp.MustCompile(`responses\['([^']+)'\]`)

// questionOf returns the question id a component prompt is for.
func questionOf(req ports.ModelRequest) string {
	if m := questionIDPattern.FindStringSubmatch(req.Prompt); m != nil {
		return m[1]
	}
	return ""
}

func componentFence(name string) string {
	return "Here you go:\n```jsx\nexport default function " + name + "() {\n  return null\n}\n```"
}
