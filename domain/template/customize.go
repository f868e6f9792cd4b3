package template

import "surveygen/domain/survey"

// ThemeVariants maps each known theme to its casual-tone variant.
var ThemeVariants = map[string]string{
	"professional-blue": "friendly-blue",
	"modern-gradient":   "modern-gradient",
	"academic-neutral":  "academic-neutral",
	"corporate-blue":    "corporate-blue",
	"friendly-green":    "friendly-green",
	"friendly-blue":     "friendly-blue",
	"research-purple":   "research-purple",
}

// MaxShortPages caps the page count of templates customized for short surveys.
const MaxShortPages = 3

// ShouldUse reports whether the template path applies to analysis.
func ShouldUse(a survey.Analysis) bool {
	if !a.SurveyType.Valid() {
		return false
	}
	return a.Complexity == survey.ComplexitySimple || a.Complexity == survey.ComplexityProfessional
}

// Customize derives an architecture from t for the given analysis. Rules are
// applied in order: casual tone swaps the theme for its variant, short length
// keeps the first MaxShortPages pages, immediate urgency turns animations off.
// t is not modified.
func Customize(t Template, a survey.Analysis) Template {
	out := t.Clone()
	arch := &out.Architecture

	if a.Tone == survey.ToneCasual {
		if v, ok := ThemeVariants[arch.Design.Theme]; ok {
			arch.Design.Theme = v
		}
	}
	if a.EstimatedLength == survey.LengthShort && len(arch.Pages) > MaxShortPages {
		arch.Pages = arch.Pages[:MaxShortPages]
	}
	if a.Urgency == survey.UrgencyImmediate {
		arch.Design.Animations = false
	}
	return out
}
