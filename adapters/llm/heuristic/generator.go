// Package heuristic provides an offline model provider. It answers analysis
// calls by keyword classification and component calls with template code;
// planning, design and validation calls get an empty object so each stage
// applies its own substitute.
package heuristic

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"surveygen/domain/survey"
	"surveygen/ports"
)

// Generator answers model requests with deterministic rules
type Generator struct{}

// NewGenerator creates a new heuristic provider
func NewGenerator() *Generator {
	return &Generator{}
}

var (
	requestPattern   = regexp.MustCompile(`(?s)SURVEY REQUEST:\s*"(.*?)"\s*\n\s*CALLER HINTS`)
	componentPattern = regexp.MustCompile(`export default function (\w+)\(`)
	questionPattern  = regexp.MustCompile(`responses\['([^']+)'\]`)
)

// Invoke returns rule-based content for the request's task.
func (g *Generator) Invoke(ctx context.Context, req ports.ModelRequest) (*ports.LLMResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var content string
	switch req.Task {
	case ports.TaskAnalysis:
		prompt := req.Prompt
		if m := requestPattern.FindStringSubmatch(req.Prompt); m != nil {
			prompt = m[1]
		}
		raw, err := json.Marshal(Classify(prompt))
		if err != nil {
			return nil, fmt.Errorf("marshal analysis: %w", err)
		}
		content = string(raw)
	case ports.TaskComponents:
		content = componentCode(req.Prompt)
	default:
		if req.Options.JSON {
			content = "{}"
		}
	}

	return &ports.LLMResponse{
		Content: content,
		Model:   req.Model,
		Usage:   &ports.UsageData{Model: req.Model, Provider: "heuristic"},
	}, nil
}

// ListModels lists nothing, so tier probing always settles on the stable tier.
func (g *Generator) ListModels(ctx context.Context) ([]string, error) {
	return []string{}, nil
}

type keywordRule struct {
	keywords   []string
	surveyType survey.SurveyType
	audience   string
	industry   string
}

// Rules are checked in order; the first rule with a matching keyword wins.
var typeRules = []keywordRule{
	{[]string{"employee", "staff", "workplace", "engagement", "team morale"}, survey.TypeEmployeeEngagement, "employees", "human-resources"},
	{[]string{"study", "thesis", "academic", "research paper", "participants"}, survey.TypeAcademicStudy, "students", "education"},
	{[]string{"market", "pricing", "competitor", "brand awareness", "purchase intent"}, survey.TypeMarketResearch, "consumers", "retail"},
	{[]string{"product", "feature", "app", "beta"}, survey.TypeProductFeedback, "consumers", "technology"},
	{[]string{"customer", "satisfaction", "service", "support", "nps"}, survey.TypeCustomerSatisfaction, "consumers", "services"},
	{[]string{"user", "usability", "persona", "interview"}, survey.TypeUserResearch, "general-public", "technology"},
}

// Classify derives a full analysis record from the prompt text alone.
func Classify(prompt string) survey.Analysis {
	a := survey.DefaultAnalysis()
	lower := strings.ToLower(prompt)

	for _, rule := range typeRules {
		if containsAny(lower, rule.keywords...) {
			a.SurveyType = rule.surveyType
			a.TargetAudience = rule.audience
			a.Industry = rule.industry
			break
		}
	}

	switch {
	case containsAny(lower, "academic", "dissertation", "peer-reviewed", "irb"):
		a.Complexity = survey.ComplexityAcademic
		a.Tone = survey.ToneAcademic
	case containsAny(lower, "research", "validated", "rigorous", "longitudinal"):
		a.Complexity = survey.ComplexityResearch
		a.Tone = survey.ToneFormal
	case containsAny(lower, "simple", "quick", "short", "basic"):
		a.Complexity = survey.ComplexitySimple
	}

	switch {
	case containsAny(lower, "quick", "short", "brief", "few questions"):
		a.EstimatedLength = survey.LengthShort
	case containsAny(lower, "comprehensive", "detailed", "in-depth", "long"):
		a.EstimatedLength = survey.LengthLong
	}

	if containsAny(lower, "casual", "fun", "friendly", "informal") {
		a.Tone = survey.ToneCasual
	}
	if containsAny(lower, "asap", "urgent", "immediately", "today") {
		a.Urgency = survey.UrgencyImmediate
	}

	switch {
	case containsAny(lower, "rating", "score", "measure", "metric") && containsAny(lower, "why", "opinion", "open", "comment"):
		a.DataTypes = []survey.DataType{survey.DataMixed}
	case containsAny(lower, "rating", "score", "measure", "metric"):
		a.DataTypes = []survey.DataType{survey.DataQuantitative}
	case containsAny(lower, "opinion", "story", "experience", "open-ended"):
		a.DataTypes = []survey.DataType{survey.DataQualitative}
	}

	if trimmed := strings.TrimSpace(prompt); trimmed != "" {
		a.Objectives = []string{firstSentence(trimmed)}
	}
	return a
}

func componentCode(prompt string) string {
	name := "SurveyQuestion"
	if m := componentPattern.FindStringSubmatch(prompt); m != nil {
		name = m[1]
	}
	id := "question"
	if m := questionPattern.FindStringSubmatch(prompt); m != nil {
		id = m[1]
	}

	return fmt.Sprintf(`export default function %s() {
  const { submitAnswer, responses } = useSurveyState()
  const value = responses['%s'] ?? ''
  return (
    <div className="space-y-2" role="group" aria-labelledby="%s-label">
      <label id="%s-label" className="block text-sm font-medium">%s</label>
      <input
        className="w-full rounded-lg border px-3 py-2 focus:ring-2"
        value={value}
        onChange={(e) => submitAnswer('%s', e.target.value)}
      />
    </div>
  )
}`, name, id, id, id, id, id)
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

func firstSentence(s string) string {
	if i := strings.IndexAny(s, ".!?\n"); i > 0 {
		s = s[:i]
	}
	if len(s) > 120 {
		s = s[:120]
	}
	return strings.TrimSpace(s)
}
