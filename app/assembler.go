package app

import (
	"fmt"
	"math"
	"strings"

	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/domain/design"
	"surveygen/domain/survey"
)

// AssembleInput gathers every stage output the final artifact is built from.
type AssembleInput struct {
	Analysis     survey.Analysis
	Architecture survey.Architecture
	DesignSystem design.System
	Components   []artifact.Component
	Validation   artifact.ValidationResult
	SurveyID     core.SurveyID
	CreatedAt    core.Timestamp
	Metadata     artifact.Metadata
}

var surveyTitles = map[survey.SurveyType]string{
	survey.TypeMarketResearch:       "Market Research Survey",
	survey.TypeAcademicStudy:        "Research Study Questionnaire",
	survey.TypeEmployeeEngagement:   "Employee Engagement Survey",
	survey.TypeProductFeedback:      "Product Feedback Survey",
	survey.TypeCustomerSatisfaction: "Customer Satisfaction Survey",
	survey.TypeUserResearch:         "User Experience Research",
}

var surveyDescriptions = map[survey.SurveyType]string{
	survey.TypeMarketResearch:       "Help us understand market trends and consumer preferences.",
	survey.TypeAcademicStudy:        "Your participation in this research study is valuable for advancing knowledge.",
	survey.TypeEmployeeEngagement:   "Share your thoughts to help us improve our workplace.",
	survey.TypeProductFeedback:      "Your feedback helps us build better products.",
	survey.TypeCustomerSatisfaction: "Tell us about your experience with our service.",
	survey.TypeUserResearch:         "Help us understand how you use our product.",
}

var complexityMultipliers = map[survey.Complexity]float64{
	survey.ComplexitySimple:       0.8,
	survey.ComplexityProfessional: 1.0,
	survey.ComplexityResearch:     1.3,
	survey.ComplexityAcademic:     1.5,
}

const (
	secondsPerQuestion   = 30
	minCompletionSeconds = 30
	maxCompletionSeconds = 3600
	defaultTheme         = "modern-gradient"
)

// SurveyTitle returns the title for a survey type.
func SurveyTitle(t survey.SurveyType) string {
	if title, ok := surveyTitles[t]; ok {
		return title
	}
	return "Survey"
}

// SurveyDescription returns the description for a survey type.
func SurveyDescription(t survey.SurveyType) string {
	if d, ok := surveyDescriptions[t]; ok {
		return d
	}
	return "Please share your thoughts by completing this survey."
}

// EstimateCompletionTime renders "<m>-<m+2> minutes" for count questions.
func EstimateCompletionTime(count int, c survey.Complexity) string {
	multiplier, ok := complexityMultipliers[c]
	if !ok {
		multiplier = 1.0
	}
	seconds := int(math.Round(float64(count*secondsPerQuestion) * multiplier))
	minutes := seconds / 60
	return fmt.Sprintf("%d-%d minutes", minutes, minutes+2)
}

// Assemble builds the final artifact. It makes no model calls and does not
// modify its input.
func Assemble(in AssembleInput) artifact.FinalArtifact {
	arch := in.Architecture.Clone()
	a := in.Analysis.Normalize()

	themeName := arch.Design.Theme
	if strings.TrimSpace(themeName) == "" {
		themeName = defaultTheme
	}
	theme := artifact.ResolveTheme(themeName, in.DesignSystem, arch.Design.Animations)

	attach := componentLookup(in.Components)
	pages := make([]artifact.SurveyPage, len(arch.Pages))
	for pi, p := range arch.Pages {
		components := make([]artifact.PageComponent, len(p.Questions))
		for qi, q := range p.Questions {
			style := make(map[string]string, len(theme.ComponentStyle))
			for k, v := range theme.ComponentStyle {
				style[k] = v
			}
			components[qi] = artifact.PageComponent{
				ID:         q.ID,
				Type:       q.Type,
				Label:      q.Label,
				Required:   q.Required,
				Position:   qi + 1,
				PageID:     p.ID,
				Validation: q.Validation,
				Analytics:  q.Analytics,
				Style:      style,
				Accessibility: artifact.AccessibilityAttrs{
					AriaLabel:   q.Label,
					Role:        AriaRole(q.Type),
					DescribedBy: q.ID + "-help",
				},
				Component: attach(q.ID),
			}
		}
		pages[pi] = artifact.SurveyPage{
			ID:         p.ID,
			Name:       p.Name,
			Purpose:    p.Purpose,
			Position:   p.Position,
			Components: components,
		}
	}

	surveyID := in.SurveyID
	if surveyID == "" {
		surveyID = core.NewSurveyID()
	}
	createdAt := in.CreatedAt
	if createdAt.IsZero() {
		createdAt = core.Now()
	}

	validation := in.Validation.Normalize()
	meta := in.Metadata
	meta.Analysis = a
	meta.Validation = validation
	meta.QualityScore = validation.Score
	if meta.OmittedQuestions == nil {
		meta.OmittedQuestions = []string{}
	}
	if meta.States == nil {
		meta.States = []string{}
	}

	components := in.Components
	if components == nil {
		components = []artifact.Component{}
	}

	return artifact.FinalArtifact{
		Survey: artifact.Survey{
			ID:          surveyID,
			Title:       SurveyTitle(a.SurveyType),
			Description: SurveyDescription(a.SurveyType),
			Pages:       pages,
			Theme:       theme,
			Settings: artifact.Settings{
				ShowProgress: arch.Flow.ProgressType != "none",
				AllowBack:    arch.Flow.AllowBack,
				ProgressType: arch.Flow.ProgressType,
				Navigation:   arch.Flow.Navigation,
			},
			Analytics: arch.Analytics,
			Metadata: artifact.SurveyMetadata{
				CreatedAt:      createdAt,
				CreatorID:      "ai-generator",
				Version:        "2.0",
				OriginalPrompt: strings.Join(a.Objectives, "; "),
				Tags:           []string{string(a.SurveyType), string(a.Complexity), a.Industry},
				EstimatedTime:  EstimateCompletionTime(len(in.Components), a.Complexity),
			},
		},
		Components:          components,
		DesignSystem:        in.DesignSystem,
		ValidationRules:     validationRules(arch),
		AnalyticsConfig:     analyticsConfig(arch, a),
		FollowUpSuggestions: suggestions(a, validation),
		Metadata:            meta,
	}
}

// componentLookup returns a function that yields the component for a question
// id. When several components share an id, successive lookups of that id take
// them in order.
func componentLookup(components []artifact.Component) func(id string) *artifact.Component {
	byID := make(map[string][]int, len(components))
	for i, c := range components {
		byID[c.ID] = append(byID[c.ID], i)
	}
	taken := make(map[string]int)
	return func(id string) *artifact.Component {
		idx := byID[id]
		n := taken[id]
		if n >= len(idx) {
			return nil
		}
		taken[id] = n + 1
		c := components[idx[n]]
		return &c
	}
}

func validationRules(arch survey.Architecture) artifact.ValidationRules {
	per := make(map[string]artifact.ComponentRule)
	for _, p := range arch.Pages {
		for _, q := range p.Questions {
			if len(q.Validation.Rules) == 0 {
				continue
			}
			messages := q.Validation.Messages
			if messages == nil {
				messages = map[string]string{}
			}
			per[q.ID] = artifact.ComponentRule{Rules: q.Validation.Rules, ErrorMessages: messages}
		}
	}
	return artifact.ValidationRules{
		Global: artifact.GlobalRules{
			MinCompletionTime:    minCompletionSeconds,
			MaxCompletionTime:    maxCompletionSeconds,
			RequireUniqueSession: true,
		},
		PerComponent: per,
	}
}

func analyticsConfig(arch survey.Architecture, a survey.Analysis) artifact.AnalyticsConfig {
	events := []artifact.AnalyticsEvent{
		{Name: "survey_started", Trigger: "page_load", Data: map[string]string{"timestamp": "auto", "surveyType": string(a.SurveyType)}},
		{Name: "question_viewed", Trigger: "component_mount", Data: map[string]string{"timestamp": "auto", "questionType": "auto"}},
		{Name: "question_answered", Trigger: "value_change", Data: map[string]string{"timestamp": "auto", "responseTime": "auto"}},
		{Name: "page_completed", Trigger: "page_change", Data: map[string]string{"timestamp": "auto", "pageId": "auto"}},
		{Name: "survey_completed", Trigger: "survey_submit", Data: map[string]string{"timestamp": "auto", "totalTime": "auto"}},
	}

	checks := []artifact.AccuracyCheck{}
	if arch.Analytics.FraudDetection {
		checks = append(checks,
			artifact.AccuracyCheck{Type: "response_time", Threshold: 1000, Action: "flag"},
			artifact.AccuracyCheck{Type: "straight_line_responses", Threshold: 0.8, Action: "warn"},
			artifact.AccuracyCheck{Type: "duplicate_responses", Threshold: 1, Action: "block"},
		)
	}
	return artifact.AnalyticsConfig{Events: events, AccuracyChecks: checks}
}

func suggestions(a survey.Analysis, v artifact.ValidationResult) []artifact.Suggestion {
	var out []artifact.Suggestion
	if v.Score < 80 {
		out = append(out, artifact.Suggestion{
			ID:          "improve_questions",
			Description: "Refine question wording for clarity and reduce potential bias",
			Action:      "improve_content",
			Priority:    artifact.PriorityHigh,
		})
	}
	if v.Accessibility.Score < 90 {
		out = append(out, artifact.Suggestion{
			ID:          "enhance_accessibility",
			Description: "Add more accessibility features like keyboard navigation and screen reader support",
			Action:      "improve_accessibility",
			Priority:    artifact.PriorityMedium,
		})
	}
	if a.SurveyType == survey.TypeAcademicStudy && !v.IsValid {
		out = append(out, artifact.Suggestion{
			ID:          "add_controls",
			Description: "Add attention check questions and validation controls for research quality",
			Action:      "add_validation",
			Priority:    artifact.PriorityHigh,
		})
	}
	out = append(out, artifact.Suggestion{
		ID:          "customize_branding",
		Description: "Customize colors and fonts to match your brand identity",
		Action:      "modify_design",
		Priority:    artifact.PriorityLow,
	})
	return out
}
