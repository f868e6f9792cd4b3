package artifact

import (
	"surveygen/domain/core"
	"surveygen/domain/design"
	"surveygen/domain/survey"
)

// Pipeline names recorded in artifact metadata.
const (
	PipelineAdvanced = "advanced-multi-model"
	PipelineFallback = "fallback"
)

// FinalArtifact is the assembled output of a generation run.
type FinalArtifact struct {
	Survey              Survey          `json:"survey"`
	Components          []Component     `json:"components"`
	DesignSystem        design.System   `json:"designSystem"`
	ValidationRules     ValidationRules `json:"validationRules"`
	AnalyticsConfig     AnalyticsConfig `json:"analyticsConfig"`
	FollowUpSuggestions []Suggestion    `json:"followUpSuggestions"`
	Metadata            Metadata        `json:"metadata"`
}

// Survey is the renderable survey definition.
type Survey struct {
	ID          core.SurveyID          `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Pages       []SurveyPage           `json:"pages"`
	Theme       Theme                  `json:"theme"`
	Settings    Settings               `json:"settings"`
	Analytics   survey.AnalyticsPolicy `json:"analytics"`
	Metadata    SurveyMetadata         `json:"metadata"`
}

// SurveyPage is a planned page with its questions resolved into components.
type SurveyPage struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Purpose    string          `json:"purpose"`
	Position   int             `json:"position"`
	Components []PageComponent `json:"components"`
}

// PageComponent inlines one question and, when generated, its component.
type PageComponent struct {
	ID            string                    `json:"id"`
	Type          survey.QuestionType       `json:"type"`
	Label         string                    `json:"label"`
	Required      bool                      `json:"required"`
	Position      int                       `json:"position"`
	PageID        string                    `json:"pageId"`
	Validation    survey.QuestionValidation `json:"validation"`
	Analytics     survey.QuestionAnalytics  `json:"analytics"`
	Style         map[string]string         `json:"style"`
	Accessibility AccessibilityAttrs        `json:"accessibility"`
	Component     *Component                `json:"component,omitempty"`
}

type AccessibilityAttrs struct {
	AriaLabel   string `json:"ariaLabel"`
	Role        string `json:"role"`
	DescribedBy string `json:"describedBy"`
}

type Settings struct {
	ShowProgress bool              `json:"showProgress"`
	AllowBack    bool              `json:"allowBack"`
	ProgressType string            `json:"progressType"`
	Navigation   survey.Navigation `json:"navigation"`
}

type SurveyMetadata struct {
	CreatedAt      core.Timestamp `json:"createdAt"`
	CreatorID      string         `json:"creatorId"`
	Version        string         `json:"version"`
	OriginalPrompt string         `json:"originalPrompt"`
	Tags           []string       `json:"tags"`
	EstimatedTime  string         `json:"estimatedTime"`
}

// ValidationRules are derived from question rules plus fixed global limits.
type ValidationRules struct {
	Global       GlobalRules              `json:"global"`
	PerComponent map[string]ComponentRule `json:"perComponent"`
}

type GlobalRules struct {
	MinCompletionTime    int  `json:"minCompletionTime"` // seconds
	MaxCompletionTime    int  `json:"maxCompletionTime"` // seconds
	RequireUniqueSession bool `json:"requireUniqueSession"`
}

type ComponentRule struct {
	Rules         []string          `json:"rules"`
	ErrorMessages map[string]string `json:"errorMessages"`
}

type AnalyticsConfig struct {
	Events         []AnalyticsEvent `json:"events"`
	AccuracyChecks []AccuracyCheck  `json:"accuracyChecks"`
}

type AnalyticsEvent struct {
	Name    string            `json:"name"`
	Trigger string            `json:"trigger"`
	Data    map[string]string `json:"data"`
}

type AccuracyCheck struct {
	Type      string  `json:"type"`
	Threshold float64 `json:"threshold"`
	Action    string  `json:"action"`
}

// Priority of a follow-up suggestion.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Suggestion struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Action      string   `json:"action"`
	Priority    Priority `json:"priority"`
}

// Metadata describes how the artifact was produced.
type Metadata struct {
	RunID            core.RunID          `json:"runId"`
	Pipeline         string              `json:"pipeline"`
	Template         string              `json:"template"`
	GenerationTimeMs int64               `json:"generationTime"`
	QualityScore     int                 `json:"qualityScore"`
	Analysis         survey.Analysis     `json:"analysis"`
	Validation       ValidationResult    `json:"validation"`
	States           []string            `json:"states"`
	Models           map[string]string   `json:"models,omitempty"`
	OmittedQuestions []string            `json:"omittedQuestions"`
	Repairs          survey.RepairReport `json:"repairs"`
	FailureReason    string              `json:"failureReason,omitempty"`
}

// QuestionIDs lists every question id across the survey pages, in order.
func (a *FinalArtifact) QuestionIDs() []string {
	var ids []string
	for _, p := range a.Survey.Pages {
		for _, c := range p.Components {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
