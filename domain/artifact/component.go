package artifact

import (
	"surveygen/domain/core"
	"surveygen/domain/survey"
)

// Scope records how much page context produced a component's code.
type Scope string

const (
	ScopeFull    Scope = "full"    // primary call with the whole page
	ScopeReduced Scope = "reduced" // fallback call with only the question
	ScopeLocal   Scope = "local"   // local scaffold, no model involved
)

// Component is the Stage 4 output for one question.
type Component struct {
	ID           string              `json:"id"` // equals the question id
	Name         string              `json:"name"`
	Type         survey.QuestionType `json:"type"`
	Code         string              `json:"code"`
	Dependencies []string            `json:"dependencies"`
	Metadata     ComponentMetadata   `json:"metadata"`
}

// ComponentMetadata back-references the question the component renders.
type ComponentMetadata struct {
	Question    survey.Question   `json:"question"`
	Theme       string            `json:"theme"`
	Complexity  survey.Complexity `json:"complexity"`
	GeneratedAt core.Timestamp    `json:"generatedAt"`
	Strategy    string            `json:"strategy"`
	Model       string            `json:"model,omitempty"`
	Scope       Scope             `json:"scope"`
}
