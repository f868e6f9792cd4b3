package survey

import (
	"strings"

	"surveygen/domain/core"
)

// SurveyType is the closed set of well-known survey categories.
type SurveyType string

const (
	TypeMarketResearch       SurveyType = "market-research"
	TypeAcademicStudy        SurveyType = "academic-study"
	TypeEmployeeEngagement   SurveyType = "employee-engagement"
	TypeProductFeedback      SurveyType = "product-feedback"
	TypeCustomerSatisfaction SurveyType = "customer-satisfaction"
	TypeUserResearch         SurveyType = "user-research"
)

// AllSurveyTypes lists every survey type in declaration order.
var AllSurveyTypes = []SurveyType{
	TypeMarketResearch,
	TypeAcademicStudy,
	TypeEmployeeEngagement,
	TypeProductFeedback,
	TypeCustomerSatisfaction,
	TypeUserResearch,
}

// Complexity grades the methodological rigor a survey needs.
type Complexity string

const (
	ComplexitySimple       Complexity = "simple"
	ComplexityProfessional Complexity = "professional"
	ComplexityResearch     Complexity = "research"
	ComplexityAcademic     Complexity = "academic"
)

var AllComplexities = []Complexity{ComplexitySimple, ComplexityProfessional, ComplexityResearch, ComplexityAcademic}

// Length is the expected survey length band.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// DataType is the kind of data the survey collects.
type DataType string

const (
	DataQuantitative DataType = "quantitative"
	DataQualitative  DataType = "qualitative"
	DataMixed        DataType = "mixed"
)

// Tone of the survey copy.
type Tone string

const (
	ToneFormal       Tone = "formal"
	ToneCasual       Tone = "casual"
	ToneProfessional Tone = "professional"
	ToneAcademic     Tone = "academic"
)

// Urgency of the generation request.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencyStandard  Urgency = "standard"
	UrgencyFlexible  Urgency = "flexible"
)

func (t SurveyType) Valid() bool {
	for _, v := range AllSurveyTypes {
		if t == v {
			return true
		}
	}
	return false
}

func (c Complexity) Valid() bool {
	for _, v := range AllComplexities {
		if c == v {
			return true
		}
	}
	return false
}

func (l Length) Valid() bool {
	return l == LengthShort || l == LengthMedium || l == LengthLong
}

func (d DataType) Valid() bool {
	return d == DataQuantitative || d == DataQualitative || d == DataMixed
}

func (t Tone) Valid() bool {
	return t == ToneFormal || t == ToneCasual || t == ToneProfessional || t == ToneAcademic
}

func (u Urgency) Valid() bool {
	return u == UrgencyImmediate || u == UrgencyStandard || u == UrgencyFlexible
}

// Analysis is the Stage 1 record: structured requirements extracted from the prompt.
type Analysis struct {
	SurveyType          SurveyType `json:"surveyType"`
	Complexity          Complexity `json:"complexity"`
	TargetAudience      string     `json:"targetAudience"`
	Industry            string     `json:"industry"`
	Objectives          []string   `json:"objectives"`
	EstimatedLength     Length     `json:"estimatedLength"`
	DataTypes           []DataType `json:"dataTypes"`
	SpecialRequirements []string   `json:"specialRequirements"`
	Tone                Tone       `json:"tone"`
	Urgency             Urgency    `json:"urgency"`
}

// Validate reports the first unknown enum value or missing required field.
func (a *Analysis) Validate() error {
	if a.SurveyType == "" {
		return core.NewMissingFieldError("surveyType")
	}
	if !a.SurveyType.Valid() {
		return core.NewEnumError("surveyType", string(a.SurveyType))
	}
	if a.Complexity == "" {
		return core.NewMissingFieldError("complexity")
	}
	if !a.Complexity.Valid() {
		return core.NewEnumError("complexity", string(a.Complexity))
	}
	if a.EstimatedLength == "" {
		return core.NewMissingFieldError("estimatedLength")
	}
	if !a.EstimatedLength.Valid() {
		return core.NewEnumError("estimatedLength", string(a.EstimatedLength))
	}
	if len(a.DataTypes) == 0 {
		return core.NewMissingFieldError("dataTypes")
	}
	for _, d := range a.DataTypes {
		if !d.Valid() {
			return core.NewEnumError("dataTypes", string(d))
		}
	}
	if a.Tone == "" {
		return core.NewMissingFieldError("tone")
	}
	if !a.Tone.Valid() {
		return core.NewEnumError("tone", string(a.Tone))
	}
	if a.Urgency == "" {
		return core.NewMissingFieldError("urgency")
	}
	if !a.Urgency.Valid() {
		return core.NewEnumError("urgency", string(a.Urgency))
	}
	return nil
}

// Normalize fills optional collections so the record serializes without nulls.
func (a Analysis) Normalize() Analysis {
	if a.Objectives == nil {
		a.Objectives = []string{}
	}
	if a.SpecialRequirements == nil {
		a.SpecialRequirements = []string{}
	}
	a.TargetAudience = strings.TrimSpace(a.TargetAudience)
	a.Industry = strings.TrimSpace(a.Industry)
	return a
}

// DefaultAnalysis is substituted whenever Stage 1 cannot produce a valid record.
func DefaultAnalysis() Analysis {
	return Analysis{
		SurveyType:          TypeUserResearch,
		Complexity:          ComplexityProfessional,
		TargetAudience:      "general-public",
		Industry:            "technology",
		Objectives:          []string{"Gather user feedback", "Improve product experience"},
		EstimatedLength:     LengthMedium,
		DataTypes:           []DataType{DataMixed},
		SpecialRequirements: []string{},
		Tone:                ToneProfessional,
		Urgency:             UrgencyStandard,
	}
}

// Hints are optional caller-supplied steering values passed alongside the prompt.
type Hints struct {
	SurveyType     string `json:"surveyType,omitempty"`
	TargetAudience string `json:"targetAudience,omitempty"`
	Industry       string `json:"industry,omitempty"`
	Complexity     string `json:"complexity,omitempty"`
	DesignStyle    string `json:"designStyle,omitempty"`
	Length         string `json:"length,omitempty"`
}

// IsZero reports whether no hint is set.
func (h Hints) IsZero() bool {
	return h == Hints{}
}
