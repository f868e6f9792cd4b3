package artifact

// Severity of a validation issue.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// ValidationResult is the Stage 5 record.
type ValidationResult struct {
	IsValid       bool           `json:"isValid"`
	Score         int            `json:"score"`
	Issues        []Issue        `json:"issues"`
	Optimizations []Optimization `json:"optimizations"`
	Accessibility Accessibility  `json:"accessibility"`
	Performance   Performance    `json:"performance"`
}

type Issue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

type Optimization struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Impact      Severity `json:"impact"`
}

type Accessibility struct {
	Score  int      `json:"score"`
	Issues []string `json:"issues"`
}

type Performance struct {
	Score           int      `json:"score"`
	Recommendations []string `json:"recommendations"`
}

// NeutralValidation is substituted when the validator output cannot be parsed.
func NeutralValidation() ValidationResult {
	return ValidationResult{
		IsValid:       true,
		Score:         75,
		Issues:        []Issue{},
		Optimizations: []Optimization{},
		Accessibility: Accessibility{Score: 80, Issues: []string{}},
		Performance:   Performance{Score: 85, Recommendations: []string{}},
	}
}

// Normalize clamps every score into [0,100], maps unknown severities and
// impacts to medium, and replaces nil collections with empty ones.
func (v ValidationResult) Normalize() ValidationResult {
	v.Score = ClampScore(v.Score)
	v.Accessibility.Score = ClampScore(v.Accessibility.Score)
	v.Performance.Score = ClampScore(v.Performance.Score)

	issues := make([]Issue, len(v.Issues))
	for i, is := range v.Issues {
		if !is.Severity.Valid() {
			is.Severity = SeverityMedium
		}
		issues[i] = is
	}
	v.Issues = issues

	opts := make([]Optimization, len(v.Optimizations))
	for i, o := range v.Optimizations {
		if !o.Impact.Valid() {
			o.Impact = SeverityMedium
		}
		opts[i] = o
	}
	v.Optimizations = opts

	if v.Accessibility.Issues == nil {
		v.Accessibility.Issues = []string{}
	}
	if v.Performance.Recommendations == nil {
		v.Performance.Recommendations = []string{}
	}
	return v
}

// ClampScore bounds s to [0,100].
func ClampScore(s int) int {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
