package survey

// QuestionType is the closed set of question kinds a page may contain.
type QuestionType string

const (
	QuestionTextInput  QuestionType = "text-input"
	QuestionTextarea   QuestionType = "textarea"
	QuestionRadio      QuestionType = "radio"
	QuestionCheckbox   QuestionType = "checkbox"
	QuestionScale      QuestionType = "scale"
	QuestionNPS        QuestionType = "nps"
	QuestionMatrix     QuestionType = "matrix"
	QuestionRanking    QuestionType = "ranking"
	QuestionFileUpload QuestionType = "file-upload"
	QuestionDatePicker QuestionType = "date-picker"

	// Display-only kinds used by the template library. They collect no answer.
	QuestionInfoDisplay    QuestionType = "info-display"
	QuestionConsentDisplay QuestionType = "consent-display"
)

// InputQuestionTypes are the answer-collecting kinds a model may plan.
var InputQuestionTypes = []QuestionType{
	QuestionTextInput,
	QuestionTextarea,
	QuestionRadio,
	QuestionCheckbox,
	QuestionScale,
	QuestionNPS,
	QuestionMatrix,
	QuestionRanking,
	QuestionFileUpload,
	QuestionDatePicker,
}

// AllQuestionTypes includes the display-only kinds.
var AllQuestionTypes = append(append([]QuestionType{}, InputQuestionTypes...), QuestionInfoDisplay, QuestionConsentDisplay)

func (t QuestionType) Valid() bool {
	for _, v := range AllQuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsDisplay reports whether the kind only renders content.
func (t QuestionType) IsDisplay() bool {
	return t == QuestionInfoDisplay || t == QuestionConsentDisplay
}

// Architecture is the Stage 2 record: the page and question plan plus policies.
type Architecture struct {
	Pages      []Page           `json:"pages" yaml:"pages"`
	Flow       Flow             `json:"flow" yaml:"flow"`
	Validation ValidationPolicy `json:"validation" yaml:"validation"`
	Analytics  AnalyticsPolicy  `json:"analytics" yaml:"analytics"`
	Design     DesignHint       `json:"design" yaml:"design"`
}

// Page groups questions shown together.
type Page struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name" yaml:"name"`
	Purpose   string     `json:"purpose" yaml:"purpose"`
	Position  int        `json:"position" yaml:"position"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question is a single item in a page.
type Question struct {
	ID         string             `json:"id" yaml:"id"`
	Type       QuestionType       `json:"type" yaml:"type"`
	Label      string             `json:"label" yaml:"label"`
	Required   bool               `json:"required" yaml:"required"`
	Validation QuestionValidation `json:"validation" yaml:"validation"`
	Logic      Logic              `json:"logic" yaml:"logic"`
	Analytics  QuestionAnalytics  `json:"analytics" yaml:"analytics"`
	Options    []string           `json:"options,omitempty" yaml:"options,omitempty"`
	Scale      *ScaleSpec         `json:"scale,omitempty" yaml:"scale,omitempty"`
	Matrix     *MatrixSpec        `json:"matrix,omitempty" yaml:"matrix,omitempty"`
	Items      []string           `json:"items,omitempty" yaml:"items,omitempty"`
}

type QuestionValidation struct {
	Rules    []string          `json:"rules" yaml:"rules"`
	Messages map[string]string `json:"messages" yaml:"messages"`
}

// Logic holds conditional references to other question ids.
type Logic struct {
	ShowIf string `json:"showIf,omitempty" yaml:"showIf,omitempty"`
	SkipTo string `json:"skipTo,omitempty" yaml:"skipTo,omitempty"`
}

type QuestionAnalytics struct {
	TrackingEvents []string `json:"trackingEvents" yaml:"trackingEvents"`
}

type ScaleSpec struct {
	Min    int      `json:"min" yaml:"min"`
	Max    int      `json:"max" yaml:"max"`
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

type MatrixSpec struct {
	Rows    []string `json:"rows" yaml:"rows"`
	Columns []string `json:"columns" yaml:"columns"`
}

// Navigation modes for page flow.
type Navigation string

const (
	NavigationLinear    Navigation = "linear"
	NavigationAdaptive  Navigation = "adaptive"
	NavigationBranching Navigation = "branching"
)

type Flow struct {
	Navigation   Navigation `json:"navigation" yaml:"navigation"`
	ProgressType string     `json:"progressType" yaml:"progressType"`
	AllowBack    bool       `json:"allowBack" yaml:"allowBack"`
}

type ValidationPolicy struct {
	RealTime         bool     `json:"realTime" yaml:"realTime"`
	CompletionChecks []string `json:"completionChecks" yaml:"completionChecks"`
}

type AnalyticsPolicy struct {
	TrackingLevel     string `json:"trackingLevel" yaml:"trackingLevel"`
	FraudDetection    bool   `json:"fraudDetection" yaml:"fraudDetection"`
	BehavioralMetrics bool   `json:"behavioralMetrics" yaml:"behavioralMetrics"`
}

type DesignHint struct {
	Theme      string `json:"theme" yaml:"theme"`
	Layout     string `json:"layout" yaml:"layout"`
	Animations bool   `json:"animations" yaml:"animations"`
}

// QuestionCount counts questions across all pages.
func (a *Architecture) QuestionCount() int {
	n := 0
	for _, p := range a.Pages {
		n += len(p.Questions)
	}
	return n
}

// Clone returns a deep copy; the receiver is never shared with the result.
func (a Architecture) Clone() Architecture {
	out := a
	out.Pages = make([]Page, len(a.Pages))
	for i, p := range a.Pages {
		out.Pages[i] = p.Clone()
	}
	out.Validation.CompletionChecks = cloneStrings(a.Validation.CompletionChecks)
	return out
}

func (p Page) Clone() Page {
	out := p
	out.Questions = make([]Question, len(p.Questions))
	for i, q := range p.Questions {
		out.Questions[i] = q.Clone()
	}
	return out
}

func (q Question) Clone() Question {
	out := q
	out.Validation.Rules = cloneStrings(q.Validation.Rules)
	if q.Validation.Messages != nil {
		out.Validation.Messages = make(map[string]string, len(q.Validation.Messages))
		for k, v := range q.Validation.Messages {
			out.Validation.Messages[k] = v
		}
	}
	out.Analytics.TrackingEvents = cloneStrings(q.Analytics.TrackingEvents)
	out.Options = cloneStrings(q.Options)
	out.Items = cloneStrings(q.Items)
	if q.Scale != nil {
		s := *q.Scale
		s.Labels = cloneStrings(q.Scale.Labels)
		out.Scale = &s
	}
	if q.Matrix != nil {
		m := MatrixSpec{Rows: cloneStrings(q.Matrix.Rows), Columns: cloneStrings(q.Matrix.Columns)}
		out.Matrix = &m
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// FallbackArchitecture is the fixed one-page plan substituted when AI planning fails.
func FallbackArchitecture() Architecture {
	return Architecture{
		Pages: []Page{
			{
				ID:       "page_1",
				Name:     "Main Questions",
				Purpose:  "Collect primary data",
				Position: 1,
				Questions: []Question{
					{
						ID:       "q1",
						Type:     QuestionTextarea,
						Label:    "Please share your thoughts",
						Required: true,
						Validation: QuestionValidation{
							Rules:    []string{"required"},
							Messages: map[string]string{"required": "This field is required"},
						},
						Analytics: QuestionAnalytics{TrackingEvents: []string{"view", "interact"}},
					},
				},
			},
		},
		Flow: Flow{Navigation: NavigationLinear, ProgressType: "percentage", AllowBack: true},
		Validation: ValidationPolicy{
			RealTime:         true,
			CompletionChecks: []string{"all-required-answered"},
		},
		Analytics: AnalyticsPolicy{TrackingLevel: "basic", FraudDetection: false, BehavioralMetrics: true},
		Design:    DesignHint{Theme: "modern", Layout: "clean", Animations: true},
	}
}

// QuickArchitecture is the minimal plan used by the pipeline-bypassing generator.
func QuickArchitecture() Architecture {
	return Architecture{
		Pages: []Page{
			{
				ID:       "page_1",
				Name:     "Main Questions",
				Purpose:  "Survey Questions",
				Position: 1,
				Questions: []Question{
					{
						ID:       "q1",
						Type:     QuestionTextarea,
						Label:    "What are your thoughts on this topic?",
						Required: true,
						Validation: QuestionValidation{
							Rules: []string{"required", "minLength:10", "maxLength:1000"},
							Messages: map[string]string{
								"required":  "Please share your thoughts",
								"minLength": "Please write at least 10 characters",
								"maxLength": "Please keep it under 1000 characters",
							},
						},
						Analytics: QuestionAnalytics{TrackingEvents: []string{"interact", "change"}},
					},
					{
						ID:       "q2",
						Type:     QuestionScale,
						Label:    "How would you rate your overall experience?",
						Required: true,
						Validation: QuestionValidation{
							Rules:    []string{"required"},
							Messages: map[string]string{"required": "Please provide a rating"},
						},
						Analytics: QuestionAnalytics{TrackingEvents: []string{"interact", "change"}},
						Scale:     &ScaleSpec{Min: 1, Max: 5, Labels: []string{"Poor", "Fair", "Good", "Very Good", "Excellent"}},
					},
					{
						ID:         "q3",
						Type:       QuestionRadio,
						Label:      "Would you recommend this to others?",
						Required:   false,
						Validation: QuestionValidation{Rules: []string{}, Messages: map[string]string{}},
						Analytics:  QuestionAnalytics{TrackingEvents: []string{"interact", "change"}},
						Options:    []string{"Yes", "No"},
					},
				},
			},
		},
		Flow:       Flow{Navigation: NavigationLinear, ProgressType: "percentage", AllowBack: true},
		Validation: ValidationPolicy{RealTime: true, CompletionChecks: []string{"all-required-answered"}},
		Analytics:  AnalyticsPolicy{TrackingLevel: "basic", FraudDetection: false, BehavioralMetrics: false},
		Design:     DesignHint{Theme: "modern", Layout: "clean", Animations: true},
	}
}
