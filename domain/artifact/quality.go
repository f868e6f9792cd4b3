package artifact

import (
	"fmt"
	"math"
	"strings"

	"github.com/montanaflynn/stats"

	"surveygen/domain/survey"
)

// EstimateQuality scores an architecture and its components without a model.
// Each question gets a 0-100 score from structural checks; the survey score
// is the mean penalized by half the standard deviation.
func EstimateQuality(arch survey.Architecture, components []Component) ValidationResult {
	result := NeutralValidation()

	built := make(map[string]bool, len(components))
	for _, c := range components {
		if strings.TrimSpace(c.Code) != "" {
			built[c.ID] = true
		}
	}

	var scores stats.Float64Data
	labelled := 0
	for _, p := range arch.Pages {
		for _, q := range p.Questions {
			score, issues := scoreQuestion(q, built[q.ID])
			scores = append(scores, score)
			result.Issues = append(result.Issues, issues...)
			if len(strings.TrimSpace(q.Label)) > 0 {
				labelled++
			}
		}
	}

	if len(scores) == 0 {
		result.IsValid = false
		result.Score = 0
		result.Issues = append(result.Issues, Issue{
			Type:        "structure",
			Severity:    SeverityHigh,
			Description: "survey has no questions",
			Suggestion:  "add at least one question",
		})
		return result
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return result
	}
	spread, err := stats.StandardDeviation(scores)
	if err != nil {
		spread = 0
	}
	overall, _ := stats.Round(mean-spread/2, 0)
	result.Score = ClampScore(int(overall))

	result.Accessibility.Score = ClampScore(int(math.Round(95 * float64(labelled) / float64(len(scores)))))
	if labelled < len(scores) {
		result.Accessibility.Issues = append(result.Accessibility.Issues,
			fmt.Sprintf("%d questions have no visible label", len(scores)-labelled))
	}

	result.Performance.Score = ClampScore(90 - 2*max(0, len(scores)-15))
	if len(scores) > 15 {
		result.Performance.Recommendations = append(result.Performance.Recommendations,
			"split long pages to keep component count per page low")
	}

	result.IsValid = result.Score >= 60
	return result.Normalize()
}

func scoreQuestion(q survey.Question, built bool) (float64, []Issue) {
	score := 100.0
	var issues []Issue
	flag := func(penalty float64, sev Severity, desc, fix string) {
		score -= penalty
		issues = append(issues, Issue{Type: string(q.Type), Severity: sev, Description: q.ID + ": " + desc, Suggestion: fix})
	}

	if q.Type.IsDisplay() {
		return score, nil
	}
	if len(strings.TrimSpace(q.Label)) < 10 {
		flag(20, SeverityMedium, "label is too short to be clear", "expand the question wording")
	}
	switch q.Type {
	case survey.QuestionRadio, survey.QuestionCheckbox:
		if len(q.Options) < 2 {
			flag(25, SeverityHigh, "choice question has fewer than two options", "add answer options")
		}
	case survey.QuestionRanking:
		if len(q.Items) < 2 && len(q.Options) < 2 {
			flag(25, SeverityHigh, "ranking question has fewer than two items", "add items to rank")
		}
	case survey.QuestionScale:
		if q.Scale == nil || q.Scale.Max <= q.Scale.Min {
			flag(15, SeverityMedium, "scale has no usable range", "define min and max")
		}
	case survey.QuestionMatrix:
		if q.Matrix == nil || len(q.Matrix.Rows) == 0 || len(q.Matrix.Columns) == 0 {
			flag(25, SeverityHigh, "matrix has no rows or columns", "define rows and columns")
		}
	}
	if !built {
		flag(30, SeverityHigh, "no component was generated", "regenerate the component")
	}
	return math.Max(score, 0), issues
}
