package app

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"surveygen/domain/artifact"
	"surveygen/domain/design"
	"surveygen/domain/survey"
)

// Strategy describes how one question type becomes a component.
type Strategy struct {
	Base         string   // component name prefix
	Dependencies []string // packages the generated code imports
	Hint         string   // type guidance sent with the component prompt
	Role         string   // ARIA role of the control container
	body         func(q survey.Question) string
	stateless    bool
}

var strategies = map[survey.QuestionType]Strategy{
	survey.QuestionTextInput: {
		Base: "TextInput",
		Hint: "Single-line text input with a character counter and inline validation for the configured rules.",
		Role: "group",
		body: textInputBody,
	},
	survey.QuestionTextarea: {
		Base: "TextArea",
		Hint: "Multi-line textarea that grows with content, shows a character counter, and validates min/max length.",
		Role: "group",
		body: textareaBody,
	},
	survey.QuestionRadio: {
		Base: "RadioGroup",
		Hint: "Single choice from the options, rendered as selectable cards with arrow-key navigation between options.",
		Role: "radiogroup",
		body: radioBody,
	},
	survey.QuestionCheckbox: {
		Base: "CheckboxGroup",
		Hint: "Multiple choice from the options as toggleable cards; the answer is an array of selected options.",
		Role: "group",
		body: checkboxBody,
	},
	survey.QuestionScale: {
		Base: "ScaleRating",
		Hint: "Rating scale between min and max with the endpoint labels shown under the first and last steps.",
		Role: "slider",
		body: scaleBody,
	},
	survey.QuestionNPS: {
		Base: "NPSRating",
		Hint: "Net Promoter Score: eleven buttons from 0 to 10 with 'Not at all likely' and 'Extremely likely' anchors.",
		Role: "group",
		body: npsBody,
	},
	survey.QuestionMatrix: {
		Base: "MatrixQuestion",
		Hint: "Grid with one row per statement and one radio column per answer; collapses to stacked cards on mobile.",
		Role: "table",
		body: matrixBody,
	},
	survey.QuestionRanking: {
		Base: "RankingQuestion",
		Hint: "Orderable list of items with move up and move down buttons; the answer is the ordered array.",
		Role: "listbox",
		body: rankingBody,
	},
	survey.QuestionFileUpload: {
		Base: "FileUpload",
		Hint: "Drop zone with a file picker fallback that shows the chosen file name and size.",
		Role: "group",
		body: fileUploadBody,
	},
	survey.QuestionDatePicker: {
		Base: "DatePicker",
		Hint: "Native date input styled with the design tokens; the answer is an ISO date string.",
		Role: "group",
		body: datePickerBody,
	},
	survey.QuestionInfoDisplay: {
		Base:      "InfoDisplay",
		Hint:      "Read-only information block; it collects no answer.",
		Role:      "group",
		body:      infoBody,
		stateless: true,
	},
	survey.QuestionConsentDisplay: {
		Base: "ConsentDisplay",
		Hint: "Consent text followed by a single required agreement checkbox.",
		Role: "group",
		body: consentBody,
	},
}

// StrategyFor returns the strategy for t. Unknown types use the text input strategy.
func StrategyFor(t survey.QuestionType) Strategy {
	s, ok := strategies[t]
	if !ok {
		s = strategies[survey.QuestionTextInput]
	}
	if s.Dependencies == nil {
		s.Dependencies = []string{"react"}
	}
	return s
}

// AriaRole returns the container role for a question type.
func AriaRole(t survey.QuestionType) string {
	return StrategyFor(t).Role
}

var identUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ComponentName is <Base>_<questionId>, with characters that are not valid in
// an identifier replaced by underscores.
func ComponentName(t survey.QuestionType, questionID string) string {
	return StrategyFor(t).Base + "_" + identUnsafe.ReplaceAllString(questionID, "_")
}

// Scaffold renders the component locally without a model call. The caller
// stamps theme and generation time.
func (s Strategy) Scaffold(q survey.Question, a survey.Analysis, ds design.System) artifact.Component {
	name := ComponentName(q.Type, q.ID)
	return artifact.Component{
		ID:           q.ID,
		Name:         name,
		Type:         q.Type,
		Code:         s.render(name, q, ds),
		Dependencies: append([]string(nil), s.Dependencies...),
		Metadata: artifact.ComponentMetadata{
			Question:   q.Clone(),
			Complexity: a.Complexity,
			Strategy:   string(q.Type),
			Scope:      artifact.ScopeLocal,
		},
	}
}

func (s Strategy) render(name string, q survey.Question, ds design.System) string {
	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	if !s.stateless {
		b.WriteString("import { useSurveyState } from '@/features/survey';\n")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "export default function %s() {\n", name)
	if !s.stateless {
		b.WriteString("  const { submitAnswer, responses } = useSurveyState();\n")
		fmt.Fprintf(&b, "  const value = responses[%s] ?? %s;\n\n", js(q.ID), initialValue(q.Type))
	}
	b.WriteString("  return (\n")
	fmt.Fprintf(&b, "    <div className=\"space-y-4 p-6 rounded-xl shadow-sm\" style={{ background: %s, color: %s, fontFamily: %s }} data-analytics-component=%s data-question-id=%s>\n",
		js(ds.ColorPalette.Surface), js(ds.ColorPalette.Text), js(ds.Typography.FontFamily), js(string(q.Type)), js(q.ID))
	if q.Type.IsDisplay() && s.stateless {
		fmt.Fprintf(&b, "      <p className=\"text-base leading-relaxed\">{%s}</p>\n", js(q.Label))
	} else {
		required := ""
		if q.Required {
			required = "<span className=\"text-red-500\" aria-hidden=\"true\"> *</span>"
		}
		fmt.Fprintf(&b, "      <label id=%s className=\"block text-lg font-medium\">{%s}%s</label>\n", js(q.ID+"-label"), js(q.Label), required)
		fmt.Fprintf(&b, "      <div role=%s aria-labelledby=%s aria-describedby=%s style={{ accentColor: %s }}>\n",
			js(s.Role), js(q.ID+"-label"), js(q.ID+"-help"), js(ds.ColorPalette.Primary))
		b.WriteString(indent(s.body(q), "        "))
		b.WriteString("      </div>\n")
	}
	b.WriteString("    </div>\n")
	b.WriteString("  );\n")
	b.WriteString("}\n")
	return b.String()
}

func initialValue(t survey.QuestionType) string {
	switch t {
	case survey.QuestionCheckbox:
		return "[]"
	case survey.QuestionMatrix:
		return "{}"
	case survey.QuestionScale, survey.QuestionNPS:
		return "null"
	case survey.QuestionConsentDisplay:
		return "false"
	default:
		return "''"
	}
}

// js encodes s as a JavaScript string literal.
func js(s string) string {
	raw, _ := json.Marshal(s)
	return string(raw)
}

func jsList(items []string) string {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return string(raw)
}

func indent(block, prefix string) string {
	lines := strings.Split(strings.TrimRight(block, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

const inputClass = "w-full px-4 py-3 border rounded-lg focus:outline-none focus:ring-2"

func textInputBody(q survey.Question) string {
	return fmt.Sprintf(`<input
  type="text"
  className=%q
  value={value}
  onChange={(e) => submitAnswer(%s, e.target.value)}
/>`, inputClass, js(q.ID))
}

func textareaBody(q survey.Question) string {
	return fmt.Sprintf(`<textarea
  rows={4}
  className=%q
  value={value}
  onChange={(e) => submitAnswer(%s, e.target.value)}
/>
<p id=%s className="text-xs opacity-70">{value.length} characters</p>`, inputClass, js(q.ID), js(q.ID+"-help"))
}

func radioBody(q survey.Question) string {
	return fmt.Sprintf(`{%s.map((option) => (
  <label key={option} className="flex items-center gap-3 p-3 border rounded-lg cursor-pointer">
    <input
      type="radio"
      name=%s
      value={option}
      checked={value === option}
      onChange={() => submitAnswer(%s, option)}
    />
    <span>{option}</span>
  </label>
))}`, jsList(q.Options), js(q.ID), js(q.ID))
}

func checkboxBody(q survey.Question) string {
	return fmt.Sprintf(`{%s.map((option) => (
  <label key={option} className="flex items-center gap-3 p-3 border rounded-lg cursor-pointer">
    <input
      type="checkbox"
      checked={value.includes(option)}
      onChange={() =>
        submitAnswer(%s, value.includes(option) ? value.filter((v) => v !== option) : [...value, option])
      }
    />
    <span>{option}</span>
  </label>
))}`, jsList(q.Options), js(q.ID))
}

func scaleRange(q survey.Question) (int, int, []string) {
	if q.Scale == nil || q.Scale.Max <= q.Scale.Min {
		return 1, 5, nil
	}
	return q.Scale.Min, q.Scale.Max, q.Scale.Labels
}

func scaleBody(q survey.Question) string {
	lo, hi, labels := scaleRange(q)
	low, high := "", ""
	if len(labels) > 0 {
		low, high = labels[0], labels[len(labels)-1]
	}
	return fmt.Sprintf(`<div className="flex gap-2" aria-valuemin={%d} aria-valuemax={%d} aria-valuenow={value ?? undefined}>
  {Array.from({ length: %d }, (_, i) => %d + i).map((n) => (
    <button
      key={n}
      type="button"
      aria-pressed={value === n}
      className={'flex-1 py-3 rounded-lg border ' + (value === n ? 'font-semibold shadow' : '')}
      onClick={() => submitAnswer(%s, n)}
    >
      {n}
    </button>
  ))}
</div>
<div id=%s className="flex justify-between text-xs opacity-70">
  <span>{%s}</span>
  <span>{%s}</span>
</div>`, lo, hi, hi-lo+1, lo, js(q.ID), js(q.ID+"-help"), js(low), js(high))
}

func npsBody(q survey.Question) string {
	return fmt.Sprintf(`<div className="grid grid-cols-11 gap-1">
  {Array.from({ length: 11 }, (_, n) => (
    <button
      key={n}
      type="button"
      aria-pressed={value === n}
      className={'py-2 rounded border ' + (value === n ? 'font-semibold shadow' : '')}
      onClick={() => submitAnswer(%s, n)}
    >
      {n}
    </button>
  ))}
</div>
<div id=%s className="flex justify-between text-xs opacity-70">
  <span>Not at all likely</span>
  <span>Extremely likely</span>
</div>`, js(q.ID), js(q.ID+"-help"))
}

func matrixBody(q survey.Question) string {
	var rows, cols []string
	if q.Matrix != nil {
		rows, cols = q.Matrix.Rows, q.Matrix.Columns
	}
	return fmt.Sprintf(`<table className="w-full text-sm">
  <thead>
    <tr>
      <th />
      {%s.map((col) => <th key={col} scope="col">{col}</th>)}
    </tr>
  </thead>
  <tbody>
    {%s.map((row) => (
      <tr key={row}>
        <th scope="row" className="text-left font-normal">{row}</th>
        {%s.map((col) => (
          <td key={col} className="text-center">
            <input
              type="radio"
              name={%s + '-' + row}
              aria-label={row + ': ' + col}
              checked={value[row] === col}
              onChange={() => submitAnswer(%s, { ...value, [row]: col })}
            />
          </td>
        ))}
      </tr>
    ))}
  </tbody>
</table>`, jsList(cols), jsList(rows), jsList(cols), js(q.ID), js(q.ID))
}

func rankingBody(q survey.Question) string {
	items := q.Items
	if len(items) == 0 {
		items = q.Options
	}
	return fmt.Sprintf(`{(() => {
  const order = Array.isArray(value) && value.length ? value : %s;
  const move = (from, to) => {
    if (to < 0 || to >= order.length) return;
    const next = [...order];
    next.splice(to, 0, next.splice(from, 1)[0]);
    submitAnswer(%s, next);
  };
  return (
    <ol className="space-y-2">
      {order.map((item, i) => (
        <li key={item} role="option" aria-selected="false" className="flex items-center gap-3 p-3 border rounded-lg">
          <span className="font-semibold">{i + 1}</span>
          <span className="flex-1">{item}</span>
          <button type="button" aria-label={'Move ' + item + ' up'} onClick={() => move(i, i - 1)}>↑</button>
          <button type="button" aria-label={'Move ' + item + ' down'} onClick={() => move(i, i + 1)}>↓</button>
        </li>
      ))}
    </ol>
  );
})()}`, jsList(items), js(q.ID))
}

func fileUploadBody(q survey.Question) string {
	return fmt.Sprintf(`<label className="flex flex-col items-center justify-center p-8 border-2 border-dashed rounded-lg cursor-pointer">
  <span>{value || 'Choose a file or drop it here'}</span>
  <input
    type="file"
    className="sr-only"
    onChange={(e) => submitAnswer(%s, e.target.files?.[0]?.name ?? '')}
  />
</label>`, js(q.ID))
}

func datePickerBody(q survey.Question) string {
	return fmt.Sprintf(`<input
  type="date"
  className=%q
  value={value}
  onChange={(e) => submitAnswer(%s, e.target.value)}
/>`, inputClass, js(q.ID))
}

func infoBody(survey.Question) string { return "" }

func consentBody(q survey.Question) string {
	return fmt.Sprintf(`<label className="flex items-start gap-3">
  <input
    type="checkbox"
    checked={value === true}
    onChange={(e) => submitAnswer(%s, e.target.checked)}
  />
  <span>I have read the information above and agree to take part.</span>
</label>`, js(q.ID))
}
