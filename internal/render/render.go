// Package render produces a standalone HTML page for an assembled survey
// without any model call. The survey is first written as a markdown outline
// and then converted with gomarkdown.
package render

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"surveygen/domain/artifact"
	"surveygen/domain/survey"
)

// Outline writes the survey as markdown: one h2 per page, one numbered
// heading per question, and a raw HTML block holding the answer control.
func Outline(fa *artifact.FinalArtifact) string {
	var b strings.Builder
	s := fa.Survey

	fmt.Fprintf(&b, "# %s\n\n", escapeMarkdown(s.Title))
	if s.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", escapeMarkdown(s.Description))
	}
	if s.Metadata.EstimatedTime != "" {
		fmt.Fprintf(&b, "*Estimated time: %s*\n\n", s.Metadata.EstimatedTime)
	}

	n := 0
	for _, page := range s.Pages {
		fmt.Fprintf(&b, "## %s\n\n", escapeMarkdown(page.Name))
		if page.Purpose != "" {
			fmt.Fprintf(&b, "*%s*\n\n", escapeMarkdown(page.Purpose))
		}
		for _, pc := range page.Components {
			var q survey.Question
			if pc.Component != nil {
				q = pc.Component.Metadata.Question
			}
			q.ID, q.Type, q.Label, q.Required = pc.ID, pc.Type, pc.Label, pc.Required

			if q.Type.IsDisplay() {
				fmt.Fprintf(&b, "> %s\n\n", escapeMarkdown(q.Label))
				continue
			}
			n++
			marker := ""
			if q.Required {
				marker = " \\*"
			}
			fmt.Fprintf(&b, "### %d. %s%s\n\n", n, escapeMarkdown(q.Label), marker)
			b.WriteString(control(q))
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// control renders the answer input for q as a single raw HTML block.
func control(q survey.Question) string {
	id := html.EscapeString(q.ID)
	req := ""
	if q.Required {
		req = " required"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"control\" data-question=\"%s\">", id)
	switch q.Type {
	case survey.QuestionRadio, survey.QuestionCheckbox:
		kind := "radio"
		if q.Type == survey.QuestionCheckbox {
			kind = "checkbox"
		}
		for _, opt := range q.Options {
			o := html.EscapeString(opt)
			fmt.Fprintf(&b, "<label><input type=\"%s\" name=\"%s\" value=\"%s\"%s> %s</label>", kind, id, o, req, o)
		}
	case survey.QuestionScale, survey.QuestionNPS:
		lo, hi := 1, 5
		if q.Type == survey.QuestionNPS {
			lo, hi = 0, 10
		}
		if q.Scale != nil && q.Scale.Max > q.Scale.Min {
			lo, hi = q.Scale.Min, q.Scale.Max
		}
		for v := lo; v <= hi; v++ {
			fmt.Fprintf(&b, "<label class=\"scale\"><input type=\"radio\" name=\"%s\" value=\"%d\"%s> %d</label>", id, v, req, v)
		}
	case survey.QuestionMatrix:
		if q.Matrix == nil {
			break
		}
		b.WriteString("<table><tr><th></th>")
		for _, col := range q.Matrix.Columns {
			fmt.Fprintf(&b, "<th>%s</th>", html.EscapeString(col))
		}
		b.WriteString("</tr>")
		for ri, row := range q.Matrix.Rows {
			fmt.Fprintf(&b, "<tr><td>%s</td>", html.EscapeString(row))
			for _, col := range q.Matrix.Columns {
				fmt.Fprintf(&b, "<td><input type=\"radio\" name=\"%s_%d\" value=\"%s\"%s></td>", id, ri, html.EscapeString(col), req)
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</table>")
	case survey.QuestionRanking:
		items := q.Items
		if len(items) == 0 {
			items = q.Options
		}
		b.WriteString("<ol class=\"ranking\">")
		for _, item := range items {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(item))
		}
		b.WriteString("</ol>")
	case survey.QuestionTextarea:
		fmt.Fprintf(&b, "<textarea name=\"%s\" rows=\"4\"%s></textarea>", id, req)
	case survey.QuestionFileUpload:
		fmt.Fprintf(&b, "<input type=\"file\" name=\"%s\"%s>", id, req)
	case survey.QuestionDatePicker:
		fmt.Fprintf(&b, "<input type=\"date\" name=\"%s\"%s>", id, req)
	default:
		fmt.Fprintf(&b, "<input type=\"text\" name=\"%s\"%s>", id, req)
	}
	b.WriteString("</div>")
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "#", `\#`, "[", `\[`, "]", `\]`, "<", "&lt;", ">", "&gt;",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(strings.TrimSpace(s))
}

// Body converts the outline to an HTML fragment.
func Body(fa *artifact.FinalArtifact) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return string(markdown.ToHTML([]byte(Outline(fa)), p, r))
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body { margin: 0; background: {{.Background}}; color: {{.Text}}; font-family: {{.Font}}; line-height: 1.5; }
main { max-width: 760px; margin: 0 auto; padding: 2rem 1.25rem; }
h1 { color: {{.Primary}}; }
h2 { background: {{.Surface}}; border-radius: {{.Radius}}px; padding: 0.75rem 1rem; margin-top: 2rem; }
.control { margin: 0.5rem 0 1.25rem; display: flex; flex-wrap: wrap; gap: 0.75rem; }
.control input[type=text], .control textarea, .control input[type=date] { width: 100%; padding: 0.75rem; border: 1px solid #d1d5db; border-radius: 0.5rem; }
.control input:focus, .control textarea:focus { outline: 2px solid {{.Primary}}; }
button { background: {{.Primary}}; color: #fff; border: 0; border-radius: 0.5rem; padding: 0.75rem 1.5rem; font-size: 1rem; }
</style>
</head>
<body>
<main>
<form>
{{.Body}}
<button type="submit">Submit</button>
</form>
</main>
</body>
</html>
`))

type pageData struct {
	Title      string
	Body       template.HTML
	Background template.CSS
	Surface    template.CSS
	Text       template.CSS
	Primary    template.CSS
	Font       template.CSS
	Radius     int
}

// Page renders fa as a complete standalone HTML document.
func Page(fa *artifact.FinalArtifact) (string, error) {
	ds := fa.DesignSystem.ColorPalette
	theme := fa.Survey.Theme

	data := pageData{
		Title:      fa.Survey.Title,
		Body:       template.HTML(Body(fa)),
		Background: cssValue(theme.BackgroundColor, ds.Background, "#ffffff"),
		Surface:    cssValue(ds.Surface, "#f8fafc"),
		Text:       cssValue(theme.TextColor, ds.Text, "#1f2937"),
		Primary:    cssValue(theme.PrimaryColor, ds.Primary, "#3b82f6"),
		Font:       cssValue(theme.FontFamily, fa.DesignSystem.Typography.FontFamily, "system-ui, sans-serif"),
		Radius:     theme.BorderRadius,
	}
	if data.Radius <= 0 {
		data.Radius = 12
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

func cssValue(values ...string) template.CSS {
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" && !strings.ContainsAny(v, "<>{};") {
			return template.CSS(v)
		}
	}
	return ""
}
