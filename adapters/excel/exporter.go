// Package excel exports an assembled survey to an xlsx workbook for review
// outside the pipeline.
package excel

import (
	"fmt"
	"io"
	"strings"

	"surveygen/domain/artifact"

	"github.com/xuri/excelize/v2"
)

// Sheet names in export order.
const (
	SheetSurvey      = "Survey"
	SheetQuestions   = "Questions"
	SheetValidation  = "Validation"
	SheetSuggestions = "Suggestions"
)

var questionHeader = []interface{}{
	"Page", "Page Position", "Question ID", "Type", "Label", "Required",
	"Options", "Validation Rules", "Component", "ARIA Role",
}

// Exporter writes FinalArtifacts as workbooks.
type Exporter struct{}

// NewExporter creates an exporter
func NewExporter() *Exporter {
	return &Exporter{}
}

// Export builds the workbook for fa and writes it to w.
func (e *Exporter) Export(fa *artifact.FinalArtifact, w io.Writer) error {
	f, err := e.Workbook(fa)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ExportFile builds the workbook for fa and saves it at path.
func (e *Exporter) ExportFile(fa *artifact.FinalArtifact, path string) error {
	f, err := e.Workbook(fa)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// Workbook builds the in-memory workbook; the caller closes it.
func (e *Exporter) Workbook(fa *artifact.FinalArtifact) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetSurvey); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetQuestions, SheetValidation, SheetSuggestions} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E5E7EB"}},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	writers := []func(*excelize.File, *artifact.FinalArtifact, int) error{
		writeSurvey, writeQuestions, writeValidation, writeSuggestions,
	}
	for _, write := range writers {
		if err := write(f, fa, header); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

func writeRows(f *excelize.File, sheet string, header int, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		end, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, "A1", end, header); err != nil {
			return err
		}
	}
	return nil
}

func writeSurvey(f *excelize.File, fa *artifact.FinalArtifact, header int) error {
	s := fa.Survey
	rows := [][]interface{}{
		{"Field", "Value"},
		{"Survey ID", s.ID.String()},
		{"Title", s.Title},
		{"Description", s.Description},
		{"Theme", s.Theme.Name},
		{"Estimated Time", s.Metadata.EstimatedTime},
		{"Pages", len(s.Pages)},
		{"Components", len(fa.Components)},
		{"Pipeline", fa.Metadata.Pipeline},
		{"Template", fa.Metadata.Template},
		{"Quality Score", fa.Metadata.QualityScore},
		{"Generation Time (ms)", fa.Metadata.GenerationTimeMs},
		{"Run ID", fa.Metadata.RunID.String()},
		{"States", strings.Join(fa.Metadata.States, " > ")},
		{"Omitted Questions", strings.Join(fa.Metadata.OmittedQuestions, ", ")},
	}
	if err := writeRows(f, SheetSurvey, header, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetSurvey, "A", "B", 28)
}

func writeQuestions(f *excelize.File, fa *artifact.FinalArtifact, header int) error {
	rows := [][]interface{}{questionHeader}
	for _, page := range fa.Survey.Pages {
		for _, pc := range page.Components {
			component := ""
			if pc.Component != nil {
				component = pc.Component.Name
			}
			options := ""
			if pc.Component != nil {
				options = strings.Join(pc.Component.Metadata.Question.Options, " | ")
			}
			rows = append(rows, []interface{}{
				page.Name, page.Position, pc.ID, string(pc.Type), pc.Label, pc.Required,
				options, strings.Join(pc.Validation.Rules, ", "), component, pc.Accessibility.Role,
			})
		}
	}
	if err := writeRows(f, SheetQuestions, header, rows); err != nil {
		return err
	}
	return f.SetColWidth(SheetQuestions, "E", "E", 60)
}

func writeValidation(f *excelize.File, fa *artifact.FinalArtifact, header int) error {
	v := fa.Metadata.Validation
	rows := [][]interface{}{
		{"Kind", "Type", "Severity", "Description", "Suggestion"},
		{"score", "overall", "", fmt.Sprintf("%d/100 (valid: %t)", v.Score, v.IsValid), ""},
		{"score", "accessibility", "", fmt.Sprintf("%d/100", v.Accessibility.Score), ""},
		{"score", "performance", "", fmt.Sprintf("%d/100", v.Performance.Score), ""},
	}
	for _, issue := range v.Issues {
		rows = append(rows, []interface{}{"issue", issue.Type, string(issue.Severity), issue.Description, issue.Suggestion})
	}
	for _, opt := range v.Optimizations {
		rows = append(rows, []interface{}{"optimization", opt.Type, string(opt.Impact), opt.Description, ""})
	}
	for _, issue := range v.Accessibility.Issues {
		rows = append(rows, []interface{}{"accessibility", "", "", issue, ""})
	}
	for _, rec := range v.Performance.Recommendations {
		rows = append(rows, []interface{}{"performance", "", "", rec, ""})
	}
	return writeRows(f, SheetValidation, header, rows)
}

func writeSuggestions(f *excelize.File, fa *artifact.FinalArtifact, header int) error {
	rows := [][]interface{}{{"ID", "Action", "Priority", "Description"}}
	for _, s := range fa.FollowUpSuggestions {
		rows = append(rows, []interface{}{s.ID, s.Action, string(s.Priority), s.Description})
	}
	return writeRows(f, SheetSuggestions, header, rows)
}
