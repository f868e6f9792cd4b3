// Package mcptools exposes survey generation as MCP tools.
//
// Each tool is a struct with its dependencies injected via constructor,
// Definition() returning the mcp.Tool schema and Handle() processing a call.
// Results are JSON text content; input problems come back as tool errors.
package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"surveygen/app"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/domain/template"

	"github.com/mark3labs/mcp-go/mcp"
)

// FrontendService renders surveys as HTML; *app.FrontendGenerator implements it.
type FrontendService interface {
	GenerateFrontend(ctx context.Context, req app.FrontendRequest) (*app.FrontendResult, error)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func generateRequest(req mcp.CallToolRequest) (app.GenerateRequest, error) {
	prompt := strings.TrimSpace(req.GetString("prompt", ""))
	if prompt == "" {
		return app.GenerateRequest{}, fmt.Errorf("'prompt' is required: describe the survey you need")
	}
	out := app.GenerateRequest{
		Prompt: prompt,
		Context: survey.Hints{
			SurveyType:     req.GetString("survey_type", ""),
			TargetAudience: req.GetString("target_audience", ""),
			Industry:       req.GetString("industry", ""),
			Complexity:     req.GetString("complexity", ""),
		},
		UserID: core.ParseUserID(req.GetString("user_id", "")),
	}
	if v, ok := req.GetArguments()["use_template"].(bool); ok {
		out.UseTemplate = &v
	}
	return out, nil
}

func requestOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("prompt",
			mcp.Required(),
			mcp.Description("What the survey is for, in plain language. Example: 'Measure onboarding satisfaction for new hires'"),
		),
		mcp.WithString("survey_type",
			mcp.Description("Optional survey type hint"),
			mcp.Enum(surveyTypes()...),
		),
		mcp.WithString("complexity",
			mcp.Description("Optional complexity hint"),
			mcp.Enum("simple", "professional", "research", "academic"),
		),
		mcp.WithString("target_audience", mcp.Description("Optional audience hint, e.g. 'employees'")),
		mcp.WithString("industry", mcp.Description("Optional industry hint, e.g. 'healthcare'")),
		mcp.WithString("user_id", mcp.Description("Caller id used for usage accounting")),
		mcp.WithBoolean("use_template", mcp.Description("Allow the template library for simple and professional surveys")),
	}
}

func surveyTypes() []string {
	out := make([]string, len(survey.AllSurveyTypes))
	for i, t := range survey.AllSurveyTypes {
		out[i] = string(t)
	}
	return out
}

// GenerateSurveyTool handles the generate_survey MCP tool.
type GenerateSurveyTool struct {
	surveys app.SurveyGenerator
}

// NewGenerateSurveyTool creates a GenerateSurveyTool with its dependencies.
func NewGenerateSurveyTool(surveys app.SurveyGenerator) *GenerateSurveyTool {
	return &GenerateSurveyTool{surveys: surveys}
}

// Definition returns the MCP tool definition for registration.
func (t *GenerateSurveyTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Generate a complete survey from a natural-language request: pages, questions, " +
			"a design system, React components per question, validation rules, analytics config and " +
			"follow-up suggestions. Always returns a survey; when the model pipeline fails a simpler local survey is produced."),
	}, requestOptions()...)
	return mcp.NewTool("generate_survey", opts...)
}

// Handle processes the generate_survey tool call.
func (t *GenerateSurveyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gr, err := generateRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(t.surveys.Generate(ctx, gr))
}

// FrontendTool handles the generate_survey_frontend MCP tool.
type FrontendTool struct {
	frontend FrontendService
}

// NewFrontendTool creates a FrontendTool with its dependencies.
func NewFrontendTool(frontend FrontendService) *FrontendTool {
	return &FrontendTool{frontend: frontend}
}

// Definition returns the MCP tool definition for registration.
func (t *FrontendTool) Definition() mcp.Tool {
	opts := append([]mcp.ToolOption{
		mcp.WithDescription("Generate a survey and render it as one self-contained HTML page. " +
			"Optionally steer the look with a style direction or a base64 reference image."),
	}, requestOptions()...)
	opts = append(opts,
		mcp.WithString("style_direction", mcp.Description("Visual direction, e.g. 'dark, minimal, large type'")),
		mcp.WithString("reference_image", mcp.Description("Base64 image or data URL to match")),
		mcp.WithString("reference_image_mime", mcp.Description("MIME type of reference_image when it is not a data URL")),
	)
	return mcp.NewTool("generate_survey_frontend", opts...)
}

// frontendSummary leaves out the component code.
type frontendSummary struct {
	Title     string     `json:"title"`
	Pipeline  string     `json:"pipeline"`
	Questions []string   `json:"questions"`
	Source    string     `json:"source"`
	Model     string     `json:"model,omitempty"`
	RunID     core.RunID `json:"runId"`
	Survey    any        `json:"survey"`
	HTML      string     `json:"html"`
}

// Handle processes the generate_survey_frontend tool call.
func (t *FrontendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gr, err := generateRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	img, err := app.DecodeReferenceImage(req.GetString("reference_image_mime", ""), req.GetString("reference_image", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := t.frontend.GenerateFrontend(ctx, app.FrontendRequest{
		GenerateRequest: gr,
		StyleDirection:  req.GetString("style_direction", ""),
		ReferenceImage:  img,
	})
	if err != nil {
		return nil, fmt.Errorf("generating frontend: %w", err)
	}

	fa := res.Artifact
	return jsonResult(frontendSummary{
		Title:     fa.Survey.Title,
		Pipeline:  fa.Metadata.Pipeline,
		Questions: fa.QuestionIDs(),
		Source:    res.Source,
		Model:     res.Model,
		RunID:     fa.Metadata.RunID,
		Survey:    fa.Survey,
		HTML:      res.HTML,
	})
}

// TemplatesTool handles the list_survey_templates MCP tool.
type TemplatesTool struct {
	library *template.Library
}

// NewTemplatesTool creates a TemplatesTool over a template library.
func NewTemplatesTool(library *template.Library) *TemplatesTool {
	return &TemplatesTool{library: library}
}

// Definition returns the MCP tool definition for registration.
func (t *TemplatesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_survey_templates",
		mcp.WithDescription("List the built-in survey templates with their pages and question counts."),
	)
}

type templateSummary struct {
	Key           string   `json:"key"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Complexity    string   `json:"complexity"`
	EstimatedTime string   `json:"estimatedTime"`
	Pages         []string `json:"pages"`
	Questions     int      `json:"questions"`
}

// Handle processes the list_survey_templates tool call.
func (t *TemplatesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out []templateSummary
	for _, tpl := range t.library.All() {
		pages := make([]string, len(tpl.Architecture.Pages))
		for i, p := range tpl.Architecture.Pages {
			pages[i] = p.Name
		}
		out = append(out, templateSummary{
			Key:           tpl.Key,
			Name:          tpl.Name,
			Description:   tpl.Description,
			Complexity:    string(tpl.Complexity),
			EstimatedTime: tpl.EstimatedTime,
			Pages:         pages,
			Questions:     tpl.Architecture.QuestionCount(),
		})
	}
	return jsonResult(out)
}
