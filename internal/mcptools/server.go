package mcptools

import (
	"surveygen/app"
	"surveygen/domain/template"

	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients during initialization.
const Version = "0.4.0"

const serverInstructions = `surveygen turns a plain-language request into a complete, renderable survey.

Use generate_survey for the structured survey (pages, questions, React components, design system,
validation rules, analytics config). Use generate_survey_frontend when the caller wants a single HTML
page to open in a browser. list_survey_templates shows the layouts used for simple and professional requests.

Hints (survey_type, complexity, target_audience, industry) are optional; the analysis stage infers them.`

// NewServer creates an MCP server with every survey tool registered.
func NewServer(version string, surveys app.SurveyGenerator, frontend FrontendService, library *template.Library) *server.MCPServer {
	s := server.NewMCPServer(
		"surveygen",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions),
	)

	generate := NewGenerateSurveyTool(surveys)
	s.AddTool(generate.Definition(), generate.Handle)

	fe := NewFrontendTool(frontend)
	s.AddTool(fe.Definition(), fe.Handle)

	templates := NewTemplatesTool(library)
	s.AddTool(templates.Definition(), templates.Handle)

	return s
}
