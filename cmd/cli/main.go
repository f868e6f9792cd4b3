package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"surveygen/adapters/excel"
	"surveygen/app"
	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/internal/config"
	"surveygen/internal/container"
	"surveygen/internal/render"
	"surveygen/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var provider string

	rootCmd := &cobra.Command{
		Use:   "surveygen",
		Short: "Generate surveys from plain-language requests",
		Long: `surveygen runs the survey generation pipeline from the command line.

Configuration is read from the environment (and .env): PROVIDER, OPENAI_API_KEY,
OPENAI_BASE_URL, MODEL_ADVANCED_<TASK>, MODEL_STABLE_<TASK>, PIPELINE_TIMEOUT, ...

Use --provider heuristic to run fully offline.

Example:
  surveygen generate "Quarterly engagement pulse for the support team" --xlsx pulse.xlsx
  surveygen frontend "Cafe feedback" --style "warm, handwritten" --out cafe.html`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			if provider != "" {
				return os.Setenv("PROVIDER", provider)
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "Model provider: openai|heuristic (default $PROVIDER)")

	rootCmd.AddCommand(
		newGenerateCmd(),
		newFrontendCmd(),
		newTemplatesCmd(),
		newProbeCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// requestFlags are shared by the generate and frontend commands.
type requestFlags struct {
	surveyType string
	audience   string
	industry   string
	complexity string
	user       string
	noTemplate bool
}

func (f *requestFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.surveyType, "type", "", "Survey type hint (e.g. employee-engagement)")
	cmd.Flags().StringVar(&f.audience, "audience", "", "Target audience hint")
	cmd.Flags().StringVar(&f.industry, "industry", "", "Industry hint")
	cmd.Flags().StringVar(&f.complexity, "complexity", "", "Complexity hint: simple|professional|research|academic")
	cmd.Flags().StringVar(&f.user, "user", "", "User id recorded in the usage ledger")
	cmd.Flags().BoolVar(&f.noTemplate, "no-template", false, "Never use the template library")
}

func (f *requestFlags) request(args []string) app.GenerateRequest {
	req := app.GenerateRequest{
		Prompt: strings.Join(args, " "),
		Context: survey.Hints{
			SurveyType:     f.surveyType,
			TargetAudience: f.audience,
			Industry:       f.industry,
			Complexity:     f.complexity,
		},
		UserID: core.ParseUserID(f.user),
	}
	if f.noTemplate {
		useTemplate := false
		req.UseTemplate = &useTemplate
	}
	return req
}

func newContainer(ctx context.Context) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return container.New(ctx, cfg)
}

func newGenerateCmd() *cobra.Command {
	var flags requestFlags
	var out, xlsx string
	var outline bool

	cmd := &cobra.Command{
		Use:   "generate [prompt...]",
		Short: "Generate a survey and print a summary",
		Long: `Run the full pipeline for a request and print a summary.

The artifact is written as JSON with --out and as a workbook with --xlsx.

Example: surveygen generate "Patient experience after outpatient visits" --industry healthcare --out survey.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown()

			start := time.Now()
			fa := c.Orchestrator.Generate(cmd.Context(), flags.request(args))
			fmt.Println(summary(fa, c.Resolver.Tier(), time.Since(start)))

			if outline {
				fmt.Println(render.Outline(fa))
			}
			if out != "" {
				if err := writeJSON(out, fa); err != nil {
					return err
				}
				fmt.Println(styleSuccess.Render("✓") + " wrote " + out)
			}
			if xlsx != "" {
				if err := excel.NewExporter().ExportFile(fa, xlsx); err != nil {
					return fmt.Errorf("failed to export workbook: %w", err)
				}
				fmt.Println(styleSuccess.Render("✓") + " wrote " + xlsx)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&out, "out", "", "Write the artifact as JSON to this file")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Export the survey as an Excel workbook")
	cmd.Flags().BoolVar(&outline, "outline", false, "Print the survey as a markdown outline")
	return cmd
}

func newFrontendCmd() *cobra.Command {
	var flags requestFlags
	var style, image, out string

	cmd := &cobra.Command{
		Use:   "frontend [prompt...]",
		Short: "Generate a survey and render it as a single HTML page",
		Long: `Generate a survey and render it as one self-contained HTML page.

A reference image (png, jpeg, webp or gif) steers the visual design when the
provider supports images. When the model cannot produce a page, a local
rendering is written instead.

Example: surveygen frontend "Cafe feedback" --style "warm, handwritten" --image moodboard.png`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := readImage(image)
			if err != nil {
				return err
			}

			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown()

			res, err := c.Frontend.GenerateFrontend(cmd.Context(), app.FrontendRequest{
				GenerateRequest: flags.request(args),
				StyleDirection:  style,
				ReferenceImage:  img,
			})
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, []byte(res.HTML), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", out, err)
			}
			source := res.Source
			if res.Model != "" {
				source += " (" + res.Model + ")"
			}
			fmt.Println(box(res.Artifact.Survey.Title,
				field("pipeline", res.Artifact.Metadata.Pipeline),
				field("page", source),
				field("questions", len(res.Artifact.QuestionIDs())),
			))
			fmt.Println(styleSuccess.Render("✓") + " wrote " + out)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&style, "style", "", "Visual direction for the page")
	cmd.Flags().StringVar(&image, "image", "", "Reference image file")
	cmd.Flags().StringVar(&out, "out", "survey.html", "Output HTML file")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in survey templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown()

			for _, t := range c.Templates.All() {
				fmt.Println(box(t.Name,
					field("key", t.Key),
					field("complexity", t.Complexity),
					field("time", t.EstimatedTime),
					field("pages", len(t.Architecture.Pages)),
					field("questions", t.Architecture.QuestionCount()),
					styleMuted.Render(t.Description),
				))
			}
			return nil
		},
	}
}

func newProbeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Show the model tier and per-task models in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContainer(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Shutdown()

			models := c.Resolver.Models()
			lines := []string{field("tier", c.Resolver.Tier())}
			for _, task := range ports.AllTasks {
				lines = append(lines, field(string(task), models[string(task)]))
			}
			fmt.Println(box("Model routing", lines...))
			return nil
		},
	}
}

func summary(fa *artifact.FinalArtifact, tier string, took time.Duration) string {
	pipeline := styleSuccess.Render(fa.Metadata.Pipeline)
	if fa.Metadata.Pipeline == artifact.PipelineFallback {
		pipeline = styleWarning.Render(fa.Metadata.Pipeline)
	}
	lines := []string{
		field("pipeline", pipeline),
		field("tier", tier),
		field("run", fa.Metadata.RunID),
		field("type", fa.Metadata.Analysis.SurveyType),
		field("complexity", fa.Metadata.Analysis.Complexity),
		field("pages", len(fa.Survey.Pages)),
		field("questions", len(fa.QuestionIDs())),
		field("components", len(fa.Components)),
		field("quality", fa.Metadata.QualityScore),
		field("time", fa.Survey.Metadata.EstimatedTime),
		field("took", took.Round(time.Millisecond)),
	}
	if fa.Metadata.Template != "" {
		lines = append(lines, field("template", fa.Metadata.Template))
	}
	if fa.Metadata.FailureReason != "" {
		lines = append(lines, field("failure", styleWarning.Render(fa.Metadata.FailureReason)))
	}
	return box(fa.Survey.Title, lines...)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readImage(path string) (*ports.ImageInput, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	if len(data) > app.MaxReferenceImageBytes {
		return nil, fmt.Errorf("image %s exceeds %d bytes", path, app.MaxReferenceImageBytes)
	}
	mimeType := http.DetectContentType(data)
	switch mimeType {
	case "image/png", "image/jpeg", "image/webp", "image/gif":
	default:
		return nil, fmt.Errorf("unsupported image type %s", mimeType)
	}
	return &ports.ImageInput{MimeType: mimeType, Data: data}, nil
}
