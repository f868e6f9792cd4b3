package app

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"surveygen/ai"
	"surveygen/domain/artifact"
	"surveygen/domain/core"
	"surveygen/internal"
	"surveygen/internal/render"
	"surveygen/ports"
)

// Frontend sources recorded on a FrontendResult.
const (
	FrontendSourceModel = "model"
	FrontendSourceLocal = "local"
)

const frontendSystem = "You are a senior frontend engineer who builds accessible, polished, dependency-free survey pages."

// SurveyGenerator produces a final artifact; *Orchestrator implements it.
type SurveyGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) *artifact.FinalArtifact
}

// FrontendRequest asks for a survey and a standalone HTML page for it.
type FrontendRequest struct {
	GenerateRequest
	StyleDirection string
	ReferenceImage *ports.ImageInput
}

// FrontendResult is the artifact plus its rendered document.
type FrontendResult struct {
	Artifact *artifact.FinalArtifact `json:"artifact"`
	HTML     string                  `json:"html"`
	Source   string                  `json:"source"`
	Model    string                  `json:"model,omitempty"`
}

// FrontendGenerator renders generated surveys as HTML documents.
type FrontendGenerator struct {
	surveys SurveyGenerator
	client  *ai.TextClient
	logger  *internal.Logger
}

// NewFrontendGenerator creates the frontend service
func NewFrontendGenerator(surveys SurveyGenerator, inv *ai.Invoker, logger *internal.Logger) *FrontendGenerator {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &FrontendGenerator{
		surveys: surveys,
		client:  ai.NewTextClient(inv, extractDocument),
		logger:  logger.With("Frontend"),
	}
}

// extractDocument keeps the extracted HTML only when it is a full document.
func extractDocument(content string) string {
	html := ai.ExtractHTML(content)
	if !strings.Contains(strings.ToLower(html), "<html") {
		return ""
	}
	return html
}

// GenerateFrontend runs the pipeline, then asks the model for a document,
// falling back to the local renderer. It fails only when ctx ends.
func (f *FrontendGenerator) GenerateFrontend(ctx context.Context, req FrontendRequest) (*FrontendResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fa := f.surveys.Generate(ctx, req.GenerateRequest)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ctx = ports.WithRunInfo(ctx, ports.RunInfo{UserID: core.ParseUserID(string(req.UserID)).String(), RunID: fa.Metadata.RunID.String()})

	html, model, err := f.modelDocument(ctx, fa, req)
	if err == nil {
		return &FrontendResult{Artifact: fa, HTML: html, Source: FrontendSourceModel, Model: model}, nil
	}
	if cerr := ctx.Err(); cerr != nil {
		return nil, cerr
	}
	f.logger.Warn("Model document unavailable, rendering locally: %v", err)

	html, err = render.Page(fa)
	if err != nil {
		return nil, fmt.Errorf("failed to render survey page: %w", err)
	}
	return &FrontendResult{Artifact: fa, HTML: html, Source: FrontendSourceLocal}, nil
}

func (f *FrontendGenerator) modelDocument(ctx context.Context, fa *artifact.FinalArtifact, req FrontendRequest) (string, string, error) {
	surveyJSON, err := json.MarshalIndent(fa.Survey, "", "  ")
	if err != nil {
		return "", "", err
	}
	designJSON, err := json.Marshal(fa.DesignSystem)
	if err != nil {
		return "", "", err
	}

	style := strings.TrimSpace(req.StyleDirection)
	if style == "" {
		style = "Clean, modern, and friendly. Follow the design system tokens."
	}
	imageNote := ""
	if req.ReferenceImage != nil && len(req.ReferenceImage.Data) > 0 {
		imageNote = "\nA reference image is attached. Match its layout, color mood, and visual density.\n"
	}

	html, info, err := f.client.Generate(ctx, ai.Call{
		Task:     ports.TaskDesign,
		Template: "frontend",
		System:   frontendSystem,
		Vars: map[string]string{
			"SURVEY_JSON":        string(surveyJSON),
			"DESIGN_SYSTEM_JSON": string(designJSON),
			"STYLE_DIRECTION":    style,
			"IMAGE_NOTE":         imageNote,
		},
		Options: ports.InvokeOptions{Temperature: 0.5, MaxOutputTokens: 12000},
		Image:   req.ReferenceImage,
	})
	if err != nil {
		return "", "", err
	}
	return html, info.Model, nil
}

// RefineFrontend asks the model to revise html according to feedback. When
// the model fails the original document is returned unchanged.
func (f *FrontendGenerator) RefineFrontend(ctx context.Context, html, feedback string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(feedback) == "" {
		return html, nil
	}

	revised, _, err := f.client.Generate(ctx, ai.Call{
		Task:     ports.TaskDesign,
		Template: "refine",
		System:   frontendSystem,
		Vars:     map[string]string{"FEEDBACK": feedback, "HTML": html},
		Options:  ports.InvokeOptions{Temperature: 0.4, MaxOutputTokens: 12000},
	})
	if err != nil {
		if cerr := ctx.Err(); cerr != nil {
			return "", cerr
		}
		f.logger.Warn("Refinement failed, keeping original document: %v", err)
		return html, nil
	}
	return revised, nil
}

// MaxReferenceImageBytes bounds a decoded reference image.
const MaxReferenceImageBytes = 5 << 20

var referenceImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// DecodeReferenceImage decodes a base64 image payload, optionally given as a
// data URL. Empty data yields a nil image.
func DecodeReferenceImage(mimeType, data string) (*ports.ImageInput, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, nil
	}
	if strings.HasPrefix(data, "data:") {
		if i := strings.Index(data, ";base64,"); i >= 0 {
			if mimeType == "" {
				mimeType = data[len("data:"):i]
			}
			data = data[i+len(";base64,"):]
		}
	}
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if !referenceImageTypes[mimeType] {
		return nil, fmt.Errorf("unsupported reference image type %q", mimeType)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("reference image is not valid base64: %w", err)
	}
	if len(raw) > MaxReferenceImageBytes {
		return nil, fmt.Errorf("reference image exceeds %d bytes", MaxReferenceImageBytes)
	}
	return &ports.ImageInput{MimeType: mimeType, Data: raw}, nil
}
