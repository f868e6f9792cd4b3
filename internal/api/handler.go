package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"surveygen/app"
	"surveygen/domain/core"
	"surveygen/domain/survey"
	"surveygen/domain/template"
	"surveygen/internal"
	"surveygen/internal/errors"
	"surveygen/models"
	"surveygen/ports"

	"github.com/gin-gonic/gin"
)

const maxPromptLength = 8000

// FrontendService renders surveys as HTML documents; *app.FrontendGenerator implements it.
type FrontendService interface {
	GenerateFrontend(ctx context.Context, req app.FrontendRequest) (*app.FrontendResult, error)
}

// UsageReader reads the usage ledger; *usage.Service implements it.
type UsageReader interface {
	GetUserUsageSummary(ctx context.Context, userID core.UserID, start, end time.Time) (*models.UserUsageSummary, error)
}

// Deps are the services the handlers call. Usage may be nil when the ledger
// is disabled.
type Deps struct {
	Surveys   app.SurveyGenerator
	Frontend  FrontendService
	Templates *template.Library
	Usage     UsageReader
	Tier      string
	Models    map[string]string
	Logger    *internal.Logger
}

// Handler serves the survey generation endpoints
type Handler struct {
	deps   Deps
	logger *internal.Logger
}

// NewHandler creates the HTTP handler set
func NewHandler(deps Deps) *Handler {
	logger := deps.Logger
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Handler{deps: deps, logger: logger.With("API")}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)

	v1 := r.Group("/v1")
	v1.POST("/surveys", h.GenerateSurvey)
	v1.POST("/surveys/frontend", h.GenerateFrontend)
	v1.GET("/templates", h.ListTemplates)
	v1.GET("/usage/:userId", h.GetUsage)
}

type generateBody struct {
	Prompt      string       `json:"prompt"`
	Context     survey.Hints `json:"context"`
	UserID      string       `json:"userId"`
	UseTemplate *bool        `json:"useTemplate"`
}

type imageBody struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type frontendBody struct {
	generateBody
	StyleDirection string     `json:"styleDirection"`
	ReferenceImage *imageBody `json:"referenceImage"`
}

func (b generateBody) request() (app.GenerateRequest, error) {
	prompt := strings.TrimSpace(b.Prompt)
	if prompt == "" {
		return app.GenerateRequest{}, errors.ValidationError("prompt is required")
	}
	if len(prompt) > maxPromptLength {
		return app.GenerateRequest{}, errors.ValidationError("prompt is too long")
	}
	return app.GenerateRequest{
		Prompt:      prompt,
		Context:     b.Context,
		UserID:      core.ParseUserID(b.UserID),
		UseTemplate: b.UseTemplate,
	}, nil
}

func (b *imageBody) decode() (*ports.ImageInput, error) {
	if b == nil {
		return nil, nil
	}
	img, err := app.DecodeReferenceImage(b.MimeType, b.Data)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	return img, nil
}

// GenerateSurvey runs the pipeline and returns the final artifact. Pipeline
// failures are absorbed by the fallback generator, so only input errors fail.
func (h *Handler) GenerateSurvey(c *gin.Context) {
	var body generateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, errors.WithCode(errors.CodeValidationError, errors.Wrap(err, "invalid request body")))
		return
	}
	req, err := body.request()
	if err != nil {
		h.respondError(c, err)
		return
	}

	fa := h.deps.Surveys.Generate(c.Request.Context(), req)
	c.JSON(http.StatusOK, fa)
}

// GenerateFrontend runs the pipeline and renders the survey as HTML.
func (h *Handler) GenerateFrontend(c *gin.Context) {
	var body frontendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.respondError(c, errors.WithCode(errors.CodeValidationError, errors.Wrap(err, "invalid request body")))
		return
	}
	req, err := body.request()
	if err != nil {
		h.respondError(c, err)
		return
	}
	img, err := body.ReferenceImage.decode()
	if err != nil {
		h.respondError(c, err)
		return
	}

	res, err := h.deps.Frontend.GenerateFrontend(c.Request.Context(), app.FrontendRequest{
		GenerateRequest: req,
		StyleDirection:  body.StyleDirection,
		ReferenceImage:  img,
	})
	if err != nil {
		h.respondError(c, errors.Wrap(err, "frontend generation failed"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListTemplates returns the template library.
func (h *Handler) ListTemplates(c *gin.Context) {
	templates := h.deps.Templates.All()
	c.JSON(http.StatusOK, gin.H{"templates": templates, "count": len(templates)})
}

// GetUsage returns a user's usage summary for the last `days` days (default 30).
func (h *Handler) GetUsage(c *gin.Context) {
	if h.deps.Usage == nil {
		h.respondError(c, errors.NotFound("usage ledger"))
		return
	}

	days := 30
	if raw := c.Query("days"); raw != "" {
		d, err := parseDays(raw)
		if err != nil {
			h.respondError(c, err)
			return
		}
		days = d
	}

	end := time.Now()
	start := end.AddDate(0, 0, -days)
	summary, err := h.deps.Usage.GetUserUsageSummary(c.Request.Context(), core.ParseUserID(c.Param("userId")), start, end)
	if err != nil {
		h.respondError(c, errors.WithCode(errors.CodeDatabaseError, errors.Wrap(err, "failed to load usage")))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Health reports liveness and the active model tier.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tier":   h.deps.Tier,
		"models": h.deps.Models,
		"ledger": h.deps.Usage != nil,
	})
}

func parseDays(raw string) (int, error) {
	d, err := strconv.Atoi(raw)
	if err != nil || d < 1 || d > 365 {
		return 0, errors.ValidationError("days must be between 1 and 365")
	}
	return d, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatus(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	} else {
		h.logger.Debug("%s %s rejected: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error(), "code": code})
}
