package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"surveygen/domain/core"
	"surveygen/internal"
	"surveygen/ports"
)

const providerName = "openai"

// Config configures the OpenAI-compatible client.
type Config struct {
	APIKey  string
	BaseURL string        // Optional override (default: https://api.openai.com/v1)
	Timeout time.Duration // Per-request timeout (default: 120s)
}

// OpenAIClient implements ports.ModelProvider and ports.ModelLister over the
// OpenAI-compatible HTTP API. Calls that carry reasoning or verbosity options
// use the responses endpoint; everything else uses chat completions.
type OpenAIClient struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	logger     *internal.Logger
}

// NewOpenAIClient creates a client based on config
func NewOpenAIClient(config Config, logger *internal.Logger) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	baseURL := strings.TrimSpace(config.BaseURL)
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	return &OpenAIClient{
		APIKey:     config.APIKey,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		logger:     logger.With("OpenAI"),
	}, nil
}

// Invoke sends one request and returns the generated text.
func (c *OpenAIClient) Invoke(ctx context.Context, req ports.ModelRequest) (*ports.LLMResponse, error) {
	if strings.TrimSpace(req.Model) == "" {
		return nil, core.NewProviderError("", fmt.Errorf("missing model"))
	}

	if req.Options.ReasoningEffort != "" || req.Options.Verbosity != "" {
		return c.invokeResponses(ctx, req)
	}
	return c.invokeChat(ctx, req)
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model               string          `json:"model"`
	Messages            []chatMessage   `json:"messages"`
	Temperature         *float64        `json:"temperature,omitempty"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
}

func (c *OpenAIClient) invokeChat(ctx context.Context, req ports.ModelRequest) (*ports.LLMResponse, error) {
	var user any = req.Prompt
	if req.Image != nil {
		user = []contentPart{
			{Type: "text", Text: req.Prompt},
			{Type: "image_url", ImageURL: &imageURL{URL: dataURL(req.Image)}},
		}
	}

	body := chatRequest{
		Model:               req.Model,
		MaxCompletionTokens: req.Options.MaxOutputTokens,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: user},
		},
	}
	if supportsTemperature(req.Model) && req.Options.Temperature > 0 {
		t := req.Options.Temperature
		body.Temperature = &t
	}
	if req.Options.JSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	raw, err := c.post(ctx, req.Model, "/chat/completions", body)
	if err != nil {
		return nil, err
	}

	choice := gjson.GetBytes(raw, "choices.0.message.content")
	if !choice.Exists() {
		return nil, core.NewProviderError(req.Model, fmt.Errorf("no choices in response"))
	}
	return &ports.LLMResponse{
		Content: choice.String(),
		Model:   firstNonEmpty(gjson.GetBytes(raw, "model").String(), req.Model),
		Usage: &ports.UsageData{
			PromptTokens:     int(gjson.GetBytes(raw, "usage.prompt_tokens").Int()),
			CompletionTokens: int(gjson.GetBytes(raw, "usage.completion_tokens").Int()),
			TotalTokens:      int(gjson.GetBytes(raw, "usage.total_tokens").Int()),
			Model:            req.Model,
			Provider:         providerName,
		},
	}, nil
}

type responsesRequest struct {
	Model           string           `json:"model"`
	Instructions    string           `json:"instructions,omitempty"`
	Input           []responsesInput `json:"input"`
	Reasoning       *reasoning       `json:"reasoning,omitempty"`
	Text            *textOptions     `json:"text,omitempty"`
	MaxOutputTokens int              `json:"max_output_tokens,omitempty"`
}

type responsesInput struct {
	Role    string          `json:"role"`
	Content []responsesPart `json:"content"`
}

type responsesPart struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type reasoning struct {
	Effort string `json:"effort"`
}

type textOptions struct {
	Verbosity string          `json:"verbosity,omitempty"`
	Format    *responseFormat `json:"format,omitempty"`
}

func (c *OpenAIClient) invokeResponses(ctx context.Context, req ports.ModelRequest) (*ports.LLMResponse, error) {
	parts := []responsesPart{{Type: "input_text", Text: req.Prompt}}
	if req.Image != nil {
		parts = append(parts, responsesPart{Type: "input_image", ImageURL: dataURL(req.Image)})
	}

	body := responsesRequest{
		Model:           req.Model,
		Instructions:    req.System,
		Input:           []responsesInput{{Role: "user", Content: parts}},
		MaxOutputTokens: req.Options.MaxOutputTokens,
	}
	if req.Options.ReasoningEffort != "" {
		body.Reasoning = &reasoning{Effort: req.Options.ReasoningEffort}
	}
	if req.Options.Verbosity != "" || req.Options.JSON {
		body.Text = &textOptions{Verbosity: req.Options.Verbosity}
		if req.Options.JSON {
			body.Text.Format = &responseFormat{Type: "json_object"}
		}
	}

	raw, err := c.post(ctx, req.Model, "/responses", body)
	if err != nil {
		return nil, err
	}

	var text strings.Builder
	gjson.GetBytes(raw, "output").ForEach(func(_, item gjson.Result) bool {
		item.Get("content").ForEach(func(_, part gjson.Result) bool {
			if part.Get("type").String() == "output_text" {
				text.WriteString(part.Get("text").String())
			}
			return true
		})
		return true
	})

	return &ports.LLMResponse{
		Content: text.String(),
		Model:   firstNonEmpty(gjson.GetBytes(raw, "model").String(), req.Model),
		Usage: &ports.UsageData{
			PromptTokens:     int(gjson.GetBytes(raw, "usage.input_tokens").Int()),
			CompletionTokens: int(gjson.GetBytes(raw, "usage.output_tokens").Int()),
			TotalTokens:      int(gjson.GetBytes(raw, "usage.total_tokens").Int()),
			Model:            req.Model,
			Provider:         providerName,
		},
	}, nil
}

// ListModels returns the model ids the API key can use.
func (c *OpenAIClient) ListModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/models", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)

	raw, err := c.do(httpReq, "")
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, id := range gjson.GetBytes(raw, "data.#.id").Array() {
		ids = append(ids, id.String())
	}
	return ids, nil
}

func (c *OpenAIClient) post(ctx context.Context, model, path string, body any) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, core.NewProviderError(model, fmt.Errorf("marshal request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, core.NewProviderError(model, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("POST %s model=%s bytes=%d", path, model, len(payload))
	return c.do(httpReq, model)
}

func (c *OpenAIClient) do(httpReq *http.Request, model string) ([]byte, error) {
	start := time.Now()
	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		if ctxErr := httpReq.Context().Err(); ctxErr != nil {
			return nil, core.NewProviderError(model, ctxErr)
		}
		return nil, core.NewProviderError(model, fmt.Errorf("request failed: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, core.NewProviderError(model, fmt.Errorf("read response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gjson.GetBytes(raw, "error.message").String()
		if msg == "" {
			msg = internal.Preview(string(raw), 300)
		}
		return nil, core.NewProviderError(model, fmt.Errorf("http %d: %s", resp.StatusCode, msg))
	}

	c.logger.Debug("%s %s -> %d in %s (%d bytes)", httpReq.Method, httpReq.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond), len(raw))
	return raw, nil
}

// supportsTemperature reports whether the model accepts a sampling
// temperature. Reasoning model families only accept the default.
func supportsTemperature(model string) bool {
	m := strings.ToLower(model)
	return !strings.HasPrefix(m, "gpt-5") && !strings.HasPrefix(m, "o1") && !strings.HasPrefix(m, "o3") && !strings.HasPrefix(m, "o4")
}

func dataURL(img *ports.ImageInput) string {
	mime := img.MimeType
	if mime == "" {
		mime = http.DetectContentType(img.Data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
