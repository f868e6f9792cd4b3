package ports

import "context"

// TaskCategory names the pipeline task a model call serves. Model selection,
// caching and usage accounting are keyed by it.
type TaskCategory string

const (
	TaskAnalysis   TaskCategory = "analysis"
	TaskPlanning   TaskCategory = "planning"
	TaskDesign     TaskCategory = "design"
	TaskComponents TaskCategory = "components"
	TaskValidation TaskCategory = "validation"
)

// AllTasks lists every task category.
var AllTasks = []TaskCategory{TaskAnalysis, TaskPlanning, TaskDesign, TaskComponents, TaskValidation}

// InvokeOptions are per-call generation settings. Zero values mean provider defaults.
type InvokeOptions struct {
	Temperature     float64
	MaxOutputTokens int
	JSON            bool   // request a JSON object response
	ReasoningEffort string // low|medium|high, advanced tier only
	Verbosity       string // low|medium|high, advanced tier only
}

// ImageInput is an optional reference image sent with a prompt.
type ImageInput struct {
	MimeType string
	Data     []byte
}

// ModelRequest is one prompt sent to one model.
type ModelRequest struct {
	Model   string
	Task    TaskCategory
	System  string
	Prompt  string
	Options InvokeOptions
	Image   *ImageInput
}

// UsageData represents raw usage data from LLM provider APIs
type UsageData struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Provider         string `json:"provider"`
}

// LLMResponse is the text a model returned plus its usage, when reported.
type LLMResponse struct {
	Content string
	Model   string
	Usage   *UsageData
	Cached  bool
}

// ModelProvider sends a prompt and returns text or an error. Implementations
// wrap transport failures with core.ErrProvider.
type ModelProvider interface {
	Invoke(ctx context.Context, req ModelRequest) (*LLMResponse, error)
}

// ModelLister lists the model ids a provider can serve.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// RunInfo identifies the caller and run a model call belongs to.
type RunInfo struct {
	UserID string
	RunID  string
}

type runInfoKey struct{}

// WithRunInfo attaches run identity to ctx for decorators such as usage metering.
func WithRunInfo(ctx context.Context, info RunInfo) context.Context {
	return context.WithValue(ctx, runInfoKey{}, info)
}

// RunInfoFrom returns the run identity attached to ctx, if any.
func RunInfoFrom(ctx context.Context) (RunInfo, bool) {
	info, ok := ctx.Value(runInfoKey{}).(RunInfo)
	return info, ok
}
