package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"surveygen/domain/core"
	"surveygen/internal"
	"surveygen/ports"
)

// Call describes one templated model call.
type Call struct {
	Task     ports.TaskCategory
	Template string            // prompt template name under prompts/
	Vars     map[string]string // {PLACEHOLDER} values
	System   string            // overrides the client's system context
	Options  ports.InvokeOptions
	Image    *ports.ImageInput
}

// CallInfo reports how a call was served.
type CallInfo struct {
	Model    string
	Attempts int
	FellBack bool // retried on the stable tier
	Cached   bool
	Usage    *ports.UsageData
}

// Invoker renders prompts, resolves the model for a task, and performs the
// single stable-tier retry shared by the structured and text clients.
type Invoker struct {
	Provider      ports.ModelProvider
	Resolver      *TierResolver
	PromptManager *PromptManager
	SystemContext string
	logger        *internal.Logger
}

// NewInvoker creates an invoker; a nil logger uses internal.DefaultLogger.
func NewInvoker(provider ports.ModelProvider, resolver *TierResolver, prompts *PromptManager, logger *internal.Logger) *Invoker {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if prompts == nil {
		prompts = NewPromptManager("")
	}
	return &Invoker{
		Provider:      provider,
		Resolver:      resolver,
		PromptManager: prompts,
		SystemContext: "You are an expert survey methodologist and product designer.",
		logger:        logger,
	}
}

// StableOnly returns a copy of the invoker pinned to the stable tier, so its
// calls are never retried.
func (inv *Invoker) StableOnly() *Invoker {
	cp := *inv
	cp.Resolver = inv.Resolver.StableOnly()
	return &cp
}

// invoke runs call against the active tier and, when the attempt fails with a
// provider or parse error, once more against the stable tier. accept turns the
// raw content into the caller's result and returns a parse error when it cannot.
func (inv *Invoker) invoke(ctx context.Context, call Call, accept func(content string) error) (info CallInfo, err error) {
	log := inv.logger.With("StructuredClient")
	defer func() { callTraceFrom(ctx).record(call.Task, info) }()

	prompt, err := inv.PromptManager.RenderPrompt(call.Template, call.Vars)
	if err != nil {
		return info, fmt.Errorf("failed to load/render prompt: %w", err)
	}

	model := inv.Resolver.Resolve(call.Task)
	err = inv.attempt(ctx, call, prompt, model, &info, accept)
	if err == nil {
		return info, nil
	}
	if ctx.Err() != nil {
		return info, err
	}

	stable, ok := inv.Resolver.FallbackFor(call.Task)
	if !ok {
		return info, err
	}
	log.Warn("%s call on %s failed, retrying on %s: %v", call.Task, model, stable, err)
	info.FellBack = true
	return info, inv.attempt(ctx, call, prompt, stable, &info, accept)
}

func (inv *Invoker) attempt(ctx context.Context, call Call, prompt, model string, info *CallInfo, accept func(string) error) error {
	log := inv.logger.With("StructuredClient")

	opts := call.Options
	if !inv.Resolver.IsAdvanced() || model != inv.Resolver.Resolve(call.Task) {
		opts.ReasoningEffort = ""
		opts.Verbosity = ""
	}

	system := call.System
	if system == "" {
		system = inv.SystemContext
	}
	if opts.JSON && !strings.Contains(strings.ToLower(system), "json") {
		system += "\n\nIMPORTANT: Respond with valid JSON output."
	}

	info.Attempts++
	info.Model = model
	log.Debug("Sending %s request to %s - promptLength=%d, temp=%.2f", call.Task, model, len(prompt), opts.Temperature)
	log.Trace("Prompt preview: %s", internal.Preview(prompt, 500))

	resp, err := inv.Provider.Invoke(ctx, ports.ModelRequest{
		Model:   model,
		Task:    call.Task,
		System:  system,
		Prompt:  prompt,
		Options: opts,
		Image:   call.Image,
	})
	if err != nil {
		if core.IsProviderError(err) {
			return err
		}
		return core.NewProviderError(model, err)
	}
	info.Usage = resp.Usage
	info.Cached = resp.Cached
	if strings.TrimSpace(resp.Content) == "" {
		return core.NewProviderError(model, core.ErrEmptyGeneration)
	}

	log.Debug("Received %d bytes from %s", len(resp.Content), model)
	return accept(resp.Content)
}

// StructuredClient provides typed JSON responses from model calls
type StructuredClient[T any] struct {
	*Invoker
	// Validate, when set, rejects decoded values; its error counts as a parse failure.
	Validate func(*T) error
}

// NewStructuredClient creates a structured client over a shared invoker
func NewStructuredClient[T any](inv *Invoker, validate func(*T) error) *StructuredClient[T] {
	return &StructuredClient[T]{Invoker: inv, Validate: validate}
}

// Generate makes a typed call and decodes the JSON response into T. Errors
// wrap core.ErrProvider or core.ErrSchemaParse.
func (client *StructuredClient[T]) Generate(ctx context.Context, call Call) (*T, CallInfo, error) {
	call.Options.JSON = true
	var result *T

	info, err := client.invoke(ctx, call, func(content string) error {
		cleaned := cleanJSONContent(content)
		var value T
		if err := json.Unmarshal([]byte(cleaned), &value); err != nil {
			client.logger.With("StructuredClient").Debug("Failed to unmarshal %s content: %v - %s", call.Task, err, internal.Preview(cleaned, 200))
			return core.NewParseError(string(call.Task), err)
		}
		if client.Validate != nil {
			if err := client.Validate(&value); err != nil {
				if core.IsParseError(err) {
					return err
				}
				return core.NewParseError(string(call.Task), err)
			}
		}
		result = &value
		return nil
	})
	if err != nil {
		return nil, info, err
	}
	return result, info, nil
}

// cleanJSONContent removes markdown code blocks and cleans JSON content
func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)

	// Remove markdown code blocks with various prefixes
	if strings.HasPrefix(content, "```json") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	} else if strings.HasPrefix(content, "```") && strings.HasSuffix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	// Remove common AI chatter patterns that precede the JSON body; lines
	// inside the body are kept verbatim.
	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	inBody := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !inBody {
			inBody = strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
		}
		if !inBody {
			lower := strings.ToLower(trimmed)
			if trimmed == "" ||
				strings.HasPrefix(lower, "here is") ||
				strings.HasPrefix(lower, "the json") ||
				strings.HasPrefix(lower, "output:") ||
				strings.HasPrefix(lower, "response:") ||
				strings.HasPrefix(lower, "##") ||
				strings.Contains(lower, "below is") ||
				strings.Contains(lower, "following is") {
				continue
			}
		}
		cleanedLines = append(cleanedLines, line)
	}
	content = strings.TrimSpace(strings.Join(cleanedLines, "\n"))

	// If content starts with a line that looks like chatter, remove it
	if strings.Contains(content, "\n{") {
		parts := strings.SplitN(content, "\n{", 2)
		if len(parts) == 2 && !strings.Contains(parts[0], "{") && !strings.Contains(parts[0], "[") {
			content = "{" + parts[1]
		}
	} else if strings.Contains(content, "\n[") {
		parts := strings.SplitN(content, "\n[", 2)
		if len(parts) == 2 && !strings.Contains(parts[0], "{") && !strings.Contains(parts[0], "[") {
			content = "[" + parts[1]
		}
	}

	// Drop trailing chatter after the closing bracket
	if strings.HasPrefix(content, "{") {
		if end := strings.LastIndex(content, "}"); end >= 0 {
			content = content[:end+1]
		}
	} else if strings.HasPrefix(content, "[") {
		if end := strings.LastIndex(content, "]"); end >= 0 {
			content = content[:end+1]
		}
	}

	return content
}
