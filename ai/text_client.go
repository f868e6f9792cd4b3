package ai

import (
	"context"
	"regexp"
	"strings"

	"surveygen/domain/core"
)

// TextClient makes unstructured calls whose result is source text such as
// component code or an HTML document.
type TextClient struct {
	*Invoker
	// Extract pulls the payload out of the raw content; nil keeps it as is.
	Extract func(string) string
}

// NewTextClient creates a text client over a shared invoker
func NewTextClient(inv *Invoker, extract func(string) string) *TextClient {
	return &TextClient{Invoker: inv, Extract: extract}
}

// Generate returns the extracted text. Content that is empty after extraction
// counts as core.ErrEmptyGeneration and triggers the stable-tier retry.
func (c *TextClient) Generate(ctx context.Context, call Call) (string, CallInfo, error) {
	var out string
	info, err := c.invoke(ctx, call, func(content string) error {
		text := content
		if c.Extract != nil {
			text = c.Extract(content)
		}
		if strings.TrimSpace(text) == "" {
			return core.ErrEmptyGeneration
		}
		out = text
		return nil
	})
	if err != nil {
		return "", info, err
	}
	return out, info, nil
}

var fencePattern = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)[ \t]*\r?\n(.*?)```")

// ExtractCode returns the first fenced block, preferring jsx/tsx/javascript
// fences, or the trimmed content when no fence is present.
func ExtractCode(content string) string {
	blocks := fencePattern.FindAllStringSubmatch(content, -1)
	if len(blocks) == 0 {
		return strings.TrimSpace(content)
	}
	for _, b := range blocks {
		switch strings.ToLower(b[1]) {
		case "jsx", "tsx", "javascript", "js", "typescript", "ts", "react":
			return strings.TrimSpace(b[2])
		}
	}
	return strings.TrimSpace(blocks[0][2])
}

// ExtractHTML returns an ```html fence, else any fence, else the raw content.
func ExtractHTML(content string) string {
	blocks := fencePattern.FindAllStringSubmatch(content, -1)
	for _, b := range blocks {
		if strings.EqualFold(b[1], "html") {
			return strings.TrimSpace(b[2])
		}
	}
	if len(blocks) > 0 {
		return strings.TrimSpace(blocks[0][2])
	}
	return strings.TrimSpace(content)
}
