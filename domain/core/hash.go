package core

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Short returns the first 12 hex characters, used in log lines and cache keys.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// PromptHash identifies a model request for caching.
type PromptHash Hash

func (h PromptHash) String() string { return Hash(h).String() }

// ComputePromptHash hashes a request: model, task, the sorted option pairs and
// the prompt body. Option order never changes the hash.
func ComputePromptHash(model, task string, options map[string]string, prompt string) PromptHash {
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var data strings.Builder
	data.WriteString(model)
	data.WriteString("\x00")
	data.WriteString(task)
	data.WriteString("\x00")
	for _, key := range keys {
		data.WriteString(fmt.Sprintf("%s=%s;", key, options[key]))
	}
	data.WriteString("\x00")
	data.WriteString(prompt)

	return PromptHash(NewHash([]byte(data.String())))
}
