package core

import (
	"fmt"
	"strings"
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestNewSurveyIDPrefix(t *testing.T) {
	id := NewSurveyID()
	if !strings.HasPrefix(id.String(), "survey_") {
		t.Errorf("Expected survey_ prefix, got %s", id)
	}
}

func TestParseUserID(t *testing.T) {
	tests := []struct {
		input    string
		expected UserID
	}{
		{"user-1", UserID("user-1")},
		{"  user-2  ", UserID("user-2")},
		{"", AnonymousUser},
		{"   ", AnonymousUser},
	}

	for _, test := range tests {
		if got := ParseUserID(test.input); got != test.expected {
			t.Errorf("ParseUserID(%q) = %s, want %s", test.input, got, test.expected)
		}
	}
}

func TestUserIDUUIDIsStable(t *testing.T) {
	a := UserID("alice").UUID()
	b := UserID("alice").UUID()
	if a != b {
		t.Errorf("Expected stable uuid for the same name, got %s and %s", a, b)
	}

	raw := "0190a6e2-3f7c-7b1e-9d2a-5b6c7d8e9f01"
	if got := UserID(raw).UUID().String(); got != raw {
		t.Errorf("Expected uuid-form ids to round trip, got %s", got)
	}
}

// TestParseRunID tests run ID parsing
func TestParseRunID(t *testing.T) {
	tests := []struct {
		input    string
		expected RunID
		hasError bool
	}{
		{"run-123", RunID("run-123"), false},
		{"", "", true},
	}

	for _, test := range tests {
		result, err := ParseRunID(test.input)
		if test.hasError && err == nil {
			t.Errorf("Expected error for input '%s', but got none", test.input)
		}
		if !test.hasError && err != nil {
			t.Errorf("Unexpected error for input '%s': %v", test.input, err)
		}
		if result != test.expected {
			t.Errorf("Expected %s, got %s", test.expected, result)
		}
	}
}

func TestErrorTaxonomyIsDistinct(t *testing.T) {
	provider := NewProviderError("gpt-4o", fmt.Errorf("connection refused"))
	parse := NewParseError("analysis", fmt.Errorf("unexpected end of JSON input"))

	if !IsProviderError(provider) || IsParseError(provider) {
		t.Errorf("provider error misclassified: %v", provider)
	}
	if !IsParseError(parse) || IsProviderError(parse) {
		t.Errorf("parse error misclassified: %v", parse)
	}
	if !IsParseError(NewEnumError("surveyType", "poll")) {
		t.Error("enum errors should be parse errors")
	}
	if !IsProviderError(NewStageError("analyzing", provider)) {
		t.Error("stage errors should keep the provider cause")
	}
}

func TestComputePromptHashIgnoresOptionOrder(t *testing.T) {
	a := ComputePromptHash("gpt-4o", "analysis", map[string]string{"temperature": "0.1", "json": "true"}, "prompt")
	b := ComputePromptHash("gpt-4o", "analysis", map[string]string{"json": "true", "temperature": "0.1"}, "prompt")
	if a != b {
		t.Errorf("Expected equal hashes, got %s and %s", a, b)
	}

	c := ComputePromptHash("gpt-5", "analysis", map[string]string{"json": "true", "temperature": "0.1"}, "prompt")
	if a == c {
		t.Error("Expected model to change the hash")
	}
}
