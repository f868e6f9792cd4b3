// Package template provides the statically authored survey architectures,
// one per well-known survey type, and the pure customization applied to them.
package template

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"surveygen/domain/core"
	"surveygen/domain/survey"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// Template is a named, read-only survey architecture.
type Template struct {
	Key           string              `json:"key" yaml:"key"`
	Name          string              `json:"name" yaml:"name"`
	Description   string              `json:"description" yaml:"description"`
	Complexity    survey.Complexity   `json:"complexity" yaml:"complexity"`
	EstimatedTime string              `json:"estimatedTime" yaml:"estimatedTime"`
	Architecture  survey.Architecture `json:"architecture" yaml:"architecture"`
}

// Clone returns a deep copy.
func (t Template) Clone() Template {
	out := t
	out.Architecture = t.Architecture.Clone()
	return out
}

// Library holds the parsed templates keyed by survey type.
type Library struct {
	templates map[string]Template
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
	defaultErr  error
)

// Default returns the embedded library, parsed once per process.
func Default() (*Library, error) {
	defaultOnce.Do(func() {
		defaultLib, defaultErr = Load(templateFS, "templates")
	})
	return defaultLib, defaultErr
}

// MustDefault is Default for callers that treat a broken embedded library as fatal.
func MustDefault() *Library {
	lib, err := Default()
	if err != nil {
		panic(err)
	}
	return lib
}

// Load parses every *.yaml file in dir. Each file must declare a key that is
// a known survey type, and every survey type must be covered.
func Load(fsys fs.FS, dir string) (*Library, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	lib := &Library{templates: make(map[string]Template, len(entries))}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", e.Name(), err)
		}

		var t Template
		if err := yaml.Unmarshal(data, &t); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", e.Name(), err)
		}
		if !survey.SurveyType(t.Key).Valid() {
			return nil, fmt.Errorf("template %s: key %q is not a survey type", e.Name(), t.Key)
		}
		if _, dup := lib.templates[t.Key]; dup {
			return nil, fmt.Errorf("template %s: duplicate key %q", e.Name(), t.Key)
		}
		if err := t.Architecture.Validate(); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.Key, err)
		}
		lib.templates[t.Key] = t
	}

	for _, st := range survey.AllSurveyTypes {
		if _, ok := lib.templates[string(st)]; !ok {
			return nil, fmt.Errorf("no template for survey type %s", st)
		}
	}
	return lib, nil
}

// Get returns a deep copy of the template for key.
func (l *Library) Get(key string) (Template, error) {
	t, ok := l.templates[key]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", core.ErrTemplateNotFound, key)
	}
	return t.Clone(), nil
}

// Keys lists template keys in sorted order.
func (l *Library) Keys() []string {
	keys := make([]string, 0, len(l.templates))
	for k := range l.templates {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns deep copies of every template in key order.
func (l *Library) All() []Template {
	out := make([]Template, 0, len(l.templates))
	for _, k := range l.Keys() {
		out = append(out, l.templates[k].Clone())
	}
	return out
}
