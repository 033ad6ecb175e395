// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package evaluator

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"slices"
	"strings"
	"sync"

	"github.com/mealwise/mealwise/pkg/defaults"
	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/food"
	"github.com/mealwise/mealwise/pkg/header"
	"github.com/mealwise/mealwise/pkg/serializer"
)

// DefaultSource names the embedded threshold set.
const DefaultSource = "embedded:thresholds.yaml"

var (
	//go:embed data/thresholds.yaml
	defaultData []byte

	defaultOnce       sync.Once
	defaultThresholds *Thresholds
	defaultErr        error
)

// NutrientRule is the balanced range for one nutrient.
type NutrientRule struct {
	Name        string      `json:"name" yaml:"name"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Min         float64     `json:"min" yaml:"min"`
	Max         float64     `json:"max" yaml:"max"`
	Unit        string      `json:"unit,omitempty" yaml:"unit,omitempty"`
	Suggestions Suggestions `json:"suggestions,omitzero" yaml:"suggestions,omitempty"`
}

// Suggestions are the advice offered when a nutrient is out of range.
type Suggestions struct {
	Deficient string `json:"deficient,omitempty" yaml:"deficient,omitempty"`
	Excessive string `json:"excessive,omitempty" yaml:"excessive,omitempty"`
}

// Config is the document form of a threshold set.
type Config struct {
	header.Header `json:",inline" yaml:",inline"`

	Messages  Messages       `json:"messages,omitzero" yaml:"messages,omitempty"`
	Nutrients []NutrientRule `json:"nutrients" yaml:"nutrients"`
}

// Thresholds is a validated, immutable threshold set.
type Thresholds struct {
	source    string
	rules     []NutrientRule
	messages  Messages
	templates templates
}

// NewThresholds validates cfg and compiles its message templates. Every
// rule needs a unique name and 0 <= min <= max, and at least one rule is
// required.
func NewThresholds(cfg Config, source string) (*Thresholds, error) {
	if len(cfg.Nutrients) == 0 {
		return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData, "threshold set has no nutrients",
			map[string]any{"source": source})
	}

	rules := make([]NutrientRule, 0, len(cfg.Nutrients))
	seen := make(map[string]struct{}, len(cfg.Nutrients))
	for i, r := range cfg.Nutrients {
		ctx := map[string]any{"source": source, "row": i + 1, "nutrient": r.Name}

		r.Name = food.NutrientKey(r.Name)
		if r.Name == "" {
			return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData, "missing nutrient name", ctx)
		}
		if _, dup := seen[r.Name]; dup {
			return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData, "duplicate nutrient", ctx)
		}
		seen[r.Name] = struct{}{}

		if !finite(r.Min) || !finite(r.Max) || r.Min < 0 || r.Max < r.Min {
			ctx["min"], ctx["max"] = r.Min, r.Max
			return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData, "threshold range must satisfy 0 <= min <= max", ctx)
		}

		r.Label = strings.TrimSpace(r.Label)
		if r.Label == "" {
			r.Label = titleCase(r.Name)
		}
		r.Unit = strings.TrimSpace(r.Unit)
		rules = append(rules, r)
	}

	messages := cfg.Messages.withDefaults()
	tmpl, err := compileMessages(messages)
	if err != nil {
		return nil, mwerrors.WrapWithContext(mwerrors.ErrCodeInvalidData, "invalid message template", err,
			map[string]any{"source": source})
	}

	return &Thresholds{
		source:    source,
		rules:     rules,
		messages:  messages,
		templates: tmpl,
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Source names where the thresholds were loaded from.
func (t *Thresholds) Source() string {
	return t.source
}

// Rules returns the nutrient rules in declared order.
func (t *Thresholds) Rules() []NutrientRule {
	return slices.Clone(t.rules)
}

// Rule returns the rule for nutrient n.
func (t *Thresholds) Rule(n string) (NutrientRule, bool) {
	key := food.NutrientKey(n)
	for _, r := range t.rules {
		if r.Name == key {
			return r, true
		}
	}
	return NutrientRule{}, false
}

// Names returns the configured nutrient names in declared order.
func (t *Thresholds) Names() []string {
	names := make([]string, len(t.rules))
	for i, r := range t.rules {
		names[i] = r.Name
	}
	return names
}

// Config returns the effective configuration as a document, with labels
// and message templates filled in.
func (t *Thresholds) Config() *Config {
	cfg := &Config{
		Messages:  t.messages,
		Nutrients: t.Rules(),
	}
	cfg.Init(header.KindThresholds, header.APIVersion, "")
	cfg.Metadata["source"] = t.source
	return cfg
}

// TableHeaders lists the columns for table output.
func (c *Config) TableHeaders() []string {
	return []string{"NUTRIENT", "MIN", "MAX", "UNIT"}
}

// TableRows renders one row per nutrient.
func (c *Config) TableRows() [][]string {
	rows := make([][]string, 0, len(c.Nutrients))
	for _, r := range c.Nutrients {
		rows = append(rows, []string{r.Name, formatNumber(r.Min), formatNumber(r.Max), r.Unit})
	}
	return rows
}

// DefaultThresholds returns the embedded threshold set, parsed once.
func DefaultThresholds() (*Thresholds, error) {
	defaultOnce.Do(func() {
		defaultThresholds, defaultErr = ParseThresholds(defaultData, DefaultSource)
	})
	return defaultThresholds, defaultErr
}

// ParseThresholds decodes a YAML or JSON threshold document. source picks
// the format by extension and is recorded in error context.
func ParseThresholds(data []byte, source string) (*Thresholds, error) {
	cfg, err := serializer.Decode[Config](serializer.FormatFromPath(source), data)
	if err != nil {
		return nil, mwerrors.WrapWithContext(mwerrors.ErrCodeInvalidData, "malformed threshold document", err,
			map[string]any{"source": source})
	}
	if !cfg.CheckKind(header.KindThresholds) {
		return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData,
			fmt.Sprintf("unexpected document kind %q", cfg.Kind),
			map[string]any{"source": source, "want": header.KindThresholds})
	}
	return NewThresholds(*cfg, source)
}

// LoadThresholds reads a threshold document from a local path or an
// http(s) URL.
func LoadThresholds(ctx context.Context, path string) (*Thresholds, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.DataLoadTimeout)
	defer cancel()

	data, err := serializer.ReadSource(ctx, path)
	if err != nil {
		code := mwerrors.ErrCodeUnavailable
		if errors.Is(err, fs.ErrNotExist) {
			code = mwerrors.ErrCodeNotFound
		}
		return nil, mwerrors.WrapWithContext(code, "failed to read thresholds", err,
			map[string]any{"source": path})
	}

	th, err := ParseThresholds(data, path)
	if err != nil {
		return nil, err
	}
	slog.Info("thresholds loaded", "source", path, "nutrients", len(th.rules))
	return th, nil
}

// LoadThresholdsOrDefault loads the thresholds at path, or returns the
// embedded set when path is empty.
func LoadThresholdsOrDefault(ctx context.Context, path string) (*Thresholds, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultThresholds()
	}
	return LoadThresholds(ctx, path)
}
