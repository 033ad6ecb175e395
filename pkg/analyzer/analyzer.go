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

package analyzer

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/evaluator"
	"github.com/mealwise/mealwise/pkg/food"
	"github.com/mealwise/mealwise/pkg/header"
	"github.com/mealwise/mealwise/pkg/matcher"
)

// Analyzer runs meal analyses against fixed reference data.
type Analyzer struct {
	table       *food.Table
	thresholds  *evaluator.Thresholds
	matcher     *matcher.Matcher
	matcherOpts []matcher.Option
	version     string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithVersion stamps reports with the tool version.
func WithVersion(v string) Option {
	return func(a *Analyzer) {
		a.version = v
	}
}

// WithMatcherOptions passes options through to the food matcher.
func WithMatcherOptions(opts ...matcher.Option) Option {
	return func(a *Analyzer) {
		a.matcherOpts = append(a.matcherOpts, opts...)
	}
}

// New returns an Analyzer over table and thresholds. Both are required.
func New(table *food.Table, thresholds *evaluator.Thresholds, opts ...Option) (*Analyzer, error) {
	if table == nil {
		return nil, mwerrors.New(mwerrors.ErrCodeInvalidRequest, "reference table is required")
	}
	if thresholds == nil {
		return nil, mwerrors.New(mwerrors.ErrCodeInvalidRequest, "thresholds are required")
	}

	a := &Analyzer{table: table, thresholds: thresholds}
	for _, opt := range opts {
		opt(a)
	}
	a.matcher = matcher.New(table, a.matcherOpts...)
	return a, nil
}

// Table returns the reference table.
func (a *Analyzer) Table() *food.Table {
	return a.table
}

// Thresholds returns the threshold configuration.
func (a *Analyzer) Thresholds() *evaluator.Thresholds {
	return a.thresholds
}

// Check is a readiness probe: the first reference food whose name is a
// single mention must resolve to itself.
func (a *Analyzer) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return mwerrors.Wrap(mwerrors.ErrCodeTimeout, "readiness check canceled", err)
	}
	foods := a.table.Foods()
	if len(foods) == 0 {
		return mwerrors.New(mwerrors.ErrCodeUnavailable, "reference table is empty")
	}
	var probe *food.ReferenceFood
	for _, f := range foods {
		if len(matcher.Split(f.Name)) == 1 {
			probe = f
			break
		}
	}
	if probe == nil {
		return nil
	}
	items := a.matcher.Resolve(probe.Name)
	if len(items) != 1 || items[0].Food != probe {
		return mwerrors.NewWithContext(mwerrors.ErrCodeInternal, "reference food does not resolve to itself",
			map[string]any{"food": probe.Name})
	}
	return nil
}

// ItemReport describes one resolved or unresolved mention.
type ItemReport struct {
	Raw        string             `json:"raw" yaml:"raw"`
	Food       string             `json:"food,omitempty" yaml:"food,omitempty"`
	Quantity   float64            `json:"quantity" yaml:"quantity"`
	Unit       string             `json:"unit,omitempty" yaml:"unit,omitempty"`
	Match      matcher.MatchKind  `json:"match" yaml:"match"`
	Confidence float64            `json:"confidence" yaml:"confidence"`
	Nutrients  map[string]float64 `json:"nutrients,omitempty" yaml:"nutrients,omitempty"`
}

// Analysis is the full report for one meal.
type Analysis struct {
	header.Header `json:",inline" yaml:",inline"`

	Meal            string                     `json:"meal" yaml:"meal"`
	Items           []ItemReport               `json:"items" yaml:"items"`
	Totals          evaluator.NutrientTotals   `json:"totals" yaml:"totals"`
	Recommendations []evaluator.Recommendation `json:"recommendations" yaml:"recommendations"`
	Unresolved      []string                   `json:"unresolved" yaml:"unresolved"`
	Notes           []string                   `json:"notes,omitempty" yaml:"notes,omitempty"`
	Suggestions     []string                   `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Resolution is the matcher output for one meal.
type Resolution struct {
	header.Header `json:",inline" yaml:",inline"`

	Meal  string       `json:"meal" yaml:"meal"`
	Items []ItemReport `json:"items" yaml:"items"`
}

// Analyze resolves the foods in text and evaluates the meal. Blank text
// is an INVALID_REQUEST error.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Analysis, error) {
	start := time.Now()
	items, err := a.resolve(ctx, text)
	if err != nil {
		analysesTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, err
	}

	res := evaluator.Evaluate(items, a.thresholds)
	if err := ctx.Err(); err != nil {
		analysesTotal.WithLabelValues(resultLabel(err)).Inc()
		return nil, mwerrors.Wrap(mwerrors.ErrCodeTimeout, "analysis canceled", err)
	}

	out := &Analysis{
		Meal:            strings.TrimSpace(text),
		Items:           a.reports(items, true),
		Totals:          make(evaluator.NutrientTotals, len(res.Totals)),
		Recommendations: res.Recommendations,
		Unresolved:      res.Unresolved,
		Notes:           res.Notes,
		Suggestions:     res.Suggestions,
	}
	out.Init(header.KindAnalysis, header.APIVersion, a.version)
	for n, v := range res.Totals {
		out.Totals[n] = round2(v)
	}

	for _, rec := range res.Recommendations {
		recommendationsTotal.WithLabelValues(rec.Nutrient, string(rec.Status)).Inc()
	}
	analysesTotal.WithLabelValues("ok").Inc()
	analysisDuration.Observe(time.Since(start).Seconds())

	slog.Debug("meal analyzed",
		"items", len(items),
		"unresolved", len(res.Unresolved),
		"flags", len(res.Flags()),
	)
	return out, nil
}

// Resolve runs only the food matcher over text.
func (a *Analyzer) Resolve(ctx context.Context, text string) (*Resolution, error) {
	items, err := a.resolve(ctx, text)
	if err != nil {
		return nil, err
	}
	out := &Resolution{
		Meal:  strings.TrimSpace(text),
		Items: a.reports(items, false),
	}
	out.Init(header.KindResolution, header.APIVersion, a.version)
	return out, nil
}

func (a *Analyzer) resolve(ctx context.Context, text string) ([]matcher.MealItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, mwerrors.Wrap(mwerrors.ErrCodeTimeout, "analysis canceled", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, mwerrors.New(mwerrors.ErrCodeInvalidRequest, "meal is empty")
	}

	items := a.matcher.Resolve(text)
	for _, it := range items {
		itemsTotal.WithLabelValues(string(it.Match)).Inc()
	}
	return items, nil
}

func (a *Analyzer) reports(items []matcher.MealItem, contributions bool) []ItemReport {
	out := make([]ItemReport, 0, len(items))
	for _, it := range items {
		r := ItemReport{
			Raw:        it.Raw,
			Food:       it.FoodName(),
			Quantity:   round2(it.Quantity),
			Unit:       it.Unit,
			Match:      it.Match,
			Confidence: round2(it.Confidence),
		}
		if contributions && it.Resolved() {
			r.Nutrients = make(map[string]float64)
			for n, v := range it.Food.Nutrients() {
				r.Nutrients[n] = round2(evaluator.Contribution(it.Quantity, v))
			}
		}
		out = append(out, r)
	}
	return out
}

// round2 rounds to cents. Values too large to carry a fraction are
// returned as is.
func round2(v float64) float64 {
	if math.Abs(v) >= 1<<52 {
		return v
	}
	return math.Round(v*100) / 100
}

func resultLabel(err error) string {
	switch mwerrors.CodeOf(err) {
	case mwerrors.ErrCodeInvalidRequest:
		return "invalid"
	case mwerrors.ErrCodeTimeout:
		return "canceled"
	default:
		return "error"
	}
}
