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
	"fmt"
	"log/slog"
	"maps"
	"math"
	"slices"

	"github.com/mealwise/mealwise/pkg/matcher"
)

// Status is the outcome of comparing a nutrient total to its range.
type Status string

const (
	StatusDeficient Status = "Deficient"
	StatusExcessive Status = "Excessive"
	StatusBalanced  Status = "Balanced"
)

// unresolvedNote prefixes the note recorded for each unresolved mention.
const unresolvedNote = "could not analyze: "

// NutrientTotals maps nutrient name to the summed amount for a meal.
type NutrientTotals map[string]float64

// Names returns the nutrient names, sorted.
func (t NutrientTotals) Names() []string {
	return slices.Sorted(maps.Keys(t))
}

// Recommendation is the verdict for one configured nutrient.
type Recommendation struct {
	Nutrient   string  `json:"nutrient" yaml:"nutrient"`
	Status     Status  `json:"status" yaml:"status"`
	Message    string  `json:"message" yaml:"message"`
	Total      float64 `json:"total" yaml:"total"`
	Min        float64 `json:"min" yaml:"min"`
	Max        float64 `json:"max" yaml:"max"`
	Unit       string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Suggestion string  `json:"suggestion,omitempty" yaml:"suggestion,omitempty"`
}

// Result is the evaluation of one meal.
type Result struct {
	Totals          NutrientTotals   `json:"totals" yaml:"totals"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	Unresolved      []string         `json:"unresolved" yaml:"unresolved"`
	Notes           []string         `json:"notes,omitempty" yaml:"notes,omitempty"`
	Suggestions     []string         `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// Recommendation returns the verdict for nutrient n.
func (r *Result) Recommendation(n string) (Recommendation, bool) {
	for _, rec := range r.Recommendations {
		if rec.Nutrient == n {
			return rec, true
		}
	}
	return Recommendation{}, false
}

// Flags returns the recommendations that are not Balanced.
func (r *Result) Flags() []Recommendation {
	var out []Recommendation
	for _, rec := range r.Recommendations {
		if rec.Status != StatusBalanced {
			out = append(out, rec)
		}
	}
	return out
}

// Evaluate sums nutrients over the resolved items and checks each
// configured nutrient against its range. Unresolved items are skipped and
// listed by raw text. A nil th yields totals only.
func Evaluate(items []matcher.MealItem, th *Thresholds) *Result {
	res := &Result{
		Totals:          make(NutrientTotals),
		Recommendations: []Recommendation{},
		Unresolved:      []string{},
	}

	var rules []NutrientRule
	if th != nil {
		rules = th.rules
	}
	for _, r := range rules {
		res.Totals[r.Name] = 0
	}

	for _, it := range items {
		if !it.Resolved() {
			res.Unresolved = append(res.Unresolved, it.Raw)
			res.Notes = append(res.Notes, unresolvedNote+it.Raw)
			continue
		}
		for n, v := range it.Food.Nutrients() {
			res.Totals[n] = saturate(res.Totals[n] + Contribution(it.Quantity, v))
		}
	}

	seen := make(map[string]struct{})
	for _, r := range rules {
		total := res.Totals[r.Name]
		rec := Recommendation{
			Nutrient: r.Name,
			Status:   classify(total, r.Min, r.Max),
			Total:    total,
			Min:      r.Min,
			Max:      r.Max,
			Unit:     r.Unit,
		}
		rec.Message = th.message(r, rec)

		switch rec.Status {
		case StatusDeficient:
			rec.Suggestion = r.Suggestions.Deficient
		case StatusExcessive:
			rec.Suggestion = r.Suggestions.Excessive
		case StatusBalanced:
		}
		if rec.Suggestion != "" {
			if _, dup := seen[rec.Suggestion]; !dup {
				seen[rec.Suggestion] = struct{}{}
				res.Suggestions = append(res.Suggestions, rec.Suggestion)
			}
		}
		res.Recommendations = append(res.Recommendations, rec)
	}

	return res
}

// Contribution is quantity times a per-unit amount, held at
// math.MaxFloat64 instead of overflowing to infinity.
func Contribution(quantity, amount float64) float64 {
	return saturate(quantity * amount)
}

func saturate(v float64) float64 {
	switch {
	case math.IsInf(v, 1):
		return math.MaxFloat64
	case math.IsInf(v, -1):
		return -math.MaxFloat64
	default:
		return v
	}
}

func classify(total, lo, hi float64) Status {
	switch {
	case total < lo:
		return StatusDeficient
	case total > hi:
		return StatusExcessive
	default:
		return StatusBalanced
	}
}

func (t *Thresholds) message(r NutrientRule, rec Recommendation) string {
	msg, err := t.templates.render(messageData{
		Nutrient: r.Name,
		Label:    r.Label,
		Status:   rec.Status,
		Total:    rec.Total,
		Min:      rec.Min,
		Max:      rec.Max,
		Unit:     rec.Unit,
	})
	if err != nil {
		slog.Warn("message template failed", "nutrient", r.Name, "status", rec.Status, "error", err)
		return fmt.Sprintf("%s: %s (%s)", r.Label, rec.Status, formatQuantity(rec.Total, rec.Unit))
	}
	return msg
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	if r := math.Round(v*p) / p; !math.IsInf(r, 0) {
		return r
	}
	return v
}
