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
	"errors"
	"fmt"
	"strconv"

	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/evaluator"
	"github.com/mealwise/mealwise/pkg/food"
	"github.com/mealwise/mealwise/pkg/header"
)

const (
	embeddedSource = "embedded"

	targetFoods      = "foods"
	targetThresholds = "thresholds"
)

// SourceCheck is the validation outcome of one data source.
type SourceCheck struct {
	Target  string         `json:"target" yaml:"target"`
	Source  string         `json:"source" yaml:"source"`
	Valid   bool           `json:"valid" yaml:"valid"`
	Count   int            `json:"count,omitempty" yaml:"count,omitempty"`
	Code    string         `json:"code,omitempty" yaml:"code,omitempty"`
	Message string         `json:"message,omitempty" yaml:"message,omitempty"`
	Context map[string]any `json:"context,omitempty" yaml:"context,omitempty"`
}

// ValidationReport lists the load-time checks of a set of sources.
type ValidationReport struct {
	header.Header `json:",inline" yaml:",inline"`

	Valid  bool          `json:"valid" yaml:"valid"`
	Checks []SourceCheck `json:"checks" yaml:"checks"`
}

// Validate loads each source independently and reports every failure
// rather than stopping at the first one.
func Validate(ctx context.Context, src Sources, version string) *ValidationReport {
	r := &ValidationReport{Valid: true}
	r.Init(header.KindValidation, header.APIVersion, version)

	table, err := food.LoadOrDefault(ctx, src.Foods)
	foods := check(targetFoods, src.Foods, err)
	if err == nil {
		foods.Source = table.Source()
		foods.Count = table.Len()
	}

	th, err := evaluator.LoadThresholdsOrDefault(ctx, src.Thresholds)
	thresholds := check(targetThresholds, src.Thresholds, err)
	if err == nil {
		thresholds.Source = th.Source()
		thresholds.Count = len(th.Rules())
	}

	r.Checks = []SourceCheck{foods, thresholds}
	for _, c := range r.Checks {
		r.Valid = r.Valid && c.Valid
	}
	return r
}

func check(target, source string, err error) SourceCheck {
	if source == "" {
		source = embeddedSource
	}
	c := SourceCheck{Target: target, Source: source, Valid: err == nil}
	if err == nil {
		return c
	}

	c.Code = string(mwerrors.CodeOf(err))
	c.Message = err.Error()
	var se *mwerrors.StructuredError
	if errors.As(err, &se) {
		c.Message = se.Message
		c.Context = se.Context
	}
	return c
}

// Err returns an INVALID_DATA error naming the failed checks, or nil.
func (r *ValidationReport) Err() error {
	if r.Valid {
		return nil
	}
	failed := make([]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		if !c.Valid {
			failed = append(failed, c.Target)
		}
	}
	return mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData,
		fmt.Sprintf("validation failed for %v", failed), map[string]any{"failed": failed})
}

// TableHeaders lists the report columns.
func (r *ValidationReport) TableHeaders() []string {
	return []string{"TARGET", "SOURCE", "STATUS", "COUNT", "DETAIL"}
}

// TableRows renders one row per check.
func (r *ValidationReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Checks))
	for _, c := range r.Checks {
		status, detail := "OK", ""
		if !c.Valid {
			status = c.Code
			detail = c.Message
			if row, ok := c.Context["row"]; ok {
				detail = fmt.Sprintf("%s (row %v, column %v)", detail, row, c.Context["column"])
			}
		}
		rows = append(rows, []string{c.Target, c.Source, status, strconv.Itoa(c.Count), detail})
	}
	return rows
}
