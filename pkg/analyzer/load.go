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

	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/evaluator"
	"github.com/mealwise/mealwise/pkg/food"
	"github.com/mealwise/mealwise/pkg/matcher"
	"golang.org/x/sync/errgroup"
)

// Sources names the reference data and matcher settings of an Analyzer.
type Sources struct {
	// Foods is a path or URL of the reference table. Empty uses the
	// embedded table.
	Foods string
	// Thresholds is a path or URL of the threshold configuration. Empty
	// uses the embedded configuration.
	Thresholds string
	// FuzzyCutoff is the minimum fuzzy similarity in [0, 1]. Zero
	// disables fuzzy matching.
	FuzzyCutoff float64
	// PluralRules overrides the plural suffix rules, e.g. "ies=y,es=,s=".
	// Empty keeps the defaults and "none" disables plural matching.
	PluralRules string
}

// DefaultSources returns the embedded data with default matcher settings.
func DefaultSources() Sources {
	return Sources{FuzzyCutoff: matcher.DefaultFuzzyCutoff}
}

// Load reads the reference table and thresholds in parallel and returns
// an Analyzer over them. Any invalid source fails the whole load.
func Load(ctx context.Context, src Sources, opts ...Option) (*Analyzer, error) {
	if math.IsNaN(src.FuzzyCutoff) || src.FuzzyCutoff < 0 || src.FuzzyCutoff > 1 {
		return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidRequest, "fuzzy cutoff must be between 0 and 1",
			map[string]any{"value": src.FuzzyCutoff})
	}

	mopts := []matcher.Option{matcher.WithFuzzyCutoff(src.FuzzyCutoff)}
	if strings.TrimSpace(src.PluralRules) != "" {
		rules, err := matcher.ParsePluralRules(src.PluralRules)
		if err != nil {
			return nil, mwerrors.Wrap(mwerrors.ErrCodeInvalidRequest, "invalid plural rules", err)
		}
		mopts = append(mopts, matcher.WithPluralRules(rules))
	}

	var (
		table      *food.Table
		thresholds *evaluator.Thresholds
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		table, err = food.LoadOrDefault(gctx, src.Foods)
		return err
	})
	g.Go(func() error {
		var err error
		thresholds, err = evaluator.LoadThresholdsOrDefault(gctx, src.Thresholds)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slog.Info("reference data loaded",
		"foods", table.Len(),
		"foodsSource", table.Source(),
		"nutrients", len(thresholds.Rules()),
		"thresholdsSource", thresholds.Source(),
		"fuzzyCutoff", src.FuzzyCutoff,
	)

	return New(table, thresholds, append([]Option{WithMatcherOptions(mopts...)}, opts...)...)
}
