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

package cli

import (
	"context"
	"log/slog"
	"slices"

	"github.com/urfave/cli/v3"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "analyze",
		EnableShellCompletion: true,
		Usage:                 "Analyze the nutrition of a meal",
		ArgsUsage:             "<meal description...> | -",
		Description: `Analyze a free-text meal description:
  - split it into food mentions ("2 chapatis, dal and a salad")
  - match each mention to the reference table (exact, alias, plural,
    substring, then fuzzy)
  - total the nutrients and compare each with its daily range

Mentions that match no food are listed as unresolved and contribute nothing.

Examples:
  mealwise analyze 2 chapatis, dal and a salad
  mealwise analyze --format table --meal "a bowl of oats with milk"
  echo "rice and chole" | mealwise analyze -`,
		Flags: slices.Concat(
			[]cli.Flag{mealFlag(), foodsFlag(), thresholdsFlag()},
			matcherFlags(),
			[]cli.Flag{outputFlag(), formatFlag()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			meal, err := mealText(cmd)
			if err != nil {
				return err
			}

			a, err := loadAnalyzer(ctx, cmd)
			if err != nil {
				return err
			}

			report, err := a.Analyze(ctx, meal)
			if err != nil {
				return err
			}

			slog.Debug("analysis complete",
				"items", len(report.Items),
				"unresolved", len(report.Unresolved))

			return write(ctx, cmd, outFormat, report)
		},
	}
}

func resolveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "resolve",
		EnableShellCompletion: true,
		Usage:                 "Match the foods in a meal without evaluating it",
		ArgsUsage:             "<meal description...> | -",
		Description: `Show how each mention in a meal is matched: the reference food, the
quantity in that food's units, the rule that matched and its confidence.

Useful for tuning aliases, plural rules and the fuzzy cutoff.`,
		Flags: slices.Concat(
			[]cli.Flag{mealFlag(), foodsFlag()},
			matcherFlags(),
			[]cli.Flag{outputFlag(), formatFlag()},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			meal, err := mealText(cmd)
			if err != nil {
				return err
			}

			a, err := loadAnalyzer(ctx, cmd)
			if err != nil {
				return err
			}

			res, err := a.Resolve(ctx, meal)
			if err != nil {
				return err
			}

			return write(ctx, cmd, outFormat, res)
		},
	}
}
