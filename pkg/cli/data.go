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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/mealwise/mealwise/pkg/analyzer"
	"github.com/mealwise/mealwise/pkg/evaluator"
	"github.com/mealwise/mealwise/pkg/food"
)

func foodsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "foods",
		EnableShellCompletion: true,
		Usage:                 "List the nutrition reference table",
		Description: `Print the reference table in use: every food with its unit, grams per
unit, aliases and nutrient amounts per unit.

CSV tables can be converted to YAML with:
  mealwise foods --foods foods.csv --format yaml -o foods.yaml`,
		Flags: []cli.Flag{foodsFlag(), outputFlag(), formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			table, err := food.LoadOrDefault(ctx, cmd.String("foods"))
			if err != nil {
				return fmt.Errorf("failed to load reference table: %w", err)
			}

			return write(ctx, cmd, outFormat, table.Document())
		},
	}
}

func thresholdsCmd() *cli.Command {
	return &cli.Command{
		Name:                  "thresholds",
		EnableShellCompletion: true,
		Usage:                 "List the nutrient thresholds",
		Description:           `Print the daily nutrient ranges, labels, message templates and suggestions in use.`,
		Flags:                 []cli.Flag{thresholdsFlag(), outputFlag(), formatFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			th, err := evaluator.LoadThresholdsOrDefault(ctx, cmd.String("thresholds"))
			if err != nil {
				return fmt.Errorf("failed to load thresholds: %w", err)
			}

			return write(ctx, cmd, outFormat, th.Config())
		},
	}
}

func validateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "validate",
		EnableShellCompletion: true,
		Usage:                 "Validate a reference table and threshold configuration",
		Description: `Load the reference table and thresholds and report every problem found,
with the row and column of the first invalid entry in each source.

A table fails when a row has no name or unit, a nutrient amount is not a
non-negative number, or a name or alias appears twice. Thresholds fail when a
nutrient is listed twice, a range has min > max, or a message template does
not parse.

Examples:
  mealwise validate --foods foods.csv --thresholds thresholds.yaml
  mealwise validate --foods foods.csv --fail-on-error --format table`,
		Flags: []cli.Flag{
			foodsFlag(),
			thresholdsFlag(),
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with non-zero status if any source fails validation",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			src := sourcesFromCmd(cmd)
			slog.Info("validating reference data",
				"foods", src.Foods,
				"thresholds", src.Thresholds)

			report := analyzer.Validate(ctx, src, version)
			if err := write(ctx, cmd, outFormat, report); err != nil {
				return err
			}

			if cmd.Bool("fail-on-error") {
				return report.Err()
			}
			return nil
		},
	}
}
