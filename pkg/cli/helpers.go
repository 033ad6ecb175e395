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
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/mealwise/mealwise/pkg/analyzer"
	"github.com/mealwise/mealwise/pkg/defaults"
	"github.com/mealwise/mealwise/pkg/matcher"
	"github.com/mealwise/mealwise/pkg/serializer"
)

// Flags are built per command so repeated runs never share parsed state.

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage:   fmt.Sprintf("output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars("MEALWISE_FORMAT"),
	}
}

func foodsFlag() cli.Flag {
	return &cli.StringFlag{
		Name: "foods",
		Usage: `Path or URL of the nutrition reference table (CSV, YAML or JSON).
	Uses the embedded table when empty.`,
		Sources: cli.EnvVars("MEALWISE_FOODS"),
	}
}

func thresholdsFlag() cli.Flag {
	return &cli.StringFlag{
		Name: "thresholds",
		Usage: `Path or URL of the nutrient threshold configuration (YAML or JSON).
	Uses the embedded thresholds when empty.`,
		Sources: cli.EnvVars("MEALWISE_THRESHOLDS"),
	}
}

func matcherFlags() []cli.Flag {
	return []cli.Flag{
		&cli.FloatFlag{
			Name:    "fuzzy-cutoff",
			Value:   matcher.DefaultFuzzyCutoff,
			Usage:   "minimum similarity in [0, 1] for fuzzy food matches, 0 disables fuzzy matching",
			Sources: cli.EnvVars("MEALWISE_FUZZY_CUTOFF"),
		},
		&cli.StringFlag{
			Name:    "plural-rules",
			Usage:   `plural suffix rules as suffix=replacement pairs (e.g. "ies=y,es=,s="), or "none" to disable`,
			Sources: cli.EnvVars("MEALWISE_PLURAL_RULES"),
		},
	}
}

func mealFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "meal",
		Aliases: []string{"m"},
		Usage:   "meal description; overrides positional arguments",
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(strings.ToLower(strings.TrimSpace(cmd.String("format"))))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %s",
			cmd.String("format"), strings.Join(serializer.SupportedFormats(), ", "))
	}
	return f, nil
}

func sourcesFromCmd(cmd *cli.Command) analyzer.Sources {
	src := analyzer.DefaultSources()
	src.Foods = strings.TrimSpace(cmd.String("foods"))
	src.Thresholds = strings.TrimSpace(cmd.String("thresholds"))
	if cmd.IsSet("fuzzy-cutoff") {
		src.FuzzyCutoff = cmd.Float("fuzzy-cutoff")
	}
	src.PluralRules = cmd.String("plural-rules")
	return src
}

// mealText returns --meal, the positional arguments joined by spaces, or
// stdin when the only argument is "-".
func mealText(cmd *cli.Command) (string, error) {
	if m := cmd.String("meal"); strings.TrimSpace(m) != "" {
		return m, nil
	}

	args := cmd.Args().Slice()
	if len(args) == 1 && args[0] == "-" {
		r := cmd.Root().Reader
		if r == nil {
			r = os.Stdin
		}
		data, err := io.ReadAll(io.LimitReader(r, defaults.MaxRequestBodyBytes+1))
		if err != nil {
			return "", fmt.Errorf("failed to read meal from stdin: %w", err)
		}
		if len(data) > defaults.MaxRequestBodyBytes {
			return "", fmt.Errorf("meal on stdin exceeds %d bytes", defaults.MaxRequestBodyBytes)
		}
		args = []string{string(data)}
	}

	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return "", fmt.Errorf("no meal given: pass it as arguments, with --meal, or on stdin with -")
	}
	return text, nil
}

func loadAnalyzer(ctx context.Context, cmd *cli.Command) (*analyzer.Analyzer, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.DataLoadTimeout)
	defer cancel()

	a, err := analyzer.Load(ctx, sourcesFromCmd(cmd), analyzer.WithVersion(version))
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}
	return a, nil
}

// write serializes v to --output or stdout in the given format.
func write(ctx context.Context, cmd *cli.Command, format serializer.Format, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	if err := ser.Serialize(ctx, v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
