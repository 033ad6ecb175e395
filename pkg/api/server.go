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

package api

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/mealwise/mealwise/pkg/analyzer"
	"github.com/mealwise/mealwise/pkg/defaults"
	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/logging"
	"github.com/mealwise/mealwise/pkg/server"
)

const (
	name           = "mealwised"
	versionDefault = "dev"

	envFoods       = "MEALWISE_FOODS"
	envThresholds  = "MEALWISE_THRESHOLDS"
	envFuzzyCutoff = "MEALWISE_FUZZY_CUTOFF"
	envPluralRules = "MEALWISE_PLURAL_RULES"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown. Invalid
// reference data aborts startup.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	src, err := sourcesFromEnv()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		return err
	}

	loadCtx, cancel := context.WithTimeout(ctx, defaults.DataLoadTimeout)
	a, err := analyzer.Load(loadCtx, src, analyzer.WithVersion(version))
	cancel()
	if err != nil {
		slog.Error("failed to load reference data", "error", err)
		return err
	}

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(a.Handlers()),
		server.WithReadinessCheck("reference-data", a.Check),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}

// sourcesFromEnv reads the analyzer sources from MEALWISE_* variables.
func sourcesFromEnv() (analyzer.Sources, error) {
	src := analyzer.DefaultSources()
	src.Foods = strings.TrimSpace(os.Getenv(envFoods))
	src.Thresholds = strings.TrimSpace(os.Getenv(envThresholds))
	src.PluralRules = os.Getenv(envPluralRules)

	if v := strings.TrimSpace(os.Getenv(envFuzzyCutoff)); v != "" {
		cutoff, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return src, mwerrors.WrapWithContext(mwerrors.ErrCodeInvalidRequest, "invalid fuzzy cutoff", err,
				map[string]any{"env": envFuzzyCutoff, "value": v})
		}
		src.FuzzyCutoff = cutoff
	}

	return src, nil
}
