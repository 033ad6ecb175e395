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

// Package cli implements the mealwise command-line interface.
//
// # Commands
//
// analyze - Analyze a meal:
//
//	mealwise analyze 2 chapatis, dal and a salad
//	mealwise analyze --meal "rice and 2 eggs" --format table
//	echo "a bowl of oats with milk" | mealwise analyze -
//
// Resolves every food mentioned, totals the nutrients and checks each
// against the configured daily range.
//
// resolve - Show how a meal is matched to reference foods:
//
//	mealwise resolve "2 chapatis and curd" --format table
//
// foods - List the reference table:
//
//	mealwise foods --foods ./foods.csv --format table
//
// thresholds - List the nutrient thresholds:
//
//	mealwise thresholds --thresholds https://example.com/thresholds.yaml
//
// validate - Check reference data without analyzing anything:
//
//	mealwise validate --foods ./foods.csv --thresholds ./thresholds.yaml --fail-on-error
//
// # Flags
//
//	--foods          Reference table path or URL (env MEALWISE_FOODS)
//	--thresholds     Thresholds path or URL (env MEALWISE_THRESHOLDS)
//	--fuzzy-cutoff   Fuzzy match similarity in [0, 1], 0 disables (env MEALWISE_FUZZY_CUTOFF)
//	--plural-rules   Plural suffix rules, e.g. "ies=y,es=,s=" (env MEALWISE_PLURAL_RULES)
//	--output, -o     Output file path (default: stdout)
//	--format, -t     Output format: yaml, json, table (default: yaml)
//	--log-level      debug, info, warn or error (env LOG_LEVEL)
//
// Logs go to stderr as JSON so stdout stays parseable.
package cli
