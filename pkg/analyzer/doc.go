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

// Package analyzer turns free-text meal descriptions into nutrition
// reports. It composes the matcher and evaluator over one reference table
// and one threshold configuration, and exposes both over HTTP.
//
// An Analyzer is immutable and safe for concurrent use:
//
//	a, err := analyzer.New(table, thresholds, analyzer.WithVersion(version))
//	report, err := a.Analyze(ctx, "2 chapatis, dal and a salad")
//
// HTTP handlers:
//
//	GET|POST /v1/analyze    full analysis (meal from ?meal= or {"meal": ...})
//	GET|POST /v1/resolve    food matching only
//	GET      /v1/foods      reference table
//	GET      /v1/thresholds threshold configuration
//
// Responses are JSON unless ?format=yaml is given or the Accept header
// asks for YAML.
package analyzer
