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

// Package api wires the meal analyzer into the HTTP server.
//
// Usage:
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// Serve configures structured logging, loads the reference table and
// thresholds (failing fast on invalid data), and runs pkg/server with the
// analyzer routes until SIGINT or SIGTERM.
//
// # Endpoints
//
//   - GET  /v1/analyze?meal=...  analyze a meal
//   - POST /v1/analyze           analyze {"meal": "..."} (JSON or YAML)
//   - GET  /v1/resolve?meal=...  food matching only
//   - GET  /v1/foods             reference table
//   - GET  /v1/thresholds        nutrient thresholds
//   - GET  /health, /ready, /metrics
//
// Example:
//
//	curl -X POST http://localhost:8080/v1/analyze \
//	  -H "Content-Type: application/yaml" \
//	  -d 'meal: 2 chapatis, dal and a salad'
//
// # Configuration
//
// Environment variables:
//   - PORT: HTTP port (default 8080)
//   - SHUTDOWN_TIMEOUT_SECONDS: graceful shutdown window (default 30)
//   - LOG_LEVEL: debug, info, warn or error
//   - MEALWISE_FOODS: reference table path or URL (default embedded)
//   - MEALWISE_THRESHOLDS: thresholds path or URL (default embedded)
//   - MEALWISE_FUZZY_CUTOFF: fuzzy match similarity in [0, 1] (default 0.75)
//   - MEALWISE_PLURAL_RULES: plural suffix rules, e.g. "ies=y,es=,s=", or "none"
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/mealwise/mealwise/pkg/api.version=1.0.0'"
package api
