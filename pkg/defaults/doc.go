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

// Package defaults provides centralized configuration constants for mealwise.
//
// Timeouts, TTLs and size limits used across the codebase live here so they
// can be tuned in one place.
//
// # Categories
//
//   - Handler timeouts: For HTTP request processing
//   - Server timeouts: For HTTP server configuration
//   - Data timeouts and limits: For loading reference tables and thresholds
//   - HTTP client timeouts: For fetching data files from URLs
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.DataLoadTimeout)
//	defer cancel()
package defaults
