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

// Package logging provides structured logging utilities for mealwise components.
//
// It wraps the standard library slog package with project defaults so the CLI
// and the API server emit the same JSON log shape: module and version
// attributes on every record, source location on debug records, and a level
// taken from the LOG_LEVEL environment variable unless set explicitly.
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("mealwised", version)
//	    slog.Info("loading reference table", "source", path)
//	}
//
// Explicit level (the CLI passes its --log-level flag here):
//
//	logging.SetDefaultStructuredLoggerWithLevel("mealwise", version, "debug")
//
// Supported levels (case-insensitive): debug, info (default), warn/warning, error.
//
// # Output Format
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "reference table loaded",
//	    "module": "mealwised",
//	    "version": "v1.0.0",
//	    "foods": 24
//	}
package logging
