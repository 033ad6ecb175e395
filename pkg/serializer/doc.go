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

// Package serializer encodes and decodes mealwise documents.
//
// Three output formats are supported:
//   - JSON: machine-readable structured data with indentation
//   - YAML: human-readable documents, the same shape as the data files
//   - Table: aligned columns for terminals
//
// Values that implement [Tabular] render as a column table; anything else
// is flattened into FIELD/VALUE rows.
//
// Usage:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatYAML, path)
//	defer w.Close()
//	if err := w.Serialize(ctx, analysis); err != nil {
//		return err
//	}
//
// Loading typed documents from a local path or an http(s) URL:
//
//	th, err := serializer.FromFile[evaluator.Thresholds](ctx, "thresholds.yaml")
//
// For HTTP responses:
//
//	serializer.RespondJSON(w, http.StatusOK, data)
package serializer

import "context"

// Serializer writes a value in some output format.
type Serializer interface {
	Serialize(ctx context.Context, v any) error
}

// Closer is implemented by serializers that hold resources such as files.
type Closer interface {
	Close() error
}

// Tabular is implemented by values that know how to lay themselves out as
// a table. Every row must have len(headers) cells.
type Tabular interface {
	TableHeaders() []string
	TableRows() [][]string
}
