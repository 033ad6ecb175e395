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

package analyzer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/mealwise/mealwise/pkg/defaults"
	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/serializer"
	"github.com/mealwise/mealwise/pkg/server"
)

// Request is the POST body accepted by the analyze and resolve endpoints.
type Request struct {
	Meal string `json:"meal" yaml:"meal"`
}

// HandleAnalyze serves /v1/analyze.
func (a *Analyzer) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	meal, ok := readMeal(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.AnalyzeHandlerTimeout)
	defer cancel()

	report, err := a.Analyze(ctx, meal)
	if err != nil {
		slog.Error("analysis failed", "error", err, "requestID", server.RequestID(r.Context()))
		server.WriteErrorFromErr(w, r, err, "Failed to analyze meal", nil)
		return
	}

	respond(w, r, report)
}

// HandleResolve serves /v1/resolve.
func (a *Analyzer) HandleResolve(w http.ResponseWriter, r *http.Request) {
	meal, ok := readMeal(w, r)
	if !ok {
		return
	}

	res, err := a.Resolve(r.Context(), meal)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to resolve meal", nil)
		return
	}

	respond(w, r, res)
}

// HandleFoods serves /v1/foods.
func (a *Analyzer) HandleFoods(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	setCacheHeaders(w)
	respond(w, r, a.table.Document())
}

// HandleThresholds serves /v1/thresholds.
func (a *Analyzer) HandleThresholds(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	setCacheHeaders(w)
	respond(w, r, a.thresholds.Config())
}

// Handlers returns the routes served by the analyzer.
func (a *Analyzer) Handlers() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/analyze":    a.HandleAnalyze,
		"/v1/resolve":    a.HandleResolve,
		"/v1/foods":      a.HandleFoods,
		"/v1/thresholds": a.HandleThresholds,
	}
}

func allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	server.WriteError(w, r, http.StatusMethodNotAllowed, mwerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}

func setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(defaults.ReferenceCacheTTL.Seconds())))
}

// readMeal extracts the meal text from ?meal= on GET or the body on POST.
// It writes the error response itself and reports false on failure.
func readMeal(w http.ResponseWriter, r *http.Request) (string, bool) {
	var meal string

	switch r.Method {
	case http.MethodGet:
		meal = r.URL.Query().Get("meal")
	case http.MethodPost:
		body := http.MaxBytesReader(w, r.Body, defaults.MaxRequestBodyBytes)
		reader, err := serializer.NewReader(bodyFormat(r), body)
		if err != nil {
			server.WriteErrorFromErr(w, r, err, "Failed to read request", nil)
			return "", false
		}
		defer func() {
			if cerr := reader.Close(); cerr != nil {
				slog.Debug("failed to close request body", "error", cerr)
			}
		}()

		var req Request
		if err := reader.Deserialize(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				server.WriteError(w, r, http.StatusRequestEntityTooLarge, mwerrors.ErrCodeInvalidRequest,
					"Request body too large", false, map[string]any{"limit": tooLarge.Limit})
				return "", false
			}
			server.WriteError(w, r, http.StatusBadRequest, mwerrors.ErrCodeInvalidRequest,
				"Invalid request body", false, map[string]any{"error": err.Error()})
			return "", false
		}
		meal = req.Meal
	default:
		w.Header().Set("Allow", "GET, POST")
		server.WriteError(w, r, http.StatusMethodNotAllowed, mwerrors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return "", false
	}

	if strings.TrimSpace(meal) == "" {
		server.WriteError(w, r, http.StatusBadRequest, mwerrors.ErrCodeInvalidRequest,
			"Meal description is required", false, nil)
		return "", false
	}
	return meal, true
}

func bodyFormat(r *http.Request) serializer.Format {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && isYAML(mediaType) {
		return serializer.FormatYAML
	}
	return serializer.FormatJSON
}

func responseFormat(r *http.Request) serializer.Format {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "yaml", "yml":
		return serializer.FormatYAML
	case "json":
		return serializer.FormatJSON
	}
	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err == nil && isYAML(mediaType) {
			return serializer.FormatYAML
		}
	}
	return serializer.FormatJSON
}

func isYAML(mediaType string) bool {
	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return true
	default:
		return false
	}
}

func respond(w http.ResponseWriter, r *http.Request, v any) {
	if responseFormat(r) != serializer.FormatYAML {
		serializer.RespondJSON(w, http.StatusOK, v)
		return
	}

	var buf bytes.Buffer
	if err := serializer.NewWriter(serializer.FormatYAML, &buf).Serialize(r.Context(), v); err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to encode response", nil)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}
