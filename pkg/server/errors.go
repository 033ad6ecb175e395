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

package server

import (
	"errors"
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"
	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/serializer"
)

// ErrorResponse is the JSON body of every error.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes an ErrorResponse with the given status.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code mwerrors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID := RequestID(r.Context())
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr writes err, using its StructuredError code, message
// and context when present. Other errors become INTERNAL with
// fallbackMessage. The cause, if any, is reported under details["error"].
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string, extraDetails map[string]any) {
	var se *mwerrors.StructuredError
	if errors.As(err, &se) {
		details := mergeDetails(se.Context, extraDetails)
		if se.Cause != nil {
			if details == nil {
				details = make(map[string]any)
			}
			details["error"] = se.Cause.Error()
		}
		WriteError(w, r, HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
		return
	}

	details := mergeDetails(nil, extraDetails)
	if err != nil {
		if details == nil {
			details = make(map[string]any)
		}
		details["error"] = err.Error()
	}
	WriteError(w, r, http.StatusInternalServerError, mwerrors.ErrCodeInternal, fallbackMessage, true, details)
}

// HTTPStatusFromCode maps an error code to an HTTP status.
func HTTPStatusFromCode(code mwerrors.ErrorCode) int {
	switch code {
	case mwerrors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case mwerrors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case mwerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case mwerrors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case mwerrors.ErrCodeInvalidData:
		return http.StatusUnprocessableEntity
	case mwerrors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case mwerrors.ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	case mwerrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case mwerrors.ErrCodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func retryableFromCode(code mwerrors.ErrorCode) bool {
	switch code {
	case mwerrors.ErrCodeTimeout, mwerrors.ErrCodeUnavailable, mwerrors.ErrCodeRateLimitExceeded, mwerrors.ErrCodeInternal:
		return true
	default:
		return false
	}
}

// mergeDetails returns a new map with b's entries over a's, or nil when
// both are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}
