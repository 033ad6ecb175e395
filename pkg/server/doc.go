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

// Package server is the HTTP server behind mealwised.
//
// A Server owns the listener, the middleware chain and the system routes.
// Feature handlers are passed in as a path to handler map:
//
//	s := server.New(
//		server.WithName("mealwised"),
//		server.WithVersion(version),
//		server.WithHandler(map[string]http.HandlerFunc{
//			"/v1/analyze": a.HandleAnalyze,
//		}),
//	)
//	err := s.Run(ctx)
//
// Every feature handler is wrapped, outermost first, with metrics, API
// version negotiation, request IDs, panic recovery, rate limiting and
// request logging. /health, /ready and /metrics bypass the chain. When no
// "/" handler is given, a route index is served there.
//
// Errors are written as JSON ErrorResponse bodies. WriteErrorFromErr maps
// structured error codes to HTTP statuses:
//
//	INVALID_REQUEST      400
//	UNAUTHORIZED         401
//	NOT_FOUND            404
//	METHOD_NOT_ALLOWED   405
//	INVALID_DATA         422
//	RATE_LIMIT_EXCEEDED  429
//	INTERNAL             500
//	SERVICE_UNAVAILABLE  503
//	TIMEOUT              504
//
// Configuration comes from NewConfig, which reads PORT and
// SHUTDOWN_TIMEOUT_SECONDS from the environment. Run stops gracefully on
// SIGINT or SIGTERM.
package server
