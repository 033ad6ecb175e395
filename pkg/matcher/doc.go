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

// Package matcher resolves free-text meal descriptions into quantities of
// reference foods.
//
// Text is split into mentions on commas, semicolons, newlines, "&" and the
// whole words "and" and "plus". Each mention may start with a quantity
// ("2", "1.5", "1/2", "1 1/2", "two", "half a") and a unit ("cup", "g",
// "bowl", ...) followed by an optional "of". The rest is matched against
// the table, first hit wins:
//
//  1. exact name
//  2. alias
//  3. plural form ("chapatis" -> "chapati") via suffix rules
//  4. longest table name contained in the mention as whole words
//  5. closest name by Levenshtein similarity at or above the fuzzy cutoff
//
// A mention that matches nothing is returned unresolved with its raw text;
// resolution never fails.
//
//	items := matcher.ResolveMeal("2 chapatis, dal and a bowl of salad", table)
package matcher
