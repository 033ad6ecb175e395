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

package matcher

import "github.com/mealwise/mealwise/pkg/food"

// MatchKind records which rule resolved a mention.
type MatchKind string

const (
	MatchNone      MatchKind = "none"
	MatchExact     MatchKind = "exact"
	MatchAlias     MatchKind = "alias"
	MatchPlural    MatchKind = "plural"
	MatchSubstring MatchKind = "substring"
	MatchFuzzy     MatchKind = "fuzzy"
)

// MealItem is one mention of a food in a meal.
type MealItem struct {
	// Raw is the mention as written, trimmed.
	Raw string
	// Food is the matched reference food, nil when unresolved.
	Food *food.ReferenceFood
	// Quantity is the amount in Food's reference units. For unresolved
	// mentions it is the parsed count, or 0 when the written quantity was
	// zero or beyond MaxQuantity.
	Quantity float64
	// Unit is the canonical unit written in the mention, if any.
	Unit string
	// Match is the rule that resolved the mention.
	Match MatchKind
	// Confidence is 1 for exact and alias matches and lower for looser rules.
	Confidence float64
}

// Resolved reports whether the mention matched a reference food.
func (m MealItem) Resolved() bool {
	return m.Food != nil
}

// FoodName returns the matched food's name, or "" when unresolved.
func (m MealItem) FoodName() string {
	if m.Food == nil {
		return ""
	}
	return m.Food.Name
}
