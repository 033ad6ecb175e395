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

// Package evaluator turns resolved meal items into nutrient totals and
// rule-based recommendations.
//
// Thresholds are an ordered list of nutrients, each with a balanced range
// [min, max]. A total below min is Deficient, above max is Excessive and
// anything else is Balanced. Messages are rendered from text/template
// strings that can be replaced per threshold file:
//
//	kind: Thresholds
//	messages:
//	  deficient: "Not enough {{.Label}} ({{qty .Total .Unit}})"
//	nutrients:
//	  - name: protein
//	    min: 50
//	    max: 100
//	    unit: g
//	    suggestions:
//	      deficient: Add a protein source.
//
// Template data carries Nutrient, Label, Status, Total, Min, Max and Unit;
// the helpers num, qty and title are available.
package evaluator
