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

// Package food holds the nutrition reference table.
//
// A [Table] is loaded once at startup from a CSV file, a YAML or JSON
// document, or the embedded default data set, and is then shared read-only
// by every request. Lookups are case-insensitive and ignore diacritics and
// punctuation, see [NormalizeName].
//
// CSV files carry a header row. The name and unit columns are required;
// grams (grams per unit) and aliases (separated by "|") are optional. Every
// other column is a nutrient amount per unit. An empty nutrient cell means
// the food does not carry that nutrient.
//
//	name,unit,grams,aliases,calories,protein
//	chapati,piece,40,roti|phulka,120,3.1
//
// Documents use the same fields:
//
//	kind: ReferenceTable
//	apiVersion: mealwise.dev/v1alpha1
//	foods:
//	  - name: chapati
//	    unit: piece
//	    grams: 40
//	    aliases: [roti]
//	    nutrients:
//	      calories: 120
//
// Any malformed row fails the whole load with an INVALID_DATA error.
package food
