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

package food

import (
	"maps"
	"slices"
)

// ReferenceFood is one row of the reference table. Nutrient amounts are
// per Unit and cannot be changed after the table is built.
type ReferenceFood struct {
	// Name is the display name and the lookup key.
	Name string
	// Unit is the reference unit, such as "piece" or "100g".
	Unit string
	// Grams is the mass of one Unit, or zero when unknown.
	Grams float64
	// Aliases are alternate names that resolve to this food.
	Aliases []string

	nutrients map[string]float64
}

// Nutrient returns the amount of n per unit and whether the food carries it.
func (f *ReferenceFood) Nutrient(n string) (float64, bool) {
	v, ok := f.nutrients[n]
	return v, ok
}

// Nutrients returns a copy of the per-unit nutrient amounts.
func (f *ReferenceFood) Nutrients() map[string]float64 {
	return maps.Clone(f.nutrients)
}

// NutrientNames returns the nutrients the food carries, sorted.
func (f *ReferenceFood) NutrientNames() []string {
	return slices.Sorted(maps.Keys(f.nutrients))
}

// Entry returns the serializable form of f.
func (f *ReferenceFood) Entry() Entry {
	return Entry{
		Name:      f.Name,
		Unit:      f.Unit,
		Grams:     f.Grams,
		Aliases:   slices.Clone(f.Aliases),
		Nutrients: f.Nutrients(),
	}
}

// Entry is the document form of a reference food.
type Entry struct {
	Name      string             `json:"name" yaml:"name"`
	Unit      string             `json:"unit" yaml:"unit"`
	Grams     float64            `json:"grams,omitempty" yaml:"grams,omitempty"`
	Aliases   []string           `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Nutrients map[string]float64 `json:"nutrients" yaml:"nutrients"`
}
