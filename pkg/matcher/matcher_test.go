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

import (
	"strings"
	"sync"
	"testing"

	"github.com/mealwise/mealwise/pkg/food"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTable(t *testing.T) *food.Table {
	t.Helper()
	tbl, err := food.Default()
	require.NoError(t, err)
	return tbl
}

func TestResolveMeal_Scenario(t *testing.T) {
	items := ResolveMeal("2 chapatis, dal, salad", defaultTable(t))
	require.Len(t, items, 3)

	want := []struct {
		food     string
		quantity float64
		match    MatchKind
	}{
		{"chapati", 2, MatchPlural},
		{"dal", 1, MatchExact},
		{"salad", 1, MatchExact},
	}
	for i, w := range want {
		assert.True(t, items[i].Resolved(), items[i].Raw)
		assert.Equal(t, w.food, items[i].FoodName())
		assert.Equal(t, w.quantity, items[i].Quantity)
		assert.Equal(t, w.match, items[i].Match)
	}
	assert.Equal(t, "2 chapatis", items[0].Raw)
}

func TestResolveMeal_Unresolved(t *testing.T) {
	items := ResolveMeal("xyz123food", defaultTable(t))
	require.Len(t, items, 1)
	assert.False(t, items[0].Resolved())
	assert.Nil(t, items[0].Food)
	assert.Equal(t, "xyz123food", items[0].Raw)
	assert.Equal(t, MatchNone, items[0].Match)
	assert.Equal(t, 1.0, items[0].Quantity)
	assert.Empty(t, items[0].FoodName())
}

func TestResolveMeal_Empty(t *testing.T) {
	tbl := defaultTable(t)
	for _, in := range []string{"", "   ", " , ; \n and & plus "} {
		items := ResolveMeal(in, tbl)
		assert.NotNil(t, items)
		assert.Empty(t, items, "%q", in)
	}
}

func TestResolveMeal_Quantities(t *testing.T) {
	tests := []struct {
		in       string
		food     string
		quantity float64
		unit     string
	}{
		{"1 cup rice", "rice", 2.4, "cup"},
		{"200g dal", "dal", 1, "g"},
		{"200 grams of dal", "dal", 1, "g"},
		{"a bowl of dal", "dal", 1.25, "bowl"},
		{"1 1/2 cups of rice", "rice", 3.6, "cup"},
		{"1/2 cup rice", "rice", 1.2, "cup"},
		{"0.5 kg paneer", "paneer", 5, "kg"},
		{"half an apple", "apple", 0.5, ""},
		{"half a glass of milk", "milk", 0.5, "glass"},
		{"an orange", "orange", 1, ""},
		{"two dozen eggs", "egg", 24, ""},
		{"3 potatoes", "potato", 3, ""},
		{"2 slices bread", "bread", 2, "slice"},
		{"2 slices of paneer", "paneer", 0.6, "slice"},
		{"2 pieces chapati", "chapati", 2, "piece"},
		{"1 glass milk", "milk", 1, "glass"},
		{"Three Idlis", "idli", 3, ""},
	}

	tbl := defaultTable(t)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			items := ResolveMeal(tt.in, tbl)
			require.Len(t, items, 1)
			assert.Equal(t, tt.food, items[0].FoodName())
			assert.InDelta(t, tt.quantity, items[0].Quantity, 1e-9)
			assert.Equal(t, tt.unit, items[0].Unit)
		})
	}
}

func TestResolveMeal_QuantityOutOfRange(t *testing.T) {
	tbl := defaultTable(t)
	huge := strings.Repeat("9", 308)

	tests := []struct {
		name string
		in   string
	}{
		{"zero", "0 chapati"},
		{"zero decimal", "0.0 eggs"},
		{"zero attached unit", "0g dal"},
		{"zero fraction", "0/2 cup rice"},
		{"above max", "2000000 eggs"},
		{"overflow", huge + " eggs"},
		{"overflow fraction", huge + "/1 eggs"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := ResolveMeal(tt.in, tbl)
			require.Len(t, items, 1)
			assert.False(t, items[0].Resolved())
			assert.Equal(t, tt.in, items[0].Raw)
			assert.Zero(t, items[0].Quantity)
			assert.Equal(t, MatchNone, items[0].Match)
		})
	}

	items := ResolveMeal("1000000 g rice", tbl)
	require.Len(t, items, 1)
	assert.True(t, items[0].Resolved(), "the maximum itself is accepted")
}

func TestResolveMeal_NamesStartingWithUnitWords(t *testing.T) {
	tbl, err := food.NewTable([]food.Entry{
		{Name: "glass noodles", Unit: "100g", Nutrients: map[string]float64{"calories": 350}},
		{Name: "cup cake", Unit: "piece", Grams: 60, Nutrients: map[string]float64{"calories": 220}},
		{Name: "plate lunch", Unit: "plate", Nutrients: map[string]float64{"calories": 800}},
		{Name: "half moon pie", Unit: "piece", Nutrients: map[string]float64{"calories": 300}},
		{Name: "milk", Unit: "cup", Grams: 240, Nutrients: map[string]float64{"calories": 150}},
	}, "test")
	require.NoError(t, err)

	tests := []struct {
		in       string
		food     string
		quantity float64
		unit     string
		match    MatchKind
	}{
		{"glass noodles", "glass noodles", 1, "", MatchExact},
		{"Cup Cake", "cup cake", 1, "", MatchExact},
		{"cup cakes", "cup cake", 1, "", MatchPlural},
		{"2 cup cake", "cup cake", 2, "", MatchExact},
		{"3 cup cakes", "cup cake", 3, "", MatchPlural},
		{"plate lunch", "plate lunch", 1, "", MatchExact},
		{"half moon pie", "half moon pie", 1, "", MatchExact},
		{"2 half moon pies", "half moon pie", 2, "", MatchPlural},
		{"a glass of milk", "milk", 250.0 / 240, "glass", MatchExact},
		{"glass of milk", "milk", 250.0 / 240, "glass", MatchExact},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			items := ResolveMeal(tt.in, tbl)
			require.Len(t, items, 1)
			assert.Equal(t, tt.food, items[0].FoodName())
			assert.InDelta(t, tt.quantity, items[0].Quantity, 1e-9)
			assert.Equal(t, tt.unit, items[0].Unit)
			assert.Equal(t, tt.match, items[0].Match)
		})
	}
}

func TestResolveMeal_MatchPolicy(t *testing.T) {
	tests := []struct {
		in    string
		food  string
		match MatchKind
	}{
		{"Chapati", "chapati", MatchExact},
		{"CRÈME BRÛLÉE", "crème brûlée", MatchExact},
		{"creme brulee", "crème brûlée", MatchExact},
		{"roti", "chapati", MatchAlias},
		{"dahi", "yogurt", MatchAlias},
		{"rotis", "chapati", MatchPlural},
		{"boiled eggs", "egg", MatchPlural},
		{"spicy mango chapatis", "chapati", MatchSubstring},
		{"grilled chicken with mint sauce", "chicken breast", MatchSubstring},
		{"nan bread", "bread", MatchSubstring},
		{"fried rice", "rice", MatchSubstring},
		{"chapatti", "chapati", MatchFuzzy},
		{"bananna", "banana", MatchFuzzy},
	}

	tbl := defaultTable(t)
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			items := ResolveMeal(tt.in, tbl)
			require.Len(t, items, 1)
			assert.Equal(t, tt.food, items[0].FoodName())
			assert.Equal(t, tt.match, items[0].Match)
			assert.Greater(t, items[0].Confidence, 0.0)
			assert.LessOrEqual(t, items[0].Confidence, 1.0)
		})
	}
}

func TestResolveMeal_Options(t *testing.T) {
	tbl := defaultTable(t)

	items := ResolveMeal("chapatti", tbl, WithFuzzyCutoff(0))
	assert.False(t, items[0].Resolved(), "cutoff 0 disables fuzzy matching")

	items = ResolveMeal("chapatti", tbl, WithFuzzyCutoff(0.95))
	assert.False(t, items[0].Resolved())

	items = ResolveMeal("chapatti", tbl)
	assert.InDelta(t, 0.875, items[0].Confidence, 1e-9)

	items = ResolveMeal("bananas", tbl, WithPluralRules(nil), WithFuzzyCutoff(0))
	assert.False(t, items[0].Resolved(), "no plural rules")

	items = ResolveMeal("bananaz", tbl, WithPluralRules([]PluralRule{{Suffix: "z"}}), WithFuzzyCutoff(0))
	assert.Equal(t, "banana", items[0].FoodName())
	assert.Equal(t, MatchPlural, items[0].Match)
}

func TestResolveMeal_TokenCount(t *testing.T) {
	inputs := []string{
		"2 chapatis, dal, salad",
		"bananas and apples & oranges plus tea",
		"rice; dal\nsalad, xyz123food",
		"a, , b,,c",
		"sandwich",
		"andhra curry and rice",
	}

	tbl := defaultTable(t)
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			mentions := Split(in)
			items := ResolveMeal(in, tbl)
			require.Len(t, items, len(mentions))
			for i := range items {
				assert.Equal(t, mentions[i], items[i].Raw)
				assert.Greater(t, items[i].Quantity, 0.0)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	assert.Equal(t, []string{"bananas", "apples", "oranges", "tea"}, Split("bananas and apples & oranges plus tea"))
	assert.Equal(t, []string{"sandwich"}, Split("sandwich"))
	assert.Equal(t, []string{"andhra curry", "rice"}, Split("andhra curry AND rice"))
	assert.Equal(t, []string{"rice", "dal", "salad"}, Split("rice;\ndal\n\nsalad"))
}

func TestResolve_Deterministic(t *testing.T) {
	m := New(defaultTable(t))
	text := "2 chapatis, 1 cup rice, chapatti, xyz123food"

	first := m.Resolve(text)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, m.Resolve(text))
		}()
	}
	wg.Wait()
}

func TestResolve_NilTable(t *testing.T) {
	items := New(nil).Resolve("dal, rice")
	require.Len(t, items, 2)
	for _, it := range items {
		assert.False(t, it.Resolved())
	}
}

func TestParseMention(t *testing.T) {
	tests := []struct {
		in      string
		qty     float64
		hasUnit bool
		named   string
		text    string
		invalid bool
	}{
		{"dal", 1, false, "dal", "dal", false},
		{"2 cups", 2, false, "cups", "cups", false},
		{"100g", 100, true, "", "", false},
		{"a", 1, false, "a", "a", false},
		{"2 1/2", 2.5, false, "", "", false},
		{"3/0 rice", 1, false, "3/0 rice", "3/0 rice", false},
		{"cup of tea", 1, true, "cup of tea", "tea", false},
		{"1.5 bowls of dal", 1.5, true, "bowls of dal", "dal", false},
		{"2 cup cake", 2, true, "cup cake", "cake", false},
		{"nan", 1, false, "nan", "nan", false},
		{"0 eggs", 0, false, "eggs", "eggs", true},
		{"1000001 eggs", 1000001, false, "eggs", "eggs", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m := parseMention(tt.in)
			assert.Equal(t, tt.qty, m.quantity)
			assert.Equal(t, tt.hasUnit, m.hasUnit)
			assert.Equal(t, tt.named, m.named)
			assert.Equal(t, tt.text, m.text)
			assert.Equal(t, tt.invalid, m.invalid)
		})
	}
}

func TestParsePluralRules(t *testing.T) {
	rules, err := ParsePluralRules("ies=y, ES= ,s=")
	require.NoError(t, err)
	assert.Equal(t, []PluralRule{{"ies", "y"}, {"es", ""}, {"s", ""}}, rules)

	rules, err = ParsePluralRules("")
	require.NoError(t, err)
	assert.Empty(t, rules)

	rules, err = ParsePluralRules("None")
	require.NoError(t, err)
	assert.NotNil(t, rules)
	assert.Empty(t, rules)

	items := ResolveMeal("3 potatoes", defaultTable(t), WithPluralRules(rules), WithFuzzyCutoff(0))
	require.Len(t, items, 1)
	assert.False(t, items[0].Resolved())

	_, err = ParsePluralRules("ies")
	assert.Error(t, err)
	_, err = ParsePluralRules("=y")
	assert.Error(t, err)
}

func TestSingulars(t *testing.T) {
	assert.Equal(t, []string{"berry", "berri", "berrie"}, singulars("berries", DefaultPluralRules))
	assert.Equal(t, []string{"potato", "potato", "potatoe"}, singulars("potatoes", DefaultPluralRules))
	assert.Empty(t, singulars("s", DefaultPluralRules))
	assert.Empty(t, singulars("dal", DefaultPluralRules))
}
