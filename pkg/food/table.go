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
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/header"
)

// Table is the read-only nutrition reference table. It is safe for
// concurrent use once built.
type Table struct {
	source    string
	foods     []*ReferenceFood
	byName    map[string]*ReferenceFood
	byAlias   map[string]*ReferenceFood
	keys      []Key
	nutrients []string
}

// Document is the YAML/JSON form of a reference table.
type Document struct {
	header.Header `json:",inline" yaml:",inline"`

	Foods []Entry `json:"foods" yaml:"foods"`
}

// NewTable validates entries and builds a Table. Names and aliases must be
// unique after normalization, every entry needs a name and a unit, and
// nutrient amounts must be finite and non-negative. source is used in
// error context and logs.
func NewTable(entries []Entry, source string) (*Table, error) {
	return buildTable(entries, nil, source)
}

// buildTable is NewTable with explicit row numbers for error context,
// used when rows come from a file with a header line.
func buildTable(entries []Entry, rows []int, source string) (*Table, error) {
	if len(entries) == 0 {
		return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData, "reference table has no foods",
			map[string]any{"source": source})
	}

	t := &Table{
		source:  source,
		foods:   make([]*ReferenceFood, 0, len(entries)),
		byName:  make(map[string]*ReferenceFood, len(entries)),
		byAlias: make(map[string]*ReferenceFood),
	}
	seen := make(map[string]struct{})

	for i, e := range entries {
		row := i + 1
		if rows != nil {
			row = rows[i]
		}
		f, err := newReferenceFood(e, row, source)
		if err != nil {
			return nil, err
		}

		key := NormalizeName(f.Name)
		if _, dup := t.byName[key]; dup {
			return nil, invalid("duplicate food name", row, "name", f.Name, source)
		}
		if _, dup := t.byAlias[key]; dup {
			return nil, invalid("food name already used as an alias", row, "name", f.Name, source)
		}
		t.byName[key] = f
		t.keys = append(t.keys, Key{Text: key, Food: f})

		for _, a := range f.Aliases {
			ak := NormalizeName(a)
			if ak == "" {
				return nil, invalid("empty alias", row, "aliases", a, source)
			}
			if _, dup := t.byName[ak]; dup {
				return nil, invalid("alias collides with a food name", row, "aliases", a, source)
			}
			if _, dup := t.byAlias[ak]; dup {
				return nil, invalid("duplicate alias", row, "aliases", a, source)
			}
			t.byAlias[ak] = f
			t.keys = append(t.keys, Key{Text: ak, Food: f, Alias: true})
		}

		for n := range f.nutrients {
			seen[n] = struct{}{}
		}
		t.foods = append(t.foods, f)
	}

	t.nutrients = slices.Sorted(maps.Keys(seen))
	return t, nil
}

func newReferenceFood(e Entry, row int, source string) (*ReferenceFood, error) {
	name := strings.TrimSpace(e.Name)
	if NormalizeName(name) == "" {
		return nil, invalid("missing food name", row, "name", e.Name, source)
	}
	unit := strings.TrimSpace(e.Unit)
	if unit == "" {
		return nil, invalid("missing unit", row, "unit", e.Unit, source)
	}
	if e.Grams < 0 || math.IsNaN(e.Grams) || math.IsInf(e.Grams, 0) {
		return nil, invalid("grams must be a non-negative number", row, "grams", e.Grams, source)
	}

	grams := e.Grams
	if grams == 0 {
		grams = massOfUnit(unit)
	}

	nutrients := make(map[string]float64, len(e.Nutrients))
	for n, v := range e.Nutrients {
		key := NutrientKey(n)
		if key == "" {
			return nil, invalid("empty nutrient name", row, "nutrients", n, source)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, invalid("nutrient amount is not a number", row, key, v, source)
		}
		if v < 0 {
			return nil, invalid("nutrient amount is negative", row, key, v, source)
		}
		if _, dup := nutrients[key]; dup {
			return nil, invalid("duplicate nutrient", row, key, v, source)
		}
		nutrients[key] = v
	}

	aliases := make([]string, 0, len(e.Aliases))
	for _, a := range e.Aliases {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}

	return &ReferenceFood{
		Name:      name,
		Unit:      unit,
		Grams:     grams,
		Aliases:   aliases,
		nutrients: nutrients,
	}, nil
}

// NutrientKey folds a nutrient name to its canonical key.
func NutrientKey(n string) string {
	return strings.ToLower(strings.TrimSpace(n))
}

// massOfUnit returns the grams in a mass unit such as "100g" or "1 kg",
// or zero for anything else.
func massOfUnit(unit string) float64 {
	u := strings.ToLower(strings.ReplaceAll(unit, " ", ""))
	factor := 1.0
	switch {
	case strings.HasSuffix(u, "kg"):
		factor, u = 1000, strings.TrimSuffix(u, "kg")
	case strings.HasSuffix(u, "g"):
		u = strings.TrimSuffix(u, "g")
	default:
		return 0
	}
	if u == "" {
		return factor
	}
	v, err := strconv.ParseFloat(u, 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v * factor
}

func invalid(msg string, row int, column string, value any, source string) error {
	ctx := map[string]any{
		"column": column,
		"value":  fmt.Sprint(value),
		"source": source,
	}
	if row > 0 {
		ctx["row"] = row
	}
	return mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData, msg, ctx)
}

// Source names where the table was loaded from.
func (t *Table) Source() string {
	return t.source
}

// Len returns the number of foods.
func (t *Table) Len() int {
	return len(t.foods)
}

// Foods returns the foods in load order.
func (t *Table) Foods() []*ReferenceFood {
	return slices.Clone(t.foods)
}

// NutrientNames returns every nutrient carried by at least one food, sorted.
func (t *Table) NutrientNames() []string {
	return slices.Clone(t.nutrients)
}

// Lookup finds a food by name. name is normalized first.
func (t *Table) Lookup(name string) (*ReferenceFood, bool) {
	f, ok := t.byName[NormalizeName(name)]
	return f, ok
}

// LookupAlias finds a food by one of its aliases.
func (t *Table) LookupAlias(alias string) (*ReferenceFood, bool) {
	f, ok := t.byAlias[NormalizeName(alias)]
	return f, ok
}

// Keys returns every normalized name and alias with its food, for callers
// that scan the table (substring and fuzzy matching). Order is load order,
// names before aliases for each food.
func (t *Table) Keys() []Key {
	return slices.Clone(t.keys)
}

// Key is one searchable string of the table.
type Key struct {
	Text  string
	Food  *ReferenceFood
	Alias bool
}

// Document returns the table as a serializable document.
func (t *Table) Document() *Document {
	doc := &Document{Foods: make([]Entry, 0, len(t.foods))}
	doc.Init(header.KindReferenceTable, header.APIVersion, "")
	doc.Metadata["source"] = t.source
	for _, f := range t.foods {
		doc.Foods = append(doc.Foods, f.Entry())
	}
	return doc
}

// TableHeaders lists the columns for table output.
func (d *Document) TableHeaders() []string {
	return append([]string{"NAME", "UNIT", "GRAMS"}, nutrientColumns(d.Foods)...)
}

// TableRows renders one row per food.
func (d *Document) TableRows() [][]string {
	cols := nutrientColumns(d.Foods)
	rows := make([][]string, 0, len(d.Foods))
	for _, e := range d.Foods {
		row := []string{e.Name, e.Unit, formatAmount(e.Grams)}
		for _, c := range cols {
			if v, ok := e.Nutrients[c]; ok {
				row = append(row, formatAmount(v))
			} else {
				row = append(row, "-")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func nutrientColumns(entries []Entry) []string {
	set := make(map[string]struct{})
	for _, e := range entries {
		for n := range e.Nutrients {
			set[n] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(set))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
