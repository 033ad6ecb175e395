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
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `name,unit,grams,aliases,calories,protein,vitamin_c
# comment lines are skipped
chapati,piece,40,roti|phulka,120,3.1,
dal,serving,200,,150,9,2
salad,serving,,,50,2,20
`

func TestParseCSV_RoundTrip(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, "sample.csv", tbl.Source())
	assert.Equal(t, []string{"calories", "protein", "vitamin_c"}, tbl.NutrientNames())

	f, ok := tbl.Lookup("chapati")
	require.True(t, ok)
	assert.Equal(t, "piece", f.Unit)
	assert.Equal(t, 40.0, f.Grams)
	assert.Equal(t, []string{"roti", "phulka"}, f.Aliases)

	cal, ok := f.Nutrient("calories")
	assert.True(t, ok)
	assert.Equal(t, 120.0, cal)

	_, ok = f.Nutrient("vitamin_c")
	assert.False(t, ok, "empty cell means the nutrient is absent")

	alias, ok := tbl.LookupAlias("Roti")
	require.True(t, ok)
	assert.Same(t, f, alias)
}

func TestParseCSV_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		csv    string
		column string
		row    int
	}{
		{
			name:   "non-numeric nutrient",
			csv:    "name,unit,protein\nchapati,piece,lots\n",
			column: "protein",
			row:    2,
		},
		{
			name:   "negative nutrient",
			csv:    "name,unit,fat\nchapati,piece,1\ndal,serving,-3\n",
			column: "fat",
			row:    3,
		},
		{
			name:   "missing name",
			csv:    "name,unit,fat\n,piece,1\n",
			column: "name",
			row:    2,
		},
		{
			name:   "missing unit",
			csv:    "name,unit,fat\nchapati,,1\n",
			column: "unit",
			row:    2,
		},
		{
			name:   "duplicate name ignores case",
			csv:    "name,unit,fat\nDal,serving,1\ndal,serving,2\n",
			column: "name",
			row:    3,
		},
		{
			name:   "bad grams",
			csv:    "name,unit,grams\nchapati,piece,forty\n",
			column: "grams",
			row:    2,
		},
		{
			name:   "missing unit column",
			csv:    "name,fat\nchapati,1\n",
			column: "unit",
			row:    1,
		},
		{
			name:   "duplicate column",
			csv:    "name,unit,fat,FAT\nchapati,piece,1,2\n",
			column: "fat",
			row:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.csv), "bad.csv")
			require.Error(t, err)

			var se *mwerrors.StructuredError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, mwerrors.ErrCodeInvalidData, se.Code)
			assert.Equal(t, tt.column, se.Context["column"])
			assert.Equal(t, tt.row, se.Context["row"])
			assert.Equal(t, "bad.csv", se.Context["source"])
		})
	}
}

func TestParseCSV_Structure(t *testing.T) {
	for name, input := range map[string]string{
		"empty":         "",
		"header only":   "name,unit,fat\n",
		"ragged row":    "name,unit,fat\nchapati,piece\n",
		"unterminated":  "name,unit\n\"chapati,piece\n",
		"alias is name": "name,unit,aliases\nroti,piece,\nchapati,piece,roti\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(input), "x.csv")
			require.Error(t, err)
			assert.Equal(t, mwerrors.ErrCodeInvalidData, mwerrors.CodeOf(err))
		})
	}
}

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable([]Entry{{Name: "x", Unit: "g", Nutrients: map[string]float64{"fat": -1}}}, "t")
	assert.Error(t, err)

	_, err = NewTable([]Entry{
		{Name: "a", Unit: "piece", Aliases: []string{"z"}},
		{Name: "b", Unit: "piece", Aliases: []string{"Z"}},
	}, "t")
	assert.Error(t, err, "duplicate alias")

	_, err = NewTable([]Entry{
		{Name: "a", Unit: "piece", Nutrients: map[string]float64{"Fat": 1, "fat": 2}},
	}, "t")
	assert.Error(t, err, "duplicate nutrient after folding")

	tbl, err := NewTable([]Entry{{Name: "  Rice ", Unit: "100g", Nutrients: map[string]float64{" Calories ": 130}}}, "t")
	require.NoError(t, err)
	f, ok := tbl.Lookup("rice")
	require.True(t, ok)
	assert.Equal(t, "Rice", f.Name)
	assert.Equal(t, 100.0, f.Grams, "grams derived from a mass unit")
	v, _ := f.Nutrient("calories")
	assert.Equal(t, 130.0, v)
}

func TestReferenceFood_Immutable(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)

	f, ok := tbl.Lookup("dal")
	require.True(t, ok)

	n := f.Nutrients()
	n["calories"] = 9999
	v, _ := f.Nutrient("calories")
	assert.Equal(t, 150.0, v)

	foods := tbl.Foods()
	foods[0] = nil
	assert.NotNil(t, tbl.Foods()[0])
}

func TestDefault(t *testing.T) {
	tbl, err := Default()
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, tbl.Source())

	again, err := Default()
	require.NoError(t, err)
	assert.Same(t, tbl, again)

	expected := map[string]float64{"chapati": 120, "dal": 150, "salad": 50}
	for name, cal := range expected {
		f, ok := tbl.Lookup(name)
		require.True(t, ok, name)
		got, _ := f.Nutrient("calories")
		assert.Equal(t, cal, got, name)
	}

	f, ok := tbl.Lookup("Creme Brulee")
	require.True(t, ok, "diacritics are folded")
	assert.Equal(t, "crème brûlée", f.Name)

	for _, n := range []string{"calories", "protein", "carbs", "fat", "fiber", "vitamin_c"} {
		assert.Contains(t, tbl.NutrientNames(), n)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	csvPath := filepath.Join(dir, "foods.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(sampleCSV), 0o600))
	tbl, err := Load(ctx, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 3, tbl.Len())

	yamlPath := filepath.Join(dir, "foods.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte(`kind: ReferenceTable
foods:
  - name: idli
    unit: piece
    nutrients: {calories: 58}
`), 0o600))
	tbl, err = Load(ctx, yamlPath)
	require.NoError(t, err)
	_, ok := tbl.Lookup("IDLI")
	assert.True(t, ok)

	jsonPath := filepath.Join(dir, "foods.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"foods":[{"name":"tea","unit":"cup","nutrients":{"calories":30}}]}`), 0o600))
	tbl, err = Load(ctx, jsonPath)
	require.NoError(t, err)
	assert.Equal(t, 1, tbl.Len())

	_, err = Load(ctx, filepath.Join(dir, "missing.csv"))
	assert.Equal(t, mwerrors.ErrCodeNotFound, mwerrors.CodeOf(err))

	wrongKind := filepath.Join(dir, "th.yaml")
	require.NoError(t, os.WriteFile(wrongKind, []byte("kind: Thresholds\nfoods: []\n"), 0o600))
	_, err = Load(ctx, wrongKind)
	assert.Equal(t, mwerrors.ErrCodeInvalidData, mwerrors.CodeOf(err))

	nonNumeric := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(nonNumeric, []byte("foods:\n  - name: x\n    unit: g\n    nutrients: {fat: lots}\n"), 0o600))
	_, err = Load(ctx, nonNumeric)
	assert.Equal(t, mwerrors.ErrCodeInvalidData, mwerrors.CodeOf(err))

	def, err := LoadOrDefault(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, def.Source())
}

func TestDocument_Table(t *testing.T) {
	tbl, err := ParseCSV(strings.NewReader(sampleCSV), "sample.csv")
	require.NoError(t, err)

	doc := tbl.Document()
	assert.Equal(t, "ReferenceTable", doc.Kind.String())
	assert.Equal(t, "sample.csv", doc.Metadata["source"])
	assert.Equal(t, []string{"NAME", "UNIT", "GRAMS", "calories", "protein", "vitamin_c"}, doc.TableHeaders())

	rows := doc.TableRows()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"chapati", "piece", "40", "120", "3.1", "-"}, rows[0])
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chapati", "chapati"},
		{"  Crème   Brûlée! ", "creme brulee"},
		{"shepherd's pie", "shepherd s pie"},
		{"dal-tadka", "dal tadka"},
		{"...", ""},
		{"Jalapeño", "jalapeno"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestMassOfUnit(t *testing.T) {
	tests := map[string]float64{
		"100g":  100,
		"1 kg":  1000,
		"g":     1,
		"piece": 0,
		"cup":   0,
		"xg":    0,
	}
	for in, want := range tests {
		assert.Equal(t, want, massOfUnit(in), in)
	}
}
