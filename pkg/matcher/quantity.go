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
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// unit is a measure written in a mention. grams is zero for count units.
type unit struct {
	name  string
	grams float64
}

var units = map[string]unit{}

func init() {
	for _, u := range []struct {
		name      string
		grams     float64
		spellings []string
	}{
		{"g", 1, []string{"g", "gm", "gms", "gram", "grams", "gramme", "grammes"}},
		{"kg", 1000, []string{"kg", "kgs", "kilo", "kilos", "kilogram", "kilograms"}},
		{"cup", 240, []string{"cup", "cups"}},
		{"tbsp", 15, []string{"tbsp", "tbsps", "tablespoon", "tablespoons"}},
		{"tsp", 5, []string{"tsp", "tsps", "teaspoon", "teaspoons"}},
		{"slice", 30, []string{"slice", "slices"}},
		{"serving", 100, []string{"serving", "servings"}},
		{"bowl", 250, []string{"bowl", "bowls"}},
		{"plate", 300, []string{"plate", "plates"}},
		{"glass", 250, []string{"glass", "glasses"}},
		{"piece", 0, []string{"piece", "pieces", "pc", "pcs"}},
	} {
		for _, s := range u.spellings {
			units[s] = unit{name: u.name, grams: u.grams}
		}
	}
}

var numberWords = map[string]float64{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "half": 0.5, "quarter": 0.25, "dozen": 12,
}

var (
	decimalRe  = regexp.MustCompile(`^\d+(?:\.\d+)?$`)
	fractionRe = regexp.MustCompile(`^(\d+)/(\d+)$`)
	attachedRe = regexp.MustCompile(`^(\d+(?:\.\d+)?)([a-z]+)$`)
)

// MaxQuantity is the largest written quantity accepted for a mention.
// Larger or non-positive quantities leave the mention unresolved.
const MaxQuantity = 1e6

// mention is a tokenized meal mention before matching.
type mention struct {
	quantity float64
	unit     unit
	hasUnit  bool
	// named is the mention without its leading quantity.
	named string
	// text is the mention without quantity, unit and "of".
	text string
	// invalid is set when the written quantity is zero, negative or
	// beyond MaxQuantity.
	invalid bool
}

// parseMention reads the leading quantity and unit of a lower-cased
// mention and returns the remaining food text. Quantity defaults to 1.
func parseMention(s string) mention {
	words := strings.Fields(s)
	m := mention{quantity: 1}
	i := 0

	if q, n, u, ok := readQuantity(words); ok {
		m.quantity = q
		i = n
		if u != nil {
			m.unit, m.hasUnit = *u, true
		}
		if !(q > 0 && q <= MaxQuantity) {
			m.invalid = true
		}
	}
	m.named = strings.Join(words[i:], " ")

	if !m.hasUnit && i < len(words) {
		if u, ok := units[words[i]]; ok && i+1 < len(words) {
			m.unit, m.hasUnit = u, true
			i++
		}
	}
	if i < len(words) && words[i] == "of" && i+1 < len(words) {
		i++
	}

	m.text = strings.Join(words[i:], " ")
	return m
}

// readQuantity consumes a leading quantity. It returns the value, the
// number of words consumed and a unit when one was attached to the number
// ("100g").
func readQuantity(words []string) (float64, int, *unit, bool) {
	if len(words) == 0 {
		return 0, 0, nil, false
	}
	w := words[0]

	if v, ok := parseNumber(w); ok {
		// mixed number "1 1/2"
		if decimalRe.MatchString(w) && !strings.Contains(w, ".") && len(words) > 1 {
			if frac, ok := parseFraction(words[1]); ok {
				return v + frac, 2, nil, true
			}
		}
		if len(words) > 1 && words[1] == "dozen" {
			return v * 12, 2, nil, true
		}
		return v, 1, nil, true
	}

	if sub := attachedRe.FindStringSubmatch(w); sub != nil {
		if u, ok := units[sub[2]]; ok {
			v, _ := strconv.ParseFloat(sub[1], 64)
			return v, 1, &u, true
		}
	}

	if v, ok := numberWords[w]; ok {
		n := 1
		if len(words) > n && words[n] == "dozen" && w != "dozen" {
			v *= 12
			n++
		}
		// "half a cup", "half an apple"
		if w == "half" && len(words) > n && (words[n] == "a" || words[n] == "an") {
			n++
		}
		if n == len(words) {
			// the whole mention is a number word, such as "a"
			return 0, 0, nil, false
		}
		return v, n, nil, true
	}

	return 0, 0, nil, false
}

func parseNumber(w string) (float64, bool) {
	if decimalRe.MatchString(w) {
		// out of range digits still count as a number; parseMention
		// rejects the value
		v, err := strconv.ParseFloat(w, 64)
		return v, numeric(err)
	}
	return parseFraction(w)
}

func parseFraction(w string) (float64, bool) {
	sub := fractionRe.FindStringSubmatch(w)
	if sub == nil {
		return 0, false
	}
	num, err1 := strconv.ParseFloat(sub[1], 64)
	den, err2 := strconv.ParseFloat(sub[2], 64)
	if !numeric(err1) || !numeric(err2) || den == 0 || math.IsInf(den, 0) {
		return 0, false
	}
	return num / den, true
}

func numeric(err error) bool {
	return err == nil || errors.Is(err, strconv.ErrRange)
}
