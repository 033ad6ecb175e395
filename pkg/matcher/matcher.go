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
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"github.com/mealwise/mealwise/pkg/food"
)

// DefaultFuzzyCutoff is the minimum Levenshtein similarity for a fuzzy match.
const DefaultFuzzyCutoff = 0.75

const (
	confidenceExact     = 1.0
	confidencePlural    = 0.95
	confidenceSubstring = 0.7
)

var separatorRe = regexp.MustCompile(`(?i)[,;\n&]|\b(?:and|plus)\b`)

// Matcher resolves meal text against one reference table. It is immutable
// after New and safe for concurrent use.
type Matcher struct {
	table    *food.Table
	keys     []food.Key
	keyWords [][]string
	rules    []PluralRule
	cutoff   float64
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithPluralRules replaces the default plural suffix rules. An empty list
// disables plural matching.
func WithPluralRules(rules []PluralRule) Option {
	return func(m *Matcher) {
		m.rules = slices.Clone(rules)
	}
}

// WithFuzzyCutoff sets the minimum similarity in [0, 1] for fuzzy
// matches. Zero disables fuzzy matching.
func WithFuzzyCutoff(cutoff float64) Option {
	return func(m *Matcher) {
		m.cutoff = min(max(cutoff, 0), 1)
	}
}

// New creates a Matcher for table.
func New(table *food.Table, opts ...Option) *Matcher {
	m := &Matcher{
		table:  table,
		rules:  slices.Clone(DefaultPluralRules),
		cutoff: DefaultFuzzyCutoff,
	}
	for _, opt := range opts {
		opt(m)
	}

	if table != nil {
		m.keys = table.Keys()
		m.keyWords = make([][]string, len(m.keys))
		for i, k := range m.keys {
			m.keyWords[i] = strings.Fields(k.Text)
		}
	}
	return m
}

// ResolveMeal splits text into mentions and resolves each against table.
func ResolveMeal(text string, table *food.Table, opts ...Option) []MealItem {
	return New(table, opts...).Resolve(text)
}

// Split returns the trimmed, non-empty mentions of a meal text.
func Split(text string) []string {
	parts := separatorRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Resolve returns one MealItem per mention in text, in order. Blank text
// yields an empty slice.
func (m *Matcher) Resolve(text string) []MealItem {
	mentions := Split(text)
	items := make([]MealItem, 0, len(mentions))
	for _, raw := range mentions {
		items = append(items, m.resolve(raw))
	}
	return items
}

func (m *Matcher) resolve(raw string) MealItem {
	men := parseMention(strings.ToLower(raw))
	item := MealItem{
		Raw:      raw,
		Quantity: men.quantity,
		Match:    MatchNone,
	}
	if men.hasUnit {
		item.Unit = men.unit.name
	}
	if men.invalid {
		slog.Debug("meal mention has no usable quantity", "raw", raw)
		item.Quantity = 0
		return item
	}

	// Names may start with a number or unit word ("cup cake"), so the
	// literal mention and the mention without its quantity come first.
	if f, kind, conf := m.lookup(food.NormalizeName(raw)); f != nil {
		return resolvedItem(item, f, kind, conf, 1, "")
	}
	if men.hasUnit && men.named != men.text {
		if f, kind, conf := m.lookup(food.NormalizeName(men.named)); f != nil {
			return resolvedItem(item, f, kind, conf, men.quantity, "")
		}
	}

	f, kind, conf := m.match(food.NormalizeName(men.text))
	if f == nil {
		slog.Debug("unresolved meal mention", "raw", raw)
		return item
	}
	return resolvedItem(item, f, kind, conf, convert(men, f), item.Unit)
}

func resolvedItem(item MealItem, f *food.ReferenceFood, kind MatchKind, conf, qty float64, unitName string) MealItem {
	item.Food = f
	item.Match = kind
	item.Confidence = conf
	item.Quantity = qty
	item.Unit = unitName
	return item
}

// lookup tries the exact, alias and plural rules.
func (m *Matcher) lookup(text string) (*food.ReferenceFood, MatchKind, float64) {
	if text == "" || m.table == nil {
		return nil, MatchNone, 0
	}

	if f, ok := m.table.Lookup(text); ok {
		return f, MatchExact, confidenceExact
	}
	if f, ok := m.table.LookupAlias(text); ok {
		return f, MatchAlias, confidenceExact
	}
	for _, s := range singulars(text, m.rules) {
		if f, ok := m.table.Lookup(s); ok {
			return f, MatchPlural, confidencePlural
		}
		if f, ok := m.table.LookupAlias(s); ok {
			return f, MatchPlural, confidencePlural
		}
	}
	return nil, MatchNone, 0
}

func (m *Matcher) match(text string) (*food.ReferenceFood, MatchKind, float64) {
	if f, kind, conf := m.lookup(text); f != nil {
		return f, kind, conf
	}
	if text == "" || m.table == nil {
		return nil, MatchNone, 0
	}
	if f := m.substring(text); f != nil {
		return f, MatchSubstring, confidenceSubstring
	}
	if m.cutoff > 0 {
		if f, sim := m.fuzzy(text); f != nil {
			return f, MatchFuzzy, sim
		}
	}
	return nil, MatchNone, 0
}

// substring returns the food whose longest name or alias appears in text
// as a run of whole words. Plural words in text match their singular.
func (m *Matcher) substring(text string) *food.ReferenceFood {
	words := strings.Fields(text)
	best := -1
	for i, kw := range m.keyWords {
		if len(kw) == 0 || len(kw) > len(words) || !m.containsWords(words, kw) {
			continue
		}
		if best < 0 || len(m.keys[i].Text) > len(m.keys[best].Text) {
			best = i
		}
	}
	if best < 0 {
		return nil
	}
	return m.keys[best].Food
}

func (m *Matcher) containsWords(words, key []string) bool {
	for start := 0; start+len(key) <= len(words); start++ {
		ok := true
		for j, kw := range key {
			if !m.wordMatches(words[start+j], kw) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func (m *Matcher) wordMatches(word, key string) bool {
	return word == key || slices.Contains(singulars(word, m.rules), key)
}

// fuzzy returns the most similar food at or above the cutoff. Ties go to
// the earlier table entry.
func (m *Matcher) fuzzy(text string) (*food.ReferenceFood, float64) {
	var (
		best    *food.ReferenceFood
		bestSim float64
	)
	for _, k := range m.keys {
		if sim := similarity(text, k.Text); sim > bestSim {
			best, bestSim = k.Food, sim
		}
	}
	if best == nil || bestSim < m.cutoff {
		return nil, 0
	}
	return best, bestSim
}

// similarity is 1 minus the edit distance over the longer length.
func similarity(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

// convert expresses the mention's quantity in f's reference units.
func convert(men mention, f *food.ReferenceFood) float64 {
	if !men.hasUnit || men.unit.grams == 0 {
		return men.quantity
	}
	if fu, ok := units[strings.ToLower(strings.TrimSpace(f.Unit))]; ok && fu.name == men.unit.name {
		return men.quantity
	}
	if f.Grams > 0 {
		return men.quantity * men.unit.grams / f.Grams
	}
	return men.quantity
}
