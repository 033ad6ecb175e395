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
	"fmt"
	"strings"
)

// PluralRule turns a plural word into its singular by replacing Suffix
// with Replacement.
type PluralRule struct {
	Suffix      string `json:"suffix" yaml:"suffix"`
	Replacement string `json:"replacement" yaml:"replacement"`
}

// DefaultPluralRules covers regular English plurals. Rules are tried in
// order.
var DefaultPluralRules = []PluralRule{
	{Suffix: "ies", Replacement: "y"},
	{Suffix: "oes", Replacement: "o"},
	{Suffix: "ves", Replacement: "f"},
	{Suffix: "es", Replacement: ""},
	{Suffix: "s", Replacement: ""},
}

// singulars returns the candidate singular forms of word, one per
// applicable rule.
func singulars(word string, rules []PluralRule) []string {
	var out []string
	for _, r := range rules {
		if r.Suffix == "" || len(word) <= len(r.Suffix) || !strings.HasSuffix(word, r.Suffix) {
			continue
		}
		out = append(out, strings.TrimSuffix(word, r.Suffix)+r.Replacement)
	}
	return out
}

// PluralRulesNone is the rule string that disables plural matching.
const PluralRulesNone = "none"

// ParsePluralRules parses "suffix=replacement" pairs separated by commas,
// such as "ies=y,es=,s=". An empty string yields no rules and so does
// PluralRulesNone.
func ParsePluralRules(s string) ([]PluralRule, error) {
	if strings.EqualFold(strings.TrimSpace(s), PluralRulesNone) {
		return []PluralRule{}, nil
	}
	var rules []PluralRule
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		suffix, repl, ok := strings.Cut(part, "=")
		suffix = strings.ToLower(strings.TrimSpace(suffix))
		if !ok || suffix == "" {
			return nil, fmt.Errorf("invalid plural rule %q: want suffix=replacement", part)
		}
		rules = append(rules, PluralRule{
			Suffix:      suffix,
			Replacement: strings.ToLower(strings.TrimSpace(repl)),
		})
	}
	return rules, nil
}
