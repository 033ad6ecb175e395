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

package evaluator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default message templates.
const (
	DefaultDeficientMessage = `Low {{.Label}}: {{qty .Total .Unit}} is below the minimum of {{qty .Min .Unit}}`
	DefaultExcessiveMessage = `High {{.Label}}: {{qty .Total .Unit}} is above the maximum of {{qty .Max .Unit}}`
	DefaultBalancedMessage  = `{{.Label}} is balanced: {{qty .Total .Unit}} is within {{num .Min}}-{{qty .Max .Unit}}`
)

// Messages holds the templates rendered for each status. Empty fields
// fall back to the defaults.
type Messages struct {
	Deficient string `json:"deficient,omitempty" yaml:"deficient,omitempty"`
	Excessive string `json:"excessive,omitempty" yaml:"excessive,omitempty"`
	Balanced  string `json:"balanced,omitempty" yaml:"balanced,omitempty"`
}

func (m Messages) withDefaults() Messages {
	if strings.TrimSpace(m.Deficient) == "" {
		m.Deficient = DefaultDeficientMessage
	}
	if strings.TrimSpace(m.Excessive) == "" {
		m.Excessive = DefaultExcessiveMessage
	}
	if strings.TrimSpace(m.Balanced) == "" {
		m.Balanced = DefaultBalancedMessage
	}
	return m
}

// messageData is the template input.
type messageData struct {
	Nutrient string
	Label    string
	Status   Status
	Total    float64
	Min      float64
	Max      float64
	Unit     string
}

var funcs = template.FuncMap{
	"num":   formatNumber,
	"qty":   formatQuantity,
	"title": titleCase,
}

type templates map[Status]*template.Template

func compileMessages(m Messages) (templates, error) {
	out := make(templates, 3)
	for status, text := range map[Status]string{
		StatusDeficient: m.Deficient,
		StatusExcessive: m.Excessive,
		StatusBalanced:  m.Balanced,
	} {
		tmpl, err := template.New(string(status)).Funcs(funcs).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s message: %w", status, err)
		}
		// catch references to fields that do not exist
		if err := tmpl.Execute(&bytes.Buffer{}, messageData{Status: status}); err != nil {
			return nil, fmt.Errorf("failed to render %s message: %w", status, err)
		}
		out[status] = tmpl
	}
	return out, nil
}

func (t templates) render(d messageData) (string, error) {
	tmpl, ok := t[d.Status]
	if !ok {
		return "", fmt.Errorf("no message for status %s", d.Status)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// formatNumber prints v with at most one decimal and no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(roundTo(v, 1), 'f', -1, 64)
}

func formatQuantity(v float64, unit string) string {
	if unit == "" {
		return formatNumber(v)
	}
	return formatNumber(v) + " " + unit
}

// titleCase turns a nutrient key such as "vitamin_c" into "Vitamin C".
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}
