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

package analyzer

import (
	"strconv"
	"strings"
)

// TableHeaders lists the per-nutrient columns of an analysis.
func (a *Analysis) TableHeaders() []string {
	return []string{"NUTRIENT", "TOTAL", "MIN", "MAX", "UNIT", "STATUS"}
}

// TableRows renders one row per evaluated nutrient, then one row per
// unresolved mention.
func (a *Analysis) TableRows() [][]string {
	rows := make([][]string, 0, len(a.Recommendations)+len(a.Unresolved))
	for _, r := range a.Recommendations {
		rows = append(rows, []string{
			r.Nutrient,
			num(a.Totals[r.Nutrient]),
			num(r.Min),
			num(r.Max),
			r.Unit,
			strings.ToUpper(string(r.Status)),
		})
	}
	for _, u := range a.Unresolved {
		rows = append(rows, []string{u, "-", "-", "-", "", "UNRESOLVED"})
	}
	return rows
}

// TableHeaders lists the matcher columns.
func (r *Resolution) TableHeaders() []string {
	return []string{"MENTION", "FOOD", "QUANTITY", "UNIT", "MATCH", "CONFIDENCE"}
}

// TableRows renders one row per mention.
func (r *Resolution) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		f := it.Food
		if f == "" {
			f = "-"
		}
		rows = append(rows, []string{it.Raw, f, num(it.Quantity), it.Unit, string(it.Match), num(it.Confidence)})
	}
	return rows
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
