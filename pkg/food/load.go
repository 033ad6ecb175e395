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
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mealwise/mealwise/pkg/defaults"
	mwerrors "github.com/mealwise/mealwise/pkg/errors"
	"github.com/mealwise/mealwise/pkg/header"
	"github.com/mealwise/mealwise/pkg/serializer"
)

// DefaultSource names the embedded reference table.
const DefaultSource = "embedded:foods.yaml"

// aliasSeparator splits the aliases cell of a CSV row.
const aliasSeparator = "|"

var (
	//go:embed data/foods.yaml
	defaultData []byte

	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded reference table. It is parsed once and
// shared.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultData, DefaultSource)
		if defaultErr == nil {
			tableFoods.WithLabelValues(DefaultSource).Set(float64(defaultTable.Len()))
		}
	})
	return defaultTable, defaultErr
}

// LoadOrDefault loads the table at p, or returns the embedded table when
// p is empty.
func LoadOrDefault(ctx context.Context, p string) (*Table, error) {
	if strings.TrimSpace(p) == "" {
		return Default()
	}
	return Load(ctx, p)
}

// Load reads and validates a reference table from a local path or an
// http(s) URL. Files ending in .csv are parsed as CSV; anything else as a
// YAML or JSON document chosen by extension.
func Load(ctx context.Context, p string) (*Table, error) {
	ctx, cancel := context.WithTimeout(ctx, defaults.DataLoadTimeout)
	defer cancel()

	start := time.Now()
	data, err := serializer.ReadSource(ctx, p)
	if err != nil {
		tableLoads.WithLabelValues(resultError).Inc()
		code := mwerrors.ErrCodeUnavailable
		if errors.Is(err, fs.ErrNotExist) {
			code = mwerrors.ErrCodeNotFound
		}
		return nil, mwerrors.WrapWithContext(code, "failed to read reference table", err,
			map[string]any{"source": p})
	}

	t, err := Parse(data, p)
	if err != nil {
		tableLoads.WithLabelValues(resultError).Inc()
		return nil, err
	}

	tableLoads.WithLabelValues(resultSuccess).Inc()
	tableLoadDuration.Observe(time.Since(start).Seconds())
	tableFoods.WithLabelValues(p).Set(float64(t.Len()))

	slog.Info("reference table loaded",
		"source", p,
		"foods", t.Len(),
		"nutrients", len(t.NutrientNames()),
		"duration", time.Since(start).String(),
	)
	return t, nil
}

// Parse builds a table from raw bytes. source decides the format by
// extension and is recorded in error context.
func Parse(data []byte, source string) (*Table, error) {
	if isCSV(source) {
		return ParseCSV(strings.NewReader(string(data)), source)
	}

	doc, err := serializer.Decode[Document](serializer.FormatFromPath(source), data)
	if err != nil {
		return nil, mwerrors.WrapWithContext(mwerrors.ErrCodeInvalidData, "malformed reference table", err,
			map[string]any{"source": source})
	}
	if !doc.CheckKind(header.KindReferenceTable) {
		return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData,
			fmt.Sprintf("unexpected document kind %q", doc.Kind),
			map[string]any{"source": source, "want": header.KindReferenceTable})
	}
	return NewTable(doc.Foods, source)
}

func isCSV(source string) bool {
	if i := strings.IndexAny(source, "?#"); i >= 0 {
		source = source[:i]
	}
	return strings.EqualFold(path.Ext(source), ".csv")
}

// ParseCSV builds a table from CSV with a header row. Lines starting with
// '#' are comments. Row numbers in errors are file line numbers.
func ParseCSV(r io.Reader, source string) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, mwerrors.NewWithContext(mwerrors.ErrCodeInvalidData, "missing header row",
			map[string]any{"source": source})
	}
	if err != nil {
		return nil, csvError(err, source)
	}

	columns := make([]string, len(head))
	index := make(map[string]int, len(head))
	for i, h := range head {
		c := NutrientKey(strings.TrimPrefix(h, "\ufeff"))
		if c == "" {
			return nil, invalid("empty column name", 1, strconv.Itoa(i+1), h, source)
		}
		if _, dup := index[c]; dup {
			return nil, invalid("duplicate column", 1, c, h, source)
		}
		index[c] = i
		columns[i] = c
	}
	for _, required := range []string{"name", "unit"} {
		if _, ok := index[required]; !ok {
			return nil, invalid("missing required column", 1, required, "", source)
		}
	}

	var (
		entries []Entry
		rows    []int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err, source)
		}
		line, _ := cr.FieldPos(0)

		e := Entry{Nutrients: make(map[string]float64)}
		for i, c := range columns {
			v := strings.TrimSpace(rec[i])
			switch c {
			case "name":
				e.Name = v
			case "unit":
				e.Unit = v
			case "aliases":
				if v != "" {
					e.Aliases = strings.Split(v, aliasSeparator)
				}
			case "grams":
				if v == "" {
					continue
				}
				g, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, invalid("grams is not a number", line, c, v, source)
				}
				e.Grams = g
			default:
				if v == "" {
					continue
				}
				amount, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return nil, invalid("nutrient amount is not a number", line, c, v, source)
				}
				e.Nutrients[c] = amount
			}
		}
		entries = append(entries, e)
		rows = append(rows, line)
	}

	return buildTable(entries, rows, source)
}

func csvError(err error, source string) error {
	ctx := map[string]any{"source": source}
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		ctx["row"] = pe.Line
		ctx["column"] = pe.Column
	}
	return mwerrors.WrapWithContext(mwerrors.ErrCodeInvalidData, "malformed CSV", err, ctx)
}
