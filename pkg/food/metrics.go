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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

var (
	tableLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mealwise_food_table_loads_total",
			Help: "Total number of reference table loads by result",
		},
		[]string{"result"},
	)
	tableLoadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mealwise_food_table_load_duration_seconds",
			Help:    "Duration of reference table loads in seconds",
			Buckets: []float64{.001, .01, .1, .5, 1, 5, 30},
		},
	)
	tableFoods = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mealwise_food_table_foods",
			Help: "Number of foods in a loaded reference table",
		},
		[]string{"source"},
	)
)
