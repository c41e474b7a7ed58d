// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mining

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const LabelLevel = "level"

var (
	FrequentItemsetsVec = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gorse_classic",
		Subsystem: "mining",
		Name:      "frequent_itemsets",
	}, []string{LabelLevel})
	CandidateItemsetsVec = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "gorse_classic",
		Subsystem: "mining",
		Name:      "candidate_itemsets",
	}, []string{LabelLevel})
	AprioriSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "gorse_classic",
		Subsystem: "mining",
		Name:      "apriori_seconds",
	})
	RulesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "gorse_classic",
		Subsystem: "mining",
		Name:      "rules_generated_total",
	})
)
