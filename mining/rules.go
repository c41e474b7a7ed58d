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
	"math"

	"github.com/gorse-io/classic/base/log"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Metric names a rule interestingness measure.
type Metric string

const (
	Support    Metric = "support"
	Confidence Metric = "confidence"
	Lift       Metric = "lift"
	Leverage   Metric = "leverage"
	Conviction Metric = "conviction"
)

// ParseMetric converts a name to a Metric.
func ParseMetric(name string) (Metric, error) {
	switch m := Metric(name); m {
	case Support, Confidence, Lift, Leverage, Conviction:
		return m, nil
	default:
		return "", errors.NotValidf("metric %q", name)
	}
}

// Rule is an association rule antecedent -> consequent.
type Rule struct {
	Antecedent        Itemset
	Consequent        Itemset
	AntecedentSupport float64
	ConsequentSupport float64
	Support           float64
	Confidence        float64
	Lift              float64
	Leverage          float64
	// Conviction is +Inf if confidence is 1.
	Conviction   float64
	ZhangsMetric float64
}

// Value returns the measure named by metric.
func (r *Rule) Value(metric Metric) float64 {
	switch metric {
	case Support:
		return r.Support
	case Confidence:
		return r.Confidence
	case Lift:
		return r.Lift
	case Leverage:
		return r.Leverage
	case Conviction:
		return r.Conviction
	default:
		panic("unknown metric " + string(metric))
	}
}

// NewRule computes rule measures from the supports of the antecedent, the
// consequent and their union.
func NewRule(antecedent, consequent Itemset, sA, sC, sAC float64) Rule {
	confidence := sAC / sA
	conviction := math.Inf(1)
	if confidence < 1 {
		conviction = (1 - sC) / (1 - confidence)
	}
	leverage := sAC - sA*sC
	zhangs := 0.0
	if denom := math.Max(sAC*(1-sA), sA*(sC-sAC)); denom > 0 {
		zhangs = leverage / denom
	}
	return Rule{
		Antecedent:        antecedent,
		Consequent:        consequent,
		AntecedentSupport: sA,
		ConsequentSupport: sC,
		Support:           sAC,
		Confidence:        confidence,
		Lift:              confidence / sC,
		Leverage:          leverage,
		Conviction:        conviction,
		ZhangsMetric:      zhangs,
	}
}

// GenerateRules derives every rule from itemsets with at least two members and
// keeps rules whose metric reaches minThreshold. Each non-empty proper subset
// of an itemset becomes an antecedent and its complement the consequent. Rules
// follow itemset order, then subset bitmask order.
func GenerateRules(itemsets *FrequentItemsets, metric Metric, minThreshold float64) ([]Rule, error) {
	if _, err := ParseMetric(string(metric)); err != nil {
		return nil, errors.Trace(err)
	}
	rules := make([]Rule, 0)
	for _, itemset := range itemsets.Itemsets {
		k := len(itemset.Items)
		if k < 2 {
			continue
		}
		if k > 30 {
			return nil, errors.NotSupportedf("itemset of %d items", k)
		}
		for mask := 1; mask < 1<<k-1; mask++ {
			antecedent := make(Itemset, 0, k)
			consequent := make(Itemset, 0, k)
			for i, item := range itemset.Items {
				if mask&(1<<i) != 0 {
					antecedent = append(antecedent, item)
				} else {
					consequent = append(consequent, item)
				}
			}
			sA, ok := itemsets.Support(antecedent)
			if !ok {
				return nil, errors.NotFoundf("support of itemset {%s}", antecedent.Key())
			}
			sC, ok := itemsets.Support(consequent)
			if !ok {
				return nil, errors.NotFoundf("support of itemset {%s}", consequent.Key())
			}
			rule := NewRule(antecedent, consequent, sA, sC, itemset.Support)
			if rule.Value(metric) >= minThreshold {
				rules = append(rules, rule)
			}
		}
	}
	RulesGeneratedTotal.Add(float64(len(rules)))
	log.Logger().Debug("generate association rules",
		zap.String("metric", string(metric)),
		zap.Float64("min_threshold", minThreshold),
		zap.Int("n_rules", len(rules)))
	return rules, nil
}
