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

package recommend

import (
	"cmp"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/mining"
	"github.com/juju/errors"
)

// Policy decides how repeated consequents are handled.
type Policy int

const (
	// KeepDuplicates emits a consequent once per matching rule.
	KeepDuplicates Policy = iota
	// DedupConsequents emits each consequent at most once.
	DedupConsequents
)

// RuleBased recommends items bought together with a query item.
type RuleBased struct {
	rules []mining.Rule
	dict  *dataset.FreqDict
}

func NewRuleBased(rules []mining.Rule, dict *dataset.FreqDict) *RuleBased {
	return &RuleBased{rules: rules, dict: dict}
}

// Recommend scans rules by metric descending, ties broken by the first
// consequent member ascending and then by rule order, and emits the first consequent
// member of each rule whose antecedent contains item, until count items are
// emitted. The score of an entry is the metric of its rule. A known item absent
// from every antecedent yields an empty list.
func (r *RuleBased) Recommend(item string, metric mining.Metric, count int, policy Policy) (List, error) {
	if _, err := mining.ParseMetric(string(metric)); err != nil {
		return nil, errors.Trace(err)
	}
	index := r.dict.Index(item)
	if index < 0 {
		return nil, errors.NotFoundf("item %s", item)
	}
	result := make(List, 0)
	if count <= 0 {
		return result, nil
	}
	sorted := slices.Clone(r.rules)
	slices.SortStableFunc(sorted, func(a, b mining.Rule) int {
		va, vb := a.Value(metric), b.Value(metric)
		if va > vb {
			return -1
		} else if va < vb {
			return 1
		}
		return cmp.Compare(a.Consequent[0], b.Consequent[0])
	})
	emitted := mapset.NewThreadUnsafeSet[int32]()
	for i := range sorted {
		rule := &sorted[i]
		if !rule.Antecedent.Contains(index) {
			continue
		}
		consequent := rule.Consequent[0]
		if policy == DedupConsequents && emitted.Contains(consequent) {
			continue
		}
		emitted.Add(consequent)
		id, _ := r.dict.String(consequent)
		result = append(result, Score{Id: id, Score: rule.Value(metric)})
		if len(result) >= count {
			break
		}
	}
	return result, nil
}
