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
	"context"
	"strconv"
	"time"

	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/common/parallel"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// AprioriOptions controls frequent itemset mining.
type AprioriOptions struct {
	// MinSupport is the least fraction of transactions an itemset must appear in.
	MinSupport float64
	// MaxLen limits the size of itemsets. Zero means unbounded.
	MaxLen int
	// Jobs is the number of goroutines counting supports.
	Jobs int
}

func (opts AprioriOptions) validate() error {
	if opts.MinSupport <= 0 || opts.MinSupport > 1 {
		return errors.NotValidf("min support %v", opts.MinSupport)
	}
	if opts.MaxLen < 0 {
		return errors.NotValidf("max len %v", opts.MaxLen)
	}
	return nil
}

// Apriori mines every itemset whose support reaches MinSupport, level by level.
// Candidates of size k are joined from frequent (k-1)-itemsets sharing a
// (k-2)-prefix and pruned if any (k-1)-subset is infrequent. ErrEmptyResult is
// returned if no single item is frequent.
func Apriori(ctx context.Context, m *dataset.BasketMatrix, opts AprioriOptions) (*FrequentItemsets, error) {
	if err := opts.validate(); err != nil {
		return nil, errors.Trace(err)
	}
	start := time.Now()
	n := m.CountRows()
	frequent := make([]FrequentItemset, 0)
	// level 1
	level := make([]FrequentItemset, 0)
	for j := 0; j < m.CountColumns(); j++ {
		if support := m.Support(int32(j)); support >= opts.MinSupport {
			level = append(level, FrequentItemset{Items: Itemset{int32(j)}, Support: support})
		}
	}
	CandidateItemsetsVec.WithLabelValues("1").Set(float64(m.CountColumns()))
	FrequentItemsetsVec.WithLabelValues("1").Set(float64(len(level)))
	if len(level) == 0 {
		return nil, errors.Annotatef(base.ErrEmptyResult, "no item reaches support %v", opts.MinSupport)
	}
	for k := 2; len(level) > 0; k++ {
		frequent = append(frequent, level...)
		if opts.MaxLen > 0 && k > opts.MaxLen {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.Trace(err)
		}
		candidates := generateCandidates(level)
		supports := make([]float64, len(candidates))
		err := parallel.Parallel(ctx, len(candidates), opts.Jobs, func(_, jobId int) error {
			supports[jobId] = countSupport(m, candidates[jobId]) / float64(n)
			return nil
		})
		if err != nil {
			return nil, errors.Trace(err)
		}
		level = make([]FrequentItemset, 0)
		for i, candidate := range candidates {
			if supports[i] >= opts.MinSupport {
				level = append(level, FrequentItemset{Items: candidate, Support: supports[i]})
			}
		}
		label := strconv.Itoa(k)
		CandidateItemsetsVec.WithLabelValues(label).Set(float64(len(candidates)))
		FrequentItemsetsVec.WithLabelValues(label).Set(float64(len(level)))
		log.Logger().Debug("apriori level",
			zap.Int("k", k),
			zap.Int("n_candidates", len(candidates)),
			zap.Int("n_frequent", len(level)))
	}
	AprioriSeconds.Set(time.Since(start).Seconds())
	log.Logger().Info("mine frequent itemsets",
		zap.Int("n_transactions", n),
		zap.Float64("min_support", opts.MinSupport),
		zap.Int("n_itemsets", len(frequent)),
		zap.Duration("duration", time.Since(start)))
	return NewFrequentItemsets(frequent, n), nil
}

// generateCandidates joins lexicographically sorted (k-1)-itemsets sharing a
// (k-2)-prefix, then drops candidates having an infrequent (k-1)-subset.
func generateCandidates(level []FrequentItemset) []Itemset {
	known := make(map[string]struct{}, len(level))
	for _, itemset := range level {
		known[itemset.Items.Key()] = struct{}{}
	}
	candidates := make([]Itemset, 0)
	for i := range level {
		a := level[i].Items
		prefix := a[:len(a)-1]
		for j := i + 1; j < len(level); j++ {
			b := level[j].Items
			if !prefixEqual(prefix, b[:len(b)-1]) {
				break
			}
			candidate := make(Itemset, len(a)+1)
			copy(candidate, a)
			candidate[len(a)] = b[len(b)-1]
			if allSubsetsKnown(candidate, known) {
				candidates = append(candidates, candidate)
			}
		}
	}
	return candidates
}

func prefixEqual(a, b Itemset) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// allSubsetsKnown checks subsets dropping one of the first k-2 members. The
// other two subsets are the joined itemsets.
func allSubsetsKnown(candidate Itemset, known map[string]struct{}) bool {
	subset := make(Itemset, len(candidate)-1)
	for drop := 0; drop < len(candidate)-2; drop++ {
		copy(subset, candidate[:drop])
		copy(subset[drop:], candidate[drop+1:])
		if _, ok := known[subset.Key()]; !ok {
			return false
		}
	}
	return true
}

// countSupport counts transactions containing every member of itemset.
func countSupport(m *dataset.BasketMatrix, itemset Itemset) float64 {
	if len(itemset) == 2 {
		return float64(m.Column(itemset[0]).IntersectionCardinality(m.Column(itemset[1])))
	}
	acc := m.Column(itemset[0]).Clone()
	for _, item := range itemset[1 : len(itemset)-1] {
		acc.InPlaceIntersection(m.Column(item))
	}
	return float64(acc.IntersectionCardinality(m.Column(itemset[len(itemset)-1])))
}
