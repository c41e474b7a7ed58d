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
	"slices"
	"strconv"
	"strings"

	"github.com/gorse-io/classic/dataset"
	"github.com/samber/lo"
)

// Itemset is a sorted, duplicate-free set of item indices.
type Itemset []int32

// NewItemset sorts and deduplicates items.
func NewItemset(items ...int32) Itemset {
	s := slices.Clone(items)
	slices.Sort(s)
	return slices.Compact(s)
}

// Key returns a canonical string for hashing.
func (s Itemset) Key() string {
	var builder strings.Builder
	for i, item := range s {
		if i > 0 {
			builder.WriteByte(',')
		}
		builder.WriteString(strconv.Itoa(int(item)))
	}
	return builder.String()
}

// Contains reports whether item is in the set.
func (s Itemset) Contains(item int32) bool {
	_, found := slices.BinarySearch(s, item)
	return found
}

// Compare orders itemsets by length, then lexicographically.
func (s Itemset) Compare(other Itemset) int {
	if len(s) != len(other) {
		return len(s) - len(other)
	}
	return slices.Compare(s, other)
}

// Names maps item indices to external ids.
func (s Itemset) Names(dict *dataset.FreqDict) []string {
	return lo.Map(s, func(item int32, _ int) string {
		name, _ := dict.String(item)
		return name
	})
}

// FrequentItemset is an itemset with its support, the fraction of transactions
// containing every member.
type FrequentItemset struct {
	Items   Itemset
	Support float64
}

// FrequentItemsets holds mined itemsets ordered by length, then lexicographically.
type FrequentItemsets struct {
	Itemsets        []FrequentItemset
	NumTransactions int
	support         map[string]float64
}

// NewFrequentItemsets sorts itemsets and indexes their supports.
func NewFrequentItemsets(itemsets []FrequentItemset, numTransactions int) *FrequentItemsets {
	sorted := slices.Clone(itemsets)
	slices.SortFunc(sorted, func(a, b FrequentItemset) int {
		return a.Items.Compare(b.Items)
	})
	support := make(map[string]float64, len(sorted))
	for _, itemset := range sorted {
		support[itemset.Items.Key()] = itemset.Support
	}
	return &FrequentItemsets{
		Itemsets:        sorted,
		NumTransactions: numTransactions,
		support:         support,
	}
}

// Support returns the support of a mined itemset.
func (f *FrequentItemsets) Support(s Itemset) (float64, bool) {
	support, ok := f.support[s.Key()]
	return support, ok
}

// Len returns the number of itemsets.
func (f *FrequentItemsets) Len() int {
	return len(f.Itemsets)
}

// Level returns itemsets with k members.
func (f *FrequentItemsets) Level(k int) []FrequentItemset {
	return lo.Filter(f.Itemsets, func(itemset FrequentItemset, _ int) bool {
		return len(itemset.Items) == k
	})
}
