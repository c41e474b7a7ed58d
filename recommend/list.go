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
	"context"
	"slices"

	"github.com/gorse-io/classic/base/heap"
	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/similarity"
	"github.com/samber/lo"
)

// Score is a recommended entity and its score.
type Score struct {
	Id    string
	Score float64
}

// List is a ranked recommendation list.
type List []Score

// Ids returns recommended ids in order.
func (l List) Ids() []string {
	return lo.Map(l, func(s Score, _ int) string { return s.Id })
}

// Head returns at most n leading entries. A non-positive n keeps every entry.
func (l List) Head(n int) List {
	if n <= 0 || n >= len(l) {
		return l
	}
	return l[:n]
}

// SortList sorts by score descending, ties broken by id ascending.
func SortList(l List) {
	slices.SortStableFunc(l, func(a, b Score) int {
		return heap.Compare(heap.Elem[string]{Value: a.Id, Weight: a.Score},
			heap.Elem[string]{Value: b.Id, Weight: b.Score})
	})
}

func fromElems(elems []heap.Elem[int32], dict *dataset.FreqDict) List {
	return lo.Map(elems, func(e heap.Elem[int32], _ int) Score {
		id, _ := dict.String(e.Value)
		return Score{Id: id, Score: e.Weight}
	})
}

func fromScores(scores []similarity.Score, names func(int32) string) List {
	return lo.Map(scores, func(s similarity.Score, _ int) Score {
		return Score{Id: names(s.Index), Score: s.Value}
	})
}

// Strategy produces a recommendation list.
type Strategy func(ctx context.Context) (List, error)
