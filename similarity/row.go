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

package similarity

import (
	"context"

	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/base/heap"
	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/common/parallel"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// Score is the similarity between the target and the entity at Index.
type Score struct {
	Index int32
	Value float64
}

// Row holds similarities between a target and every other entity, sorted by
// value descending and index ascending. The target itself is included.
// Entities whose similarity is undefined are listed in Undefined instead.
type Row struct {
	Target    int32
	Scores    []Score
	Undefined []int32
}

// Without returns scores except the given entity.
func (r Row) Without(index int32) []Score {
	scores := make([]Score, 0, len(r.Scores))
	for _, s := range r.Scores {
		if s.Index != index {
			scores = append(scores, s)
		}
	}
	return scores
}

// Options for correlation rows.
type Options struct {
	MinOverlap int
	Jobs       int
}

type pairFunc func(i int32) (float64, error)

// buildRow evaluates f for each candidate in parallel and sorts the defined scores.
func buildRow(ctx context.Context, target int32, candidates []int32, jobs int, f pairFunc) (Row, error) {
	values := make([]float64, len(candidates))
	defined := make([]bool, len(candidates))
	err := parallel.Parallel(ctx, len(candidates), jobs, func(_, jobId int) error {
		value, err := f(candidates[jobId])
		if errors.Is(err, base.ErrUndefinedSimilarity) {
			return nil
		} else if err != nil {
			return errors.Trace(err)
		}
		values[jobId], defined[jobId] = value, true
		return nil
	})
	if err != nil {
		return Row{}, errors.Trace(err)
	}
	topK := heap.NewTopK[int32](0)
	row := Row{Target: target}
	for i, index := range candidates {
		if defined[i] {
			topK.Push(index, values[i])
		} else {
			row.Undefined = append(row.Undefined, index)
		}
	}
	for _, elem := range topK.PopAll() {
		row.Scores = append(row.Scores, Score{Index: elem.Value, Value: elem.Weight})
	}
	log.Logger().Debug("similarity row",
		zap.Int32("target", target),
		zap.Int("n_scores", len(row.Scores)),
		zap.Int("n_undefined", len(row.Undefined)))
	return row, nil
}

func indices(n int) []int32 {
	result := make([]int32, n)
	for i := range result {
		result[i] = int32(i)
	}
	return result
}

// RowSimilarity computes cosine similarities between vectors[target] and every vector.
func RowSimilarity(ctx context.Context, vectors []*base.SparseVector, target int32, jobs int) (Row, error) {
	if target < 0 || int(target) >= len(vectors) {
		return Row{}, errors.NotFoundf("vector %d", target)
	}
	return buildRow(ctx, target, indices(len(vectors)), jobs, func(i int32) (float64, error) {
		return SparseCosine(vectors[target], vectors[i]), nil
	})
}

// ColumnCorrelation computes Pearson correlations between the ratings of item
// target and the ratings of every item.
func ColumnCorrelation(ctx context.Context, m *dataset.RatingMatrix, target int32, opts Options) (Row, error) {
	if target < 0 || int(target) >= m.CountColumns() {
		return Row{}, errors.NotFoundf("column %d", target)
	}
	return buildRow(ctx, target, indices(m.CountColumns()), opts.Jobs, func(j int32) (float64, error) {
		return Pearson(m.Column(target), m.Column(j), opts.MinOverlap)
	})
}

// RowCorrelation computes Pearson correlations between the ratings of user
// target and the ratings of the candidate users. The target is included if it
// is a candidate.
func RowCorrelation(ctx context.Context, m *dataset.RatingMatrix, target int32, candidates []int32, opts Options) (Row, error) {
	if target < 0 || int(target) >= m.CountRows() {
		return Row{}, errors.NotFoundf("row %d", target)
	}
	return buildRow(ctx, target, candidates, opts.Jobs, func(i int32) (float64, error) {
		return Pearson(m.Row(target), m.Row(i), opts.MinOverlap)
	})
}

// PairwiseCosine computes the full cosine similarity matrix of vectors.
func PairwiseCosine(ctx context.Context, vectors []*base.SparseVector, jobs int) ([][]float64, error) {
	result := make([][]float64, len(vectors))
	err := parallel.For(ctx, len(vectors), jobs, func(i int) {
		result[i] = make([]float64, len(vectors))
		for j := range vectors {
			result[i][j] = SparseCosine(vectors[i], vectors[j])
		}
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return result, nil
}
