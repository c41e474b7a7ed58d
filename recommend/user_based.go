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

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/classic/base/heap"
	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/similarity"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// UserBasedOptions are thresholds of user-based collaborative filtering.
type UserBasedOptions struct {
	// Ratio is the percentage of the query user's rated items a neighbor
	// must have rated too. The overlap must be strictly greater.
	Ratio float64
	// CorrelationThreshold is the least correlation of a neighbor.
	CorrelationThreshold float64
	// Score is the exclusive lower bound of a recommended item's score.
	Score float64
	// ExcludeRated drops items the query user has rated.
	ExcludeRated bool
	MinOverlap   int
	Jobs         int
}

func DefaultUserBasedOptions() UserBasedOptions {
	return UserBasedOptions{
		Ratio:                60,
		CorrelationThreshold: 0.65,
		Score:                3.5,
		MinOverlap:           similarity.DefaultMinOverlap,
	}
}

// UserBased recommends items rated by users whose ratings correlate with the
// query user.
type UserBased struct {
	matrix *dataset.RatingMatrix
	opts   UserBasedOptions
}

func NewUserBased(matrix *dataset.RatingMatrix, opts UserBasedOptions) *UserBased {
	return &UserBased{matrix: matrix, opts: opts}
}

// Neighbors returns users sharing more than Ratio percent of the rated items
// of user and correlating at least CorrelationThreshold with user, most
// correlated first. The query user is excluded.
func (r *UserBased) Neighbors(ctx context.Context, user string) ([]similarity.Score, error) {
	target := r.matrix.RowDict().Index(user)
	if target < 0 {
		return nil, errors.NotFoundf("user %s", user)
	}
	rated := r.matrix.Row(target)
	overlap := make([]int, r.matrix.CountRows())
	for _, j := range rated.Indices {
		for _, i := range r.matrix.Column(j).Indices {
			overlap[i]++
		}
	}
	minOverlap := float64(rated.Len()) * r.opts.Ratio / 100
	candidates := make([]int32, 0)
	for i, count := range overlap {
		if int32(i) != target && float64(count) > minOverlap {
			candidates = append(candidates, int32(i))
		}
	}
	row, err := similarity.RowCorrelation(ctx, r.matrix, target, candidates, similarity.Options{
		MinOverlap: r.opts.MinOverlap,
		Jobs:       r.opts.Jobs,
	})
	if err != nil {
		return nil, errors.Trace(err)
	}
	neighbors := make([]similarity.Score, 0)
	for _, s := range row.Scores {
		if s.Value >= r.opts.CorrelationThreshold {
			neighbors = append(neighbors, s)
		}
	}
	log.Logger().Debug("find user neighbors",
		zap.String("user_id", user),
		zap.Int("n_rated", rated.Len()),
		zap.Int("n_candidates", len(candidates)),
		zap.Int("n_undefined", len(row.Undefined)),
		zap.Int("n_neighbors", len(neighbors)))
	return neighbors, nil
}

// Recommend scores each item rated by a neighbor with the mean of correlation
// times rating over the neighbors who rated it, and returns at most n items
// whose score exceeds Score.
func (r *UserBased) Recommend(ctx context.Context, user string, n int) (List, error) {
	neighbors, err := r.Neighbors(ctx, user)
	if err != nil {
		return nil, errors.Trace(err)
	}
	sums := make(map[int32]float64)
	counts := make(map[int32]int)
	for _, neighbor := range neighbors {
		r.matrix.Row(neighbor.Index).ForEach(func(_ int, j int32, rating float64) {
			sums[j] += neighbor.Value * rating
			counts[j]++
		})
	}
	var exclude mapset.Set[int32]
	if r.opts.ExcludeRated {
		exclude = mapset.NewThreadUnsafeSet(r.matrix.Row(r.matrix.RowDict().Index(user)).Indices...)
	}
	topK := heap.NewTopK[int32](n)
	for j, sum := range sums {
		if exclude != nil && exclude.Contains(j) {
			continue
		}
		if score := sum / float64(counts[j]); score > r.opts.Score {
			topK.Push(j, score)
		}
	}
	return fromElems(topK.PopAll(), r.matrix.ColumnDict()), nil
}
