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
	"math"
	"slices"

	"github.com/gorse-io/classic/base"
	"github.com/juju/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultMinOverlap is the least number of co-rated entries for a Pearson correlation.
const DefaultMinOverlap = 2

// Cosine computes the cosine similarity between a pair of dense vectors in
// [0, 1]. Zero vectors have zero similarity with everything and a non-zero
// vector has similarity 1 with itself.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("vectors of different lengths")
	}
	normA, normB := floats.Norm(a, 2), floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	if floats.Equal(a, b) {
		return 1
	}
	return clampUnit(floats.Dot(a, b) / (normA * normB))
}

// SparseCosine computes the cosine similarity between a pair of sorted sparse
// vectors in [0, 1]. Missing entries count as zero.
func SparseCosine(a, b *base.SparseVector) float64 {
	normA, normB := a.Norm(), b.Norm()
	if normA == 0 || normB == 0 {
		return 0
	}
	if a == b || (slices.Equal(a.Indices, b.Indices) && slices.Equal(a.Values, b.Values)) {
		return 1
	}
	return clampUnit(a.Dot(b) / (normA * normB))
}

// clampUnit bounds a cosine to [0, 1] since rounding may push it out of range.
func clampUnit(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}

// Pearson computes the Pearson correlation coefficient between a pair of sorted
// sparse vectors over pairwise-complete entries only. ErrUndefinedSimilarity is
// returned if fewer than minOverlap entries are shared or if either side is
// constant on the shared entries.
func Pearson(a, b *base.SparseVector, minOverlap int) (float64, error) {
	if minOverlap < DefaultMinOverlap {
		minOverlap = DefaultMinOverlap
	}
	var x, y []float64
	a.ForIntersection(b, func(_ int32, va, vb float64) {
		x = append(x, va)
		y = append(y, vb)
	})
	if len(x) < minOverlap {
		return 0, errors.Annotatef(base.ErrUndefinedSimilarity, "%d common entries", len(x))
	}
	if isConstant(x) || isConstant(y) {
		return 0, errors.Annotate(base.ErrUndefinedSimilarity, "zero variance")
	}
	corr := stat.Correlation(x, y, nil)
	// rounding may push the coefficient slightly out of range
	return math.Max(-1, math.Min(1, corr)), nil
}

func isConstant(x []float64) bool {
	for _, v := range x[1:] {
		if v != x[0] {
			return false
		}
	}
	return true
}
