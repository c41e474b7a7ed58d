// Copyright 2020 gorse Project Authors
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

package base

import (
	"sort"

	"gonum.org/v1/gonum/floats"
)

// SparseVector is the data structure for the sparse vector. Missing indices
// are unknown, not zero.
type SparseVector struct {
	Indices []int32
	Values  []float64
	Sorted  bool
}

// NewSparseVector creates a SparseVector.
func NewSparseVector() *SparseVector {
	return &SparseVector{
		Indices: make([]int32, 0),
		Values:  make([]float64, 0),
		Sorted:  true,
	}
}

// Add a new item.
func (vec *SparseVector) Add(index int32, value float64) {
	if n := len(vec.Indices); n > 0 && vec.Indices[n-1] >= index {
		vec.Sorted = false
	}
	vec.Indices = append(vec.Indices, index)
	vec.Values = append(vec.Values, value)
}

// Len returns the number of items.
func (vec *SparseVector) Len() int {
	return len(vec.Values)
}

// Less returns true if the index of i-th item is less than the index of j-th item.
func (vec *SparseVector) Less(i, j int) bool {
	return vec.Indices[i] < vec.Indices[j]
}

// Swap two items.
func (vec *SparseVector) Swap(i, j int) {
	vec.Indices[i], vec.Indices[j] = vec.Indices[j], vec.Indices[i]
	vec.Values[i], vec.Values[j] = vec.Values[j], vec.Values[i]
}

// ForEach iterates items in the sparse vector.
func (vec *SparseVector) ForEach(f func(i int, index int32, value float64)) {
	for i := range vec.Indices {
		f(i, vec.Indices[i], vec.Values[i])
	}
}

// SortIndex sorts items by indices.
func (vec *SparseVector) SortIndex() {
	if !vec.Sorted {
		sort.Stable(vec)
		vec.Sorted = true
	}
}

// Get returns the value at index by binary search. The vector must be sorted.
func (vec *SparseVector) Get(index int32) (float64, bool) {
	i := sort.Search(len(vec.Indices), func(i int) bool {
		return vec.Indices[i] >= index
	})
	if i < len(vec.Indices) && vec.Indices[i] == index {
		return vec.Values[i], true
	}
	return 0, false
}

// ForIntersection iterates items in the intersection of two vectors. Both vectors
// must be sorted by indices, then common indices are found in linear time.
func (vec *SparseVector) ForIntersection(other *SparseVector, f func(index int32, a, b float64)) {
	i, j := 0, 0
	for i < vec.Len() && j < other.Len() {
		if vec.Indices[i] == other.Indices[j] {
			f(vec.Indices[i], vec.Values[i], other.Values[j])
			i++
			j++
		} else if vec.Indices[i] < other.Indices[j] {
			i++
		} else {
			j++
		}
	}
}

// Dot returns the dot product of two sorted sparse vectors.
func (vec *SparseVector) Dot(other *SparseVector) float64 {
	sum := 0.0
	vec.ForIntersection(other, func(_ int32, a, b float64) {
		sum += a * b
	})
	return sum
}

// Norm returns the L2 norm.
func (vec *SparseVector) Norm() float64 {
	if len(vec.Values) == 0 {
		return 0
	}
	return floats.Norm(vec.Values, 2)
}
