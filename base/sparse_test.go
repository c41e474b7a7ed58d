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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSparseVector(t *testing.T) {
	vec := NewSparseVector()
	// Add new items
	vec.Add(2, 1)
	vec.Add(1, 0)
	vec.Add(4, 4)
	vec.Add(0, 2)
	assert.False(t, vec.Sorted)
	assert.Equal(t, 4, vec.Len())
	// Sort by indices
	vec.SortIndex()
	assert.True(t, vec.Sorted)
	assert.Equal(t, []int32{0, 1, 2, 4}, vec.Indices)
	assert.Equal(t, []float64{2, 0, 1, 4}, vec.Values)
	// Get
	v, ok := vec.Get(1)
	assert.True(t, ok)
	assert.Zero(t, v)
	_, ok = vec.Get(3)
	assert.False(t, ok)
	// ForEach
	indices := make([]int32, 0)
	vec.ForEach(func(i int, index int32, value float64) {
		indices = append(indices, index)
	})
	assert.Equal(t, []int32{0, 1, 2, 4}, indices)
}

func TestSparseVector_ForIntersection(t *testing.T) {
	a := NewSparseVector()
	b := NewSparseVector()
	for i := int32(0); i < 6; i++ {
		a.Add(i, float64(i))
		b.Add(i*2, float64(i*2))
	}
	intersect := make([]int32, 0)
	a.ForIntersection(b, func(index int32, x, y float64) {
		assert.Equal(t, x, y)
		intersect = append(intersect, index)
	})
	assert.Equal(t, []int32{0, 2, 4}, intersect)
	assert.Equal(t, 0.0+4+16, a.Dot(b))
	assert.InDelta(t, math.Sqrt(55), a.Norm(), 1e-12)
	assert.Zero(t, NewSparseVector().Norm())
}
