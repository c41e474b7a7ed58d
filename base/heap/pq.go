// Copyright 2022 gorse Project Authors
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

package heap

import (
	"cmp"
	"container/heap"
	"math"
	"slices"
)

type Elem[E cmp.Ordered] struct {
	Value  E
	Weight float64
}

// Better reports whether a ranks before b: higher weight first, then smaller value.
func Better[E cmp.Ordered](a, b Elem[E]) bool {
	if a.Weight != b.Weight {
		return a.Weight > b.Weight
	}
	return a.Value < b.Value
}

// Compare orders elements by rank for slices.SortFunc.
func Compare[E cmp.Ordered](a, b Elem[E]) int {
	if Better(a, b) {
		return -1
	} else if Better(b, a) {
		return 1
	}
	return 0
}

// Sort sorts elements by weight descending, ties broken by value ascending.
func Sort[E cmp.Ordered](elems []Elem[E]) {
	slices.SortFunc(elems, Compare[E])
}

// _heap keeps the worst element on top.
type _heap[E cmp.Ordered] struct {
	elems []Elem[E]
}

func (h *_heap[E]) Len() int {
	return len(h.elems)
}

func (h *_heap[E]) Less(i, j int) bool {
	return Better(h.elems[j], h.elems[i])
}

func (h *_heap[E]) Swap(i, j int) {
	h.elems[i], h.elems[j] = h.elems[j], h.elems[i]
}

func (h *_heap[E]) Push(x interface{}) {
	h.elems = append(h.elems, x.(Elem[E]))
}

func (h *_heap[E]) Pop() interface{} {
	old := h.elems
	item := old[len(old)-1]
	h.elems = old[0 : len(old)-1]
	return item
}

// TopK keeps the k best elements pushed into it. The kept set does not
// depend on push order.
type TopK[E cmp.Ordered] struct {
	_heap[E]
	k int
}

// NewTopK creates a TopK. A non-positive k keeps every element.
func NewTopK[E cmp.Ordered](k int) *TopK[E] {
	return &TopK[E]{k: k}
}

// Push inserts an element. NaN weights are forbidden.
func (t *TopK[E]) Push(v E, weight float64) {
	if math.IsNaN(weight) {
		panic("NaN weight is forbidden")
	}
	elem := Elem[E]{Value: v, Weight: weight}
	if t.k <= 0 || t.Len() < t.k {
		heap.Push(&t._heap, elem)
	} else if Better(elem, t.elems[0]) {
		t.elems[0] = elem
		heap.Fix(&t._heap, 0)
	}
}

// PopAll returns kept elements from best to worst and empties the heap.
func (t *TopK[E]) PopAll() []Elem[E] {
	elems := make([]Elem[E], t.Len())
	for i := len(elems) - 1; i >= 0; i-- {
		elems[i] = heap.Pop(&t._heap).(Elem[E])
	}
	return elems
}
