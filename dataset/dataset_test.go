// Copyright 2025 gorse Project Authors
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

package dataset

import (
	"testing"
	"time"

	"github.com/gorse-io/classic/base"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestBuildBasketMatrix(t *testing.T) {
	records := []Record{
		{Row: "t2", Column: "B", Value: 1},
		{Row: "t1", Column: "A", Value: 2},
		{Row: "t1", Column: "B", Value: 1},
		{Row: "t1", Column: "B", Value: -1},
		{Row: "t3", Column: "C", Value: -3},
		{Row: "t2", Column: "A", Value: 1},
	}
	m, err := BuildBasketMatrix(records, BuildOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 3, m.CountRows())
	assert.Equal(t, 3, m.CountColumns())
	// indices follow sorted ids
	assert.Equal(t, []string{"t1", "t2", "t3"}, m.RowDict().Strings())
	assert.Equal(t, []string{"A", "B", "C"}, m.ColumnDict().Strings())
	// returned item cancels out
	assert.Equal(t, []int32{0}, m.Row(0))
	assert.Equal(t, []int32{0, 1}, m.Row(1))
	assert.Empty(t, m.Row(2))
	assert.True(t, m.Contains(1, 1))
	assert.False(t, m.Contains(0, 1))
	assert.InDelta(t, 2.0/3, m.Support(0), 1e-12)
	assert.Zero(t, m.Support(2))
	assert.Equal(t, uint(2), m.Column(0).Count())
	// input untouched
	assert.Equal(t, "t2", records[0].Row)
}

func TestBuildBasketMatrix_Filter(t *testing.T) {
	records := []Record{
		{Row: "t1", Column: "A", Value: 1},
		{Row: "t1", Column: "B", Value: 1},
		{Row: "t2", Column: "A", Value: 1},
		{Row: "t3", Column: "C", Value: 1},
	}
	m, err := BuildBasketMatrix(records, BuildOptions{MinColumnCount: 2})
	assert.NoError(t, err)
	assert.Equal(t, []string{"A"}, m.ColumnDict().Strings())
	assert.Equal(t, []string{"t1", "t2"}, m.RowDict().Strings())

	m, err = BuildBasketMatrix(records, BuildOptions{MinRowCount: 2})
	assert.NoError(t, err)
	assert.Equal(t, []string{"t1"}, m.RowDict().Strings())
	assert.Equal(t, []string{"A", "B"}, m.ColumnDict().Strings())

	m, err = BuildBasketMatrix(records, BuildOptions{Columns: []string{"B", "C"}})
	assert.NoError(t, err)
	assert.Equal(t, []string{"B", "C"}, m.ColumnDict().Strings())

	_, err = BuildBasketMatrix(records, BuildOptions{MinColumnCount: 3})
	assert.True(t, errors.Is(err, base.ErrEmptyInput))
	_, err = BuildBasketMatrix(nil, BuildOptions{})
	assert.True(t, errors.Is(err, base.ErrEmptyInput))
}

func TestBuildRatingMatrix(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	records := []Record{
		{Row: "u2", Column: "m1", Value: 4, Timestamp: t1},
		{Row: "u1", Column: "m2", Value: 3, Timestamp: t2},
		{Row: "u1", Column: "m1", Value: 5, Timestamp: t1},
		{Row: "u2", Column: "m3", Value: 1, Timestamp: t2},
		{Row: "u2", Column: "m3", Value: 1, Timestamp: t1},
	}
	m, err := BuildRatingMatrix(records, BuildOptions{})
	assert.NoError(t, err)
	assert.Equal(t, 2, m.CountRows())
	assert.Equal(t, 3, m.CountColumns())
	assert.Equal(t, []int32{0, 1}, m.Row(0).Indices)
	assert.Equal(t, []float64{5, 3}, m.Row(0).Values)
	assert.Equal(t, []int32{0, 2}, m.Row(1).Indices)
	assert.Equal(t, []float64{4, 2}, m.Row(1).Values)
	assert.Equal(t, []int32{0, 1}, m.Column(0).Indices)
	assert.Equal(t, []time.Time{t1, t2}, m.RowTimestamps(1))
	v, ok := m.Get(1, 2)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
	// missing cell is unknown
	_, ok = m.Get(0, 2)
	assert.False(t, ok)
	assert.Equal(t, 2, m.ColumnDict().Freq(2))
	assert.Len(t, m.Records(), 4)
}

func TestBuildRatingMatrix_Empty(t *testing.T) {
	_, err := BuildRatingMatrix([]Record{{Row: "u", Column: "m", Value: 1}}, BuildOptions{MinRowCount: 2})
	assert.True(t, errors.Is(err, base.ErrEmptyInput))
}
