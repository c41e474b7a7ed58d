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
	"slices"
	"time"

	"github.com/bits-and-blooms/bitset"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/base/log"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Record is a single (row, column, value) observation. For baskets the row is
// a transaction and the value a quantity. For ratings the row is a user and the
// value a rating. Timestamp is zero when absent.
type Record struct {
	Row       string
	Column    string
	Value     float64
	Timestamp time.Time
}

// BuildOptions control which records take part in a matrix.
type BuildOptions struct {
	// MinRowCount drops rows referenced by fewer records.
	MinRowCount int
	// MinColumnCount drops columns referenced by fewer records.
	MinColumnCount int
	// Columns restricts the matrix to the listed columns if not empty.
	Columns []string
}

type cell struct {
	row, col int32
}

// filterRecords applies the column allow-list, then the column count filter,
// then the row count filter.
func filterRecords(records []Record, opts BuildOptions) []Record {
	kept := records
	if len(opts.Columns) > 0 {
		allowed := mapset.NewThreadUnsafeSet(opts.Columns...)
		kept = lo.Filter(kept, func(r Record, _ int) bool {
			return allowed.Contains(r.Column)
		})
	}
	if opts.MinColumnCount > 1 {
		counts := lo.CountValuesBy(kept, func(r Record) string { return r.Column })
		kept = lo.Filter(kept, func(r Record, _ int) bool {
			return counts[r.Column] >= opts.MinColumnCount
		})
	}
	if opts.MinRowCount > 1 {
		counts := lo.CountValuesBy(kept, func(r Record) string { return r.Row })
		kept = lo.Filter(kept, func(r Record, _ int) bool {
			return counts[r.Row] >= opts.MinRowCount
		})
	}
	return kept
}

// buildDicts assigns indices in ascending id order, so that ties broken by
// index are broken by id.
func buildDicts(records []Record) (rows, cols *FreqDict) {
	rowIds := lo.Uniq(lo.Map(records, func(r Record, _ int) string { return r.Row }))
	colIds := lo.Uniq(lo.Map(records, func(r Record, _ int) string { return r.Column }))
	slices.Sort(rowIds)
	slices.Sort(colIds)
	rows, cols = NewFreqDict(), NewFreqDict()
	for _, id := range rowIds {
		rows.Add(id)
	}
	for _, id := range colIds {
		cols.Add(id)
	}
	for _, r := range records {
		rows.Id(r.Row)
		cols.Id(r.Column)
	}
	return
}

// BasketMatrix is a boolean transaction-item matrix. Each item column is a
// bitset over transactions.
type BasketMatrix struct {
	rowDict *FreqDict
	colDict *FreqDict
	columns []*bitset.BitSet
	rows    [][]int32
}

// BuildBasketMatrix groups records by (transaction, item), sums quantities and
// marks an item present when the sum is positive. Transactions without any
// present item still count as transactions.
func BuildBasketMatrix(records []Record, opts BuildOptions) (*BasketMatrix, error) {
	kept := filterRecords(records, opts)
	if len(kept) == 0 {
		return nil, errors.Annotatef(base.ErrEmptyInput, "%d records before filtering", len(records))
	}
	rowDict, colDict := buildDicts(kept)
	sums := make(map[cell]float64)
	for _, r := range kept {
		sums[cell{rowDict.Index(r.Row), colDict.Index(r.Column)}] += r.Value
	}
	m := &BasketMatrix{
		rowDict: rowDict,
		colDict: colDict,
		columns: make([]*bitset.BitSet, colDict.Count()),
		rows:    make([][]int32, rowDict.Count()),
	}
	for j := range m.columns {
		m.columns[j] = bitset.New(uint(rowDict.Count()))
	}
	for c, sum := range sums {
		if sum > 0 {
			m.columns[c.col].Set(uint(c.row))
			m.rows[c.row] = append(m.rows[c.row], c.col)
		}
	}
	for i := range m.rows {
		slices.Sort(m.rows[i])
	}
	log.Logger().Debug("build basket matrix",
		zap.Int("n_records", len(kept)),
		zap.Int32("n_transactions", rowDict.Count()),
		zap.Int32("n_items", colDict.Count()))
	return m, nil
}

// CountRows returns the number of transactions.
func (m *BasketMatrix) CountRows() int {
	return len(m.rows)
}

// CountColumns returns the number of items.
func (m *BasketMatrix) CountColumns() int {
	return len(m.columns)
}

func (m *BasketMatrix) RowDict() *FreqDict {
	return m.rowDict
}

func (m *BasketMatrix) ColumnDict() *FreqDict {
	return m.colDict
}

// Column returns the transactions containing item j. The bitset must not be modified.
func (m *BasketMatrix) Column(j int32) *bitset.BitSet {
	return m.columns[j]
}

// Row returns sorted items of transaction i.
func (m *BasketMatrix) Row(i int32) []int32 {
	return m.rows[i]
}

// Contains reports whether transaction i contains item j.
func (m *BasketMatrix) Contains(i, j int32) bool {
	return m.columns[j].Test(uint(i))
}

// Support returns the fraction of transactions containing item j.
func (m *BasketMatrix) Support(j int32) float64 {
	if len(m.rows) == 0 {
		return 0
	}
	return float64(m.columns[j].Count()) / float64(len(m.rows))
}

// RatingMatrix is a user-item matrix of explicit ratings. Missing cells are
// unknown.
type RatingMatrix struct {
	rowDict    *FreqDict
	colDict    *FreqDict
	rows       []*base.SparseVector
	columns    []*base.SparseVector
	timestamps [][]time.Time
}

// BuildRatingMatrix groups records by (user, item) and sums values. The latest
// timestamp of each cell is kept.
func BuildRatingMatrix(records []Record, opts BuildOptions) (*RatingMatrix, error) {
	kept := filterRecords(records, opts)
	if len(kept) == 0 {
		return nil, errors.Annotatef(base.ErrEmptyInput, "%d records before filtering", len(records))
	}
	rowDict, colDict := buildDicts(kept)
	sums := make(map[cell]float64)
	latest := make(map[cell]time.Time)
	for _, r := range kept {
		c := cell{rowDict.Index(r.Row), colDict.Index(r.Column)}
		sums[c] += r.Value
		if r.Timestamp.After(latest[c]) {
			latest[c] = r.Timestamp
		}
	}
	cells := lo.Keys(sums)
	slices.SortFunc(cells, func(a, b cell) int {
		if a.row != b.row {
			return int(a.row - b.row)
		}
		return int(a.col - b.col)
	})
	m := &RatingMatrix{
		rowDict:    rowDict,
		colDict:    colDict,
		rows:       make([]*base.SparseVector, rowDict.Count()),
		columns:    make([]*base.SparseVector, colDict.Count()),
		timestamps: make([][]time.Time, rowDict.Count()),
	}
	for i := range m.rows {
		m.rows[i] = base.NewSparseVector()
	}
	for j := range m.columns {
		m.columns[j] = base.NewSparseVector()
	}
	// cells are sorted by row then column, so every vector stays sorted
	for _, c := range cells {
		m.rows[c.row].Add(c.col, sums[c])
		m.columns[c.col].Add(c.row, sums[c])
		m.timestamps[c.row] = append(m.timestamps[c.row], latest[c])
	}
	log.Logger().Debug("build rating matrix",
		zap.Int("n_records", len(kept)),
		zap.Int32("n_users", rowDict.Count()),
		zap.Int32("n_items", colDict.Count()),
		zap.Int("n_ratings", len(cells)))
	return m, nil
}

// CountRows returns the number of users.
func (m *RatingMatrix) CountRows() int {
	return len(m.rows)
}

// CountColumns returns the number of items.
func (m *RatingMatrix) CountColumns() int {
	return len(m.columns)
}

func (m *RatingMatrix) RowDict() *FreqDict {
	return m.rowDict
}

func (m *RatingMatrix) ColumnDict() *FreqDict {
	return m.colDict
}

// Row returns ratings of user i sorted by item index. The vector must not be modified.
func (m *RatingMatrix) Row(i int32) *base.SparseVector {
	return m.rows[i]
}

// Column returns ratings of item j sorted by user index. The vector must not be modified.
func (m *RatingMatrix) Column(j int32) *base.SparseVector {
	return m.columns[j]
}

// RowTimestamps returns the latest timestamps of user i, aligned with Row(i).
func (m *RatingMatrix) RowTimestamps(i int32) []time.Time {
	return m.timestamps[i]
}

// Get returns the rating of user i on item j.
func (m *RatingMatrix) Get(i, j int32) (float64, bool) {
	return m.rows[i].Get(j)
}

// Records returns every known cell as a record.
func (m *RatingMatrix) Records() []Record {
	records := make([]Record, 0)
	for i, row := range m.rows {
		userId, _ := m.rowDict.String(int32(i))
		row.ForEach(func(k int, j int32, value float64) {
			itemId, _ := m.colDict.String(j)
			records = append(records, Record{
				Row:       userId,
				Column:    itemId,
				Value:     value,
				Timestamp: m.timestamps[i][k],
			})
		})
	}
	return records
}
