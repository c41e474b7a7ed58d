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

	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/similarity"
	"github.com/juju/errors"
)

// ItemBased recommends items whose ratings correlate with the ratings of a
// query item.
type ItemBased struct {
	matrix *dataset.RatingMatrix
	opts   similarity.Options
}

func NewItemBased(matrix *dataset.RatingMatrix, opts similarity.Options) *ItemBased {
	return &ItemBased{matrix: matrix, opts: opts}
}

// Recommend returns the n items most correlated with item, excluding item
// itself. Items with undefined correlation are skipped.
func (r *ItemBased) Recommend(ctx context.Context, item string, n int) (List, error) {
	target := r.matrix.ColumnDict().Index(item)
	if target < 0 {
		return nil, errors.NotFoundf("item %s", item)
	}
	row, err := similarity.ColumnCorrelation(ctx, r.matrix, target, r.opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	list := fromScores(row.Without(target), func(j int32) string {
		id, _ := r.matrix.ColumnDict().String(j)
		return id
	})
	return list.Head(n), nil
}
