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
	"github.com/gorse-io/classic/base/heap"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
)

// Predictor estimates the rating of a user on an item within the rating scale
// it was trained with.
type Predictor interface {
	Predict(userId, itemId string) float64
}

// FillMissing predicts every unknown cell of matrix.
func FillMissing(matrix *dataset.RatingMatrix, predictor Predictor) []dataset.Record {
	records := make([]dataset.Record, 0)
	for i := 0; i < matrix.CountRows(); i++ {
		userId, _ := matrix.RowDict().String(int32(i))
		row := matrix.Row(int32(i))
		for j := 0; j < matrix.CountColumns(); j++ {
			if _, ok := row.Get(int32(j)); ok {
				continue
			}
			itemId, _ := matrix.ColumnDict().String(int32(j))
			records = append(records, dataset.Record{
				Row:    userId,
				Column: itemId,
				Value:  predictor.Predict(userId, itemId),
			})
		}
	}
	return records
}

// PredictUnrated returns the n unrated items with the highest predicted ratings.
func PredictUnrated(matrix *dataset.RatingMatrix, predictor Predictor, user string, n int) (List, error) {
	target := matrix.RowDict().Index(user)
	if target < 0 {
		return nil, errors.NotFoundf("user %s", user)
	}
	row := matrix.Row(target)
	topK := heap.NewTopK[int32](n)
	for j := int32(0); j < int32(matrix.CountColumns()); j++ {
		if _, ok := row.Get(j); ok {
			continue
		}
		itemId, _ := matrix.ColumnDict().String(j)
		topK.Push(j, predictor.Predict(user, itemId))
	}
	return fromElems(topK.PopAll(), matrix.ColumnDict()), nil
}
