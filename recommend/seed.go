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
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
)

// SeedItem picks the item user rated highest, preferring the most recent
// rating among ties and then the smallest item id.
func SeedItem(matrix *dataset.RatingMatrix, user string) (string, error) {
	target := matrix.RowDict().Index(user)
	if target < 0 {
		return "", errors.NotFoundf("user %s", user)
	}
	row := matrix.Row(target)
	timestamps := matrix.RowTimestamps(target)
	best := -1
	for k := range row.Indices {
		if best < 0 || row.Values[k] > row.Values[best] ||
			(row.Values[k] == row.Values[best] && timestamps[k].After(timestamps[best])) {
			best = k
		}
	}
	if best < 0 {
		return "", errors.NotFoundf("ratings of user %s", user)
	}
	id, _ := matrix.ColumnDict().String(row.Indices[best])
	return id, nil
}
