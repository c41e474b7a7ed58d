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

	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/similarity"
	"github.com/juju/errors"
)

// ContentBased recommends documents with similar TF-IDF vectors.
type ContentBased struct {
	titles  []string
	vectors []*base.SparseVector
	index   map[string]int32
	jobs    int
}

// NewContentBased vectorizes overviews. A title appearing more than once refers
// to its last document.
func NewContentBased(titles, overviews []string, tfidf *similarity.TFIDF, jobs int) (*ContentBased, error) {
	if len(titles) != len(overviews) {
		return nil, errors.NotValidf("%d titles for %d overviews", len(titles), len(overviews))
	}
	if len(titles) == 0 {
		return nil, errors.Trace(base.ErrEmptyInput)
	}
	index := make(map[string]int32, len(titles))
	for i, title := range titles {
		index[title] = int32(i)
	}
	return &ContentBased{
		titles:  titles,
		vectors: tfidf.FitTransform(overviews),
		index:   index,
		jobs:    jobs,
	}, nil
}

// Recommend returns the n documents most similar to title, excluding the
// document of title. Ties are broken by title ascending.
func (r *ContentBased) Recommend(ctx context.Context, title string, n int) (List, error) {
	target, ok := r.index[title]
	if !ok {
		return nil, errors.NotFoundf("title %s", title)
	}
	row, err := similarity.RowSimilarity(ctx, r.vectors, target, r.jobs)
	if err != nil {
		return nil, errors.Trace(err)
	}
	list := fromScores(row.Without(target), func(i int32) string {
		return r.titles[i]
	})
	SortList(list)
	return list.Head(n), nil
}
