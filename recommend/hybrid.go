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

	"github.com/juju/errors"
	"golang.org/x/sync/errgroup"
)

// Hybrid runs both strategies concurrently and concatenates the top n of a with
// the top n of b. Entries are neither deduplicated nor re-ranked.
func Hybrid(ctx context.Context, n int, a, b Strategy) (List, error) {
	var listA, listB List
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		listA, err = a(ctx)
		return errors.Annotate(err, "first strategy")
	})
	g.Go(func() (err error) {
		listB, err = b(ctx)
		return errors.Annotate(err, "second strategy")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	result := make(List, 0, len(listA)+len(listB))
	result = append(result, listA.Head(n)...)
	result = append(result, listB.Head(n)...)
	return result, nil
}
