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

package base

import (
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	err := errors.Annotatef(ErrEmptyInput, "no record with at least %d occurrences", 3)
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.NotErrorIs(t, err, ErrEmptyResult)
	assert.ErrorIs(t, errors.Trace(err), ErrEmptyInput)

	err = errors.NotFoundf("item %q", "22492")
	assert.True(t, IsUnknownEntity(err))
	assert.True(t, IsUnknownEntity(errors.Trace(err)))
	assert.False(t, IsUnknownEntity(ErrUndefinedSimilarity))
}
