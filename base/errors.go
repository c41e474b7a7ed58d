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

import "github.com/juju/errors"

const (
	// ErrEmptyInput is returned when no record survives filtering before a matrix is built.
	ErrEmptyInput = errors.ConstError("empty input")
	// ErrEmptyResult is returned when mining or correlation yields nothing above threshold.
	ErrEmptyResult = errors.ConstError("empty result")
	// ErrUndefinedSimilarity is returned when a similarity cannot be computed because of
	// zero variance or insufficient overlap.
	ErrUndefinedSimilarity = errors.ConstError("undefined similarity")
	// ErrUnknownEntity is returned when the query entity is absent. Errors created by
	// errors.NotFoundf satisfy errors.Is(err, ErrUnknownEntity).
	ErrUnknownEntity = errors.NotFound
)

// IsUnknownEntity reports whether err is caused by an unknown entity.
func IsUnknownEntity(err error) bool {
	return errors.Is(err, ErrUnknownEntity)
}
