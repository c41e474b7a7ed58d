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

package similarity

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTFIDF_Tokenize(t *testing.T) {
	tfidf := &TFIDF{StopWords: EnglishStopWords}
	assert.Equal(t, []string{"toy", "story", "woody"}, tfidf.Tokenize("The Toy-Story of a Woody!"))
	tfidf = &TFIDF{}
	assert.Equal(t, []string{"the", "toy", "story", "of", "woody"}, tfidf.Tokenize("The Toy-Story of a Woody!"))
}

func TestTFIDF(t *testing.T) {
	documents := []string{
		"space war",
		"space space adventure",
		"",
	}
	tfidf := &TFIDF{StopWords: EnglishStopWords}
	vectors := tfidf.FitTransform(documents)
	assert.Equal(t, []string{"adventure", "space", "war"}, tfidf.Terms())
	// idf(space) = ln(4/3)+1, idf(war) = idf(adventure) = ln(4/2)+1
	idfSpace := math.Log(4.0/3) + 1
	idfRare := math.Log(2) + 1
	norm := math.Hypot(idfSpace, idfRare)
	assert.Equal(t, []int32{1, 2}, vectors[0].Indices)
	assert.InDelta(t, idfSpace/norm, vectors[0].Values[0], 1e-12)
	assert.InDelta(t, idfRare/norm, vectors[0].Values[1], 1e-12)
	for _, vec := range vectors[:2] {
		assert.InDelta(t, 1, vec.Norm(), 1e-12)
	}
	assert.Zero(t, vectors[2].Len())
}

func TestTFIDF_MaxFeatures(t *testing.T) {
	tfidf := &TFIDF{MaxFeatures: 2}
	tfidf.Fit([]string{"aa bb cc", "bb cc", "cc"})
	assert.Equal(t, []string{"bb", "cc"}, tfidf.Terms())
	vectors := tfidf.Transform([]string{"aa"})
	assert.Zero(t, vectors[0].Len())
}
