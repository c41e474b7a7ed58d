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
	"regexp"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/base/heap"
	"github.com/samber/lo"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// EnglishStopWords are dropped by the tokenizer when stop words are enabled.
var EnglishStopWords = mapset.NewSet(
	"a", "about", "above", "across", "after", "afterwards", "again", "against", "all", "almost",
	"alone", "along", "already", "also", "although", "always", "am", "among", "amongst", "an",
	"and", "another", "any", "anyhow", "anyone", "anything", "anyway", "anywhere", "are", "around",
	"as", "at", "back", "be", "became", "because", "become", "becomes", "becoming", "been",
	"before", "beforehand", "behind", "being", "below", "beside", "besides", "between", "beyond", "both",
	"but", "by", "can", "cannot", "could", "did", "do", "does", "done", "down",
	"due", "during", "each", "eg", "either", "else", "elsewhere", "enough", "etc", "even",
	"ever", "every", "everyone", "everything", "everywhere", "except", "few", "for", "former", "formerly",
	"from", "further", "had", "has", "have", "he", "hence", "her", "here", "hereafter",
	"hereby", "herein", "hers", "herself", "him", "himself", "his", "how", "however", "ie",
	"if", "in", "indeed", "into", "is", "it", "its", "itself", "just", "last",
	"latter", "least", "less", "many", "may", "me", "meanwhile", "might", "more", "moreover",
	"most", "mostly", "much", "must", "my", "myself", "namely", "neither", "never", "nevertheless",
	"next", "no", "nobody", "none", "noone", "nor", "not", "nothing", "now", "nowhere",
	"of", "off", "often", "on", "once", "one", "only", "onto", "or", "other",
	"others", "otherwise", "our", "ours", "ourselves", "out", "over", "own", "per", "perhaps",
	"please", "rather", "re", "same", "seem", "seemed", "seeming", "seems", "several", "she",
	"should", "since", "so", "some", "somehow", "someone", "something", "sometime", "sometimes", "somewhere",
	"still", "such", "than", "that", "the", "their", "them", "themselves", "then", "thence",
	"there", "thereafter", "thereby", "therefore", "therein", "thereupon", "these", "they", "this", "those",
	"though", "through", "throughout", "thru", "thus", "to", "together", "too", "toward", "towards",
	"under", "until", "up", "upon", "us", "very", "via", "was", "we", "well",
	"were", "what", "whatever", "when", "whence", "whenever", "where", "whereafter", "whereas", "whereby",
	"wherein", "whereupon", "wherever", "whether", "which", "while", "whither", "who", "whoever", "whole",
	"whom", "whose", "why", "will", "with", "within", "without", "would", "yet", "you",
	"your", "yours", "yourself", "yourselves",
)

// TFIDF turns documents into L2-normalized TF-IDF vectors. Term frequencies are
// raw counts and IDF is smoothed: ln((1+n)/(1+df))+1.
type TFIDF struct {
	// StopWords are removed after lower-casing. Nil keeps every token.
	StopWords mapset.Set[string]
	// MaxFeatures keeps the most frequent terms across the corpus if positive.
	MaxFeatures int

	vocabulary map[string]int32
	terms      []string
	idf        []float64
}

// Tokenize splits text into lower-cased tokens of at least two characters.
func (t *TFIDF) Tokenize(text string) []string {
	tokens := tokenPattern.FindAllString(strings.ToLower(text), -1)
	if t.StopWords == nil {
		return tokens
	}
	return lo.Filter(tokens, func(token string, _ int) bool {
		return !t.StopWords.Contains(token)
	})
}

// Fit learns the vocabulary and IDF weights of documents.
func (t *TFIDF) Fit(documents []string) {
	termCount := make(map[string]int)
	docCount := make(map[string]int)
	for _, doc := range documents {
		tokens := t.Tokenize(doc)
		for _, token := range tokens {
			termCount[token]++
		}
		for _, token := range lo.Uniq(tokens) {
			docCount[token]++
		}
	}
	terms := lo.Keys(termCount)
	if t.MaxFeatures > 0 && len(terms) > t.MaxFeatures {
		topK := heap.NewTopK[string](t.MaxFeatures)
		for _, term := range terms {
			topK.Push(term, float64(termCount[term]))
		}
		terms = lo.Map(topK.PopAll(), func(e heap.Elem[string], _ int) string { return e.Value })
	}
	slices.Sort(terms)
	t.terms = terms
	t.vocabulary = make(map[string]int32, len(terms))
	t.idf = make([]float64, len(terms))
	n := float64(len(documents))
	for i, term := range terms {
		t.vocabulary[term] = int32(i)
		t.idf[i] = math.Log((1+n)/(1+float64(docCount[term]))) + 1
	}
}

// Transform converts documents into sorted sparse vectors over the fitted vocabulary.
// An empty document yields an empty vector.
func (t *TFIDF) Transform(documents []string) []*base.SparseVector {
	vectors := make([]*base.SparseVector, len(documents))
	for i, doc := range documents {
		counts := make(map[int32]float64)
		for _, token := range t.Tokenize(doc) {
			if index, ok := t.vocabulary[token]; ok {
				counts[index]++
			}
		}
		keys := lo.Keys(counts)
		slices.Sort(keys)
		vec := base.NewSparseVector()
		for _, index := range keys {
			vec.Add(index, counts[index]*t.idf[index])
		}
		if norm := vec.Norm(); norm > 0 {
			for k := range vec.Values {
				vec.Values[k] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// FitTransform fits documents and transforms them.
func (t *TFIDF) FitTransform(documents []string) []*base.SparseVector {
	t.Fit(documents)
	return t.Transform(documents)
}

// Terms returns the vocabulary in index order.
func (t *TFIDF) Terms() []string {
	return t.terms
}
