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
	"testing"
	"time"

	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/mining"
	"github.com/gorse-io/classic/similarity"
	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ratingMatrix(t *testing.T) *dataset.RatingMatrix {
	records := []dataset.Record{
		{Row: "u1", Column: "a", Value: 5}, {Row: "u1", Column: "b", Value: 4}, {Row: "u1", Column: "c", Value: 1},
		{Row: "u2", Column: "a", Value: 4}, {Row: "u2", Column: "b", Value: 5}, {Row: "u2", Column: "c", Value: 2}, {Row: "u2", Column: "d", Value: 5},
		{Row: "u3", Column: "a", Value: 1}, {Row: "u3", Column: "b", Value: 2}, {Row: "u3", Column: "c", Value: 5}, {Row: "u3", Column: "e", Value: 5},
		{Row: "u4", Column: "a", Value: 2}, {Row: "u4", Column: "d", Value: 1},
		{Row: "u5", Column: "a", Value: 3}, {Row: "u5", Column: "b", Value: 3}, {Row: "u5", Column: "c", Value: 3},
	}
	m, err := dataset.BuildRatingMatrix(records, dataset.BuildOptions{})
	require.NoError(t, err)
	return m
}

func TestList(t *testing.T) {
	l := List{{"b", 1}, {"c", 2}, {"a", 1}}
	SortList(l)
	assert.Equal(t, []string{"c", "a", "b"}, l.Ids())
	assert.Len(t, l.Head(2), 2)
	assert.Len(t, l.Head(0), 3)
	assert.Len(t, l.Head(5), 3)
}

func TestRuleBased(t *testing.T) {
	dict := dataset.NewFreqDict()
	for _, id := range []string{"A", "B", "C", "D"} {
		dict.Add(id)
	}
	rules := []mining.Rule{
		{Antecedent: mining.Itemset{0}, Consequent: mining.Itemset{1}, Lift: 3},
		{Antecedent: mining.Itemset{0}, Consequent: mining.Itemset{2, 3}, Lift: 2},
		{Antecedent: mining.Itemset{0, 2}, Consequent: mining.Itemset{1}, Lift: 2.5},
		{Antecedent: mining.Itemset{1}, Consequent: mining.Itemset{0}, Lift: 5},
	}
	recommender := NewRuleBased(rules, dict)
	list, err := recommender.Recommend("A", mining.Lift, 5, KeepDuplicates)
	assert.NoError(t, err)
	assert.Equal(t, List{{"B", 3}, {"B", 2.5}, {"C", 2}}, list)
	list, err = recommender.Recommend("A", mining.Lift, 5, DedupConsequents)
	assert.NoError(t, err)
	assert.Equal(t, List{{"B", 3}, {"C", 2}}, list)
	list, err = recommender.Recommend("A", mining.Lift, 1, KeepDuplicates)
	assert.NoError(t, err)
	assert.Equal(t, List{{"B", 3}}, list)
	// input order is kept
	assert.Equal(t, 3.0, rules[0].Lift)
	// unknown antecedents
	list, err = recommender.Recommend("D", mining.Lift, 5, KeepDuplicates)
	assert.NoError(t, err)
	assert.Empty(t, list)
	_, err = recommender.Recommend("Z", mining.Lift, 5, KeepDuplicates)
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = recommender.Recommend("A", "unknown", 5, KeepDuplicates)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestRuleBased_Ties(t *testing.T) {
	dict := dataset.NewFreqDict()
	for _, id := range []string{"A", "B", "C"} {
		dict.Add(id)
	}
	rules := []mining.Rule{
		{Antecedent: mining.Itemset{0}, Consequent: mining.Itemset{2}, Lift: 2},
		{Antecedent: mining.Itemset{0}, Consequent: mining.Itemset{1}, Lift: 2},
		{Antecedent: mining.Itemset{0, 2}, Consequent: mining.Itemset{1}, Lift: 2},
	}
	list, err := NewRuleBased(rules, dict).Recommend("A", mining.Lift, 3, KeepDuplicates)
	assert.NoError(t, err)
	assert.Equal(t, List{{"B", 2}, {"B", 2}, {"C", 2}}, list)
}

func TestRuleBased_Mined(t *testing.T) {
	records := make([]dataset.Record, 0)
	for i, items := range [][]string{{"A", "B"}, {"A", "C"}, {"B", "C"}, {"A", "B"}} {
		for _, item := range items {
			records = append(records, dataset.Record{Row: string(rune('0' + i)), Column: item, Value: 1})
		}
	}
	basket, err := dataset.BuildBasketMatrix(records, dataset.BuildOptions{})
	require.NoError(t, err)
	itemsets, err := mining.Apriori(context.Background(), basket, mining.AprioriOptions{MinSupport: 0.5})
	require.NoError(t, err)
	rules, err := mining.GenerateRules(itemsets, mining.Lift, 0)
	require.NoError(t, err)
	list, err := NewRuleBased(rules, basket.ColumnDict()).Recommend("A", mining.Confidence, 10, KeepDuplicates)
	assert.NoError(t, err)
	assert.Equal(t, []string{"B"}, list.Ids())
	assert.InDelta(t, 2.0/3, list[0].Score, 1e-9)
}

func TestItemBased(t *testing.T) {
	m := ratingMatrix(t)
	recommender := NewItemBased(m, similarity.Options{Jobs: 2})
	list, err := recommender.Recommend(context.Background(), "a", 10)
	assert.NoError(t, err)
	// the query item never recommends itself
	assert.NotContains(t, list.Ids(), "a")
	// d shares two raters with a and their ratings agree perfectly
	assert.Equal(t, []string{"d", "b", "c"}, list.Ids())
	assert.InDelta(t, 1, list[0].Score, 1e-12)
	for i := 1; i < len(list); i++ {
		assert.GreaterOrEqual(t, list[i-1].Score, list[i].Score)
	}
	list, err = recommender.Recommend(context.Background(), "a", 1)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = recommender.Recommend(context.Background(), "z", 10)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestUserBased(t *testing.T) {
	m := ratingMatrix(t)
	recommender := NewUserBased(m, DefaultUserBasedOptions())
	neighbors, err := recommender.Neighbors(context.Background(), "u1")
	assert.NoError(t, err)
	// u3 is negatively correlated, u4 shares too few items and u5 is constant
	assert.Len(t, neighbors, 1)
	assert.Equal(t, m.RowDict().Index("u2"), neighbors[0].Index)
	corr, err := similarity.Pearson(m.Row(0), m.Row(1), 2)
	require.NoError(t, err)
	assert.InDelta(t, corr, neighbors[0].Value, 1e-12)

	list, err := recommender.Recommend(context.Background(), "u1", 10)
	assert.NoError(t, err)
	// b and d tie, broken by id
	assert.Equal(t, []string{"b", "d"}, list.Ids())
	assert.InDelta(t, corr*5, list[0].Score, 1e-12)

	_, err = recommender.Recommend(context.Background(), "unknown", 10)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestUserBased_Options(t *testing.T) {
	m := ratingMatrix(t)
	opts := DefaultUserBasedOptions()
	opts.ExcludeRated = true
	list, err := NewUserBased(m, opts).Recommend(context.Background(), "u1", 10)
	assert.NoError(t, err)
	assert.Equal(t, []string{"d"}, list.Ids())
	// constant ratings leave no neighbor
	list, err = NewUserBased(m, DefaultUserBasedOptions()).Recommend(context.Background(), "u5", 10)
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestContentBased(t *testing.T) {
	titles := []string{"Toy Story", "Space War", "Toy Story", "Toy Soldiers"}
	overviews := []string{
		"old toys come alive",
		"war in space",
		"cowboy toy and space ranger toy",
		"toy soldiers fight a war",
	}
	recommender, err := NewContentBased(titles, overviews, &similarity.TFIDF{StopWords: similarity.EnglishStopWords}, 2)
	require.NoError(t, err)
	list, err := recommender.Recommend(context.Background(), "Toy Story", 2)
	assert.NoError(t, err)
	// the last "Toy Story" is the query
	assert.Equal(t, []string{"Toy Soldiers", "Space War"}, list.Ids())
	_, err = recommender.Recommend(context.Background(), "Unknown", 2)
	assert.True(t, errors.Is(err, errors.NotFound))
	_, err = NewContentBased(titles, overviews[:1], &similarity.TFIDF{}, 1)
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestContentBased_Ties(t *testing.T) {
	titles := []string{"Query", "Zeta", "Alpha", "Mid"}
	overviews := []string{"space pirates", "space pirates", "space pirates", "space pirates"}
	recommender, err := NewContentBased(titles, overviews, &similarity.TFIDF{}, 1)
	require.NoError(t, err)
	list, err := recommender.Recommend(context.Background(), "Query", 2)
	assert.NoError(t, err)
	assert.Equal(t, List{{"Alpha", 1}, {"Mid", 1}}, list)
}

func TestHybrid(t *testing.T) {
	a := func(context.Context) (List, error) { return List{{"x", 3}, {"y", 2}, {"z", 1}}, nil }
	b := func(context.Context) (List, error) { return List{{"y", 0.9}, {"w", 0.8}}, nil }
	list, err := Hybrid(context.Background(), 2, a, b)
	assert.NoError(t, err)
	assert.Equal(t, List{{"x", 3}, {"y", 2}, {"y", 0.9}, {"w", 0.8}}, list)

	failed := func(context.Context) (List, error) { return nil, errors.NotFoundf("user u") }
	_, err = Hybrid(context.Background(), 2, a, failed)
	assert.True(t, errors.Is(err, errors.NotFound))
}

func TestSeedItem(t *testing.T) {
	t1 := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	m, err := dataset.BuildRatingMatrix([]dataset.Record{
		{Row: "u", Column: "a", Value: 4.5, Timestamp: t1},
		{Row: "u", Column: "b", Value: 4.5, Timestamp: t2},
		{Row: "u", Column: "c", Value: 3, Timestamp: t2},
		{Row: "v", Column: "c", Value: 5, Timestamp: t1},
	}, dataset.BuildOptions{})
	require.NoError(t, err)
	seed, err := SeedItem(m, "u")
	assert.NoError(t, err)
	assert.Equal(t, "b", seed)
	_, err = SeedItem(m, "w")
	assert.True(t, errors.Is(err, errors.NotFound))
}

type meanPredictor float64

func (p meanPredictor) Predict(string, string) float64 {
	return float64(p)
}

type itemPredictor map[string]float64

func (p itemPredictor) Predict(_, itemId string) float64 {
	return p[itemId]
}

func TestFillMissing(t *testing.T) {
	m := ratingMatrix(t)
	records := FillMissing(m, meanPredictor(3))
	assert.Len(t, records, m.CountRows()*m.CountColumns()-16)
	for _, r := range records {
		assert.Equal(t, 3.0, r.Value)
		j := m.ColumnDict().Index(r.Column)
		_, ok := m.Get(m.RowDict().Index(r.Row), j)
		assert.False(t, ok)
	}
	list, err := PredictUnrated(m, itemPredictor{"d": 4, "e": 4.5}, "u1", 1)
	assert.NoError(t, err)
	assert.Equal(t, List{{"e", 4.5}}, list)
	_, err = PredictUnrated(m, meanPredictor(3), "unknown", 1)
	assert.True(t, errors.Is(err, errors.NotFound))
}
