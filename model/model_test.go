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

package model

import (
	"context"
	"fmt"
	"testing"

	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scale = Scale{Min: 1, Max: 5}

// syntheticRatings generates ratings driven by user and item biases.
func syntheticRatings(nUsers, nItems int, density float64) []dataset.Record {
	rng := base.NewRandomGenerator(0)
	userBias := rng.NormalVector64(nUsers, 0, 0.8)
	itemBias := rng.NormalVector64(nItems, 0, 0.8)
	records := make([]dataset.Record, 0)
	for u := 0; u < nUsers; u++ {
		for i := 0; i < nItems; i++ {
			if rng.Float64() < density {
				records = append(records, dataset.Record{
					Row:    fmt.Sprintf("u%d", u),
					Column: fmt.Sprintf("i%d", i),
					Value:  scale.Clip(3 + userBias[u] + itemBias[i] + rng.NormFloat64()*0.1),
				})
			}
		}
	}
	return records
}

func TestScale(t *testing.T) {
	assert.NoError(t, scale.Validate())
	assert.True(t, errors.Is(Scale{Min: 5, Max: 1}.Validate(), errors.NotValid))
	assert.Equal(t, 1.0, scale.Clip(-3))
	assert.Equal(t, 5.0, scale.Clip(7))
	assert.Equal(t, 2.5, scale.Clip(2.5))
}

func TestSVD(t *testing.T) {
	records := syntheticRatings(50, 20, 0.5)
	trains, tests := NewRatioSplitter(1, 0.25)(records, 42)
	svd := NewSVD(Params{NFactors: 5, NEpochs: 30, Lr: 0.01})
	require.NoError(t, svd.Fit(context.Background(), trains[0], scale))
	score := Evaluate(svd, tests[0])
	assert.Less(t, score.RMSE, 0.8)
	assert.LessOrEqual(t, score.MAE, score.RMSE)
	// predictions stay within the scale
	for _, r := range tests[0] {
		p := svd.Predict(r.Row, r.Column)
		assert.GreaterOrEqual(t, p, scale.Min)
		assert.LessOrEqual(t, p, scale.Max)
	}
	// unknown entities fall back to biases
	assert.InDelta(t, scale.Clip(svd.GlobalBias), svd.Predict("unknown", "unknown"), 1e-12)
}

func TestSVD_Deterministic(t *testing.T) {
	records := syntheticRatings(20, 10, 0.5)
	a := NewSVD(Params{NFactors: 3, NEpochs: 5, RandomState: int64(7)})
	b := NewSVD(Params{NFactors: 3, NEpochs: 5, RandomState: int64(7)})
	require.NoError(t, a.Fit(context.Background(), records, scale))
	require.NoError(t, b.Fit(context.Background(), records, scale))
	assert.Equal(t, a.UserFactor, b.UserFactor)
	assert.Equal(t, a.Predict("u1", "i1"), b.Predict("u1", "i1"))
}

func TestSVD_Errors(t *testing.T) {
	svd := NewSVD(nil)
	err := svd.Fit(context.Background(), nil, scale)
	assert.True(t, errors.Is(err, base.ErrEmptyInput))
	err = svd.Fit(context.Background(), syntheticRatings(5, 5, 1), Scale{Min: 1, Max: 1})
	assert.True(t, errors.Is(err, errors.NotValid))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = svd.Fit(ctx, syntheticRatings(5, 5, 1), scale)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestKFoldSplitter(t *testing.T) {
	records := syntheticRatings(10, 10, 1)
	trains, tests := NewKFoldSplitter(3)(records, 0)
	assert.Len(t, trains, 3)
	assert.Equal(t, []int{34, 33, 33}, lo.Map(tests, func(fold []dataset.Record, _ int) int { return len(fold) }))
	tested := make(map[string]int)
	for i := range trains {
		assert.Equal(t, len(records), len(trains[i])+len(tests[i]))
		for _, r := range tests[i] {
			tested[r.Row+"/"+r.Column]++
		}
	}
	assert.Len(t, tested, len(records))
	for _, count := range tested {
		assert.Equal(t, 1, count)
	}
}

func TestKFoldSplitter_FewRecords(t *testing.T) {
	records := syntheticRatings(1, 2, 1)
	trains, tests := NewKFoldSplitter(3)(records, 0)
	assert.Len(t, trains, 2)
	assert.Len(t, tests[0], 1)
	assert.Len(t, trains[0], 1)
}

func TestRatioSplitter(t *testing.T) {
	records := syntheticRatings(10, 10, 1)
	trains, tests := NewRatioSplitter(2, 0.2)(records, 0)
	for i := range trains {
		assert.Len(t, trains[i], 80)
		assert.Len(t, tests[i], 20)
	}
}

type constantPredictor float64

func (p constantPredictor) Predict(string, string) float64 {
	return float64(p)
}

func TestEvaluate(t *testing.T) {
	testSet := []dataset.Record{{Value: 1}, {Value: 3}}
	score := Evaluate(constantPredictor(2), testSet)
	assert.InDelta(t, 1, score.RMSE, 1e-12)
	assert.InDelta(t, 1, score.MAE, 1e-12)
	testSet = []dataset.Record{{Value: 2}, {Value: 6}}
	assert.InDelta(t, 2.828427, RMSE(constantPredictor(2), testSet), 1e-6)
	assert.InDelta(t, 2, MAE(constantPredictor(2), testSet), 1e-12)
}

func TestCrossValidate(t *testing.T) {
	records := syntheticRatings(30, 10, 0.6)
	result, err := CrossValidate(context.Background(), Params{NFactors: 3, NEpochs: 10}, records, scale,
		NewKFoldSplitter(3), 0, 3)
	require.NoError(t, err)
	assert.Len(t, result.TestRMSE, 3)
	assert.Len(t, result.TestMAE, 3)
	assert.Greater(t, result.Mean().RMSE, 0.0)
}

func TestGridSearchCV(t *testing.T) {
	records := syntheticRatings(30, 10, 0.6)
	progress := 0
	result, err := GridSearchCV(context.Background(), Params{NFactors: 3}, ParamsGrid{
		NEpochs: {1, 30},
		Lr:      {0.0001, 0.01},
	}, records, scale, SearchConfig{Splitter: NewKFoldSplitter(3), Jobs: 1, Progress: func() { progress++ }})
	require.NoError(t, err)
	assert.Equal(t, 4, progress)
	assert.Len(t, result.Scores, 4)
	assert.Len(t, result.Params, 4)
	assert.Equal(t, Params{Lr: 0.01, NEpochs: 30}, result.BestParams)
	assert.Equal(t, 3, result.BestIndex)
	for _, score := range result.Scores {
		assert.GreaterOrEqual(t, score.RMSE, result.BestScore.RMSE)
	}
}

func TestTPESearch(t *testing.T) {
	records := syntheticRatings(20, 10, 0.6)
	result, err := TPESearch(context.Background(), Params{}, records, scale, 3,
		SearchConfig{Splitter: NewKFoldSplitter(2), Jobs: 2})
	require.NoError(t, err)
	assert.Len(t, result.Scores, 3)
	assert.Contains(t, result.BestParams, NFactors)
	for _, score := range result.Scores {
		assert.GreaterOrEqual(t, score.RMSE, result.BestScore.RMSE)
	}
}
