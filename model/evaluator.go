// Copyright 2020 gorse Project Authors
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
	"math"

	"github.com/gorse-io/classic/common/parallel"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Predictor estimates ratings.
type Predictor interface {
	Predict(userId, itemId string) float64
}

// Score is the accuracy of rating predictions.
type Score struct {
	RMSE float64
	MAE  float64
}

// RMSE is root mean square error.
func RMSE(predictor Predictor, testSet []dataset.Record) float64 {
	sum := 0.0
	for _, r := range testSet {
		diff := predictor.Predict(r.Row, r.Column) - r.Value
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(testSet)))
}

// MAE is mean absolute error.
func MAE(predictor Predictor, testSet []dataset.Record) float64 {
	sum := 0.0
	for _, r := range testSet {
		sum += math.Abs(predictor.Predict(r.Row, r.Column) - r.Value)
	}
	return sum / float64(len(testSet))
}

// Evaluate computes RMSE and MAE.
func Evaluate(predictor Predictor, testSet []dataset.Record) Score {
	return Score{RMSE: RMSE(predictor, testSet), MAE: MAE(predictor, testSet)}
}

// CrossValidateResult contains scores of each fold.
type CrossValidateResult struct {
	TestRMSE []float64
	TestMAE  []float64
}

// Mean returns mean scores over folds.
func (r CrossValidateResult) Mean() Score {
	return Score{RMSE: stat.Mean(r.TestRMSE, nil), MAE: stat.Mean(r.TestMAE, nil)}
}

// CrossValidate fits a SVD with params on each train fold and evaluates it on
// the test fold. Folds are fitted by jobs goroutines.
func CrossValidate(ctx context.Context, params Params, records []dataset.Record, scale Scale,
	splitter Splitter, seed int64, jobs int) (CrossValidateResult, error) {
	trainFolds, testFolds := splitter(records, seed)
	scores := make([]Score, len(trainFolds))
	err := parallel.Parallel(ctx, len(trainFolds), jobs, func(_, i int) error {
		if len(testFolds[i]) == 0 {
			return errors.NotValidf("empty test fold %d", i)
		}
		svd := NewSVD(params)
		if err := svd.Fit(ctx, trainFolds[i], scale); err != nil {
			return errors.Trace(err)
		}
		scores[i] = Evaluate(svd, testFolds[i])
		return nil
	})
	if err != nil {
		return CrossValidateResult{}, errors.Trace(err)
	}
	return CrossValidateResult{
		TestRMSE: lo.Map(scores, func(s Score, _ int) float64 { return s.RMSE }),
		TestMAE:  lo.Map(scores, func(s Score, _ int) float64 { return s.MAE }),
	}, nil
}
