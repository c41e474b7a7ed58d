// Copyright 2021 gorse Project Authors
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
	"sync/atomic"

	"github.com/c-bata/goptuna"
	"github.com/c-bata/goptuna/tpe"
	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/common/parallel"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ParamsSearchResult contains the return of a hyper-parameter search. The best
// candidate has the lowest mean RMSE.
type ParamsSearchResult struct {
	BestScore  Score
	BestParams Params
	BestIndex  int
	Scores     []Score
	Params     []Params
}

func (r *ParamsSearchResult) AddScore(params Params, score Score) {
	r.Scores = append(r.Scores, score)
	r.Params = append(r.Params, params.Copy())
	if len(r.Scores) == 1 || score.RMSE < r.BestScore.RMSE {
		r.BestScore = score
		r.BestParams = params.Copy()
		r.BestIndex = len(r.Params) - 1
	}
}

// SearchConfig is shared by searches.
type SearchConfig struct {
	Splitter Splitter
	Seed     int64
	Jobs     int
	// Progress is called after each candidate is evaluated.
	Progress func()
}

func (cfg *SearchConfig) progress() {
	if cfg.Progress != nil {
		cfg.Progress()
	}
}

// GridSearchCV cross validates every combination of the grid on top of base
// params. Combinations are evaluated by Jobs goroutines and reported in grid
// order.
func GridSearchCV(ctx context.Context, params Params, grid ParamsGrid, records []dataset.Record, scale Scale,
	cfg SearchConfig) (ParamsSearchResult, error) {
	combinations := grid.Combinations()
	scores := make([]Score, len(combinations))
	var count atomic.Int32
	err := parallel.Parallel(ctx, len(combinations), cfg.Jobs, func(_, i int) error {
		result, err := CrossValidate(ctx, params.Overwrite(combinations[i]), records, scale, cfg.Splitter, cfg.Seed, 1)
		if err != nil {
			return errors.Trace(err)
		}
		scores[i] = result.Mean()
		SearchTrialsTotal.Inc()
		log.Logger().Info(fmt.Sprintf("grid search (%v/%v)", count.Add(1), len(combinations)),
			zap.Any("params", combinations[i]),
			zap.Float64("rmse", scores[i].RMSE),
			zap.Float64("mae", scores[i].MAE))
		cfg.progress()
		return nil
	})
	if err != nil {
		return ParamsSearchResult{}, errors.Trace(err)
	}
	results := ParamsSearchResult{
		Scores: make([]Score, 0, len(combinations)),
		Params: make([]Params, 0, len(combinations)),
	}
	for i, combination := range combinations {
		results.AddScore(combination, scores[i])
	}
	BestRMSE.Set(results.BestScore.RMSE)
	return results, nil
}

// SuggestParams samples SVD hyper-parameters from a trial.
func SuggestParams(trial goptuna.Trial) Params {
	return Params{
		NFactors: lo.Must(trial.SuggestInt(string(NFactors), 1, 100)),
		NEpochs:  lo.Must(trial.SuggestInt(string(NEpochs), 5, 50)),
		Lr:       lo.Must(trial.SuggestLogFloat(string(Lr), 0.001, 0.1)),
		Reg:      lo.Must(trial.SuggestLogFloat(string(Reg), 0.001, 0.1)),
	}
}

// TPESearch minimizes the mean cross validated RMSE with the tree-structured
// Parzen estimator for nTrials trials.
func TPESearch(ctx context.Context, params Params, records []dataset.Record, scale Scale,
	nTrials int, cfg SearchConfig) (ParamsSearchResult, error) {
	study, err := goptuna.CreateStudy("svd",
		goptuna.StudyOptionDirection(goptuna.StudyDirectionMinimize),
		goptuna.StudyOptionSampler(tpe.NewSampler()))
	if err != nil {
		return ParamsSearchResult{}, errors.Trace(err)
	}
	var results ParamsSearchResult
	objective := func(trial goptuna.Trial) (float64, error) {
		suggested := SuggestParams(trial)
		result, err := CrossValidate(ctx, params.Overwrite(suggested), records, scale, cfg.Splitter, cfg.Seed, cfg.Jobs)
		if err != nil {
			return 0, errors.Trace(err)
		}
		score := result.Mean()
		results.AddScore(suggested, score)
		SearchTrialsTotal.Inc()
		log.Logger().Info(fmt.Sprintf("tpe search (%v/%v)", len(results.Scores), nTrials),
			zap.Any("params", suggested),
			zap.Float64("rmse", score.RMSE),
			zap.Float64("mae", score.MAE))
		cfg.progress()
		return score.RMSE, nil
	}
	if err = study.Optimize(objective, nTrials); err != nil {
		return ParamsSearchResult{}, errors.Trace(err)
	}
	BestRMSE.Set(results.BestScore.RMSE)
	return results, nil
}
