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

package main

import (
	"fmt"
	"strconv"

	"github.com/gorse-io/classic/model"
	"github.com/gorse-io/classic/recommend"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

const (
	searchGrid = "grid"
	searchTPE  = "tpe"
)

func (a *app) newSVDCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "svd",
		Short: "Latent factor model",
	}
	cmd.AddCommand(a.newSVDPredictCommand(), a.newSVDTuneCommand())
	return cmd
}

func (a *app) svdParams() model.Params {
	return model.Params{
		model.NFactors:    a.conf.SVD.NFactors,
		model.NEpochs:     a.conf.SVD.NEpochs,
		model.Lr:          a.conf.SVD.Lr,
		model.Reg:         a.conf.SVD.Reg,
		model.InitMean:    a.conf.SVD.InitMean,
		model.InitStdDev:  a.conf.SVD.InitStd,
		model.RandomState: a.conf.SVD.Seed,
	}
}

func (a *app) svdScale() model.Scale {
	return model.Scale{Min: a.conf.SVD.RatingMin, Max: a.conf.SVD.RatingMax}
}

func (a *app) newSVDPredictCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Fit SVD and predict ratings",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			item, _ := cmd.Flags().GetString("item")
			fill, _ := cmd.Flags().GetBool("fill")
			if !fill && user == "" {
				return errors.NotValidf("either --user or --fill is required")
			}
			matrix, err := a.loadRatings(cmd, a.conf.SVD.Items)
			if err != nil {
				return errors.Trace(err)
			}
			svd := model.NewSVD(a.svdParams())
			if err = svd.Fit(cmd.Context(), matrix.Records(), a.svdScale()); err != nil {
				return errors.Trace(err)
			}
			w := cmd.OutOrStdout()
			switch {
			case fill:
				return writeRecords(w, recommend.FillMissing(matrix, svd))
			case item != "":
				_, err = fmt.Fprintln(w, formatScore(svd.Predict(user, item)))
				return errors.Trace(err)
			default:
				list, err := recommend.PredictUnrated(matrix, svd, user, countFlag(cmd, a.conf.Hybrid.N))
				if err != nil {
					return errors.Trace(err)
				}
				return writeList(w, "Item", list)
			}
		},
	}
	addRatingFlags(cmd)
	cmd.Flags().String("user", "", "query user")
	cmd.Flags().String("item", "", "query item, empty means top unrated items")
	cmd.Flags().Bool("fill", false, "predict every missing rating")
	return cmd
}

func (a *app) newSVDTuneCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tune",
		Short: "Search SVD hyper-parameters by cross validation",
		RunE: func(cmd *cobra.Command, args []string) error {
			method, _ := cmd.Flags().GetString("method")
			if method != searchGrid && method != searchTPE {
				return errors.NotValidf("search method %s", method)
			}
			matrix, err := a.loadRatings(cmd, a.conf.SVD.Items)
			if err != nil {
				return errors.Trace(err)
			}
			cfg := model.SearchConfig{
				Splitter: model.NewKFoldSplitter(a.conf.SVD.CV),
				Seed:     a.conf.SVD.Seed,
				Jobs:     a.conf.Runtime.Jobs,
			}
			var result model.ParamsSearchResult
			if method == searchGrid {
				grid := model.ParamsGrid{
					model.NEpochs: lo.ToAnySlice(a.conf.SVD.GridNEpochs),
					model.Lr:      lo.ToAnySlice(a.conf.SVD.GridLr),
				}
				bar := newProgressBar(cmd, grid.NumCombinations(), "grid search")
				cfg.Progress = func() { _ = bar.Add(1) }
				result, err = model.GridSearchCV(cmd.Context(), a.svdParams(), grid, matrix.Records(), a.svdScale(), cfg)
			} else {
				bar := newProgressBar(cmd, a.conf.SVD.NTrials, "tpe search")
				cfg.Progress = func() { _ = bar.Add(1) }
				result, err = model.TPESearch(cmd.Context(), a.svdParams(), matrix.Records(), a.svdScale(), a.conf.SVD.NTrials, cfg)
			}
			if err != nil {
				return errors.Trace(err)
			}
			return writeSearchResult(cmd, result)
		},
	}
	addRatingFlags(cmd)
	cmd.Flags().String("method", searchGrid, "search method: grid or tpe")
	return cmd
}

func writeSearchResult(cmd *cobra.Command, result model.ParamsSearchResult) error {
	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.Header("#", "Params", "RMSE", "MAE", "Best")
	for i := range result.Params {
		best := ""
		if i == result.BestIndex {
			best = "*"
		}
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			result.Params[i].String(),
			formatScore(result.Scores[i].RMSE),
			formatScore(result.Scores[i].MAE),
			best,
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}
