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
	"context"

	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/recommend"
	"github.com/gorse-io/classic/similarity"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
)

func addRatingFlags(cmd *cobra.Command) {
	addSourceFlags(cmd.Flags(), "userId", "movieId", "rating", "timestamp")
	cmd.Flags().String("names", "", "CSV file naming items, e.g. movie.csv")
	cmd.Flags().String("name-key", "movieId", "column of item ids in the names file")
	cmd.Flags().String("name-col", "title", "column of item names in the names file")
	cmd.Flags().IntP("n", "n", 0, "number of recommendations, overrides the configured count")
}

// loadRatings builds the user-item rating matrix. Items are renamed when a
// names file is given.
func (a *app) loadRatings(cmd *cobra.Command, columns []string) (*dataset.RatingMatrix, error) {
	source, err := sourceFromFlags(cmd.Flags())
	if err != nil {
		return nil, errors.Trace(err)
	}
	records, err := source.load()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if path, _ := cmd.Flags().GetString("names"); path != "" {
		key, _ := cmd.Flags().GetString("name-key")
		name, _ := cmd.Flags().GetString("name-col")
		names, err := loadNames(path, source.Sep, key, name)
		if err != nil {
			return nil, errors.Trace(err)
		}
		records = renameColumns(records, names)
	}
	matrix, err := dataset.BuildRatingMatrix(records, dataset.BuildOptions{
		MinRowCount:    a.conf.Ratings.MinUserCount,
		MinColumnCount: a.conf.Ratings.MinItemCount,
		Columns:        columns,
	})
	return matrix, errors.Trace(err)
}

func countFlag(cmd *cobra.Command, configured int) int {
	if cmd.Flags().Changed("n") {
		n, _ := cmd.Flags().GetInt("n")
		return n
	}
	return configured
}

func (a *app) userBasedOptions() recommend.UserBasedOptions {
	return recommend.UserBasedOptions{
		Ratio:                a.conf.UserBased.Ratio,
		CorrelationThreshold: a.conf.UserBased.CorrelationThreshold,
		Score:                a.conf.UserBased.Score,
		ExcludeRated:         a.conf.UserBased.ExcludeRated,
		MinOverlap:           a.conf.ItemBased.MinOverlap,
		Jobs:                 a.conf.Runtime.Jobs,
	}
}

func (a *app) similarityOptions() similarity.Options {
	return similarity.Options{MinOverlap: a.conf.ItemBased.MinOverlap, Jobs: a.conf.Runtime.Jobs}
}

func (a *app) newItemBasedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item-based",
		Short: "Recommend items whose ratings correlate with an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item, _ := cmd.Flags().GetString("item")
			matrix, err := a.loadRatings(cmd, nil)
			if err != nil {
				return errors.Trace(err)
			}
			list, err := recommend.NewItemBased(matrix, a.similarityOptions()).
				Recommend(cmd.Context(), item, countFlag(cmd, a.conf.ItemBased.N))
			if err != nil {
				return errors.Trace(err)
			}
			return writeList(cmd.OutOrStdout(), "Item", list)
		},
	}
	addRatingFlags(cmd)
	cmd.Flags().String("item", "", "query item")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}

func (a *app) newUserBasedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user-based",
		Short: "Recommend items rated by users similar to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			matrix, err := a.loadRatings(cmd, nil)
			if err != nil {
				return errors.Trace(err)
			}
			list, err := recommend.NewUserBased(matrix, a.userBasedOptions()).
				Recommend(cmd.Context(), user, countFlag(cmd, a.conf.UserBased.N))
			if err != nil {
				return errors.Trace(err)
			}
			return writeList(cmd.OutOrStdout(), "Item", list)
		},
	}
	addRatingFlags(cmd)
	cmd.Flags().String("user", "", "query user")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (a *app) newHybridCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hybrid",
		Short: "Blend user-based recommendations with items similar to the user's seed item",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")
			matrix, err := a.loadRatings(cmd, nil)
			if err != nil {
				return errors.Trace(err)
			}
			seed, err := recommend.SeedItem(matrix, user)
			if err != nil {
				return errors.Trace(err)
			}
			n := countFlag(cmd, a.conf.Hybrid.N)
			userBased := recommend.NewUserBased(matrix, a.userBasedOptions())
			itemBased := recommend.NewItemBased(matrix, a.similarityOptions())
			list, err := recommend.Hybrid(cmd.Context(), n,
				func(ctx context.Context) (recommend.List, error) {
					return userBased.Recommend(ctx, user, n)
				},
				func(ctx context.Context) (recommend.List, error) {
					return itemBased.Recommend(ctx, seed, n)
				})
			if err != nil {
				return errors.Trace(err)
			}
			return writeList(cmd.OutOrStdout(), "Item", list)
		},
	}
	addRatingFlags(cmd)
	cmd.Flags().String("user", "", "query user")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
