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

	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/mining"
	"github.com/gorse-io/classic/recommend"
	"github.com/juju/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func addBasketFlags(cmd *cobra.Command) {
	addSourceFlags(cmd.Flags(), "Invoice", "Description", "Quantity", "")
	cmd.Flags().Float64("min-support", 0, "minimum support, overrides basket.min_support")
	cmd.Flags().String("metric", "", "rule metric, overrides basket.metric")
	cmd.Flags().Float64("min-threshold", 0, "minimum metric value, overrides basket.min_threshold")
	cmd.Flags().String("filter", "", "rule filter expression, overrides basket.rule_filter")
}

// mineRules loads baskets and mines association rules. Rules are ordered by
// itemset level and then lexicographically.
func (a *app) mineRules(cmd *cobra.Command) ([]mining.Rule, *dataset.BasketMatrix, error) {
	conf := a.conf.Basket
	if cmd.Flags().Changed("min-support") {
		conf.MinSupport, _ = cmd.Flags().GetFloat64("min-support")
	}
	if cmd.Flags().Changed("metric") {
		conf.Metric, _ = cmd.Flags().GetString("metric")
	}
	if cmd.Flags().Changed("min-threshold") {
		conf.MinThreshold, _ = cmd.Flags().GetFloat64("min-threshold")
	}
	if cmd.Flags().Changed("filter") {
		conf.RuleFilter, _ = cmd.Flags().GetString("filter")
	}
	metric, err := mining.ParseMetric(conf.Metric)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	source, err := sourceFromFlags(cmd.Flags())
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	records, err := source.load()
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	matrix, err := dataset.BuildBasketMatrix(records, dataset.BuildOptions{MinColumnCount: conf.MinItemCount})
	if err != nil {
		return nil, nil, errors.Trace(err)
	}

	ctx := cmd.Context()
	if a.conf.Runtime.MiningTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.conf.Runtime.MiningTimeout)
		defer cancel()
	}
	itemsets, err := mining.Apriori(ctx, matrix, mining.AprioriOptions{
		MinSupport: conf.MinSupport,
		MaxLen:     conf.MaxLen,
		Jobs:       a.conf.Runtime.Jobs,
	})
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	rules, err := mining.GenerateRules(itemsets, metric, conf.MinThreshold)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	if conf.RuleFilter != "" {
		filter, err := mining.NewFilter(conf.RuleFilter)
		if err != nil {
			return nil, nil, errors.Trace(err)
		}
		if rules, err = filter.Apply(rules); err != nil {
			return nil, nil, errors.Trace(err)
		}
	}
	log.Logger().Info("mine association rules",
		zap.Int("n_transactions", matrix.CountRows()),
		zap.Int("n_items", matrix.CountColumns()),
		zap.Int("n_itemsets", itemsets.Len()),
		zap.Int("n_rules", len(rules)))
	return rules, matrix, nil
}

func (a *app) newRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Mine association rules from transactions",
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, matrix, err := a.mineRules(cmd)
			if err != nil {
				return errors.Trace(err)
			}
			return writeRules(cmd, rules, matrix.ColumnDict())
		},
	}
	addBasketFlags(cmd)
	addOutputFlags(cmd)
	return cmd
}

func (a *app) newRecommendRulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recommend-rules",
		Short: "Recommend items bought together with an item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item, _ := cmd.Flags().GetString("item")
			rules, matrix, err := a.mineRules(cmd)
			if err != nil {
				return errors.Trace(err)
			}
			name := a.conf.Basket.RankMetric
			if name == "" {
				name = a.conf.Basket.Metric
			}
			if cmd.Flags().Changed("rank-metric") {
				name, _ = cmd.Flags().GetString("rank-metric")
			}
			metric, err := mining.ParseMetric(name)
			if err != nil {
				return errors.Trace(err)
			}
			n := a.conf.Basket.N
			if cmd.Flags().Changed("n") {
				n, _ = cmd.Flags().GetInt("n")
			}
			policy := recommend.KeepDuplicates
			if a.conf.Basket.Dedup {
				policy = recommend.DedupConsequents
			}
			list, err := recommend.NewRuleBased(rules, matrix.ColumnDict()).Recommend(item, metric, n, policy)
			if err != nil {
				return errors.Trace(err)
			}
			return writeList(cmd.OutOrStdout(), "Item", list)
		},
	}
	addBasketFlags(cmd)
	cmd.Flags().String("item", "", "query item")
	cmd.Flags().String("rank-metric", "", "metric ordering rules, overrides basket.rank_metric")
	cmd.Flags().IntP("n", "n", 0, "number of recommendations, overrides basket.n")
	_ = cmd.MarkFlagRequired("item")
	return cmd
}
