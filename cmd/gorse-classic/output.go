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
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gorse-io/classic/dataset"
	"github.com/gorse-io/classic/mining"
	"github.com/gorse-io/classic/recommend"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

const (
	formatTable = "table"
	formatCSV   = "csv"
	formatJSON  = "json"
)

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "output file, empty means stdout")
	cmd.Flags().String("format", formatTable, "output format: table, csv or json")
}

// openOutput returns the writer selected by --output and a function closing it.
func openOutput(cmd *cobra.Command) (io.Writer, func() error, error) {
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	return file, file.Close, nil
}

func formatScore(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func writeList(w io.Writer, header string, list recommend.List) error {
	table := tablewriter.NewWriter(w)
	table.Header("#", header, "Score")
	for i, score := range list {
		if err := table.Append([]string{strconv.Itoa(i + 1), score.Id, formatScore(score.Score)}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func writeRuleTable(w io.Writer, rules []mining.Rule, dict *dataset.FreqDict) error {
	table := tablewriter.NewWriter(w)
	table.Header("Antecedents", "Consequents", "Support", "Confidence", "Lift", "Leverage", "Conviction", "Zhang")
	for _, rule := range rules {
		if err := table.Append([]string{
			strings.Join(rule.Antecedent.Names(dict), ", "),
			strings.Join(rule.Consequent.Names(dict), ", "),
			formatScore(rule.Support),
			formatScore(rule.Confidence),
			formatScore(rule.Lift),
			formatScore(rule.Leverage),
			formatScore(rule.Conviction),
			formatScore(rule.ZhangsMetric),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func writeRules(cmd *cobra.Command, rules []mining.Rule, dict *dataset.FreqDict) error {
	w, closeOutput, err := openOutput(cmd)
	if err != nil {
		return errors.Trace(err)
	}
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatTable:
		err = writeRuleTable(w, rules, dict)
	case formatCSV:
		err = mining.WriteCSV(w, rules, dict)
	case formatJSON:
		err = mining.WriteJSON(w, rules, dict)
	default:
		err = errors.NotValidf("format %s", format)
	}
	if err != nil {
		_ = closeOutput()
		return errors.Trace(err)
	}
	return errors.Trace(closeOutput())
}

func writeRecords(w io.Writer, records []dataset.Record) error {
	table := tablewriter.NewWriter(w)
	table.Header("User", "Item", "Prediction")
	for _, record := range records {
		if err := table.Append([]string{record.Row, record.Column, formatScore(record.Value)}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

// newProgressBar reports progress on stderr so that stdout keeps only results.
func newProgressBar(cmd *cobra.Command, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish())
}
