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

package mining

import (
	"bufio"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
)

// CSVHeader lists the columns written by WriteCSV.
var CSVHeader = []string{
	"antecedents", "consequents", "antecedent support", "consequent support",
	"support", "confidence", "lift", "leverage", "conviction", "zhangs_metric",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes rules as a comma separated table. Items of an itemset are
// joined by ", " and infinite conviction is written as "inf".
func WriteCSV(w io.Writer, rules []Rule, dict *dataset.FreqDict) error {
	writer := bufio.NewWriter(w)
	if _, err := writer.WriteString(base.JoinLine(CSVHeader, ",") + "\n"); err != nil {
		return errors.Trace(err)
	}
	for _, r := range rules {
		conviction := formatFloat(r.Conviction)
		if math.IsInf(r.Conviction, 1) {
			conviction = "inf"
		}
		line := base.JoinLine([]string{
			strings.Join(r.Antecedent.Names(dict), ", "),
			strings.Join(r.Consequent.Names(dict), ", "),
			formatFloat(r.AntecedentSupport),
			formatFloat(r.ConsequentSupport),
			formatFloat(r.Support),
			formatFloat(r.Confidence),
			formatFloat(r.Lift),
			formatFloat(r.Leverage),
			conviction,
			formatFloat(r.ZhangsMetric),
		}, ",")
		if _, err := writer.WriteString(line + "\n"); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(writer.Flush())
}

// RuleRecord is the JSON form of a rule. Conviction is null if infinite.
type RuleRecord struct {
	Antecedents       []string `json:"antecedents"`
	Consequents       []string `json:"consequents"`
	AntecedentSupport float64  `json:"antecedent_support"`
	ConsequentSupport float64  `json:"consequent_support"`
	Support           float64  `json:"support"`
	Confidence        float64  `json:"confidence"`
	Lift              float64  `json:"lift"`
	Leverage          float64  `json:"leverage"`
	Conviction        *float64 `json:"conviction"`
	ZhangsMetric      float64  `json:"zhangs_metric"`
}

// NewRuleRecord names rule items by dict.
func NewRuleRecord(r Rule, dict *dataset.FreqDict) RuleRecord {
	record := RuleRecord{
		Antecedents:       r.Antecedent.Names(dict),
		Consequents:       r.Consequent.Names(dict),
		AntecedentSupport: r.AntecedentSupport,
		ConsequentSupport: r.ConsequentSupport,
		Support:           r.Support,
		Confidence:        r.Confidence,
		Lift:              r.Lift,
		Leverage:          r.Leverage,
		ZhangsMetric:      r.ZhangsMetric,
	}
	if !math.IsInf(r.Conviction, 0) {
		conviction := r.Conviction
		record.Conviction = &conviction
	}
	return record
}

// WriteJSON writes rules as a JSON array.
func WriteJSON(w io.Writer, rules []Rule, dict *dataset.FreqDict) error {
	records := make([]RuleRecord, len(rules))
	for i, r := range rules {
		records[i] = NewRuleRecord(r, dict)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return errors.Trace(encoder.Encode(records))
}
