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
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/juju/errors"
)

// Filter selects rules by a boolean expression over rule measures, for example
// "support > 0.05 && confidence > 0.1 && lift > 5".
type Filter struct {
	source  string
	program *vm.Program
}

func ruleEnv(r *Rule) map[string]any {
	return map[string]any{
		"antecedent_support": r.AntecedentSupport,
		"consequent_support": r.ConsequentSupport,
		"support":            r.Support,
		"confidence":         r.Confidence,
		"lift":               r.Lift,
		"leverage":           r.Leverage,
		"conviction":         r.Conviction,
		"zhangs_metric":      r.ZhangsMetric,
		"antecedent_len":     len(r.Antecedent),
		"consequent_len":     len(r.Consequent),
	}
}

// NewFilter compiles source.
func NewFilter(source string) (*Filter, error) {
	program, err := expr.Compile(source, expr.Env(ruleEnv(&Rule{})), expr.AsBool())
	if err != nil {
		return nil, errors.Annotatef(err, "compile rule filter %q", source)
	}
	return &Filter{source: source, program: program}, nil
}

func (f *Filter) String() string {
	return f.source
}

// Match evaluates the expression on a rule.
func (f *Filter) Match(r *Rule) (bool, error) {
	result, err := expr.Run(f.program, ruleEnv(r))
	if err != nil {
		return false, errors.Trace(err)
	}
	return result.(bool), nil
}

// Apply keeps matching rules in order.
func (f *Filter) Apply(rules []Rule) ([]Rule, error) {
	kept := make([]Rule, 0)
	for i := range rules {
		ok, err := f.Match(&rules[i])
		if err != nil {
			return nil, errors.Trace(err)
		}
		if ok {
			kept = append(kept, rules[i])
		}
	}
	return kept, nil
}
