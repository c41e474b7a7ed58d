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
	"encoding/json"
	"reflect"
	"slices"

	"github.com/gorse-io/classic/base/log"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

/* ParamName */

// ParamName is the type of hyper-parameter names.
type ParamName string

// Predefined hyper-parameter names
const (
	Lr          ParamName = "Lr"          // learning rate
	Reg         ParamName = "Reg"         // regularization strength
	NEpochs     ParamName = "NEpochs"     // number of epochs
	NFactors    ParamName = "NFactors"    // number of factors
	RandomState ParamName = "RandomState" // random state (seed)
	InitMean    ParamName = "InitMean"    // mean of gaussian initial parameter
	InitStdDev  ParamName = "InitStdDev"  // standard deviation of gaussian initial parameter
	UseBias     ParamName = "UseBias"     // whether to learn biases
)

// Params stores hyper-parameters for an model. It is a map between strings
// (names) and interface{}s (values). For example, hyper-parameters for SVD
// is given by:
//
//	model.Params{
//		model.Lr:       0.007,
//		model.NEpochs:  100,
//		model.NFactors: 80,
//		model.Reg:      0.1,
//	}
type Params map[ParamName]interface{}

// Copy hyper-parameters.
func (parameters Params) Copy() Params {
	newParams := make(Params)
	for k, v := range parameters {
		newParams[k] = v
	}
	return newParams
}

// GetInt gets a integer parameter by name. Returns _default if not exists or type doesn't match.
// Integral floats are accepted since samplers suggest floats.
func (parameters Params) GetInt(name ParamName, _default int) int {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int:
			return val
		case int64:
			return int(val)
		case float64:
			if val == float64(int(val)) {
				return int(val)
			}
		}
		log.Logger().Error("type mismatch", zap.String("param", string(name)),
			zap.String("expect", "int"), zap.Stringer("actual", reflect.TypeOf(val)))
	}
	return _default
}

// GetInt64 gets a int64 parameter by name. Returns _default if not exists or type doesn't match. The
// type will be converted if given int.
func (parameters Params) GetInt64(name ParamName, _default int64) int64 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case int64:
			return val
		case int:
			return int64(val)
		}
		log.Logger().Error("type mismatch", zap.String("param", string(name)),
			zap.String("expect", "int64"), zap.Stringer("actual", reflect.TypeOf(val)))
	}
	return _default
}

// GetBool gets a bool parameter by name. Returns _default if not exists or type doesn't match.
func (parameters Params) GetBool(name ParamName, _default bool) bool {
	if val, exist := parameters[name]; exist {
		if val, ok := val.(bool); ok {
			return val
		}
		log.Logger().Error("type mismatch", zap.String("param", string(name)),
			zap.String("expect", "bool"), zap.Stringer("actual", reflect.TypeOf(val)))
	}
	return _default
}

// GetFloat64 gets a float64 parameter by name. Returns _default if not exists or type doesn't match.
// The type will be converted if given int.
func (parameters Params) GetFloat64(name ParamName, _default float64) float64 {
	if val, exist := parameters[name]; exist {
		switch val := val.(type) {
		case float64:
			return val
		case float32:
			return float64(val)
		case int:
			return float64(val)
		}
		log.Logger().Error("type mismatch", zap.String("param", string(name)),
			zap.String("expect", "float64"), zap.Stringer("actual", reflect.TypeOf(val)))
	}
	return _default
}

// Overwrite returns a copy of parameters updated by params.
func (parameters Params) Overwrite(params Params) Params {
	merged := parameters.Copy()
	for k, v := range params {
		merged[k] = v
	}
	return merged
}

func (parameters Params) String() string {
	b, err := json.Marshal(parameters)
	if err != nil {
		return err.Error()
	}
	return string(b)
}

// ParamsGrid contains candidate for grid search.
type ParamsGrid map[ParamName][]interface{}

func (grid ParamsGrid) Len() int {
	return len(grid)
}

// Names returns parameter names in ascending order.
func (grid ParamsGrid) Names() []ParamName {
	names := lo.Keys(grid)
	slices.Sort(names)
	return names
}

// NumCombinations returns the size of the Cartesian product of candidates.
func (grid ParamsGrid) NumCombinations() int {
	count := 1
	for _, values := range grid {
		count *= len(values)
	}
	return count
}

// Combinations enumerates the Cartesian product of candidates. The last name
// in ascending order varies fastest.
func (grid ParamsGrid) Combinations() []Params {
	names := grid.Names()
	combinations := make([]Params, 0, grid.NumCombinations())
	var dfs func(deep int, params Params)
	dfs = func(deep int, params Params) {
		if deep == len(names) {
			combinations = append(combinations, params.Copy())
			return
		}
		for _, val := range grid[names[deep]] {
			params[names[deep]] = val
			dfs(deep+1, params)
		}
	}
	dfs(0, Params{})
	return combinations
}

func (grid ParamsGrid) Fill(_default ParamsGrid) {
	for param, values := range _default {
		if _, exist := grid[param]; !exist {
			grid[param] = values
		}
	}
}
