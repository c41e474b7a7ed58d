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

package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/gorse-io/classic/mining"
	"github.com/juju/errors"
)

// Validate checks value ranges declared by struct tags. The rule filter must compile.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NewNotValid(err, "invalid config")
	}
	if _, err := mining.ParseMetric(config.Basket.Metric); err != nil {
		return errors.Trace(err)
	}
	if config.Basket.RankMetric != "" {
		if _, err := mining.ParseMetric(config.Basket.RankMetric); err != nil {
			return errors.Trace(err)
		}
	}
	if config.Basket.RuleFilter != "" {
		if _, err := mining.NewFilter(config.Basket.RuleFilter); err != nil {
			return errors.NewNotValid(err, "invalid rule filter")
		}
	}
	return nil
}
