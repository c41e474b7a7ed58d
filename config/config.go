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
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/gorse-io/classic/base/log"
	"github.com/juju/errors"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the configuration for the recommenders.
type Config struct {
	Basket    BasketConfig    `mapstructure:"basket"`
	Ratings   RatingsConfig   `mapstructure:"ratings"`
	UserBased UserBasedConfig `mapstructure:"user_based"`
	ItemBased ItemBasedConfig `mapstructure:"item_based"`
	Content   ContentConfig   `mapstructure:"content"`
	Hybrid    HybridConfig    `mapstructure:"hybrid"`
	SVD       SVDConfig       `mapstructure:"svd"`
	Runtime   RuntimeConfig   `mapstructure:"runtime"`
}

// BasketConfig is the configuration of association rule mining.
type BasketConfig struct {
	MinSupport   float64 `mapstructure:"min_support" validate:"gt=0,lte=1"`
	MaxLen       int     `mapstructure:"max_len" validate:"gte=0"`
	Metric       string  `mapstructure:"metric" validate:"oneof=support confidence lift leverage conviction"`
	MinThreshold float64 `mapstructure:"min_threshold"`
	// RankMetric orders rules for recommendation. Empty means Metric.
	RankMetric   string  `mapstructure:"rank_metric" validate:"omitempty,oneof=support confidence lift leverage conviction"`
	MinItemCount int     `mapstructure:"min_item_count" validate:"gte=0"`
	RuleFilter   string  `mapstructure:"rule_filter"`
	Dedup        bool    `mapstructure:"dedup"`
	N            int     `mapstructure:"n" validate:"gt=0"`
}

// RatingsConfig filters ratings before pivoting.
type RatingsConfig struct {
	MinItemCount int `mapstructure:"min_item_count" validate:"gte=0"`
	MinUserCount int `mapstructure:"min_user_count" validate:"gte=0"`
}

// UserBasedConfig is the configuration of user-based collaborative filtering.
type UserBasedConfig struct {
	Ratio                float64 `mapstructure:"ratio" validate:"gte=0,lte=100"`
	CorrelationThreshold float64 `mapstructure:"correlation_threshold" validate:"gte=-1,lte=1"`
	Score                float64 `mapstructure:"score"`
	ExcludeRated         bool    `mapstructure:"exclude_rated"`
	N                    int     `mapstructure:"n" validate:"gte=0"`
}

// ItemBasedConfig is the configuration of item-based collaborative filtering.
type ItemBasedConfig struct {
	N          int `mapstructure:"n" validate:"gt=0"`
	MinOverlap int `mapstructure:"min_overlap" validate:"gte=2"`
}

// ContentConfig is the configuration of content-based recommendation.
type ContentConfig struct {
	MaxFeatures int  `mapstructure:"max_features" validate:"gte=0"`
	StopWords   bool `mapstructure:"stop_words"`
	N           int  `mapstructure:"n" validate:"gt=0"`
}

// HybridConfig is the configuration of the hybrid blend.
type HybridConfig struct {
	N int `mapstructure:"n" validate:"gt=0"`
}

// SVDConfig is the configuration of the latent factor model and its search.
type SVDConfig struct {
	NFactors    int       `mapstructure:"n_factors" validate:"gt=0"`
	NEpochs     int       `mapstructure:"n_epochs" validate:"gt=0"`
	Lr          float64   `mapstructure:"lr" validate:"gt=0"`
	Reg         float64   `mapstructure:"reg" validate:"gte=0"`
	InitMean    float64   `mapstructure:"init_mean"`
	InitStd     float64   `mapstructure:"init_std" validate:"gte=0"`
	RatingMin   float64   `mapstructure:"rating_min"`
	RatingMax   float64   `mapstructure:"rating_max" validate:"gtfield=RatingMin"`
	CV          int       `mapstructure:"cv" validate:"gte=2"`
	NTrials     int       `mapstructure:"n_trials" validate:"gt=0"`
	Seed        int64     `mapstructure:"seed"`
	Items       []string  `mapstructure:"items"`
	GridNEpochs []int     `mapstructure:"grid_n_epochs" validate:"dive,gt=0"`
	GridLr      []float64 `mapstructure:"grid_lr" validate:"dive,gt=0"`
}

// RuntimeConfig controls execution.
type RuntimeConfig struct {
	Jobs          int           `mapstructure:"jobs" validate:"gte=1"`
	Verbose       bool          `mapstructure:"verbose"`
	MiningTimeout time.Duration `mapstructure:"mining_timeout" validate:"gte=0"`
}

// GetDefaultConfig returns defaults following the classic recipes.
func GetDefaultConfig() *Config {
	return &Config{
		Basket: BasketConfig{
			MinSupport:   0.01,
			Metric:       "support",
			MinThreshold: 0.01,
			RankMetric:   "lift",
			N:            5,
		},
		UserBased: UserBasedConfig{
			Ratio:                60,
			CorrelationThreshold: 0.65,
			Score:                3.5,
		},
		ItemBased: ItemBasedConfig{
			N:          10,
			MinOverlap: 2,
		},
		Content: ContentConfig{
			StopWords: true,
			N:         10,
		},
		Hybrid: HybridConfig{
			N: 5,
		},
		SVD: SVDConfig{
			NFactors:    100,
			NEpochs:     20,
			Lr:          0.005,
			Reg:         0.02,
			InitStd:     0.1,
			RatingMin:   1,
			RatingMax:   5,
			CV:          3,
			NTrials:     10,
			GridNEpochs: []int{5, 10, 20},
			GridLr:      []float64{0.002, 0.005, 0.007},
		},
		Runtime: RuntimeConfig{
			Jobs: 1,
		},
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	var defaults map[string]any
	if err := mapstructure.Decode(defaultConfig, &defaults); err != nil {
		log.Logger().Fatal("failed to decode default config", zap.Error(err))
	}
	setDefaultMap(v, "", defaults)
}

func setDefaultMap(v *viper.Viper, prefix string, values map[string]any) {
	for key, value := range values {
		if nested, ok := value.(map[string]any); ok {
			setDefaultMap(v, prefix+key+".", nested)
		} else {
			v.SetDefault(prefix+key, value)
		}
	}
}

// LoadConfig loads configuration from a TOML file and GORSE_CLASSIC_* environment
// variables, for example GORSE_CLASSIC_BASKET_MIN_SUPPORT. Defaults are used if
// path is empty.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	v.SetEnvPrefix("GORSE_CLASSIC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefault(v)
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Annotatef(err, "read config %s", path)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &cfg, nil
}
