// Copyright 2020 Zhenghao Zhang
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
	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/common/parallel"
	"github.com/gorse-io/classic/dataset"
)

// Splitter split ratings to train folds and test folds.
type Splitter func(records []dataset.Record, seed int64) (trainFolds, testFolds [][]dataset.Record)

func subset(records []dataset.Record, indices ...[]int) []dataset.Record {
	n := 0
	for _, index := range indices {
		n += len(index)
	}
	ret := make([]dataset.Record, 0, n)
	for _, index := range indices {
		for _, i := range index {
			ret = append(ret, records[i])
		}
	}
	return ret
}

// NewKFoldSplitter creates a k-fold splitter. Every record is tested exactly
// once. There are fewer than k folds if there are fewer than k records.
func NewKFoldSplitter(k int) Splitter {
	return func(records []dataset.Record, seed int64) (trainFolds, testFolds [][]dataset.Record) {
		perm := base.NewRandomGenerator(seed).Perm(len(records))
		folds := parallel.Split(perm, k)
		trainFolds = make([][]dataset.Record, len(folds))
		testFolds = make([][]dataset.Record, len(folds))
		for i := range folds {
			testFolds[i] = subset(records, folds[i])
			trainFolds[i] = subset(records, append(folds[:i:i], folds[i+1:]...)...)
		}
		return trainFolds, testFolds
	}
}

// NewRatioSplitter creates a ratio splitter.
func NewRatioSplitter(repeat int, testRatio float64) Splitter {
	return func(records []dataset.Record, seed int64) (trainFolds, testFolds [][]dataset.Record) {
		trainFolds = make([][]dataset.Record, repeat)
		testFolds = make([][]dataset.Record, repeat)
		testSize := int(float64(len(records)) * testRatio)
		rng := base.NewRandomGenerator(seed)
		for i := 0; i < repeat; i++ {
			perm := rng.Perm(len(records))
			testFolds[i] = subset(records, perm[:testSize])
			trainFolds[i] = subset(records, perm[testSize:])
		}
		return trainFolds, testFolds
	}
}
