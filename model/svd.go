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
	"context"
	"math"
	"time"

	"github.com/gorse-io/classic/base"
	"github.com/gorse-io/classic/base/log"
	"github.com/gorse-io/classic/dataset"
	"github.com/juju/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Scale is the closed range of ratings.
type Scale struct {
	Min float64
	Max float64
}

func (s Scale) Validate() error {
	if !(s.Min < s.Max) {
		return errors.NotValidf("rating scale [%v, %v]", s.Min, s.Max)
	}
	return nil
}

// Clip bounds x to the scale.
func (s Scale) Clip(x float64) float64 {
	return math.Max(s.Min, math.Min(s.Max, x))
}

/* SVD */

// SVD algorithm, as popularized by Simon Funk during the
// Netflix Prize. The prediction \hat{r}_{ui} is set as:
//
//	\hat{r}_{ui} = μ + b_u + b_i + q_i^Tp_u
//
// If user u is unknown, then the Bias b_u and the factors p_u are
// assumed to be zero. The same applies for item i with b_i and q_i.
// Predictions are clipped to the rating scale.
type SVD struct {
	params Params
	// Model parameters
	UserFactor [][]float64 // p_u
	ItemFactor [][]float64 // q_i
	UserBias   []float64   // b_u
	ItemBias   []float64   // b_i
	GlobalBias float64     // mu
	userDict   *dataset.FreqDict
	itemDict   *dataset.FreqDict
	scale      Scale
	// Hyper parameters
	useBias    bool
	nFactors   int
	nEpochs    int
	lr         float64
	reg        float64
	initMean   float64
	initStdDev float64
	seed       int64
}

// NewSVD creates a SVD model. Params:
//
//	UseBias    - Add useBias in SVD model. Default is true.
//	Reg        - The regularization parameter of the cost function that is
//	             optimized. Default is 0.02.
//	Lr         - The learning rate of SGD. Default is 0.005.
//	NFactors   - The number of latent factors. Default is 100.
//	NEpochs    - The number of iteration of the SGD procedure. Default is 20.
//	InitMean   - The mean of initial random latent factors. Default is 0.
//	InitStdDev - The standard deviation of initial random latent factors. Default is 0.1.
//	RandomState - The seed of initialization and shuffling. Default is 0.
func NewSVD(params Params) *SVD {
	svd := new(SVD)
	svd.SetParams(params)
	return svd
}

func (svd *SVD) SetParams(params Params) {
	svd.params = params.Copy()
	svd.useBias = params.GetBool(UseBias, true)
	svd.nFactors = params.GetInt(NFactors, 100)
	svd.nEpochs = params.GetInt(NEpochs, 20)
	svd.lr = params.GetFloat64(Lr, 0.005)
	svd.reg = params.GetFloat64(Reg, 0.02)
	svd.initMean = params.GetFloat64(InitMean, 0)
	svd.initStdDev = params.GetFloat64(InitStdDev, 0.1)
	svd.seed = params.GetInt64(RandomState, 0)
}

func (svd *SVD) GetParams() Params {
	return svd.params
}

// Predict estimates the rating of user on item.
func (svd *SVD) Predict(userId, itemId string) float64 {
	return svd.scale.Clip(svd.predict(svd.userDict.Index(userId), svd.itemDict.Index(itemId)))
}

func (svd *SVD) predict(userIndex, itemIndex int32) float64 {
	ret := svd.GlobalBias
	// + b_u
	if userIndex >= 0 {
		ret += svd.UserBias[userIndex]
	}
	// + b_i
	if itemIndex >= 0 {
		ret += svd.ItemBias[itemIndex]
	}
	// + q_i^Tp_u
	if itemIndex >= 0 && userIndex >= 0 {
		ret += floats.Dot(svd.UserFactor[userIndex], svd.ItemFactor[itemIndex])
	}
	return ret
}

// Fit trains the model on ratings by stochastic gradient descent.
func (svd *SVD) Fit(ctx context.Context, records []dataset.Record, scale Scale) error {
	if err := scale.Validate(); err != nil {
		return errors.Trace(err)
	}
	if len(records) == 0 {
		return errors.Annotate(base.ErrEmptyInput, "no rating to fit")
	}
	start := time.Now()
	svd.scale = scale
	svd.userDict, svd.itemDict = dataset.NewFreqDict(), dataset.NewFreqDict()
	users := make([]int32, len(records))
	items := make([]int32, len(records))
	sum := 0.0
	for i, r := range records {
		users[i] = svd.userDict.Id(r.Row)
		items[i] = svd.itemDict.Id(r.Column)
		sum += r.Value
	}
	// Initialize parameters
	rng := base.NewRandomGenerator(svd.seed)
	nUsers, nItems := int(svd.userDict.Count()), int(svd.itemDict.Count())
	svd.GlobalBias = 0
	if svd.useBias {
		svd.GlobalBias = sum / float64(len(records))
	}
	svd.UserBias = make([]float64, nUsers)
	svd.ItemBias = make([]float64, nItems)
	svd.UserFactor = rng.NormalMatrix64(nUsers, svd.nFactors, svd.initMean, svd.initStdDev)
	svd.ItemFactor = rng.NormalMatrix64(nItems, svd.nFactors, svd.initMean, svd.initStdDev)
	// Create buffers
	a := make([]float64, svd.nFactors)
	b := make([]float64, svd.nFactors)
	// Optimize
	for epoch := 0; epoch < svd.nEpochs; epoch++ {
		if err := ctx.Err(); err != nil {
			return errors.Trace(err)
		}
		for _, i := range rng.Perm(len(records)) {
			u, j := users[i], items[i]
			// Compute error: e_{ui} = r - \hat r
			diff := records[i].Value - svd.predict(u, j)
			if svd.useBias {
				// b_u <- b_u + \gamma (e_{ui} - \lambda b_u)
				svd.UserBias[u] += svd.lr * (diff - svd.reg*svd.UserBias[u])
				// b_i <- b_i + \gamma (e_{ui} - \lambda b_i)
				svd.ItemBias[j] += svd.lr * (diff - svd.reg*svd.ItemBias[j])
			}
			userFactor := svd.UserFactor[u]
			itemFactor := svd.ItemFactor[j]
			// a = \gamma (e_{ui} q_i - \lambda p_u)
			floats.ScaleTo(a, diff, itemFactor)
			floats.AddScaled(a, -svd.reg, userFactor)
			floats.Scale(svd.lr, a)
			// b = \gamma (e_{ui} p_u - \lambda q_i)
			floats.ScaleTo(b, diff, userFactor)
			floats.AddScaled(b, -svd.reg, itemFactor)
			floats.Scale(svd.lr, b)
			floats.Add(userFactor, a)
			floats.Add(itemFactor, b)
		}
	}
	FitSeconds.Set(time.Since(start).Seconds())
	log.Logger().Debug("fit svd",
		zap.Int("n_users", nUsers),
		zap.Int("n_items", nItems),
		zap.Int("n_ratings", len(records)),
		zap.Any("params", svd.params),
		zap.Duration("duration", time.Since(start)))
	return nil
}
