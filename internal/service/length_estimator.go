package service

import (
	"context"
	"fmt"
	"math"

	"github.com/xxxsen/mchain/internal/model"
	appErr "github.com/xxxsen/mchain/internal/pkg/errors"
)

type LengthEstimator struct {
	stats LengthStatsSource
	rng   Rand
}

func NewLengthEstimator(stats LengthStatsSource, rng Rand) *LengthEstimator {
	if rng == nil {
		rng = DefaultRand
	}
	return &LengthEstimator{stats: stats, rng: rng}
}

// Estimate draws a target output length from a log-normal distribution
// fitted to the mean and coefficient of variation of past text lengths.
func (e *LengthEstimator) Estimate(ctx context.Context) (int, error) {
	stats, err := e.stats.LengthStats(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: length stats: %w", appErr.ErrStorage, err)
	}
	dist, err := fitLengthStats(stats)
	if err != nil {
		return 0, err
	}
	return dist.sampleLength(e.rng), nil
}

type logNormal struct {
	mu    float64
	sigma float64
}

func fitLengthStats(stats model.LengthStats) (logNormal, error) {
	if stats.Count == 0 {
		return logNormal{}, fmt.Errorf("%w: no texts recorded", appErr.ErrEstimation)
	}
	return logNormalFromMeanCV(stats.Mean, stats.StdDev/stats.Mean)
}

// logNormalFromMeanCV fits the distribution whose mean is mean and whose
// stddev/mean ratio is cv.
func logNormalFromMeanCV(mean, cv float64) (logNormal, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) || mean <= 0 {
		return logNormal{}, fmt.Errorf("%w: mean %v must be positive and finite", appErr.ErrEstimation, mean)
	}
	if math.IsNaN(cv) || math.IsInf(cv, 0) || cv < 0 {
		return logNormal{}, fmt.Errorf("%w: coefficient of variation %v must be non-negative and finite", appErr.ErrEstimation, cv)
	}
	a := 1 + cv*cv
	sigma := math.Sqrt(math.Log(a))
	mu := math.Log(mean) - 0.5*math.Log(a)
	return logNormal{mu: mu, sigma: sigma}, nil
}

func (d logNormal) sample(rng Rand) float64 {
	return math.Exp(d.mu + d.sigma*rng.NormFloat64())
}

func (d logNormal) sampleLength(rng Rand) int {
	v := math.Round(d.sample(rng))
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}
