package service

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mchain/internal/model"
	appErr "github.com/xxxsen/mchain/internal/pkg/errors"
)

type fixedStats struct {
	stats model.LengthStats
	err   error
}

func (f fixedStats) LengthStats(context.Context) (model.LengthStats, error) {
	return f.stats, f.err
}

func TestLogNormalFromMeanCV(t *testing.T) {
	dist, err := logNormalFromMeanCV(10, 0.2)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(math.Log(1.04)), dist.sigma, 1e-12)
	require.InDelta(t, math.Log(10)-0.5*math.Log(1.04), dist.mu, 1e-12)

	for _, mean := range []float64{0, -3, math.NaN(), math.Inf(1)} {
		_, err := logNormalFromMeanCV(mean, 0.2)
		require.ErrorIs(t, err, appErr.ErrEstimation, "mean %v", mean)
	}
	for _, cv := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		_, err := logNormalFromMeanCV(10, cv)
		require.ErrorIs(t, err, appErr.ErrEstimation, "cv %v", cv)
	}
}

func TestEstimateUsesMedianForZeroDraw(t *testing.T) {
	est := NewLengthEstimator(fixedStats{stats: model.LengthStats{Count: 4, Mean: 10, StdDev: 2}}, &stubRand{norm: 0})
	n, err := est.Estimate(context.Background())
	require.NoError(t, err)
	// exp(mu) = 10 / sqrt(1.04) ~= 9.81
	require.Equal(t, 10, n)
}

func TestEstimateSamplesAroundMean(t *testing.T) {
	est := NewLengthEstimator(fixedStats{stats: model.LengthStats{Count: 4, Mean: 10, StdDev: 2}}, rand.New(rand.NewPCG(3, 5)))
	const trials = 5000
	total := 0
	for i := 0; i < trials; i++ {
		n, err := est.Estimate(context.Background())
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 0)
		total += n
	}
	require.InDelta(t, 10.0, float64(total)/trials, 0.3)
}

func TestEstimateZeroSpread(t *testing.T) {
	est := NewLengthEstimator(fixedStats{stats: model.LengthStats{Count: 2, Mean: 42, StdDev: 0}}, &stubRand{norm: 1.5})
	n, err := est.Estimate(context.Background())
	require.NoError(t, err)
	require.Equal(t, 42, n)
}

func TestEstimateFailures(t *testing.T) {
	_, err := NewLengthEstimator(fixedStats{}, nil).Estimate(context.Background())
	require.ErrorIs(t, err, appErr.ErrEstimation)

	_, err = NewLengthEstimator(fixedStats{stats: model.LengthStats{Count: 1, Mean: 0}}, nil).Estimate(context.Background())
	require.ErrorIs(t, err, appErr.ErrEstimation)

	_, err = NewLengthEstimator(fixedStats{err: errors.New("down")}, nil).Estimate(context.Background())
	require.ErrorIs(t, err, appErr.ErrStorage)
	require.False(t, appErr.IsEstimation(err))
}
