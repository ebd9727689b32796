package service

import (
	"context"
	"math/rand/v2"

	"github.com/xxxsen/mchain/internal/model"
)

type TextWriter interface {
	Create(ctx context.Context, text *model.Text) error
}

type EdgeWriter interface {
	Increment(ctx context.Context, from, to string) error
}

type EdgeReader interface {
	ListFrom(ctx context.Context, from string) ([]model.Edge, error)
}

type EdgeStatsReader interface {
	Stats(ctx context.Context) (model.EdgeStats, error)
}

// LengthStatsSource is satisfied by repo.TextRepo and by the caching
// wrappers in statcache.
type LengthStatsSource interface {
	LengthStats(ctx context.Context) (model.LengthStats, error)
}

// Rand is the randomness used by sampling and length estimation. *rand.Rand
// from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	NormFloat64() float64
}

type globalRand struct{}

func (globalRand) IntN(n int) int       { return rand.IntN(n) }
func (globalRand) NormFloat64() float64 { return rand.NormFloat64() }

// DefaultRand uses the goroutine-safe top-level functions of math/rand/v2.
var DefaultRand Rand = globalRand{}
