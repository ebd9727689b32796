package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mchain/internal/model"
	appErr "github.com/xxxsen/mchain/internal/pkg/errors"
)

type WeightedSampler struct {
	edges EdgeReader
	rng   Rand
}

func NewWeightedSampler(edges EdgeReader, rng Rand) *WeightedSampler {
	if rng == nil {
		rng = DefaultRand
	}
	return &WeightedSampler{edges: edges, rng: rng}
}

// Walk follows outgoing edges from lastToken, picking each next token with
// probability proportional to its count, until the generated text reaches
// targetLength characters or a token without outgoing edges is hit. The
// length check happens between tokens, so the result may overshoot.
func (s *WeightedSampler) Walk(ctx context.Context, lastToken string, targetLength int) (string, error) {
	var sb strings.Builder
	length := 0
	for length < targetLength {
		candidates, err := s.edges.ListFrom(ctx, lastToken)
		if err != nil {
			return "", fmt.Errorf("%w: list edges from %q: %w", appErr.ErrStorage, lastToken, err)
		}
		if len(candidates) == 0 {
			logutil.GetLogger(ctx).Debug("walk reached dead end",
				zap.String("last_token", lastToken),
				zap.Int("length", length),
				zap.Int("target_length", targetLength),
			)
			break
		}
		next, err := pickWeighted(candidates, s.rng)
		if err != nil {
			return "", err
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
			length++
		}
		sb.WriteString(next)
		length += utf8.RuneCountInString(next)
		lastToken = next
	}
	return sb.String(), nil
}

// pickWeighted draws r uniformly from [0, total] inclusive and walks the
// candidates subtracting each count until r drops to zero or below.
func pickWeighted(candidates []model.Edge, rng Rand) (string, error) {
	var total int64
	for _, c := range candidates {
		total += c.Count
	}
	if total <= 0 {
		return "", fmt.Errorf("%w: total weight %d over %d candidates", appErr.ErrSampling, total, len(candidates))
	}
	r := int64(rng.IntN(int(total) + 1))
	for _, c := range candidates {
		r -= c.Count
		if r <= 0 {
			return c.To, nil
		}
	}
	return "", fmt.Errorf("%w: no candidate selected", appErr.ErrSampling)
}
