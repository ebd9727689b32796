package service

import (
	"context"
	"strings"

	"github.com/xxxsen/mchain/internal/model"
)

type TextSynthesizer struct {
	estimator *LengthEstimator
	sampler   *WeightedSampler
}

func NewTextSynthesizer(estimator *LengthEstimator, sampler *WeightedSampler) *TextSynthesizer {
	return &TextSynthesizer{estimator: estimator, sampler: sampler}
}

// Generate continues seed, or starts a fresh text when seed is nil. The
// length budget applies to the generated part only and is estimated from
// past texts when maxLength is nil.
func (s *TextSynthesizer) Generate(ctx context.Context, seed *string, maxLength *int) (string, error) {
	var target int
	if maxLength != nil {
		target = *maxLength
	} else {
		estimated, err := s.estimator.Estimate(ctx)
		if err != nil {
			return "", err
		}
		target = estimated
	}

	prefix := ""
	lastToken := model.StartToken
	if seed != nil {
		prefix = strings.TrimSpace(*seed)
		parts := strings.Split(prefix, " ")
		lastToken = strings.TrimSpace(parts[len(parts)-1])
	}

	generated, err := s.sampler.Walk(ctx, lastToken, target)
	if err != nil {
		return "", err
	}
	switch {
	case prefix == "":
		return generated, nil
	case generated == "":
		return prefix, nil
	default:
		return prefix + " " + generated, nil
	}
}
