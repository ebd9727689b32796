package service

import (
	"context"
	"fmt"

	"github.com/xxxsen/mchain/internal/model"
	appErr "github.com/xxxsen/mchain/internal/pkg/errors"
)

type StatsService struct {
	lengths LengthStatsSource
	edges   EdgeStatsReader
}

func NewStatsService(lengths LengthStatsSource, edges EdgeStatsReader) *StatsService {
	return &StatsService{lengths: lengths, edges: edges}
}

func (s *StatsService) Stats(ctx context.Context) (*model.ChainStats, error) {
	lengths, err := s.lengths.LengthStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: length stats: %w", appErr.ErrStorage, err)
	}
	edges, err := s.edges.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: edge stats: %w", appErr.ErrStorage, err)
	}
	return &model.ChainStats{
		Texts:        lengths.Count,
		MeanLength:   lengths.Mean,
		StdDevLength: lengths.StdDev,
		EdgeStats:    edges,
	}, nil
}
