package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mchain/internal/model"
)

type stubStats struct {
	calls int
	err   error
}

func (s *stubStats) Stats(context.Context) (*model.ChainStats, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.ChainStats{Texts: 3, EdgeStats: model.EdgeStats{Edges: 5}}, nil
}

func TestChainStatsReportJob(t *testing.T) {
	stats := &stubStats{}
	job := NewChainStatsReportJob(stats)
	require.Equal(t, "chain_stats_report", job.Name())
	require.NoError(t, job.Run(context.Background()))
	require.Equal(t, 1, stats.calls)

	stats.err = errors.New("db down")
	require.Error(t, job.Run(context.Background()))

	require.NoError(t, NewChainStatsReportJob(nil).Run(context.Background()))
}
