package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mchain/internal/model"
)

type chainStatsProvider interface {
	Stats(ctx context.Context) (*model.ChainStats, error)
}

// ChainStatsReportJob logs a snapshot of the chain size.
type ChainStatsReportJob struct {
	stats chainStatsProvider
}

func NewChainStatsReportJob(stats chainStatsProvider) *ChainStatsReportJob {
	return &ChainStatsReportJob{stats: stats}
}

func (j *ChainStatsReportJob) Name() string {
	return "chain_stats_report"
}

func (j *ChainStatsReportJob) Run(ctx context.Context) error {
	if j.stats == nil {
		return nil
	}
	stats, err := j.stats.Stats(ctx)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("chain stats",
		zap.Int64("texts", stats.Texts),
		zap.Float64("mean_length", stats.MeanLength),
		zap.Float64("stddev_length", stats.StdDevLength),
		zap.Int64("edges", stats.Edges),
		zap.Int64("transitions", stats.Transitions),
		zap.Int64("start_tokens", stats.StartTokens),
	)
	return nil
}
