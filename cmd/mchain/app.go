package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mchain/internal/config"
	"github.com/xxxsen/mchain/internal/db"
	"github.com/xxxsen/mchain/internal/repo"
	"github.com/xxxsen/mchain/internal/service"
	"github.com/xxxsen/mchain/internal/statcache"
)

type app struct {
	db          *sqlx.DB
	learner     *service.ChainLearner
	synthesizer *service.TextSynthesizer
	stats       *service.StatsService
}

func openDB(cfg *config.Config) (*sqlx.DB, error) {
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}
	logutil.GetLogger(context.Background()).Info("database ready", zap.String("driver", conn.DriverName()))
	return conn, nil
}

func newApp(cfg *config.Config) (*app, error) {
	conn, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	texts := repo.NewTextRepo(conn)
	edges := repo.NewEdgeRepo(conn)
	lengths := statcache.WrapLruCacheToLengthStats(texts, time.Duration(cfg.Stats.CacheTTLSeconds)*time.Second)

	return &app{
		db:      conn,
		learner: service.NewChainLearner(texts, edges, cfg.Ingest.Concurrency),
		synthesizer: service.NewTextSynthesizer(
			service.NewLengthEstimator(lengths, service.DefaultRand),
			service.NewWeightedSampler(edges, service.DefaultRand),
		),
		stats: service.NewStatsService(texts, edges),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
