package repo

import (
	"context"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mchain/internal/config"
	"github.com/xxxsen/mchain/internal/model"
)

const (
	insertTextQuery = `INSERT INTO texts (content, ctime) VALUES (?, ?)`
	// sqlite has no STDDEV_POP; the second column is E[len^2] there.
	sqliteLengthStatsQuery = `
		SELECT COUNT(*), COALESCE(AVG(len), 0), COALESCE(AVG(len * len), 0)
		FROM (SELECT CAST(length(content) AS DOUBLE PRECISION) AS len FROM texts) lengths
	`
	postgresLengthStatsQuery = `
		SELECT COUNT(*), COALESCE(AVG(len), 0), COALESCE(STDDEV_POP(len), 0)
		FROM (SELECT CAST(length(content) AS DOUBLE PRECISION) AS len FROM texts) lengths
	`
)

type TextRepo struct {
	db          *sqlx.DB
	insertQuery string
	statsQuery  string
	stddevInSQL bool
}

func NewTextRepo(db *sqlx.DB) *TextRepo {
	r := &TextRepo{
		db:          db,
		insertQuery: db.Rebind(insertTextQuery),
		statsQuery:  sqliteLengthStatsQuery,
	}
	if db.DriverName() == config.DriverPostgres {
		r.statsQuery = postgresLengthStatsQuery
		r.stddevInSQL = true
	}
	return r
}

func (r *TextRepo) Create(ctx context.Context, text *model.Text) error {
	_, err := r.db.ExecContext(ctx, r.insertQuery, text.Content, text.Ctime)
	return err
}

// LengthStats returns the mean and population standard deviation of the
// character length of every recorded text.
func (r *TextRepo) LengthStats(ctx context.Context) (model.LengthStats, error) {
	var (
		stats  model.LengthStats
		spread float64
	)
	row := r.db.QueryRowContext(ctx, r.statsQuery)
	if err := row.Scan(&stats.Count, &stats.Mean, &spread); err != nil {
		return model.LengthStats{}, err
	}
	if stats.Count == 0 {
		return model.LengthStats{}, nil
	}
	if r.stddevInSQL {
		stats.StdDev = spread
		return stats, nil
	}
	// E[x^2]-mean^2 can dip below zero by rounding when all lengths match
	stats.StdDev = math.Sqrt(math.Max(spread-stats.Mean*stats.Mean, 0))
	return stats, nil
}
