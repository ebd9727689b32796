package repo

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/xxxsen/mchain/internal/model"
)

const (
	incrementEdgeQuery = `
		INSERT INTO chain_entries ("from", "to", count)
		VALUES (?, ?, 1)
		ON CONFLICT ("from", "to") DO UPDATE
		SET count = chain_entries.count + 1
	`
	listEdgesFromQuery = `SELECT "from", "to", count FROM chain_entries WHERE "from" = ? ORDER BY "to"`
	edgeStatsQuery     = `
		SELECT COUNT(*), COALESCE(SUM(count), 0), COUNT(CASE WHEN "from" = '' THEN 1 END)
		FROM chain_entries
	`
)

type EdgeRepo struct {
	db             *sqlx.DB
	incrementQuery string
	listFromQuery  string
	statsQuery     string
}

func NewEdgeRepo(db *sqlx.DB) *EdgeRepo {
	return &EdgeRepo{
		db:             db,
		incrementQuery: db.Rebind(incrementEdgeQuery),
		listFromQuery:  db.Rebind(listEdgesFromQuery),
		statsQuery:     db.Rebind(edgeStatsQuery),
	}
}

// Increment creates the edge with count 1 or bumps the existing count, in a
// single statement so concurrent writers never lose an update.
func (r *EdgeRepo) Increment(ctx context.Context, from, to string) error {
	_, err := r.db.ExecContext(ctx, r.incrementQuery, from, to)
	return err
}

func (r *EdgeRepo) ListFrom(ctx context.Context, from string) ([]model.Edge, error) {
	edges := make([]model.Edge, 0)
	if err := r.db.SelectContext(ctx, &edges, r.listFromQuery, from); err != nil {
		return nil, err
	}
	return edges, nil
}

func (r *EdgeRepo) Stats(ctx context.Context) (model.EdgeStats, error) {
	var stats model.EdgeStats
	row := r.db.QueryRowContext(ctx, r.statsQuery)
	if err := row.Scan(&stats.Edges, &stats.Transitions, &stats.StartTokens); err != nil {
		return model.EdgeStats{}, err
	}
	return stats, nil
}
