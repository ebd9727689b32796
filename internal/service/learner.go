package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xxxsen/mchain/internal/model"
	"github.com/xxxsen/mchain/internal/pkg/dbutil"
	appErr "github.com/xxxsen/mchain/internal/pkg/errors"
	"github.com/xxxsen/mchain/internal/pkg/timeutil"
)

type ChainLearner struct {
	texts       TextWriter
	edges       EdgeWriter
	concurrency int
}

// NewChainLearner builds a learner. concurrency caps the edge updates in
// flight for a single Ingest call; zero or less means no cap.
func NewChainLearner(texts TextWriter, edges EdgeWriter, concurrency int) *ChainLearner {
	return &ChainLearner{texts: texts, edges: edges, concurrency: concurrency}
}

// Ingest records text and applies one increment per derived edge. All edge
// updates run to completion before the first failure, in derivation order,
// is returned; successful siblings are not rolled back.
func (l *ChainLearner) Ingest(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if err := l.texts.Create(ctx, &model.Text{Content: text, Ctime: timeutil.NowUnix()}); err != nil {
		return fmt.Errorf("%w: record text: %w", appErr.ErrStorage, err)
	}

	edges := deriveEdges(text)
	results := make([]error, len(edges))
	var g errgroup.Group
	if l.concurrency > 0 {
		g.SetLimit(l.concurrency)
	}
	for i, edge := range edges {
		g.Go(func() error {
			results[i] = l.applyEdge(ctx, edge.From, edge.To)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		if err != nil {
			return fmt.Errorf("%w: increment edge %q -> %q: %w", appErr.ErrStorage, edges[i].From, edges[i].To, err)
		}
	}
	return nil
}

func (l *ChainLearner) applyEdge(ctx context.Context, from, to string) error {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if to == "" {
		return nil
	}
	if err := l.edges.Increment(ctx, from, to); err != nil {
		logutil.GetLogger(ctx).Warn("increment edge failed",
			zap.String("from", from),
			zap.String("to", to),
			zap.String("db_code", dbutil.DriverCode(err)),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// deriveEdges returns the start edge plus the transitions between adjacent
// tokens, excluding the transition into the last token.
func deriveEdges(text string) []model.Edge {
	parts := strings.Split(text, " ")
	edges := make([]model.Edge, 0, len(parts))
	edges = append(edges, model.Edge{From: model.StartToken, To: parts[0]})
	// TODO: confirm with product whether the transition into the final token
	// should be learned; existing chains were built without it.
	for i := 1; i < len(parts)-1; i++ {
		edges = append(edges, model.Edge{From: parts[i-1], To: parts[i]})
	}
	return edges
}
