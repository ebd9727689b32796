package service

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/xxxsen/mchain/internal/model"
)

type edgeKey struct {
	from string
	to   string
}

// memStore is an in-memory chain store for service tests.
type memStore struct {
	mu        sync.Mutex
	texts     []string
	counts    map[edgeKey]int64
	failTo    map[string]error
	failText  error
	failList  error
	listCalls int
}

func newMemStore() *memStore {
	return &memStore{counts: make(map[edgeKey]int64), failTo: make(map[string]error)}
}

func (m *memStore) Create(_ context.Context, text *model.Text) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failText != nil {
		return m.failText
	}
	m.texts = append(m.texts, text.Content)
	return nil
}

func (m *memStore) Increment(_ context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failTo[to]; ok {
		return err
	}
	m.counts[edgeKey{from: from, to: to}]++
	return nil
}

func (m *memStore) ListFrom(_ context.Context, from string) ([]model.Edge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.failList != nil {
		return nil, m.failList
	}
	edges := make([]model.Edge, 0)
	for k, c := range m.counts {
		if k.from == from {
			edges = append(edges, model.Edge{From: k.from, To: k.to, Count: c})
		}
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })
	return edges, nil
}

func (m *memStore) LengthStats(_ context.Context) (model.LengthStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.texts) == 0 {
		return model.LengthStats{}, nil
	}
	var sum, sumSq float64
	for _, t := range m.texts {
		l := float64(len([]rune(t)))
		sum += l
		sumSq += l * l
	}
	n := float64(len(m.texts))
	mean := sum / n
	return model.LengthStats{
		Count:  int64(len(m.texts)),
		Mean:   mean,
		StdDev: math.Sqrt(math.Max(sumSq/n-mean*mean, 0)),
	}, nil
}

func (m *memStore) Stats(_ context.Context) (model.EdgeStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var stats model.EdgeStats
	for k, c := range m.counts {
		stats.Edges++
		stats.Transitions += c
		if k.from == model.StartToken {
			stats.StartTokens++
		}
	}
	return stats, nil
}

func (m *memStore) edges() map[edgeKey]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[edgeKey]int64, len(m.counts))
	for k, v := range m.counts {
		out[k] = v
	}
	return out
}

func (m *memStore) set(from, to string, count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[edgeKey{from: from, to: to}] = count
}

// stubRand replays fixed draws; IntN values are reduced modulo n.
type stubRand struct {
	ints []int
	pos  int
	norm float64
}

func (s *stubRand) IntN(n int) int {
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[s.pos%len(s.ints)]
	s.pos++
	return v % n
}

func (s *stubRand) NormFloat64() float64 {
	return s.norm
}
