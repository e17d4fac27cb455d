// Package memory implementa os repositórios em memória, usados em execuções
// de teste (--store=memory) e nos testes do pipeline.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vfg2006/mruda-api/infrastructure/repository"
	"github.com/vfg2006/mruda-api/internal/domain"
)

type MetricStore struct {
	mu      sync.RWMutex
	nextID  int64
	metrics map[domain.MetricKey]*domain.NormalizedMetric
}

func NewMetricStore() *MetricStore {
	return &MetricStore{
		metrics: make(map[domain.MetricKey]*domain.NormalizedMetric),
	}
}

func (s *MetricStore) Upsert(_ context.Context, metric domain.NormalizedMetric) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	metric.UpdatedAt = time.Now().UTC()

	key := metric.Key()
	if existing, ok := s.metrics[key]; ok {
		existing.MetricValue = metric.MetricValue
		existing.EntityName = metric.EntityName
		existing.MetricType = metric.MetricType
		existing.UpdatedAt = metric.UpdatedAt
		return false, nil
	}

	s.nextID++
	metric.ID = s.nextID
	s.metrics[key] = &metric

	return true, nil
}

// Query segue a mesma ordenação do repositório Postgres
func (s *MetricStore) Query(_ context.Context, q domain.MetricQuery) ([]domain.NormalizedMetric, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.NormalizedMetric, 0)
	for _, m := range s.metrics {
		if q.Matches(*m) {
			out = append(out, *m)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.EntityType != b.EntityType {
			return a.EntityType < b.EntityType
		}
		if a.EntityID != b.EntityID {
			return a.EntityID < b.EntityID
		}
		return a.MetricName < b.MetricName
	})

	return out, nil
}

// Len retorna a quantidade de registros armazenados
func (s *MetricStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.metrics)
}

type RawPayloadStore struct {
	mu       sync.RWMutex
	payloads []domain.RawPayload
}

func NewRawPayloadStore() *RawPayloadStore {
	return &RawPayloadStore{}
}

func (s *RawPayloadStore) Save(_ context.Context, payload *domain.RawPayload) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payload.FetchedAt.IsZero() {
		payload.FetchedAt = time.Now().UTC()
	}
	payload.ID = int64(len(s.payloads) + 1)

	stored := *payload
	stored.PayloadJSON = append([]byte(nil), payload.PayloadJSON...)
	s.payloads = append(s.payloads, stored)

	return payload.ID, nil
}

func (s *RawPayloadStore) ListByWindow(_ context.Context, window domain.DateWindow) ([]*domain.RawPayload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.RawPayload, 0)
	for i := range s.payloads {
		p := s.payloads[i]
		if p.DateStart == window.Start && p.DateStop == window.Stop {
			out = append(out, &p)
		}
	}

	return out, nil
}

func (s *RawPayloadStore) FetchedSince(_ context.Context, dateStop string, since time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.payloads {
		if p.DateStop == dateStop && !p.FetchedAt.Before(since) {
			return true, nil
		}
	}

	return false, nil
}

type SnapshotStore struct {
	mu        sync.RWMutex
	snapshots []domain.AnalysisSnapshot
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

func (s *SnapshotStore) Save(_ context.Context, snapshot *domain.AnalysisSnapshot) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot.ID = int64(len(s.snapshots) + 1)
	if snapshot.CreatedAt.IsZero() {
		snapshot.CreatedAt = time.Now().UTC()
	}

	stored := *snapshot
	stored.ResultJSON = append([]byte(nil), snapshot.ResultJSON...)
	s.snapshots = append(s.snapshots, stored)

	return snapshot.ID, nil
}

func (s *SnapshotStore) Latest(_ context.Context) (*domain.AnalysisSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.snapshots) == 0 {
		return nil, nil
	}

	latest := s.snapshots[len(s.snapshots)-1]
	return &latest, nil
}

// List devolve do mais recente para o mais antigo
func (s *SnapshotStore) List(_ context.Context, dateFilter string, limit int) ([]*domain.AnalysisSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.AnalysisSnapshot, 0)
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		snapshot := s.snapshots[i]
		if dateFilter != "" && snapshot.DateRangeEnd != dateFilter {
			continue
		}
		out = append(out, &snapshot)
		if limit > 0 && len(out) == limit {
			break
		}
	}

	return out, nil
}

var (
	_ repository.NormalizedMetricRepository = (*MetricStore)(nil)
	_ repository.RawPayloadRepository       = (*RawPayloadStore)(nil)
	_ repository.AnalysisResultRepository   = (*SnapshotStore)(nil)
)
