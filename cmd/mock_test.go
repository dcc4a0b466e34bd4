package cmd

import (
	"context"
	"sync"

	"cloud.google.com/go/civil"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/source"
)

// MockSource is a mock implementation of the Source interface.
type MockSource struct {
	LoadFunc func(ctx context.Context, d civil.Date) ([]model.IntervalReading, error)
}

func (m *MockSource) Load(ctx context.Context, d civil.Date) ([]model.IntervalReading, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, d)
	}
	return nil, source.ErrNoReadings
}

// MockStore is a mock implementation of the Store interface.
type MockStore struct {
	GetAggregatesFunc func(ctx context.Context, from, to civil.Date) (model.DayAggregates, error)
	CleanupFunc       func(ctx context.Context, today civil.Date, retentionDays int) error
}

func (m *MockStore) GetAggregates(ctx context.Context, from, to civil.Date) (model.DayAggregates, error) {
	if m.GetAggregatesFunc != nil {
		return m.GetAggregatesFunc(ctx, from, to)
	}
	return model.DayAggregates{}, nil
}

func (m *MockStore) Cleanup(ctx context.Context, today civil.Date, retentionDays int) error {
	if m.CleanupFunc != nil {
		return m.CleanupFunc(ctx, today, retentionDays)
	}
	return nil
}

// recordingPublisher collects everything published through the registry.
type recordingPublisher struct {
	mu   sync.Mutex
	aggs []model.DayAggregate
}

func (p *recordingPublisher) Write(_ context.Context, agg model.DayAggregate) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.aggs = append(p.aggs, agg)
	return nil
}

func (p *recordingPublisher) dates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	dates := make([]string, 0, len(p.aggs))
	for _, agg := range p.aggs {
		dates = append(dates, agg.Date)
	}
	return dates
}
