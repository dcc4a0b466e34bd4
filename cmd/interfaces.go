package cmd

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

// Source defines what cmd needs to load the readings of a day.
type Source interface {
	Load(ctx context.Context, d civil.Date) ([]model.IntervalReading, error)
}

// Store defines what run needs from the aggregate database.
type Store interface {
	GetAggregates(ctx context.Context, from, to civil.Date) (model.DayAggregates, error)
	Cleanup(ctx context.Context, today civil.Date, retentionDays int) error
}
