package database

import (
	"context"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

// Write implements the publisher interface.
func (db *Database) Write(ctx context.Context, agg model.DayAggregate) error {
	return db.WriteAggregate(ctx, agg)
}

// WriteAggregate inserts the aggregate or replaces the stored one for the same date.
func (db *Database) WriteAggregate(ctx context.Context, agg model.DayAggregate) error {
	const upsertSQL = `
	INSERT INTO day_aggregate (date, tou_date, unit, total, off_peak, on_peak,
		grid_total, grid_off_peak, grid_on_peak, to_grid, from_solar, total_production, updated_at)
	VALUES ($1::date, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now())
	ON CONFLICT (date) DO UPDATE SET
		tou_date = EXCLUDED.tou_date,
		unit = EXCLUDED.unit,
		total = EXCLUDED.total,
		off_peak = EXCLUDED.off_peak,
		on_peak = EXCLUDED.on_peak,
		grid_total = EXCLUDED.grid_total,
		grid_off_peak = EXCLUDED.grid_off_peak,
		grid_on_peak = EXCLUDED.grid_on_peak,
		to_grid = EXCLUDED.to_grid,
		from_solar = EXCLUDED.from_solar,
		total_production = EXCLUDED.total_production,
		updated_at = EXCLUDED.updated_at;
	`
	var gridTotal, gridOffPeak, gridOnPeak, toGrid, fromSolar, totalProduction *float64
	if s := agg.Solar; s != nil {
		gridTotal, gridOffPeak, gridOnPeak = &s.Total, &s.OffPeak, &s.OnPeak
		toGrid, fromSolar, totalProduction = &s.ToGrid, &s.FromSolar, &s.TotalProduction
	}
	if _, err := db.pool.Exec(ctx, upsertSQL,
		agg.Date, agg.TouDate, agg.Unit.String(),
		agg.Consumption.Total, agg.Consumption.OffPeak, agg.Consumption.OnPeak,
		gridTotal, gridOffPeak, gridOnPeak, toGrid, fromSolar, totalProduction,
	); err != nil {
		return err
	}
	return nil
}
