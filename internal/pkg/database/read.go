package database

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

// GetAggregates returns the stored aggregates from..to inclusive, oldest first.
func (db *Database) GetAggregates(ctx context.Context, from, to civil.Date) (model.DayAggregates, error) {
	const query = `
	SELECT date::text, tou_date, unit, total, off_peak, on_peak,
		grid_total, grid_off_peak, grid_on_peak, to_grid, from_solar, total_production
	FROM day_aggregate
	WHERE date BETWEEN $1::date AND $2::date
	ORDER BY date ASC;
	`

	rows, err := db.pool.Query(ctx, query, from.String(), to.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAggregates(rows)
}

func scanAggregates(rows pgx.Rows) (model.DayAggregates, error) {
	aggs := model.DayAggregates{}
	for rows.Next() {
		var (
			agg                                model.DayAggregate
			unit                               string
			gridTotal, gridOffPeak, gridOnPeak *float64
			toGrid, fromSolar, totalProduction *float64
		)
		if err := rows.Scan(&agg.Date, &agg.TouDate, &unit,
			&agg.Consumption.Total, &agg.Consumption.OffPeak, &agg.Consumption.OnPeak,
			&gridTotal, &gridOffPeak, &gridOnPeak, &toGrid, &fromSolar, &totalProduction,
		); err != nil {
			return nil, err
		}
		agg.Unit = model.Unit(unit)
		if gridTotal != nil {
			agg.Solar = &model.SolarConsumption{
				Total:           *gridTotal,
				OffPeak:         deref(gridOffPeak),
				OnPeak:          deref(gridOnPeak),
				ToGrid:          deref(toGrid),
				FromSolar:       deref(fromSolar),
				TotalProduction: deref(totalProduction),
			}
		}
		aggs = append(aggs, agg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return aggs, nil
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
