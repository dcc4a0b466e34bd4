package tou

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"
	"golang.org/x/sync/errgroup"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

// Engine runs the calendar classifier and the aggregator for whole days.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	calendar *Calendar
	opts     Options
}

func NewEngine(cal *Calendar, opts Options) (*Engine, error) {
	if cal == nil {
		return nil, ErrInvalidCalendar.New("calendar is required")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Engine{calendar: cal, opts: opts}, nil
}

func (e *Engine) Calendar() *Calendar {
	return e.calendar
}

func (e *Engine) Options() Options {
	return e.opts
}

// Compute aggregates the readings of the YYYY-MM-DD date.
func (e *Engine) Compute(date string, readings []model.IntervalReading) (model.DayAggregate, error) {
	d, err := ParseDate(date)
	if err != nil {
		return model.DayAggregate{}, err
	}
	return e.ComputeDay(d, readings)
}

func (e *Engine) ComputeDay(d civil.Date, readings []model.IntervalReading) (model.DayAggregate, error) {
	agg, err := Aggregate(e.calendar.ClassifyDay(d), e.calendar, readings, e.opts)
	if err != nil {
		return model.DayAggregate{}, err
	}
	agg.Date = d.String()
	return agg, nil
}

// ReadingsFunc loads the readings of one day.
type ReadingsFunc func(ctx context.Context, d civil.Date) ([]model.IntervalReading, error)

// ComputeMany loads and aggregates independent days with at most workers in flight.
// Results keep the order of dates. The first failure cancels the rest.
func (e *Engine) ComputeMany(ctx context.Context, dates []civil.Date, load ReadingsFunc, workers int) (model.DayAggregates, error) {
	results := make(model.DayAggregates, len(dates))
	eg, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	for i, d := range dates {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			readings, err := load(ctx, d)
			if err != nil {
				return fmt.Errorf("load %s: %w", d, err)
			}
			agg, err := e.ComputeDay(d, readings)
			if err != nil {
				return fmt.Errorf("aggregate %s: %w", d, err)
			}
			results[i] = agg
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DateRange lists every date from..to inclusive.
func DateRange(from, to civil.Date) []civil.Date {
	dates := []civil.Date{}
	for d := from; !d.After(to); d = d.AddDays(1) {
		dates = append(dates, d)
	}
	return dates
}
