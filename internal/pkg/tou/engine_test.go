package tou

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := NewEngine(MEACalendar(), opts)
	require.NoError(t, err)
	return e
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(nil, DefaultOptions())
	assert.True(t, ErrInvalidCalendar.Has(err))

	_, err = NewEngine(MEACalendar(), Options{IntervalMinutes: 0})
	assert.True(t, ErrInvalidCalendar.Has(err))

	e := newEngine(t, DefaultOptions())
	assert.Equal(t, DefaultOptions(), e.Options())
	assert.Equal(t, MEAOnPeak, e.Calendar().OnPeak())
}

func TestEngine_Compute(t *testing.T) {
	e := newEngine(t, DefaultOptions())

	agg, err := e.Compute("2025-04-13", []model.IntervalReading{
		model.NewReading("09:30", 1000),
		model.NewReading("23:00", 2000),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-04-13", agg.Date)
	assert.True(t, agg.TouDate)
	assert.Equal(t, model.Consumption{Total: 0.75, OffPeak: 0.75}, agg.Consumption)
	require.NotNil(t, agg.Solar)
	assert.Equal(t, 0.75, agg.Solar.FromSolar)
	assert.Equal(t, 0.75, agg.Solar.TotalProduction)
}

func TestEngine_ComputeInvalidDate(t *testing.T) {
	e := newEngine(t, DefaultOptions())

	for _, in := range []string{"", "2025/06/02", "02-06-2025", "2025-02-30"} {
		_, err := e.Compute(in, nil)
		assert.True(t, ErrInvalidDate.Has(err), "date %q", in)
	}
}

func TestEngine_ComputeMany(t *testing.T) {
	e := newEngine(t, Options{IntervalMinutes: 15})
	from := civil.Date{Year: 2025, Month: 6, Day: 6}
	to := civil.Date{Year: 2025, Month: 6, Day: 9}

	load := func(_ context.Context, d civil.Date) ([]model.IntervalReading, error) {
		return []model.IntervalReading{
			model.NewReading("12:00", int64(d.Day)),
		}, nil
	}

	aggs, err := e.ComputeMany(context.Background(), DateRange(from, to), load, 2)
	require.NoError(t, err)
	require.Len(t, aggs, 4)

	assert.Equal(t, "2025-06-06", aggs[0].Date)
	assert.False(t, aggs[0].TouDate)
	assert.Equal(t, 6.0, aggs[0].Consumption.OnPeak)

	assert.Equal(t, "2025-06-07", aggs[1].Date)
	assert.True(t, aggs[1].TouDate)
	assert.Equal(t, 7.0, aggs[1].Consumption.OffPeak)

	assert.Equal(t, "2025-06-08", aggs[2].Date)
	assert.True(t, aggs[2].TouDate)

	assert.Equal(t, "2025-06-09", aggs[3].Date)
	assert.False(t, aggs[3].TouDate)
	assert.Equal(t, 9.0, aggs[3].Consumption.OnPeak)
}

func TestEngine_ComputeManyStopsOnError(t *testing.T) {
	e := newEngine(t, DefaultOptions())
	errBoom := errors.New("boom")
	var calls atomic.Int32

	load := func(_ context.Context, d civil.Date) ([]model.IntervalReading, error) {
		calls.Add(1)
		if d.Day == 3 {
			return nil, errBoom
		}
		return nil, nil
	}

	dates := DateRange(civil.Date{Year: 2025, Month: 6, Day: 1}, civil.Date{Year: 2025, Month: 6, Day: 5})
	aggs, err := e.ComputeMany(context.Background(), dates, load, 1)
	require.ErrorIs(t, err, errBoom)
	assert.Contains(t, err.Error(), "load 2025-06-03")
	assert.Nil(t, aggs)
	assert.LessOrEqual(t, calls.Load(), int32(3))
}

func TestEngine_ComputeManyInvalidReading(t *testing.T) {
	e := newEngine(t, DefaultOptions())

	load := func(_ context.Context, _ civil.Date) ([]model.IntervalReading, error) {
		return []model.IntervalReading{model.NewReading("9am", 1)}, nil
	}

	_, err := e.ComputeMany(context.Background(), []civil.Date{{Year: 2025, Month: 6, Day: 2}}, load, 0)
	require.Error(t, err)
	assert.True(t, ErrInvalidReading.Has(err))
	var re *ReadingError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, 0, re.Index)
}

func TestEngine_ComputeManyCanceled(t *testing.T) {
	e := newEngine(t, DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	load := func(_ context.Context, _ civil.Date) ([]model.IntervalReading, error) {
		return nil, nil
	}

	_, err := e.ComputeMany(ctx, []civil.Date{{Year: 2025, Month: 6, Day: 2}}, load, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDateRange(t *testing.T) {
	dates := DateRange(civil.Date{Year: 2024, Month: 12, Day: 30}, civil.Date{Year: 2025, Month: 1, Day: 2})
	assert.Equal(t, []civil.Date{
		{Year: 2024, Month: 12, Day: 30},
		{Year: 2024, Month: 12, Day: 31},
		{Year: 2025, Month: 1, Day: 1},
		{Year: 2025, Month: 1, Day: 2},
	}, dates)

	assert.Empty(t, DateRange(civil.Date{Year: 2025, Month: 1, Day: 2}, civil.Date{Year: 2025, Month: 1, Day: 1}))
}
