package tou

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

func rawWatts() Options {
	return Options{IntervalMinutes: DefaultIntervalMinutes}
}

func TestAggregate_HolidayIsAllOffPeak(t *testing.T) {
	cal := MEACalendar()
	readings := []model.IntervalReading{
		model.NewReading("09:30", 1000),
		model.NewReading("23:00", 2000),
	}

	agg, err := Aggregate(cal.ClassifyDay(date(t, "2025-04-13")), cal, readings, DefaultOptions())
	require.NoError(t, err)

	assert.True(t, agg.TouDate)
	assert.Equal(t, model.UnitKiloWattHour, agg.Unit)
	assert.Equal(t, 0.75, agg.Consumption.Total)
	assert.Equal(t, 0.0, agg.Consumption.OnPeak)
	assert.Equal(t, 0.75, agg.Consumption.OffPeak)
}

func TestAggregate_WeekdayBoundaries(t *testing.T) {
	cal := MEACalendar()
	readings := []model.IntervalReading{
		model.NewReading("08:59", 100),
		model.NewReading("09:00", 100),
		model.NewReading("21:59", 100),
		model.NewReading("22:00", 100),
	}

	agg, err := Aggregate(cal.ClassifyDay(date(t, "2025-06-02")), cal, readings, rawWatts())
	require.NoError(t, err)

	assert.False(t, agg.TouDate)
	assert.Equal(t, model.UnitWatt, agg.Unit)
	assert.Equal(t, 400.0, agg.Consumption.Total)
	assert.Equal(t, 200.0, agg.Consumption.OnPeak)
	assert.Equal(t, 200.0, agg.Consumption.OffPeak)
	assert.Nil(t, agg.Solar)
}

func TestAggregate_ExactBoundaryReadings(t *testing.T) {
	cal := MEACalendar()

	t.Run("start is on-peak", func(t *testing.T) {
		tot, err := Accumulate(WeekdaySplit, cal, []model.IntervalReading{model.NewReading("09:00", 7)}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(7), tot.OnPeak)
		assert.Equal(t, int64(0), tot.OffPeak)
	})
	t.Run("end is off-peak", func(t *testing.T) {
		tot, err := Accumulate(WeekdaySplit, cal, []model.IntervalReading{model.NewReading("22:00", 7)}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(0), tot.OnPeak)
		assert.Equal(t, int64(7), tot.OffPeak)
	})
	t.Run("end of day sentinel is off-peak", func(t *testing.T) {
		tot, err := Accumulate(WeekdaySplit, cal, []model.IntervalReading{model.NewReading("24:00", 7)}, false)
		require.NoError(t, err)
		assert.Equal(t, int64(7), tot.OffPeak)
	})
}

func TestAggregate_UnitConversion(t *testing.T) {
	cal := MEACalendar()
	readings := []model.IntervalReading{model.NewReading("10:00", 4000)}

	agg, err := Aggregate(WeekdaySplit, cal, readings, Options{IntervalMinutes: 15, ConvertUnits: true})
	require.NoError(t, err)
	assert.Equal(t, 1.0, agg.Consumption.Total)
	assert.Equal(t, 1.0, agg.Consumption.OnPeak)

	agg, err = Aggregate(WeekdaySplit, cal, readings, Options{IntervalMinutes: 30, ConvertUnits: true})
	require.NoError(t, err)
	assert.Equal(t, 2.0, agg.Consumption.Total)

	agg, err = Aggregate(WeekdaySplit, cal, readings, Options{IntervalMinutes: 60, ConvertUnits: true})
	require.NoError(t, err)
	assert.Equal(t, 4.0, agg.Consumption.Total)
}

func TestOptions_WattsPerKWh(t *testing.T) {
	assert.Equal(t, 4000.0, Options{IntervalMinutes: 15}.WattsPerKWh())
	assert.Equal(t, 12000.0, Options{IntervalMinutes: 5}.WattsPerKWh())
	assert.Equal(t, 1000.0, Options{IntervalMinutes: 60}.WattsPerKWh())
}

func TestOptions_Validate(t *testing.T) {
	for _, minutes := range []int{0, -15, MinutesPerDay + 1} {
		err := Options{IntervalMinutes: minutes}.Validate()
		assert.True(t, ErrInvalidCalendar.Has(err), "interval %d", minutes)
	}
	assert.NoError(t, Options{IntervalMinutes: 1}.Validate())

	_, err := Aggregate(WeekdaySplit, MEACalendar(), nil, Options{})
	assert.True(t, ErrInvalidCalendar.Has(err))
}

func TestAggregate_SolarDecomposition(t *testing.T) {
	cal := MEACalendar()
	readings := []model.IntervalReading{
		model.NewSolarReading("08:00", 500, 500),
		model.NewSolarReading("10:00", 800, -1200),
		model.NewSolarReading("12:00", 1000, 300),
		model.NewSolarReading("23:00", 700, 700),
	}

	tot, err := Accumulate(WeekdaySplit, cal, readings, true)
	require.NoError(t, err)
	assert.Equal(t, Totals{
		Total:       3000,
		OnPeak:      1800,
		OffPeak:     1200,
		GridTotal:   1500,
		GridOnPeak:  300,
		GridOffPeak: 1200,
		ToGrid:      1200,
	}, tot)
	assert.Equal(t, int64(1500), tot.FromSolar())
	assert.Equal(t, int64(2700), tot.TotalProduction())

	agg := tot.DayAggregate(WeekdaySplit, DefaultOptions())
	require.NotNil(t, agg.Solar)
	assert.InDelta(t, 0.75, agg.Consumption.Total, 1e-12)
	assert.InDelta(t, 0.45, agg.Consumption.OnPeak, 1e-12)
	assert.InDelta(t, 0.3, agg.Consumption.OffPeak, 1e-12)
	assert.InDelta(t, 0.375, agg.Solar.Total, 1e-12)
	assert.InDelta(t, 0.075, agg.Solar.OnPeak, 1e-12)
	assert.InDelta(t, 0.3, agg.Solar.OffPeak, 1e-12)
	assert.InDelta(t, 0.3, agg.Solar.ToGrid, 1e-12)
	assert.InDelta(t, 0.375, agg.Solar.FromSolar, 1e-12)
	assert.InDelta(t, 0.675, agg.Solar.TotalProduction, 1e-12)
}

func TestAggregate_SolarOnOffPeakDay(t *testing.T) {
	cal := MEACalendar()
	readings := []model.IntervalReading{
		model.NewSolarReading("12:00", 1000, 400),
		model.NewSolarReading("13:00", 1000, -600),
	}

	tot, err := Accumulate(AllOffPeak, cal, readings, true)
	require.NoError(t, err)
	assert.Equal(t, int64(0), tot.GridOnPeak)
	assert.Equal(t, int64(400), tot.GridOffPeak)
	assert.Equal(t, int64(600), tot.ToGrid)
}

func TestAggregate_SolarSkipsReadingsWithoutGridPower(t *testing.T) {
	cal := MEACalendar()
	readings := []model.IntervalReading{
		model.NewReading("10:00", 1000),
		model.NewSolarReading("11:00", 1000, 250),
	}

	tot, err := Accumulate(WeekdaySplit, cal, readings, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), tot.Total)
	assert.Equal(t, int64(250), tot.GridTotal)
	assert.Equal(t, int64(1750), tot.FromSolar())
}

func TestAggregate_PlainModeIgnoresGridPower(t *testing.T) {
	bad := model.Power("n/a")
	readings := []model.IntervalReading{
		{Time: "10:00", ConsumptionPower: "100", GridPower: &bad},
	}

	agg, err := Aggregate(WeekdaySplit, MEACalendar(), readings, rawWatts())
	require.NoError(t, err)
	assert.Equal(t, 100.0, agg.Consumption.Total)
	assert.Nil(t, agg.Solar)
}

func TestAggregate_EmptyReadings(t *testing.T) {
	cal := MEACalendar()

	agg, err := Aggregate(cal.ClassifyDay(date(t, "2025-06-07")), cal, nil, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, agg.TouDate)
	assert.Equal(t, model.Consumption{}, agg.Consumption)
	assert.Equal(t, &model.SolarConsumption{}, agg.Solar)

	agg, err = Aggregate(cal.ClassifyDay(date(t, "2025-06-02")), cal, []model.IntervalReading{}, DefaultOptions())
	require.NoError(t, err)
	assert.False(t, agg.TouDate)
	assert.Equal(t, model.Consumption{}, agg.Consumption)
}

func TestAggregate_FractionalPowerTruncates(t *testing.T) {
	grid := model.Power("-250.7")
	readings := []model.IntervalReading{
		{Time: "10:00", ConsumptionPower: "1000.9", GridPower: &grid},
	}

	tot, err := Accumulate(WeekdaySplit, MEACalendar(), readings, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), tot.Total)
	assert.Equal(t, int64(250), tot.ToGrid)
}

func TestAggregate_InvalidReadingAborts(t *testing.T) {
	badGrid := model.Power("x")
	tests := map[string]struct {
		readings []model.IntervalReading
		index    int
		field    string
	}{
		"malformed time": {
			readings: []model.IntervalReading{model.NewReading("09:00", 1), model.NewReading("9h", 1)},
			index:    1,
			field:    "time",
		},
		"time out of range": {
			readings: []model.IntervalReading{model.NewReading("25:00", 1)},
			index:    0,
			field:    "time",
		},
		"non-numeric consumption": {
			readings: []model.IntervalReading{
				model.NewReading("09:00", 1),
				model.NewReading("09:15", 1),
				{Time: "09:30", ConsumptionPower: "abc"},
			},
			index: 2,
			field: "consumption_power",
		},
		"empty consumption": {
			readings: []model.IntervalReading{{Time: "09:30"}},
			index:    0,
			field:    "consumption_power",
		},
		"non-numeric grid power": {
			readings: []model.IntervalReading{
				model.NewSolarReading("09:00", 1, 1),
				{Time: "09:15", ConsumptionPower: "1", GridPower: &badGrid},
			},
			index: 1,
			field: "grid_p_power",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			agg, err := Aggregate(WeekdaySplit, MEACalendar(), tc.readings, DefaultOptions())
			require.Error(t, err)
			assert.True(t, ErrInvalidReading.Has(err))
			assert.Equal(t, model.DayAggregate{}, agg)

			var re *ReadingError
			require.True(t, errors.As(err, &re))
			assert.Equal(t, tc.index, re.Index)
			assert.Equal(t, tc.field, re.Field)
		})
	}
}

func TestAccumulate_SumInvariant(t *testing.T) {
	cal := MEACalendar()
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 50; run++ {
		readings := make([]model.IntervalReading, 0, 96)
		for m := 0; m < MinutesPerDay; m += 15 {
			readings = append(readings, model.NewSolarReading(
				FormatClock(m),
				rng.Int63n(5000),
				rng.Int63n(8000)-4000,
			))
		}
		for _, dayType := range []DayType{WeekdaySplit, AllOffPeak} {
			tot, err := Accumulate(dayType, cal, readings, true)
			require.NoError(t, err)
			assert.Equal(t, tot.Total, tot.OnPeak+tot.OffPeak)
			assert.Equal(t, tot.GridTotal, tot.GridOnPeak+tot.GridOffPeak)
			assert.Equal(t, tot.TotalProduction(), tot.FromSolar()+tot.ToGrid)
			assert.Equal(t, tot.FromSolar(), tot.Total-tot.GridTotal)
			if dayType == AllOffPeak {
				assert.Zero(t, tot.OnPeak)
				assert.Zero(t, tot.GridOnPeak)
			}
		}
	}
}
