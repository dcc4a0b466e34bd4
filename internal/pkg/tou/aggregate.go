package tou

import (
	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

// DefaultIntervalMinutes is the Hoymiles data list resolution.
const DefaultIntervalMinutes = 15

// Options selects between the plain and the solar variants of the aggregation.
type Options struct {
	IntervalMinutes int
	// SolarMode splits consumption into grid import, export and solar.
	SolarMode bool
	// ConvertUnits reports kWh instead of summed interval watts.
	ConvertUnits bool
}

// DefaultOptions reports solar figures in kWh for 15 minute intervals.
func DefaultOptions() Options {
	return Options{
		IntervalMinutes: DefaultIntervalMinutes,
		SolarMode:       true,
		ConvertUnits:    true,
	}
}

func (o Options) Validate() error {
	if o.IntervalMinutes <= 0 || o.IntervalMinutes > MinutesPerDay {
		return ErrInvalidCalendar.New("interval of %d minutes must be within 1..%d", o.IntervalMinutes, MinutesPerDay)
	}
	return nil
}

// WattsPerKWh is the divisor that turns a sum of average interval watts into kWh:
// 1000 W per kW times the number of intervals per hour.
func (o Options) WattsPerKWh() float64 {
	return 1000 * 60 / float64(o.IntervalMinutes)
}

// Unit is the unit the aggregate is reported in.
func (o Options) Unit() model.Unit {
	if o.ConvertUnits {
		return model.UnitKiloWattHour
	}
	return model.UnitWatt
}

// Totals are the exact watt sums of one day.
type Totals struct {
	Total   int64
	OnPeak  int64
	OffPeak int64

	// grid import, split with the same bucket as the base consumption.
	GridTotal   int64
	GridOnPeak  int64
	GridOffPeak int64
	ToGrid      int64
}

// FromSolar is the consumption that never touched the grid.
func (t Totals) FromSolar() int64 {
	return t.Total - t.GridTotal
}

// TotalProduction is solar used on site plus solar exported.
func (t Totals) TotalProduction() int64 {
	return t.FromSolar() + t.ToGrid
}

// Accumulate folds the readings into watt sums. The first malformed reading
// aborts the fold and no totals are returned.
func Accumulate(dayType DayType, cal *Calendar, readings []model.IntervalReading, solarMode bool) (Totals, error) {
	var t Totals
	for i, r := range readings {
		minute, err := ParseClock(r.Time)
		if err != nil {
			return Totals{}, readingErr(i, "time", r.Time, err)
		}
		consumption, err := r.ConsumptionPower.Watts()
		if err != nil {
			return Totals{}, readingErr(i, "consumption_power", string(r.ConsumptionPower), err)
		}

		bucket := cal.BucketOf(dayType, minute)
		t.Total += consumption
		if bucket == OnPeak {
			t.OnPeak += consumption
		} else {
			t.OffPeak += consumption
		}

		if !solarMode || r.GridPower == nil {
			continue
		}
		grid, err := r.GridPower.Watts()
		if err != nil {
			return Totals{}, readingErr(i, "grid_p_power", string(*r.GridPower), err)
		}
		imported := max(0, grid)
		t.GridTotal += imported
		t.ToGrid += max(0, -grid)
		if bucket == OnPeak {
			t.GridOnPeak += imported
		} else {
			t.GridOffPeak += imported
		}
	}
	return t, nil
}

// Aggregate classifies and sums the readings of a day of the given type.
// The returned aggregate carries no date; Engine fills it in.
func Aggregate(dayType DayType, cal *Calendar, readings []model.IntervalReading, opts Options) (model.DayAggregate, error) {
	if err := opts.Validate(); err != nil {
		return model.DayAggregate{}, err
	}
	t, err := Accumulate(dayType, cal, readings, opts.SolarMode)
	if err != nil {
		return model.DayAggregate{}, err
	}
	return t.DayAggregate(dayType, opts), nil
}

// DayAggregate converts the sums into the reported record.
func (t Totals) DayAggregate(dayType DayType, opts Options) model.DayAggregate {
	conv := func(w int64) float64 {
		if opts.ConvertUnits {
			return float64(w) / opts.WattsPerKWh()
		}
		return float64(w)
	}
	agg := model.DayAggregate{
		TouDate: dayType == AllOffPeak,
		Consumption: model.Consumption{
			Total:   conv(t.Total),
			OffPeak: conv(t.OffPeak),
			OnPeak:  conv(t.OnPeak),
		},
		Unit: opts.Unit(),
	}
	if opts.SolarMode {
		agg.Solar = &model.SolarConsumption{
			Total:           conv(t.GridTotal),
			OffPeak:         conv(t.GridOffPeak),
			OnPeak:          conv(t.GridOnPeak),
			ToGrid:          conv(t.ToGrid),
			FromSolar:       conv(t.FromSolar()),
			TotalProduction: conv(t.TotalProduction()),
		}
	}
	return agg
}
