package tou

import (
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"
)

// DayType is the billing classification of a whole calendar day.
type DayType int

const (
	// WeekdaySplit days are split into on-peak and off-peak by time of day.
	WeekdaySplit DayType = iota
	// AllOffPeak days (weekends and holidays) are billed off-peak around the clock.
	AllOffPeak
)

func (t DayType) String() string {
	if t == AllOffPeak {
		return "all_off_peak"
	}
	return "weekday_split"
}

// Bucket is the TOU bucket a single reading is billed in.
type Bucket int

const (
	OffPeak Bucket = iota
	OnPeak
)

func (b Bucket) String() string {
	if b == OnPeak {
		return "on_peak"
	}
	return "off_peak"
}

// DefaultWeekend is Saturday and Sunday.
var DefaultWeekend = []time.Weekday{time.Saturday, time.Sunday}

// Window is a half-open [Start, End) range of minutes since midnight.
type Window struct {
	Start int
	End   int
}

// Contains reports whether minute m falls inside the window.
func (w Window) Contains(m int) bool {
	return w.Start <= m && m < w.End
}

func (w Window) String() string {
	return FormatClock(w.Start) + "-" + FormatClock(w.End)
}

// ParseWindow builds a Window from two "HH:MM" boundaries.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, ErrInvalidCalendar.New("on-peak start %q: %v", start, err)
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, ErrInvalidCalendar.New("on-peak end %q: %v", end, err)
	}
	return Window{Start: s, End: e}, nil
}

// Calendar is an immutable tariff calendar: the weekday on-peak window,
// the holiday set and the weekend days.
type Calendar struct {
	onPeak   Window
	holidays Holidays
	weekend  [7]bool
}

// NewCalendar validates and copies its inputs. A nil weekend selects DefaultWeekend.
func NewCalendar(onPeak Window, holidays Holidays, weekend []time.Weekday) (*Calendar, error) {
	if onPeak.Start < 0 || onPeak.End >= MinutesPerDay || onPeak.Start >= onPeak.End {
		return nil, ErrInvalidCalendar.New("on-peak window %s must satisfy 00:00 <= start < end < 24:00", onPeak)
	}
	if weekend == nil {
		weekend = DefaultWeekend
	}
	c := &Calendar{
		onPeak:   onPeak,
		holidays: holidays.Clone(),
	}
	for _, d := range weekend {
		if d < time.Sunday || d > time.Saturday {
			return nil, ErrInvalidCalendar.New("weekend day %d out of range", int(d))
		}
		c.weekend[d] = true
	}
	return c, nil
}

// OnPeak returns the weekday on-peak window.
func (c *Calendar) OnPeak() Window {
	return c.onPeak
}

// Holidays returns a copy of the holiday set.
func (c *Calendar) Holidays() Holidays {
	return c.holidays.Clone()
}

// Weekend returns the weekend days in Sunday-first order.
func (c *Calendar) Weekend() []time.Weekday {
	days := []time.Weekday{}
	for d, ok := range c.weekend {
		if ok {
			days = append(days, time.Weekday(d))
		}
	}
	return days
}

// IsWeekend uses the date's own calendar fields, so the weekday never depends
// on the timezone of the running process.
func (c *Calendar) IsWeekend(d civil.Date) bool {
	return c.weekend[Weekday(d)]
}

// IsHoliday reports an exact date match in the holiday set.
func (c *Calendar) IsHoliday(d civil.Date) bool {
	return c.holidays.Contains(d)
}

// ClassifyDay returns AllOffPeak for weekends and holidays, WeekdaySplit otherwise.
func (c *Calendar) ClassifyDay(d civil.Date) DayType {
	if c.IsWeekend(d) || c.IsHoliday(d) {
		return AllOffPeak
	}
	return WeekdaySplit
}

// Classify parses a YYYY-MM-DD date and classifies it.
func (c *Calendar) Classify(date string) (DayType, error) {
	d, err := ParseDate(date)
	if err != nil {
		return WeekdaySplit, err
	}
	return c.ClassifyDay(d), nil
}

// BucketOf returns the bucket for a reading at minute m on a day of the given type.
func (c *Calendar) BucketOf(dayType DayType, m int) Bucket {
	if dayType == AllOffPeak {
		return OffPeak
	}
	if c.onPeak.Contains(m) {
		return OnPeak
	}
	return OffPeak
}

// ParseDate parses a strict YYYY-MM-DD calendar date.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil || !d.IsValid() {
		return civil.Date{}, ErrInvalidDate.New("%q is not a YYYY-MM-DD date", s)
	}
	return d, nil
}

// Weekday derives the day of week from the date fields alone.
func Weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// ParseWeekdays maps names such as "sat" or "Saturday" to weekdays.
func ParseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		n := strings.ToLower(strings.TrimSpace(name))
		if n == "" {
			continue
		}
		day, found := lo.Find(allWeekdays, func(d time.Weekday) bool {
			full := strings.ToLower(d.String())
			return n == full || n == full[:3]
		})
		if !found {
			return nil, ErrInvalidCalendar.New("unknown weekend day %q", name)
		}
		days = append(days, day)
	}
	slices.Sort(days)
	return slices.Compact(days), nil
}

var allWeekdays = []time.Weekday{
	time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
	time.Thursday, time.Friday, time.Saturday,
}
