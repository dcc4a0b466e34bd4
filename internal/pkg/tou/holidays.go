package tou

import (
	"maps"
	"slices"
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/samber/lo"
)

// Holidays is a year-scoped set of holiday dates with optional names.
// Years are kept apart so a new year's list can be swapped in without touching the others.
type Holidays map[int]map[civil.Date]string

// NewHolidays returns a set holding the given dates.
func NewHolidays(dates ...civil.Date) Holidays {
	h := Holidays{}
	for _, d := range dates {
		h.Add(d, "")
	}
	return h
}

// Add inserts a date, replacing its name if already present.
func (h Holidays) Add(d civil.Date, name string) {
	year, ok := h[d.Year]
	if !ok {
		year = map[civil.Date]string{}
		h[d.Year] = year
	}
	year[d] = name
}

// SetYear replaces every holiday of one year.
func (h Holidays) SetYear(year int, dates map[civil.Date]string) {
	h[year] = maps.Clone(dates)
}

// Contains reports an exact date match.
func (h Holidays) Contains(d civil.Date) bool {
	_, ok := h[d.Year][d]
	return ok
}

// Name returns the holiday name for d, if d is a holiday.
func (h Holidays) Name(d civil.Date) (string, bool) {
	name, ok := h[d.Year][d]
	return name, ok
}

// HasYear reports whether any holiday is configured for the year.
func (h Holidays) HasYear(year int) bool {
	return len(h[year]) > 0
}

// Years lists the configured years in ascending order.
func (h Holidays) Years() []int {
	years := lo.Keys(h)
	slices.Sort(years)
	return years
}

// Dates lists every holiday in ascending order.
func (h Holidays) Dates() []civil.Date {
	dates := []civil.Date{}
	for _, year := range h {
		dates = append(dates, lo.Keys(year)...)
	}
	slices.SortFunc(dates, compareDates)
	return dates
}

// Len is the total number of holidays across all years.
func (h Holidays) Len() int {
	return lo.SumBy(lo.Values(h), func(year map[civil.Date]string) int {
		return len(year)
	})
}

// Clone returns a deep copy.
func (h Holidays) Clone() Holidays {
	out := make(Holidays, len(h))
	for year, dates := range h {
		out[year] = maps.Clone(dates)
	}
	return out
}

// Merge copies every holiday of other into h.
func (h Holidays) Merge(other Holidays) {
	for _, dates := range other {
		for d, name := range dates {
			h.Add(d, name)
		}
	}
}

// ParseHolidayDates builds a set from YYYY-MM-DD strings.
func ParseHolidayDates(dates []string) (Holidays, error) {
	h := Holidays{}
	for _, s := range dates {
		d, err := ParseDate(s)
		if err != nil {
			return nil, ErrInvalidCalendar.New("holiday %q: %v", s, err)
		}
		h.Add(d, "")
	}
	return h, nil
}

// ParseHolidayYears builds a set from {"2025": {"2025-01-01": "New Year's Day"}}.
// Every date must belong to the year it is listed under.
func ParseHolidayYears(byYear map[string]map[string]string) (Holidays, error) {
	h := Holidays{}
	for y, dates := range byYear {
		year, err := strconv.Atoi(y)
		if err != nil {
			return nil, ErrInvalidCalendar.New("holiday year %q: %v", y, err)
		}
		for s, name := range dates {
			d, err := ParseDate(s)
			if err != nil {
				return nil, ErrInvalidCalendar.New("holiday %q: %v", s, err)
			}
			if d.Year != year {
				return nil, ErrInvalidCalendar.New("holiday %s listed under year %d", d, year)
			}
			h.Add(d, name)
		}
	}
	return h, nil
}

func compareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
