package tou

import (
	"time"

	"cloud.google.com/go/civil"
)

// MEA (Metropolitan Electricity Authority, Bangkok) TOU rate structure:
// on-peak 09:00-22:00 Monday to Friday, off-peak otherwise, and all day on
// weekends and national holidays.
var MEAOnPeak = Window{Start: 9 * 60, End: 22 * 60}

// MEAHolidays2025 returns the Thai national holidays for 2568 (2025).
func MEAHolidays2025() Holidays {
	h := Holidays{}
	for _, hd := range []struct {
		month time.Month
		day   int
		name  string
	}{
		{time.January, 1, "New Year's Day"},
		{time.February, 12, "Makha Bucha Day"},
		{time.April, 6, "Chakri Memorial Day"},
		{time.April, 13, "Songkran Festival"},
		{time.April, 14, "Songkran Festival"},
		{time.April, 15, "Songkran Festival"},
		{time.May, 1, "National Labour Day"},
		{time.May, 4, "Coronation Day"},
		{time.May, 11, "Visakha Bucha Day"},
		{time.June, 3, "Queen's Birthday"},
		{time.July, 10, "Asarnha Bucha Day"},
		{time.July, 11, "Buddhist Lent Day"},
		{time.July, 28, "King's Birthday"},
		{time.August, 12, "Queen Mother's Birthday / Mother's Day"},
		{time.October, 13, "King Bhumibol Memorial Day"},
		{time.October, 23, "King Chulalongkorn Memorial Day"},
		{time.December, 5, "King Bhumibol's Birthday / National Day / Father's Day"},
		{time.December, 10, "Constitution Day"},
		{time.December, 31, "New Year's Eve"},
	} {
		h.Add(civil.Date{Year: 2025, Month: hd.month, Day: hd.day}, hd.name)
	}
	return h
}

// MEACalendar is the MEA tariff with the built-in holiday data.
func MEACalendar() *Calendar {
	c, err := NewCalendar(MEAOnPeak, MEAHolidays2025(), DefaultWeekend)
	if err != nil {
		panic(err)
	}
	return c
}
