package calendar

import (
	"math/rand/v2"
	"time"

	"github.com/matzehuels/uncalendar/pkg/errors"
)

// Blank marks a cell that shows no day number.
const Blank = 0

// DaysPerWeek is the number of cells in a week row.
const DaysPerWeek = 7

// MonthNames lists the lowercase English month names in calendar order.
var MonthNames = [12]string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// Week is one Monday-first row of a month.
type Week [DaysPerWeek]int

// MonthGrid is the week layout of a single month.
type MonthGrid struct {
	Name  string
	Month time.Month
	Weeks []Week
}

// Days returns the number of cells that show a day number.
func (m MonthGrid) Days() int {
	n := 0
	for _, w := range m.Weeks {
		for _, d := range w {
			if d != Blank {
				n++
			}
		}
	}
	return n
}

// Calendar is a full year of month grids.
type Calendar struct {
	Year   int
	Months [12]MonthGrid
}

// Month looks up a month grid by its lowercase English name.
func (c Calendar) Month(name string) (MonthGrid, bool) {
	for _, m := range c.Months {
		if m.Name == name {
			return m, true
		}
	}
	return MonthGrid{}, false
}

// Days returns the number of visible day numbers across the year.
func (c Calendar) Days() int {
	n := 0
	for _, m := range c.Months {
		n += m.Days()
	}
	return n
}

// Build computes the grid of every month in year. Each real day is replaced
// by Blank when a draw from rng falls below hide. A nil rng is replaced by an
// unseeded source, so callers that need reproducible output must pass one.
func Build(year int, hide float64, rng *rand.Rand) (Calendar, error) {
	if err := errors.ValidateYear(year); err != nil {
		return Calendar{}, err
	}
	if err := errors.ValidateProbability("hide probability", hide); err != nil {
		return Calendar{}, err
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	c := Calendar{Year: year}
	for i, name := range MonthNames {
		month := time.Month(i + 1)
		c.Months[i] = MonthGrid{
			Name:  name,
			Month: month,
			Weeks: monthWeeks(year, month, hide, rng),
		}
	}
	return c, nil
}

// monthWeeks lays out one month. Draws happen in day order, one per real day.
func monthWeeks(year int, month time.Month, hide float64, rng *rand.Rand) []Week {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := mondayOffset(first.Weekday())
	days := daysIn(year, month)

	weeks := make([]Week, (offset+days+DaysPerWeek-1)/DaysPerWeek)
	for day := 1; day <= days; day++ {
		cell := offset + day - 1
		if rng.Float64() < hide {
			continue
		}
		weeks[cell/DaysPerWeek][cell%DaysPerWeek] = day
	}
	return weeks
}

// mondayOffset converts a weekday to its column in a Monday-first week.
func mondayOffset(d time.Weekday) int {
	return (int(d) + 6) % DaysPerWeek
}

// daysIn returns the length of month in year.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()
}
