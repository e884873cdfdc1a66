// Package calendar builds year grids and lays them out as fixed-width text.
//
// # Overview
//
// A [Calendar] holds twelve [MonthGrid] values in calendar order. Each month
// is a list of Monday-first [Week] rows of seven cells; a cell is either a
// day number or [Blank]. Blanks fill the days outside the month and, with a
// configurable probability, replace real days too.
//
//	rng := rand.New(rand.NewPCG(seed, seed))
//	c, err := calendar.Build(2026, 0.25, rng)
//	if err != nil {
//	    return err
//	}
//	fmt.Print(calendar.Format(c, 0.25))
//
// # Text Layout
//
// [Format] arranges the months in four quarter rows of three 25-column
// months, under a year header centered in 66 columns and above a footer that
// states the rounded share of hidden days. Months in a quarter are padded to
// the same number of rows with [PadWeeks], which never modifies its input,
// so a Calendar can be formatted any number of times.
package calendar
