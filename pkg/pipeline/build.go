package pipeline

import (
	"math/rand/v2"

	"github.com/matzehuels/uncalendar/pkg/calendar"
)

// Sheet is the output of the build stage: the grid and its text block.
type Sheet struct {
	Calendar        calendar.Calendar `json:"calendar"`
	Text            string            `json:"text"`
	HideProbability float64           `json:"hide_probability"`
}

// Build runs the build stage without caching.
func Build(opts Options) (*Sheet, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return nil, err
	}
	rng := opts.Rand()
	return buildSheet(opts.Year, resolveHide(opts, rng), rng)
}

// resolveHide returns the requested hide probability, or draws one from rng.
// The draw comes before any grid draws so a seed fixes both.
func resolveHide(opts Options, rng *rand.Rand) float64 {
	if opts.HideProbability != nil {
		return *opts.HideProbability
	}
	return rng.Float64()
}

func buildSheet(year int, hide float64, rng *rand.Rand) (*Sheet, error) {
	c, err := calendar.Build(year, hide, rng)
	if err != nil {
		return nil, err
	}
	return &Sheet{
		Calendar:        c,
		Text:            calendar.Format(c, hide),
		HideProbability: hide,
	}, nil
}
