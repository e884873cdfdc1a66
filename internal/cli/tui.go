package cli

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/uncalendar/pkg/calendar"
	"github.com/matzehuels/uncalendar/pkg/errors"
	"github.com/matzehuels/uncalendar/pkg/pipeline"
)

// hideStep is the change in hide probability per arrow key press.
const hideStep = 0.05

var (
	sheetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 2)
	helpStyle  = lipgloss.NewStyle().Foreground(colorDim)
	errorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// PreviewModel - Interactive calendar browser
// =============================================================================

// PreviewModel lets the user flip through years and hide probabilities in
// the terminal before rendering the image. Every change rebuilds the sheet
// from (Year, Hide, Seed), so the saved image matches what was on screen.
type PreviewModel struct {
	Year int
	Hide float64
	Seed uint64

	Sheet *pipeline.Sheet
	Err   error

	// Save is set when the user confirmed with enter.
	Save bool
}

// NewPreviewModel creates a model showing year. A zero seed is replaced by
// a random one so the view is stable until the user re-rolls.
func NewPreviewModel(year int, hide float64, seed uint64) PreviewModel {
	if seed == 0 {
		seed = newSeed()
	}
	m := PreviewModel{Year: year, Hide: hide, Seed: seed}
	m.rebuild()
	return m
}

// Options returns the pipeline options reproducing the current view.
func (m PreviewModel) Options() pipeline.Options {
	return pipeline.Options{
		Year:            m.Year,
		HideProbability: pipeline.Hide(m.Hide),
		Seed:            m.Seed,
	}
}

func (m *PreviewModel) rebuild() {
	m.Sheet, m.Err = pipeline.Build(m.Options())
}

func (m PreviewModel) Init() tea.Cmd {
	return nil
}

func (m PreviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if m.Err == nil {
			m.Save = true
			return m, tea.Quit
		}
		return m, nil
	case "left", "h":
		if m.Year > errors.MinYear {
			m.Year--
		}
	case "right", "l":
		if m.Year < errors.MaxYear {
			m.Year++
		}
	case "up", "k":
		m.Hide = stepHide(m.Hide, hideStep)
	case "down", "j":
		m.Hide = stepHide(m.Hide, -hideStep)
	case "r":
		m.Seed = newSeed()
	default:
		return m, nil
	}
	m.rebuild()
	return m, nil
}

func (m PreviewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("uncalendar %d", m.Year)))
	b.WriteString("  ")
	b.WriteString(helpStyle.Render(fmt.Sprintf("hide %d%% · seed %d", calendar.HiddenPercent(m.Hide), m.Seed)))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(errorStyle.Render(errors.UserMessage(m.Err)))
	} else if m.Sheet != nil {
		b.WriteString(sheetStyle.Render(strings.TrimRight(m.Sheet.Text, "\n")))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ year  ↑/↓ hide  r re-roll  ⏎ render  q quit"))
	b.WriteString("\n")
	return b.String()
}

// stepHide moves p by delta, clamped to [0, 1] and rounded to whole percent
// so repeated steps do not accumulate float error.
func stepHide(p, delta float64) float64 {
	p = math.Round((p+delta)*100) / 100
	return math.Min(1, math.Max(0, p))
}

func newSeed() uint64 {
	for {
		if s := rand.Uint64(); s != 0 {
			return s
		}
	}
}
