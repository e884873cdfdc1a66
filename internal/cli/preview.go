package cli

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/uncalendar/pkg/pipeline"
)

// previewYear is the year rendered when --year is not given.
const previewYear = 2026

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output      string  // PNG path, default uncalendar_<year>.png
	year        int     // calendar year, default previewYear
	hide        float64 // hide probability, random unless --hide is set
	seed        uint64  // non-zero for reproducible output
	width       int     // canvas width, default from config
	height      int     // canvas height, default from config
	background  string  // canvas color, default from config
	foreground  string  // text color, default from config
	font        string  // TTF path, default bundled Go Mono
	textOnly    bool    // print the text block and skip the image
	noCache     bool    // bypass the cache entirely
	refresh     bool    // ignore cached entries but store new ones
	interactive bool    // browse years in the terminal before rendering
}

// previewCommand renders one calendar to a PNG file.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a calendar to a PNG file",
		Long: `Render a calendar to a PNG file and print its text layout.

Each day is hidden with the given probability. Without --hide the
probability itself is random. Pass --seed to get the same calendar again.`,
		Example: `  uncalendar preview
  uncalendar preview --year 2026 --hide 0.3 --seed 7 -o cal.png
  uncalendar preview --interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var hide *float64
			if cmd.Flags().Changed("hide") {
				hide = pipeline.Hide(opts.hide)
			}
			return c.runPreview(cmd.Context(), &opts, hide)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default uncalendar_<year>.png)")
	cmd.Flags().IntVarP(&opts.year, "year", "y", previewYear, "calendar year")
	cmd.Flags().Float64Var(&opts.hide, "hide", 0, "probability of hiding each day, 0..1 (default random)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible output (0 = random)")
	cmd.Flags().IntVar(&opts.width, "width", 0, "image width in pixels (default 3840)")
	cmd.Flags().IntVar(&opts.height, "height", 0, "image height in pixels (default 2160)")
	cmd.Flags().StringVar(&opts.background, "bg", "", "background color name or hex (default white)")
	cmd.Flags().StringVar(&opts.foreground, "fg", "", "text color name or hex (default black)")
	cmd.Flags().StringVar(&opts.font, "font", "", "path to a monospaced TTF font")
	cmd.Flags().BoolVar(&opts.textOnly, "text", false, "print the calendar text only")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even if cached")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick year and hide probability interactively")

	return cmd
}

func (c *CLI) runPreview(ctx context.Context, opts *previewOpts, hide *float64) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := mergePreviewOptions(cfg.PipelineOptions(), opts, hide)
	popts.Logger = logger

	if opts.interactive {
		chosen, ok, err := runInteractive(popts)
		if err != nil || !ok {
			return err
		}
		popts.Year, popts.HideProbability, popts.Seed = chosen.Year, chosen.HideProbability, chosen.Seed
	}

	if opts.textOnly {
		sheet, err := pipeline.Build(popts)
		if err != nil {
			return err
		}
		fmt.Print(sheet.Text)
		return nil
	}

	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinner(ctx, "Rendering calendar...")
	spinner.Start()
	res, err := runner.Execute(ctx, popts)
	spinner.Stop()
	if err != nil {
		if spinner.Cancelled() {
			return context.Canceled
		}
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d", res.Calendar.Year))

	fmt.Print(res.Text)

	out := opts.output
	if out == "" {
		out = defaultOutput(res.Calendar.Year)
	}
	if err := os.WriteFile(out, res.PNG, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Calendar %d", res.Calendar.Year)
	printFile(out)
	fmt.Println(statsLine(res.Stats.VisibleDays, res.HideProbability, res.FontSize,
		res.CacheInfo.BuildHit && res.CacheInfo.RenderHit))
	if popts.Seed == 0 {
		printDetail("pass --seed to reproduce; this run was random")
	}
	printNextStep("Serve calendars over HTTP", appName+" serve")
	return nil
}

// mergePreviewOptions applies command-line flags over config defaults.
func mergePreviewOptions(base pipeline.Options, opts *previewOpts, hide *float64) pipeline.Options {
	base.Year = opts.year
	base.HideProbability = hide
	base.Seed = opts.seed
	base.Refresh = opts.refresh
	if opts.width != 0 {
		base.Width = opts.width
	}
	if opts.height != 0 {
		base.Height = opts.height
	}
	if opts.background != "" {
		base.Background = opts.background
	}
	if opts.foreground != "" {
		base.Foreground = opts.foreground
	}
	if opts.font != "" {
		base.FontPath = opts.font
	}
	return base
}

// defaultOutput names the image after its year.
func defaultOutput(year int) string {
	return fmt.Sprintf("uncalendar_%d.png", year)
}

// runInteractive shows the preview TUI. It reports false when the user quit
// without choosing.
func runInteractive(opts pipeline.Options) (pipeline.Options, bool, error) {
	if opts.Year == 0 {
		opts.Year = pipeline.DefaultYear()
	}
	hide := rand.Float64()
	if opts.HideProbability != nil {
		hide = *opts.HideProbability
	}

	final, err := tea.NewProgram(NewPreviewModel(opts.Year, hide, opts.Seed)).Run()
	if err != nil {
		return opts, false, fmt.Errorf("interactive preview: %w", err)
	}
	m, ok := final.(PreviewModel)
	if !ok {
		return opts, false, errors.New("interactive preview: unexpected model")
	}
	if !m.Save {
		printInfo("Nothing rendered")
		return opts, false, nil
	}
	return m.Options(), true, nil
}
