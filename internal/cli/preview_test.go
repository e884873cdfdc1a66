package cli

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/uncalendar/pkg/pipeline"
)

func TestMergePreviewOptions(t *testing.T) {
	base := pipeline.Options{Width: 3840, Height: 2160, Background: "white", Foreground: "black", FontPath: "/a.ttf"}

	got := mergePreviewOptions(base, &previewOpts{
		year:       2030,
		seed:       9,
		width:      800,
		foreground: "navy",
		refresh:    true,
	}, pipeline.Hide(0.4))

	want := pipeline.Options{
		Year:            2030,
		HideProbability: pipeline.Hide(0.4),
		Seed:            9,
		Refresh:         true,
		Width:           800,
		Height:          2160,
		Background:      "white",
		Foreground:      "navy",
		FontPath:        "/a.ttf",
	}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreUnexported(pipeline.Options{})); diff != "" {
		t.Errorf("mergePreviewOptions() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultOutput(t *testing.T) {
	if got := defaultOutput(2026); got != "uncalendar_2026.png" {
		t.Errorf("defaultOutput(2026) = %q", got)
	}
}

func TestPreviewWritesPNG(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "cal.png")

	_, err := execute(t, "preview", "--year", "2026", "--hide", "0.2", "--seed", "3",
		"--width", "640", "--height", "360", "--no-cache", "-o", out)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 360 {
		t.Errorf("image = %dx%d, want 640x360", cfg.Width, cfg.Height)
	}
}

func TestPreviewTextOnly(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	t.Chdir(dir)

	if _, err := execute(t, "preview", "--year", "2026", "--text"); err != nil {
		t.Fatalf("preview --text: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, defaultOutput(2026))); !os.IsNotExist(err) {
		t.Error("--text should not write an image")
	}
}

func TestPreviewInvalid(t *testing.T) {
	isolate(t)
	tests := [][]string{
		{"preview", "--year", "0", "--text", "--hide", "2"},
		{"preview", "--year", "10000", "--text"},
		{"preview", "--bg", "nope", "-o", filepath.Join(t.TempDir(), "x.png")},
	}
	for _, args := range tests {
		if _, err := execute(t, args...); err == nil {
			t.Errorf("%v should fail", args)
		}
	}
}
