package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPlanVerticalStripsTileScreen(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 1920, Height: 1080}

	for _, count := range []int{2, 3} {
		rects := Plan(screen, count, ModeVertical)
		if len(rects) != count {
			t.Fatalf("count=%d: got %d rects", count, len(rects))
		}

		total := 0
		for i, r := range rects {
			if r.Height != screen.Height {
				t.Errorf("count=%d rect %d: height %d, want full %d", count, i, r.Height, screen.Height)
			}
			if r.Top != screen.Top {
				t.Errorf("count=%d rect %d: top %d, want %d", count, i, r.Top, screen.Top)
			}
			wantLeft := screen.Left + i*(screen.Width/count)
			if r.Left != wantLeft {
				t.Errorf("count=%d rect %d: left %d, want %d (no gaps)", count, i, r.Left, wantLeft)
			}
			total += r.Width
		}
		if want := (screen.Width / count) * count; total != want {
			t.Errorf("count=%d: widths sum to %d, want %d", count, total, want)
		}
	}
}

func TestPlanGridFourIsQuadrants(t *testing.T) {
	screen := Rect{Left: 100, Top: 50, Width: 1600, Height: 900}

	got := Plan(screen, 4, ModeGrid)
	want := []Rect{
		{Left: 100, Top: 50, Width: 800, Height: 450},
		{Left: 900, Top: 50, Width: 800, Height: 450},
		{Left: 100, Top: 500, Width: 800, Height: 450},
		{Left: 900, Top: 500, Width: 800, Height: 450},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("grid plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanGridNonFourFallsBackToStrips(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 1920, Height: 1080}

	got := Plan(screen, 3, ModeGrid)
	want := []Rect{
		{Left: 0, Top: 0, Width: 640, Height: 1080},
		{Left: 640, Top: 0, Width: 640, Height: 1080},
		{Left: 1280, Top: 0, Width: 640, Height: 1080},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("fallback plan mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanSingleWindowFillsScreen(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 2560, Height: 1440}

	rects := Plan(screen, 1, ModeGrid)
	if len(rects) != 1 {
		t.Fatalf("got %d rects, want 1", len(rects))
	}
	if diff := cmp.Diff(screen, rects[0]); diff != "" {
		t.Errorf("single window should fill screen (-want +got):\n%s", diff)
	}
}

func TestPlanOddWidthFloors(t *testing.T) {
	screen := Rect{Left: 0, Top: 0, Width: 1921, Height: 1080}

	rects := Plan(screen, 2, ModeVertical)
	if rects[0].Width != 960 || rects[1].Width != 960 {
		t.Errorf("widths %d/%d, want floored 960/960", rects[0].Width, rects[1].Width)
	}
	if rects[1].Left != 960 {
		t.Errorf("second left %d, want 960", rects[1].Left)
	}
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in   string
		want Mode
	}{
		{"grid", ModeGrid},
		{"horizontal", ModeHorizontal},
		{"vertical", ModeVertical},
		{"", ModeGrid},
		{"cascade", ModeGrid},
	}
	for _, tt := range tests {
		if got := ParseMode(tt.in); got != tt.want {
			t.Errorf("ParseMode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
