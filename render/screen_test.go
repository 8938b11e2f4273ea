package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"dotmax/grid"
)

func simScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	t.Cleanup(screen.Fini)
	return screen
}

func TestDrawScreenPlacesBrailleRunes(t *testing.T) {
	screen := simScreen(t)
	g := mustGrid(t, 2, 1)
	if err := g.SetDot(0, 0); err != nil {
		t.Fatalf("SetDot failed: %v", err)
	}
	if err := g.SetDot(3, 3); err != nil {
		t.Fatalf("SetDot failed: %v", err)
	}

	DrawScreen(screen, g, 3, 2)

	ch, _, _, _ := screen.GetContent(3, 2)
	if ch != 0x2801 {
		t.Fatalf("cell at (3,2) = %U, want U+2801", ch)
	}
	ch, _, _, _ = screen.GetContent(4, 2)
	if ch != 0x2880 {
		t.Fatalf("cell at (4,2) = %U, want U+2880", ch)
	}
}

func TestDrawScreenAppliesCellColor(t *testing.T) {
	screen := simScreen(t)
	g := mustGrid(t, 1, 1)
	if err := g.SetDot(0, 0); err != nil {
		t.Fatalf("SetDot failed: %v", err)
	}
	if err := g.SetCellColor(0, 0, grid.Color{R: 10, G: 20, B: 30}); err != nil {
		t.Fatalf("SetCellColor failed: %v", err)
	}

	DrawScreen(screen, g, 0, 0)

	_, _, style, _ := screen.GetContent(0, 0)
	fg, _, _ := style.Decompose()
	if fg != tcell.NewRGBColor(10, 20, 30) {
		t.Fatalf("foreground = %v, want RGB(10,20,30)", fg)
	}
}

func TestDrawScreenClipsToScreen(t *testing.T) {
	screen := simScreen(t)
	sw, sh := screen.Size()
	g := mustGrid(t, sw+10, sh+10)
	for cy := 0; cy < sh+10; cy++ {
		for cx := 0; cx < sw+10; cx++ {
			if err := g.SetDot(cx*2, cy*4); err != nil {
				t.Fatalf("SetDot failed: %v", err)
			}
		}
	}
	// Must not panic writing outside the screen, including negative offsets.
	DrawScreen(screen, g, -5, -5)
	DrawScreen(screen, g, 1, 1)

	ch, _, _, _ := screen.GetContent(1, 1)
	if ch != 0x2801 {
		t.Fatalf("cell at (1,1) = %U, want U+2801", ch)
	}
}
