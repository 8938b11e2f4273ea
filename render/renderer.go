// Package render serializes grids to a terminal. The renderer keeps a
// shadow copy of the last frame it wrote and emits only the escape
// sequences needed to turn the shadow into the new frame: one cursor move
// per run of changed cells, one SGR per color change, three UTF-8 bytes
// per braille character, and a color reset at the end of any colored
// frame.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"dotmax/grid"
)

// Renderer writes grids to a single terminal handle. It owns that handle
// and the shadow state, so it must not be shared across goroutines.
type Renderer struct {
	out  io.Writer
	file *os.File // nil when the output is not a real terminal

	cols, rows int

	// Shadow of the last written frame, indexed like the grid buffers.
	shadowW, shadowH int
	shadowPat        []byte
	shadowColor      []grid.Color
	shadowSet        []bool
	dirty            bool
}

// New returns a renderer that writes to the given terminal. Terminal size
// is polled from the handle on every render; when the handle is not a
// tty, the classic 80×24 is assumed.
func New(out *os.File) *Renderer {
	r := &Renderer{out: out, file: out, cols: 80, rows: 24, dirty: true}
	if cols, rows, err := term.GetSize(int(out.Fd())); err == nil && cols > 0 && rows > 0 {
		r.cols, r.rows = cols, rows
	}
	return r
}

// NewWriter returns a renderer with a fixed cols×rows area writing to an
// arbitrary writer. Useful for piping frames to a file or a test buffer.
func NewWriter(w io.Writer, cols, rows int) *Renderer {
	return &Renderer{out: w, cols: cols, rows: rows, dirty: true}
}

// Size returns the current terminal size in cells.
func (r *Renderer) Size() (cols, rows int) {
	return r.cols, r.rows
}

// ForceFullRedraw discards the shadow; the next Render writes every
// non-empty cell from scratch.
func (r *Renderer) ForceFullRedraw() {
	r.dirty = true
}

// Render writes the difference between the shadow and g to the terminal.
// The first call (and any call after ForceFullRedraw or a terminal
// resize) draws every non-empty cell; later calls draw only cells whose
// pattern or color changed. Cells beyond the terminal area are diffed but
// not drawn.
func (r *Renderer) Render(g *grid.Grid) error {
	r.pollSize()

	w, h := g.Dimensions()
	if r.shadowW != w || r.shadowH != h {
		r.reshapeShadow(w, h)
	}
	valid := !r.dirty

	drawW := min(w, r.cols)
	drawH := min(h, r.rows)

	var buf bytes.Buffer
	nextRow, nextCol := -1, -1 // cell the cursor would write next
	var lastColor grid.Color
	lastColorOn := false  // an SGR foreground is active in the output
	colorTouched := false // any SGR was emitted this frame

	for cy := 0; cy < h; cy++ {
		for cx := 0; cx < w; cx++ {
			i := cy*w + cx
			pat := byte(g.CharAt(cx, cy) - grid.BrailleBase)
			c, cOK, _ := g.GetCellColor(cx, cy)

			changed := !valid ||
				r.shadowPat[i] != pat ||
				r.shadowSet[i] != cOK ||
				(cOK && r.shadowColor[i] != c)
			if !valid {
				// Empty shadow: only non-empty cells need drawing.
				changed = pat != 0
			}

			r.shadowPat[i] = pat
			r.shadowColor[i] = c
			r.shadowSet[i] = cOK

			if !changed || cx >= drawW || cy >= drawH {
				continue
			}

			if cy != nextRow || cx != nextCol {
				fmt.Fprintf(&buf, "\x1b[%d;%dH", cy+1, cx+1)
			}
			if cOK {
				if !lastColorOn || lastColor != c {
					fmt.Fprintf(&buf, "\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
					lastColor = c
					lastColorOn = true
					colorTouched = true
				}
			} else if lastColorOn {
				buf.WriteString("\x1b[0m")
				lastColorOn = false
			}
			buf.WriteRune(grid.BrailleBase + rune(pat))
			nextRow, nextCol = cy, cx+1
		}
	}

	if colorTouched {
		buf.WriteString("\x1b[0m")
	}

	r.dirty = false
	if buf.Len() == 0 {
		return nil
	}
	if _, err := r.out.Write(buf.Bytes()); err != nil {
		// The frame may have stopped mid-color; reset so later output
		// is not tinted. A second failure here is not actionable.
		_, _ = io.WriteString(r.out, "\x1b[0m")
		r.dirty = true
		return &grid.TerminalError{Cause: err}
	}
	return nil
}

// Close resets the color state and parks the cursor on the line after the
// last rendered row, so subsequent shell output starts on a clean line.
// Write failures during cleanup are reported but the renderer is done
// either way.
func (r *Renderer) Close() error {
	if r.out == nil {
		return nil
	}
	row := min(r.shadowH, r.rows) + 1
	_, err := fmt.Fprintf(r.out, "\x1b[0m\x1b[%d;1H", row)
	r.out = nil
	r.file = nil
	if err != nil {
		return &grid.TerminalError{Cause: err}
	}
	return nil
}

// pollSize re-reads the terminal size; on change the shadow is useless
// (the terminal reflowed or cleared) so the next frame is drawn in full.
func (r *Renderer) pollSize() {
	if r.file == nil {
		return
	}
	cols, rows, err := term.GetSize(int(r.file.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		return
	}
	if cols != r.cols || rows != r.rows {
		r.cols, r.rows = cols, rows
		r.dirty = true
	}
}

func (r *Renderer) reshapeShadow(w, h int) {
	n := w * h
	r.shadowW, r.shadowH = w, h
	r.shadowPat = make([]byte, n)
	r.shadowColor = make([]grid.Color, n)
	r.shadowSet = make([]bool, n)
	r.dirty = true
}
