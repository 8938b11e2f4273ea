// Package shapes rasterizes lines, circles, rectangles and polygons onto a
// grid.Grid in dot coordinates, so shapes address the full 2×4-per-cell
// raster. Dots falling outside the grid are skipped, which lets callers pan
// shapes partially off-screen without error handling per dot.
package shapes

import (
	"math"
	"sort"

	"dotmax/grid"
)

// Point is a dot coordinate.
type Point struct {
	X, Y int
}

// plotFunc receives every dot a primitive produces.
type plotFunc func(x, y int)

// plotter returns a plotFunc that lights dots on g, clipping silently.
func plotter(g *grid.Grid) plotFunc {
	dotW, dotH := g.DotDimensions()
	return func(x, y int) {
		if x < 0 || y < 0 || x >= dotW || y >= dotH {
			return
		}
		_ = g.SetDot(x, y)
	}
}

// colorPlotter lights dots and colors every touched cell.
func colorPlotter(g *grid.Grid, c grid.Color) plotFunc {
	dotW, dotH := g.DotDimensions()
	return func(x, y int) {
		if x < 0 || y < 0 || x >= dotW || y >= dotH {
			return
		}
		_ = g.SetDot(x, y)
		_ = g.SetCellColor(x/2, y/4, c)
	}
}

// Line draws a line from (x0,y0) to (x1,y1), endpoints inclusive.
func Line(g *grid.Grid, x0, y0, x1, y1 int) {
	rasterLine(plotter(g), x0, y0, x1, y1)
}

// LineColor draws a line and colors the cells it crosses.
func LineColor(g *grid.Grid, x0, y0, x1, y1 int, c grid.Color) {
	rasterLine(colorPlotter(g, c), x0, y0, x1, y1)
}

// rasterLine is integer Bresenham over all eight octants. Degenerate
// segments (single point, horizontal, vertical) fall out of the same loop.
// Endpoints are put in canonical order first so a segment and its reverse
// break error ties identically and light the same dot set.
func rasterLine(plot plotFunc, x0, y0, x1, y1 int) {
	if x1 < x0 || (x1 == x0 && y1 < y0) {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Circle draws a circle of radius r centered at dot (cx, cy). r=0 sets the
// single center dot.
func Circle(g *grid.Grid, cx, cy, r int) error {
	return rasterCircle(plotter(g), cx, cy, r)
}

// CircleColor draws a circle and colors the cells it crosses.
func CircleColor(g *grid.Grid, cx, cy, r int, c grid.Color) error {
	return rasterCircle(colorPlotter(g, c), cx, cy, r)
}

// rasterCircle is the midpoint circle algorithm with 8-way symmetry.
func rasterCircle(plot plotFunc, cx, cy, r int) error {
	if r < 0 {
		return &grid.ParameterError{Name: "radius", Value: float64(r), Min: 0, Max: float64(grid.MaxSide * 4)}
	}
	if r == 0 {
		plot(cx, cy)
		return nil
	}
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		plot(cx+x, cy+y)
		plot(cx+y, cy+x)
		plot(cx-y, cy+x)
		plot(cx-x, cy+y)
		plot(cx-x, cy-y)
		plot(cx-y, cy-x)
		plot(cx+y, cy-x)
		plot(cx+x, cy-y)
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2*(y-x) + 1
		}
	}
	return nil
}

// Rect draws a w×h dot rectangle with top-left corner at (x, y). The
// filled variant sets every dot inside; the outline variant draws the four
// edges. Non-positive sizes draw nothing.
func Rect(g *grid.Grid, x, y, w, h int, filled bool) {
	rasterRect(plotter(g), x, y, w, h, filled)
}

// RectColor draws a rectangle and colors the cells it touches.
func RectColor(g *grid.Grid, x, y, w, h int, filled bool, c grid.Color) {
	rasterRect(colorPlotter(g, c), x, y, w, h, filled)
}

func rasterRect(plot plotFunc, x, y, w, h int, filled bool) {
	if w <= 0 || h <= 0 {
		return
	}
	if filled {
		for dy := y; dy < y+h; dy++ {
			for dx := x; dx < x+w; dx++ {
				plot(dx, dy)
			}
		}
		return
	}
	x1 := x + w - 1
	y1 := y + h - 1
	rasterLine(plot, x, y, x1, y)
	rasterLine(plot, x, y1, x1, y1)
	rasterLine(plot, x, y, x, y1)
	rasterLine(plot, x1, y, x1, y1)
}

// Polygon draws the closed polygon through pts. The outline variant draws
// segments between consecutive points plus the closing segment; the filled
// variant uses even-odd scanline fill. At least three points are required.
func Polygon(g *grid.Grid, pts []Point, filled bool) error {
	return rasterPolygon(plotter(g), pts, filled)
}

// PolygonColor draws a polygon and colors the cells it touches.
func PolygonColor(g *grid.Grid, pts []Point, filled bool, c grid.Color) error {
	return rasterPolygon(colorPlotter(g, c), pts, filled)
}

func rasterPolygon(plot plotFunc, pts []Point, filled bool) error {
	if len(pts) < 3 {
		return &grid.ParameterError{Name: "polygon points", Value: float64(len(pts)), Min: 3, Max: float64(grid.MaxSide)}
	}
	if !filled {
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			rasterLine(plot, a.X, a.Y, b.X, b.Y)
		}
		return nil
	}

	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	// Even-odd scanline fill. The half-open crossing test (one endpoint
	// at or above the scanline, one strictly below) keeps shared edges
	// from being filled twice.
	xs := make([]float64, 0, len(pts))
	for y := minY; y <= maxY; y++ {
		xs = xs[:0]
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if (a.Y <= y) == (b.Y <= y) {
				continue
			}
			t := float64(y-a.Y) / float64(b.Y-a.Y)
			xs = append(xs, float64(a.X)+t*float64(b.X-a.X))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			x0 := int(math.Ceil(xs[i]))
			x1 := int(math.Floor(xs[i+1]))
			for x := x0; x <= x1; x++ {
				plot(x, y)
			}
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
