package grid

// Color is a 24-bit RGB color attached to a whole cell. All eight dots of
// a cell share the one color; there is no sub-cell color.
type Color struct {
	R, G, B uint8
}
