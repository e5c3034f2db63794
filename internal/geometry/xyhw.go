package geometry

// Unbounded is the default min/max size constraint.
const Unbounded = 999_999_999

// XYHW represents a window position and size, along with the size limits
// the window will accept.
type XYHW struct {
	X    int
	Y    int
	H    int
	W    int
	MinW int
	MaxW int
	MinH int
	MaxH int
}

// Builder collects the fields of an XYHW before it is built.
type Builder struct {
	X    int
	Y    int
	H    int
	W    int
	MinW int
	MaxW int
	MinH int
	MaxH int
}

// DefaultBuilder returns a builder for a zero-sized rectangle at the origin
// with no size constraints.
func DefaultBuilder() Builder {
	return Builder{
		MinW: -Unbounded,
		MaxW: Unbounded,
		MinH: -Unbounded,
		MaxH: Unbounded,
	}
}

// Build converts the builder into an XYHW, clamping the size into its limits.
func (b Builder) Build() XYHW {
	g := XYHW{
		X:    b.X,
		Y:    b.Y,
		MinW: b.MinW,
		MaxW: b.MaxW,
		MinH: b.MinH,
		MaxH: b.MaxH,
	}
	g.SetW(b.W)
	g.SetH(b.H)
	return g
}

// New returns an unconstrained rectangle.
func New(x, y, w, h int) XYHW {
	b := DefaultBuilder()
	b.X, b.Y, b.W, b.H = x, y, w, h
	return b.Build()
}

// SetX moves the left edge.
func (g *XYHW) SetX(x int) { g.X = x }

// SetY moves the top edge.
func (g *XYHW) SetY(y int) { g.Y = y }

// SetW sets the width, clamped to [MinW, MaxW].
func (g *XYHW) SetW(w int) {
	if w < g.MinW {
		w = g.MinW
	}
	if w > g.MaxW {
		w = g.MaxW
	}
	g.W = w
}

// SetH sets the height, clamped to [MinH, MaxH].
func (g *XYHW) SetH(h int) {
	if h < g.MinH {
		h = g.MinH
	}
	if h > g.MaxH {
		h = g.MaxH
	}
	g.H = h
}

// Center returns the center point.
func (g XYHW) Center() (x, y int) {
	return g.X + g.W/2, g.Y + g.H/2
}

// ContainsPoint reports whether (x, y) lies inside the rectangle.
func (g XYHW) ContainsPoint(x, y int) bool {
	return x >= g.X && x < g.X+g.W && y >= g.Y && y < g.Y+g.H
}

// CenterHalfed returns a rectangle half the size of g, centered inside it.
func (g XYHW) CenterHalfed() XYHW {
	b := DefaultBuilder()
	b.X = g.X + g.W/2 - g.W/4
	b.Y = g.Y + g.H/2 - g.H/4
	b.W = g.W / 2
	b.H = g.H / 2
	return b.Build()
}

// Without trims the area covered by other off one edge of g.
//
// A region wider than it is tall is treated as a horizontal bar and trims
// the top or bottom; anything else trims the left or right. The side is
// picked by which half of g the region starts in.
func (g XYHW) Without(other XYHW) XYHW {
	out := g
	if other.W > other.H {
		if other.Y > g.Y+g.H/2 {
			if over := (out.Y + out.H) - other.Y; over > 0 {
				out.H -= over
			}
		} else {
			if over := (other.Y + other.H) - out.Y; over > 0 {
				out.Y += over
				out.H -= over
			}
		}
		return out
	}

	if other.X > g.X+g.W/2 {
		if over := (out.X + out.W) - other.X; over > 0 {
			out.W -= over
		}
	} else {
		if over := (other.X + other.W) - out.X; over > 0 {
			out.X += over
			out.W -= over
		}
	}
	return out
}
