package x11

import "github.com/BurntSushi/xgbutil/ewmh"

// FullStrut expands a legacy _NET_WM_STRUT into a partial strut spanning the
// whole root window edge.
func FullStrut(s *ewmh.WmStrut, rootWidth, rootHeight int) *ewmh.WmStrutPartial {
	return &ewmh.WmStrutPartial{
		Left:         s.Left,
		Right:        s.Right,
		Top:          s.Top,
		Bottom:       s.Bottom,
		LeftStartY:   0,
		LeftEndY:     uint(rootHeight - 1),
		RightStartY:  0,
		RightEndY:    uint(rootHeight - 1),
		TopStartX:    0,
		TopEndX:      uint(rootWidth - 1),
		BottomStartX: 0,
		BottomEndX:   uint(rootWidth - 1),
	}
}

// StrutArea returns the screen area a dock reserves. A dock reserves a
// single edge; when several are set the first of top, bottom, left, right
// wins. ok is false when the strut reserves nothing.
func StrutArea(sp *ewmh.WmStrutPartial, rootWidth, rootHeight int) (area Rect, ok bool) {
	if sp == nil {
		return Rect{}, false
	}

	switch {
	case sp.Top > 0:
		// y=[0,Top), x=[TopStartX,TopEndX]
		return spanRect(int(sp.TopStartX), 0, edgeEnd(sp.TopEndX, rootWidth), int(sp.Top), rootWidth, rootHeight)
	case sp.Bottom > 0:
		// y=[rootHeight-Bottom,rootHeight), x=[BottomStartX,BottomEndX]
		return spanRect(int(sp.BottomStartX), rootHeight-int(sp.Bottom), edgeEnd(sp.BottomEndX, rootWidth), rootHeight, rootWidth, rootHeight)
	case sp.Left > 0:
		// x=[0,Left), y=[LeftStartY,LeftEndY]
		return spanRect(0, int(sp.LeftStartY), int(sp.Left), edgeEnd(sp.LeftEndY, rootHeight), rootWidth, rootHeight)
	case sp.Right > 0:
		// x=[rootWidth-Right,rootWidth), y=[RightStartY,RightEndY]
		return spanRect(rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, edgeEnd(sp.RightEndY, rootHeight), rootWidth, rootHeight)
	}
	return Rect{}, false
}

// edgeEnd converts an inclusive strut end coordinate into an exclusive one.
// Zero means the strut was not given a range and spans the whole edge.
func edgeEnd(end uint, full int) int {
	if end == 0 {
		return full
	}
	return int(end) + 1
}

// spanRect clips [x1,x2)x[y1,y2) to the root window.
func spanRect(x1, y1, x2, y2, rootWidth, rootHeight int) (Rect, bool) {
	if x2 <= x1 {
		x1, x2 = 0, rootWidth
	}
	if y2 <= y1 {
		y1, y2 = 0, rootHeight
	}

	isect := intersectionSize(0, 0, rootWidth, rootHeight, x1, y1, x2, y2)
	if isect.w == 0 || isect.h == 0 {
		return Rect{}, false
	}
	return Rect{
		X:      max(x1, 0),
		Y:      max(y1, 0),
		Width:  isect.w,
		Height: isect.h,
	}, true
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}
