// Package layout computes tiled window positions and applies them to the
// windows of a models.Manager.
package layout

import (
	"fmt"
	"math"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geometry"
)

// CalculateGrid determines the optimal grid dimensions for the given number of windows
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}

	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))

	return rows, cols
}

// Positions computes tiled positions for numWindows windows inside area.
// Fixed and master-stack layouts may return fewer positions than windows
// when the grid is full.
func Positions(numWindows int, area geometry.XYHW, l *config.Layout, gapSize int) ([]geometry.XYHW, error) {
	if numWindows == 0 {
		return nil, nil
	}

	var rows, cols int
	flexibleLastRow := l.FlexibleLastRow

	switch l.Mode {
	case config.LayoutModeAuto:
		rows, cols = CalculateGrid(numWindows)

	case config.LayoutModeFixed:
		rows = l.FixedGrid.Rows
		cols = l.FixedGrid.Cols
		if numWindows > rows*cols {
			numWindows = rows * cols
		}
		flexibleLastRow = false

	case config.LayoutModeVertical:
		rows = numWindows
		cols = 1
		flexibleLastRow = false

	case config.LayoutModeHorizontal:
		rows = 1
		cols = numWindows
		flexibleLastRow = false

	case config.LayoutModeMasterStack:
		return masterStackPositions(numWindows, area, l.MasterStack, gapSize)

	default:
		return nil, fmt.Errorf("unsupported layout mode: %q", l.Mode)
	}

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}

	slotWidth := (area.W - (cols+1)*gapSize) / cols
	slotHeight := (area.H - (rows+1)*gapSize) / rows

	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for layout: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.W, area.H, rows, cols, gapSize, slotWidth, slotHeight,
		)
	}

	windowWidth := min(slotWidth, capOrUnlimited(l.MaxWindowWidth))
	windowHeight := min(slotHeight, capOrUnlimited(l.MaxWindowHeight))

	lastRowIndex := rows - 1
	windowsInLastRow := numWindows - lastRowIndex*cols
	if windowsInLastRow <= 0 {
		windowsInLastRow = cols
	}

	var lastRowSlotWidth, lastRowWindowWidth int
	if flexibleLastRow && windowsInLastRow < cols {
		lastRowSlotWidth = (area.W - (windowsInLastRow+1)*gapSize) / windowsInLastRow
		lastRowWindowWidth = min(lastRowSlotWidth, capOrUnlimited(l.MaxWindowWidth))
	}

	positions := make([]geometry.XYHW, numWindows)
	for i := range numWindows {
		row := i / cols
		col := i % cols

		thisSlotWidth, thisWindowWidth := slotWidth, windowWidth
		x := area.X + gapSize + col*(slotWidth+gapSize)

		if flexibleLastRow && row == lastRowIndex && windowsInLastRow < cols {
			lastRowCol := i - lastRowIndex*cols
			thisSlotWidth, thisWindowWidth = lastRowSlotWidth, lastRowWindowWidth
			x = area.X + gapSize + lastRowCol*(thisSlotWidth+gapSize)
		}

		y := area.Y + gapSize + row*(slotHeight+gapSize)

		// Windows smaller than their slot are centered in it.
		x += (thisSlotWidth - thisWindowWidth) / 2
		y += (slotHeight - windowHeight) / 2

		positions[i] = geometry.New(x, y, thisWindowWidth, windowHeight)
	}

	return positions, nil
}

func masterStackPositions(numWindows int, area geometry.XYHW, ms config.MasterStack, gapSize int) ([]geometry.XYHW, error) {
	masterWidth := area.W*ms.MasterWidthPercent/100 - gapSize
	stackHeight := area.H - 2*gapSize

	if numWindows == 1 {
		if masterWidth <= 0 || stackHeight <= 0 {
			return nil, fmt.Errorf("insufficient space for master pane: area=%dx%d gap=%d", area.W, area.H, gapSize)
		}
		return []geometry.XYHW{geometry.New(area.X+gapSize, area.Y+gapSize, masterWidth, stackHeight)}, nil
	}

	rightStartX := area.X + masterWidth + 2*gapSize
	rightRegionWidth := area.W - masterWidth - 3*gapSize

	stackCount := numWindows - 1

	// cols = ceil(stackCount / MaxStackRows) capped at MaxStackCols
	stackCols := int(math.Ceil(float64(stackCount) / float64(ms.MaxStackRows)))
	stackCols = max(1, min(stackCols, ms.MaxStackCols))
	stackRows := min(int(math.Ceil(float64(stackCount)/float64(stackCols))), ms.MaxStackRows)

	stackCount = min(stackCount, stackRows*stackCols)

	cellWidth := (rightRegionWidth - (stackCols-1)*gapSize) / stackCols
	cellHeight := (stackHeight - (stackRows-1)*gapSize) / stackRows

	if masterWidth <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack layout: area=%dx%d masterWidth=%d cellWidth=%d cellHeight=%d gap=%d",
			area.W, area.H, masterWidth, cellWidth, cellHeight, gapSize,
		)
	}

	positions := make([]geometry.XYHW, stackCount+1)
	positions[0] = geometry.New(area.X+gapSize, area.Y+gapSize, masterWidth, stackHeight)
	for i := range stackCount {
		row := i / stackCols
		col := i % stackCols
		positions[i+1] = geometry.New(
			rightStartX+col*(cellWidth+gapSize),
			area.Y+gapSize+row*(cellHeight+gapSize),
			cellWidth,
			cellHeight,
		)
	}
	return positions, nil
}

func capOrUnlimited(limit int) int {
	if limit > 0 {
		return limit
	}
	return math.MaxInt
}

// ApplyRegion narrows area to the layout's tile region.
func ApplyRegion(area geometry.XYHW, region config.TileRegion) geometry.XYHW {
	adjusted := area

	switch region.Type {
	case config.RegionFull:
		// No change

	case config.RegionLeftHalf:
		adjusted.W = area.W / 2

	case config.RegionRightHalf:
		adjusted.X = area.X + area.W/2
		adjusted.W = area.W / 2

	case config.RegionTopHalf:
		adjusted.H = area.H / 2

	case config.RegionBottomHalf:
		adjusted.Y = area.Y + area.H/2
		adjusted.H = area.H / 2

	case config.RegionCustom:
		adjusted.X = area.X + area.W*region.XPercent/100
		adjusted.Y = area.Y + area.H*region.YPercent/100
		adjusted.W = area.W * region.WidthPercent / 100
		adjusted.H = area.H * region.HeightPercent / 100
	}

	adjusted.W = max(adjusted.W, 1)
	adjusted.H = max(adjusted.H, 1)

	return adjusted
}
