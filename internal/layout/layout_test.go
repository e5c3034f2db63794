package layout

import (
	"testing"

	"github.com/1broseidon/tagtile/internal/config"
	"github.com/1broseidon/tagtile/internal/geometry"
)

func TestCalculateGrid(t *testing.T) {
	tests := []struct {
		n, rows, cols int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 1, 2},
		{3, 2, 2},
		{5, 2, 3},
		{9, 3, 3},
		{10, 3, 4},
	}
	for _, tt := range tests {
		rows, cols := CalculateGrid(tt.n)
		if rows != tt.rows || cols != tt.cols {
			t.Errorf("CalculateGrid(%d) = %d,%d, want %d,%d", tt.n, rows, cols, tt.rows, tt.cols)
		}
	}
}

func TestPositions_MaxWindowWidthDoesNotCompressGrid(t *testing.T) {
	l := &config.Layout{
		Mode: config.LayoutModeFixed,
		FixedGrid: config.FixedGrid{
			Rows: 1,
			Cols: 2,
		},
		TileRegion: config.TileRegion{Type: config.RegionFull},
		// Smaller than available slot width.
		MaxWindowWidth: 50,
	}
	area := geometry.New(0, 0, 210, 100)

	positions, err := Positions(2, area, l, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}

	// With width=210, gap=10, cols=2:
	// total gaps = 30, slotWidth=(210-30)/2=90, windowWidth=50, center offset=(90-50)/2=20
	// x0 = 10 + 0*(90+10) + 20 = 30
	// x1 = 10 + 1*(90+10) + 20 = 130
	if positions[0].X != 30 {
		t.Fatalf("expected pos0.X=30, got %d", positions[0].X)
	}
	if positions[1].X != 130 {
		t.Fatalf("expected pos1.X=130, got %d", positions[1].X)
	}
	if positions[0].W != 50 || positions[1].W != 50 {
		t.Fatalf("expected both widths to be 50, got %d and %d", positions[0].W, positions[1].W)
	}
}

func TestPositions_ErrorsWhenInsufficientSpace(t *testing.T) {
	l := &config.Layout{
		Mode: config.LayoutModeFixed,
		FixedGrid: config.FixedGrid{
			Rows: 1,
			Cols: 2,
		},
		TileRegion: config.TileRegion{Type: config.RegionFull},
	}

	_, err := Positions(2, geometry.New(0, 0, 20, 10), l, 20)
	if err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestPositions_FixedGridCapsWindowCount(t *testing.T) {
	l := &config.Layout{
		Mode:      config.LayoutModeFixed,
		FixedGrid: config.FixedGrid{Rows: 1, Cols: 2},
	}
	positions, err := Positions(5, geometry.New(0, 0, 400, 200), l, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 positions, got %d", len(positions))
	}
}

func TestPositions_FlexibleLastRowFillsWidth(t *testing.T) {
	l := &config.Layout{Mode: config.LayoutModeAuto, FlexibleLastRow: true}

	// 3 windows: 2x2 grid, last row has a single window spanning the width.
	positions, err := Positions(3, geometry.New(0, 0, 400, 400), l, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if positions[0].W != 200 || positions[1].W != 200 {
		t.Fatalf("expected first row widths 200, got %d and %d", positions[0].W, positions[1].W)
	}
	if positions[2].X != 0 || positions[2].W != 400 || positions[2].Y != 200 {
		t.Fatalf("expected last window at 0,200 width 400, got %+v", positions[2])
	}
}

func TestPositions_VerticalAndHorizontal(t *testing.T) {
	area := geometry.New(0, 0, 300, 300)

	vertical, err := Positions(3, area, &config.Layout{Mode: config.LayoutModeVertical}, 0)
	if err != nil {
		t.Fatalf("vertical: %v", err)
	}
	for i, p := range vertical {
		if p.X != 0 || p.W != 300 || p.H != 100 || p.Y != i*100 {
			t.Fatalf("vertical[%d] = %+v", i, p)
		}
	}

	horizontal, err := Positions(3, area, &config.Layout{Mode: config.LayoutModeHorizontal}, 0)
	if err != nil {
		t.Fatalf("horizontal: %v", err)
	}
	for i, p := range horizontal {
		if p.Y != 0 || p.H != 300 || p.W != 100 || p.X != i*100 {
			t.Fatalf("horizontal[%d] = %+v", i, p)
		}
	}
}

func TestPositions_MasterStack(t *testing.T) {
	l := &config.Layout{
		Mode: config.LayoutModeMasterStack,
		MasterStack: config.MasterStack{
			MasterWidthPercent: 50,
			MaxStackRows:       2,
			MaxStackCols:       1,
		},
	}
	area := geometry.New(0, 0, 1000, 600)

	positions, err := Positions(4, area, l, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The stack holds at most 2 windows.
	if len(positions) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(positions))
	}
	if positions[0].X != 0 || positions[0].W != 500 || positions[0].H != 600 {
		t.Fatalf("unexpected master %+v", positions[0])
	}
	if positions[1].X != 500 || positions[1].Y != 0 || positions[1].H != 300 {
		t.Fatalf("unexpected stack[0] %+v", positions[1])
	}
	if positions[2].Y != 300 {
		t.Fatalf("unexpected stack[1] %+v", positions[2])
	}

	single, err := Positions(1, area, l, 0)
	if err != nil {
		t.Fatalf("single: %v", err)
	}
	if len(single) != 1 || single[0].W != 500 {
		t.Fatalf("unexpected single master %+v", single)
	}
}

func TestPositions_UnknownMode(t *testing.T) {
	if _, err := Positions(1, geometry.New(0, 0, 10, 10), &config.Layout{Mode: "spiral"}, 0); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestApplyRegion(t *testing.T) {
	area := geometry.New(100, 0, 1000, 800)

	left := ApplyRegion(area, config.TileRegion{Type: config.RegionLeftHalf})
	if left.X != 100 || left.W != 500 || left.H != 800 {
		t.Fatalf("unexpected left half %+v", left)
	}
	bottom := ApplyRegion(area, config.TileRegion{Type: config.RegionBottomHalf})
	if bottom.Y != 400 || bottom.H != 400 {
		t.Fatalf("unexpected bottom half %+v", bottom)
	}
}

func TestApplyRegion_CustomClampsToMinimumSize(t *testing.T) {
	region := config.TileRegion{
		Type:          config.RegionCustom,
		XPercent:      0,
		YPercent:      0,
		WidthPercent:  1,
		HeightPercent: 1,
	}

	adjusted := ApplyRegion(geometry.New(0, 0, 10, 10), region)
	if adjusted.W != 1 || adjusted.H != 1 {
		t.Fatalf("expected 1x1, got %dx%d", adjusted.W, adjusted.H)
	}
}
