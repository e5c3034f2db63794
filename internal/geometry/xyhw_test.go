package geometry

import "testing"

func TestDefaultBuilder_IsZeroSizedAndUnbounded(t *testing.T) {
	g := DefaultBuilder().Build()
	if g.X != 0 || g.Y != 0 || g.W != 0 || g.H != 0 {
		t.Fatalf("expected zero rectangle, got %+v", g)
	}
	if g.MinW != -Unbounded || g.MaxW != Unbounded || g.MinH != -Unbounded || g.MaxH != Unbounded {
		t.Fatalf("expected unbounded limits, got %+v", g)
	}
}

func TestSetW_ClampsToLimits(t *testing.T) {
	b := DefaultBuilder()
	b.MinW, b.MaxW = 100, 200
	b.MinH, b.MaxH = 50, 60
	b.W, b.H = 10, 500
	g := b.Build()
	if g.W != 100 {
		t.Fatalf("expected width clamped up to 100, got %d", g.W)
	}
	if g.H != 60 {
		t.Fatalf("expected height clamped down to 60, got %d", g.H)
	}

	g.SetW(150)
	if g.W != 150 {
		t.Fatalf("expected width 150, got %d", g.W)
	}
	g.SetW(1000)
	if g.W != 200 {
		t.Fatalf("expected width clamped to 200, got %d", g.W)
	}
}

func TestCenterHalfed(t *testing.T) {
	g := New(0, 0, 800, 600).CenterHalfed()
	if g.W != 400 || g.H != 300 {
		t.Fatalf("expected 400x300, got %dx%d", g.W, g.H)
	}
	if g.X != 200 || g.Y != 150 {
		t.Fatalf("expected origin 200,150, got %d,%d", g.X, g.Y)
	}

	offset := New(1920, 100, 1000, 500).CenterHalfed()
	if offset.X != 1920+250 || offset.Y != 100+125 {
		t.Fatalf("expected offset origin 2170,225, got %d,%d", offset.X, offset.Y)
	}
}

func TestContainsPoint(t *testing.T) {
	g := New(10, 10, 100, 50)
	tests := []struct {
		x, y int
		want bool
	}{
		{10, 10, true},
		{109, 59, true},
		{110, 20, false},
		{20, 60, false},
		{9, 20, false},
	}
	for _, tt := range tests {
		if got := g.ContainsPoint(tt.x, tt.y); got != tt.want {
			t.Errorf("ContainsPoint(%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestWithout(t *testing.T) {
	screen := New(0, 0, 1000, 800)
	tests := []struct {
		name  string
		other XYHW
		want  XYHW
	}{
		{"top bar", New(0, 0, 1000, 30), New(0, 30, 1000, 770)},
		{"bottom bar", New(0, 770, 1000, 30), New(0, 0, 1000, 770)},
		{"left panel", New(0, 0, 40, 800), New(40, 0, 960, 800)},
		{"right panel", New(960, 0, 40, 800), New(0, 0, 960, 800)},
		{"bar on another screen", New(0, -100, 1000, 30), screen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := screen.Without(tt.other)
			if got.X != tt.want.X || got.Y != tt.want.Y || got.W != tt.want.W || got.H != tt.want.H {
				t.Fatalf("Without(%+v) = %d,%d %dx%d, want %d,%d %dx%d",
					tt.other, got.X, got.Y, got.W, got.H, tt.want.X, tt.want.Y, tt.want.W, tt.want.H)
			}
		})
	}
}
