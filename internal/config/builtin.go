package config

// DefaultBuiltinLayout is the layout used when none is configured.
const DefaultBuiltinLayout = "grid"

// builtinPrefix pins an inherits reference to the builtin table, even when a
// user layout shadows the name.
const builtinPrefix = "builtin:"

type builtinLayout struct {
	name    string
	summary string
	layout  Layout
}

// Every builtin tiles the whole usable area; BuiltinLayouts fills in the region.
var builtins = []builtinLayout{
	{
		name:    "grid",
		summary: "near-square grid, the last row stretched to fill",
		layout:  Layout{Mode: LayoutModeAuto, FlexibleLastRow: true},
	},
	{
		name:    "columns",
		summary: "one full-height column per window",
		layout:  Layout{Mode: LayoutModeVertical},
	},
	{
		name:    "rows",
		summary: "one full-width row per window",
		layout:  Layout{Mode: LayoutModeHorizontal},
	},
	{
		name:    "master-stack",
		summary: "first window on the left, the rest in up to two stack columns",
		layout: Layout{Mode: LayoutModeMasterStack, MasterStack: MasterStack{
			MasterWidthPercent: 55,
			MaxStackRows:       4,
			MaxStackCols:       2,
		}},
	},
	{
		name:    "tall",
		summary: "wide master with a single stack column",
		layout: Layout{Mode: LayoutModeMasterStack, MasterStack: MasterStack{
			MasterWidthPercent: 65,
			MaxStackRows:       8,
			MaxStackCols:       1,
		}},
	},
}

// BuiltinLayouts returns a fresh copy of the builtin layouts keyed by name.
func BuiltinLayouts() map[string]Layout {
	out := make(map[string]Layout, len(builtins))
	for _, b := range builtins {
		l := b.layout
		l.TileRegion = TileRegion{Type: RegionFull}
		out[b.name] = l
	}
	return out
}

// BuiltinSummary describes a builtin layout in one line.
func BuiltinSummary(name string) (string, bool) {
	for _, b := range builtins {
		if b.name == name {
			return b.summary, true
		}
	}
	return "", false
}
