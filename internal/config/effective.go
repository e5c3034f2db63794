package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError reports an invalid setting, with the file position that
// set it when known.
type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// LayoutLineage records how every layout was derived.
type LayoutLineage struct {
	Bases  map[string]string   // builtin at the root of the inherits chain
	Chains map[string][]string // user layouts inherited from, nearest first
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, LayoutLineage, error) {
	cfg := DefaultConfig()

	if raw.Tags != nil {
		cfg.Tags = slices.Clone(raw.Tags)
	}
	if raw.GapSize != nil {
		cfg.GapSize = *raw.GapSize
	}
	if raw.BorderWidth != nil {
		cfg.BorderWidth = *raw.BorderWidth
	}
	if raw.Margin != nil {
		cfg.Margin = *raw.Margin
	}
	if raw.DefaultBorderColor != nil {
		cfg.DefaultBorderColor = *raw.DefaultBorderColor
	}
	if raw.FloatingBorderColor != nil {
		cfg.FloatingBorderColor = *raw.FloatingBorderColor
	}
	if raw.FocusedBorderColor != nil {
		cfg.FocusedBorderColor = *raw.FocusedBorderColor
	}
	if raw.OnNewWindowCmd != nil {
		cfg.OnNewWindowCmd = strings.TrimSpace(*raw.OnNewWindowCmd)
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.ReconcileIntervalSeconds != nil {
		cfg.ReconcileIntervalSeconds = *raw.ReconcileIntervalSeconds
	}

	lineage, err := applyLayouts(cfg, raw)
	if err != nil {
		return nil, LayoutLineage{}, err
	}

	if raw.DefaultLayout != nil {
		cfg.DefaultLayout = *raw.DefaultLayout
	}
	if cfg.DefaultLayout == "" {
		cfg.DefaultLayout = DefaultBuiltinLayout
	}
	if _, err := cfg.GetLayout(cfg.DefaultLayout); err != nil {
		return nil, LayoutLineage{}, &ValidationError{Path: "default_layout", Err: err}
	}

	return cfg, lineage, nil
}

func applyLayouts(cfg *Config, raw RawConfig) (LayoutLineage, error) {
	r := &layoutResolver{
		builtin:  BuiltinLayouts(),
		patches:  raw.Layouts,
		resolved: make(map[string]Layout),
		lineage: LayoutLineage{
			Bases:  make(map[string]string),
			Chains: make(map[string][]string),
		},
	}

	cfg.Layouts = make(map[string]Layout, len(r.builtin)+len(raw.Layouts))
	for name, layout := range r.builtin {
		cfg.Layouts[name] = layout
		r.lineage.Bases[name] = name
	}
	for _, name := range sortedKeys(raw.Layouts) {
		layout, err := r.resolve(name)
		if err != nil {
			return LayoutLineage{}, err
		}
		cfg.Layouts[name] = layout
	}
	return r.lineage, nil
}

// layoutResolver derives user layouts along their inherits chains.
//
// An unprefixed inherits names a user layout when one exists and a builtin
// otherwise. "builtin:<name>" always names a builtin. Without inherits a
// layout patches the builtin it shadows, or the default builtin.
type layoutResolver struct {
	builtin  map[string]Layout
	patches  map[string]RawLayout
	resolved map[string]Layout
	lineage  LayoutLineage
	active   []string
}

func (r *layoutResolver) resolve(name string) (Layout, error) {
	if layout, ok := r.resolved[name]; ok {
		return layout, nil
	}
	path := "layouts." + name + ".inherits"
	if i := slices.Index(r.active, name); i >= 0 {
		cycle := append(slices.Clone(r.active[i:]), name)
		return Layout{}, &ValidationError{Path: path, Err: fmt.Errorf("inherits cycle: %s", strings.Join(cycle, " -> "))}
	}
	r.active = append(r.active, name)
	defer func() { r.active = r.active[:len(r.active)-1] }()

	patch := r.patches[name]
	parent, fromBuiltin, err := r.parentOf(name, patch)
	if err != nil {
		return Layout{}, &ValidationError{Path: path, Err: err}
	}

	var base Layout
	if fromBuiltin {
		base = r.builtin[parent]
		r.lineage.Bases[name] = parent
	} else {
		if base, err = r.resolve(parent); err != nil {
			return Layout{}, err
		}
		r.lineage.Bases[name] = r.lineage.Bases[parent]
		r.lineage.Chains[name] = append([]string{parent}, r.lineage.Chains[parent]...)
	}

	merged := mergeLayoutPatch(base, patch)
	if err := validateLayout(&merged); err != nil {
		return Layout{}, &ValidationError{Path: "layouts." + name, Err: err}
	}
	r.resolved[name] = merged
	return merged, nil
}

func (r *layoutResolver) parentOf(name string, patch RawLayout) (string, bool, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	switch {
	case ref == "":
		if _, ok := r.builtin[name]; ok {
			return name, true, nil
		}
		return DefaultBuiltinLayout, true, nil
	case strings.HasPrefix(ref, builtinPrefix):
		ref = strings.TrimSpace(strings.TrimPrefix(ref, builtinPrefix))
		if _, ok := r.builtin[ref]; !ok {
			return "", false, fmt.Errorf("unknown builtin layout %q", ref)
		}
		return ref, true, nil
	}

	// A layout that names itself patches the builtin it shadows.
	if _, ok := r.patches[ref]; ok && ref != name {
		return ref, false, nil
	}
	if _, ok := r.builtin[ref]; ok {
		return ref, true, nil
	}
	return "", false, fmt.Errorf("unknown layout %q", ref)
}

func mergeLayoutPatch(base Layout, patch RawLayout) Layout {
	out := base

	if patch.Mode != nil {
		out.Mode = *patch.Mode
	}
	if patch.TileRegion != nil {
		r := patch.TileRegion
		if r.Type != nil {
			out.TileRegion.Type = *r.Type
		}
		out.TileRegion.XPercent = derefInt(r.XPercent, out.TileRegion.XPercent)
		out.TileRegion.YPercent = derefInt(r.YPercent, out.TileRegion.YPercent)
		out.TileRegion.WidthPercent = derefInt(r.WidthPercent, out.TileRegion.WidthPercent)
		out.TileRegion.HeightPercent = derefInt(r.HeightPercent, out.TileRegion.HeightPercent)
	}
	if patch.FixedGrid != nil {
		out.FixedGrid.Rows = derefInt(patch.FixedGrid.Rows, out.FixedGrid.Rows)
		out.FixedGrid.Cols = derefInt(patch.FixedGrid.Cols, out.FixedGrid.Cols)
	}
	if patch.MasterStack != nil {
		ms := patch.MasterStack
		out.MasterStack.MasterWidthPercent = derefInt(ms.MasterWidthPercent, out.MasterStack.MasterWidthPercent)
		out.MasterStack.MaxStackRows = derefInt(ms.MaxStackRows, out.MasterStack.MaxStackRows)
		out.MasterStack.MaxStackCols = derefInt(ms.MaxStackCols, out.MasterStack.MaxStackCols)
	}
	out.MaxWindowWidth = derefInt(patch.MaxWindowWidth, out.MaxWindowWidth)
	out.MaxWindowHeight = derefInt(patch.MaxWindowHeight, out.MaxWindowHeight)
	if patch.FlexibleLastRow != nil {
		out.FlexibleLastRow = *patch.FlexibleLastRow
	}

	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
