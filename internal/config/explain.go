package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	tags
//	default_layout
//	gap_size
//	border_width
//	margin
//	default_border_color
//	floating_border_color
//	focused_border_color
//	on_new_window_cmd
//	display
//	log_level
//	reconcile_interval_seconds
//	layouts.<name>.mode
//	layouts.<name>.tile_region.type
//	layouts.<name>.fixed_grid.rows
//	layouts.<name>.master_stack.master_width_percent
//
// A layout field its own file leaves unset is attributed to the nearest
// layout up its inherits chain that sets it, then to the builtin base.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Unset layout fields come from the nearest ancestor that sets them.
	if name := layoutNameFromPath(path); name != "" {
		field := strings.TrimPrefix(path, "layouts."+name)
		for _, parent := range res.LayoutChains[name] {
			if src, ok := res.Sources["layouts."+parent+field]; ok {
				return value, src, nil
			}
		}
		return value, Source{Kind: SourceBuiltin, Name: res.LayoutBases[name]}, nil
	}
	if strings.HasPrefix(path, "layouts") {
		return value, Source{Kind: SourceBuiltin}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func layoutNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "layouts" {
		return ""
	}
	return parts[1]
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	if parts[0] == "layouts" {
		return lookupLayoutValue(cfg, path, parts)
	}
	if len(parts) != 1 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch parts[0] {
	case "tags":
		return cfg.Tags, nil
	case "default_layout":
		return cfg.DefaultLayout, nil
	case "gap_size":
		return cfg.GapSize, nil
	case "border_width":
		return cfg.BorderWidth, nil
	case "margin":
		return cfg.Margin, nil
	case "default_border_color":
		return cfg.DefaultBorderColor, nil
	case "floating_border_color":
		return cfg.FloatingBorderColor, nil
	case "focused_border_color":
		return cfg.FocusedBorderColor, nil
	case "on_new_window_cmd":
		return cfg.OnNewWindowCmd, nil
	case "display":
		return cfg.Display, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "reconcile_interval_seconds":
		return cfg.ReconcileIntervalSeconds, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}

func lookupLayoutValue(cfg *Config, path string, parts []string) (any, error) {
	if len(parts) < 2 {
		return cfg.Layouts, nil
	}
	name := parts[1]
	layout, ok := cfg.Layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q", name)
	}
	if len(parts) == 2 {
		return layout, nil
	}

	field := parts[2]
	if len(parts) == 3 {
		switch field {
		case "mode":
			return layout.Mode, nil
		case "tile_region":
			return layout.TileRegion, nil
		case "fixed_grid":
			return layout.FixedGrid, nil
		case "master_stack":
			return layout.MasterStack, nil
		case "max_window_width":
			return layout.MaxWindowWidth, nil
		case "max_window_height":
			return layout.MaxWindowHeight, nil
		case "flexible_last_row":
			return layout.FlexibleLastRow, nil
		}
		return nil, fmt.Errorf("unknown path: %s", path)
	}
	if len(parts) != 4 {
		return nil, fmt.Errorf("unknown path: %s", path)
	}

	switch field + "." + parts[3] {
	case "tile_region.type":
		return layout.TileRegion.Type, nil
	case "tile_region.x_percent":
		return layout.TileRegion.XPercent, nil
	case "tile_region.y_percent":
		return layout.TileRegion.YPercent, nil
	case "tile_region.width_percent":
		return layout.TileRegion.WidthPercent, nil
	case "tile_region.height_percent":
		return layout.TileRegion.HeightPercent, nil
	case "fixed_grid.rows":
		return layout.FixedGrid.Rows, nil
	case "fixed_grid.cols":
		return layout.FixedGrid.Cols, nil
	case "master_stack.master_width_percent":
		return layout.MasterStack.MasterWidthPercent, nil
	case "master_stack.max_stack_rows":
		return layout.MasterStack.MaxStackRows, nil
	case "master_stack.max_stack_cols":
		return layout.MasterStack.MaxStackCols, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
