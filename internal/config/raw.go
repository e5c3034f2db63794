package config

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawFixedGrid struct {
	Rows *int `yaml:"rows"`
	Cols *int `yaml:"cols"`
}

type RawMasterStack struct {
	MasterWidthPercent *int `yaml:"master_width_percent"`
	MaxStackRows       *int `yaml:"max_stack_rows"`
	MaxStackCols       *int `yaml:"max_stack_cols"`
}

type RawTileRegion struct {
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawLayout struct {
	Inherits        *string         `yaml:"inherits"`
	Mode            *LayoutMode     `yaml:"mode"`
	TileRegion      *RawTileRegion  `yaml:"tile_region"`
	FixedGrid       *RawFixedGrid   `yaml:"fixed_grid"`
	MasterStack     *RawMasterStack `yaml:"master_stack"`
	MaxWindowWidth  *int            `yaml:"max_window_width"`
	MaxWindowHeight *int            `yaml:"max_window_height"`
	FlexibleLastRow *bool           `yaml:"flexible_last_row"`
}

// RawConfig is one YAML file as written. Nil fields were not set and fall
// through to includes or defaults.
type RawConfig struct {
	Include                  IncludeList          `yaml:"include"`
	Tags                     []string             `yaml:"tags"`
	DefaultLayout            *string              `yaml:"default_layout"`
	Layouts                  map[string]RawLayout `yaml:"layouts"`
	GapSize                  *int                 `yaml:"gap_size"`
	BorderWidth              *int                 `yaml:"border_width"`
	Margin                   *int                 `yaml:"margin"`
	DefaultBorderColor       *string              `yaml:"default_border_color"`
	FloatingBorderColor      *string              `yaml:"floating_border_color"`
	FocusedBorderColor       *string              `yaml:"focused_border_color"`
	OnNewWindowCmd           *string              `yaml:"on_new_window_cmd"`
	Display                  *string              `yaml:"display"`
	LogLevel                 *string              `yaml:"log_level"`
	ReconcileIntervalSeconds *int                 `yaml:"reconcile_interval_seconds"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.Tags != nil {
		out.Tags = slices.Clone(overlay.Tags)
	}
	if overlay.DefaultLayout != nil {
		out.DefaultLayout = overlay.DefaultLayout
	}
	if overlay.Layouts != nil {
		merged := make(map[string]RawLayout, len(out.Layouts)+len(overlay.Layouts))
		for name, layout := range out.Layouts {
			merged[name] = layout
		}
		for name, layout := range overlay.Layouts {
			if base, ok := merged[name]; ok {
				merged[name] = mergeRawLayout(base, layout)
				continue
			}
			merged[name] = layout
		}
		out.Layouts = merged
	}
	if overlay.GapSize != nil {
		out.GapSize = overlay.GapSize
	}
	if overlay.BorderWidth != nil {
		out.BorderWidth = overlay.BorderWidth
	}
	if overlay.Margin != nil {
		out.Margin = overlay.Margin
	}
	if overlay.DefaultBorderColor != nil {
		out.DefaultBorderColor = overlay.DefaultBorderColor
	}
	if overlay.FloatingBorderColor != nil {
		out.FloatingBorderColor = overlay.FloatingBorderColor
	}
	if overlay.FocusedBorderColor != nil {
		out.FocusedBorderColor = overlay.FocusedBorderColor
	}
	if overlay.OnNewWindowCmd != nil {
		out.OnNewWindowCmd = overlay.OnNewWindowCmd
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.ReconcileIntervalSeconds != nil {
		out.ReconcileIntervalSeconds = overlay.ReconcileIntervalSeconds
	}

	return out
}

func mergeRawTileRegion(base RawTileRegion, overlay RawTileRegion) RawTileRegion {
	out := base
	if overlay.Type != nil {
		out.Type = overlay.Type
	}
	if overlay.XPercent != nil {
		out.XPercent = overlay.XPercent
	}
	if overlay.YPercent != nil {
		out.YPercent = overlay.YPercent
	}
	if overlay.WidthPercent != nil {
		out.WidthPercent = overlay.WidthPercent
	}
	if overlay.HeightPercent != nil {
		out.HeightPercent = overlay.HeightPercent
	}
	return out
}

func mergeRawFixedGrid(base RawFixedGrid, overlay RawFixedGrid) RawFixedGrid {
	out := base
	if overlay.Rows != nil {
		out.Rows = overlay.Rows
	}
	if overlay.Cols != nil {
		out.Cols = overlay.Cols
	}
	return out
}

func mergeRawMasterStack(base RawMasterStack, overlay RawMasterStack) RawMasterStack {
	out := base
	if overlay.MasterWidthPercent != nil {
		out.MasterWidthPercent = overlay.MasterWidthPercent
	}
	if overlay.MaxStackRows != nil {
		out.MaxStackRows = overlay.MaxStackRows
	}
	if overlay.MaxStackCols != nil {
		out.MaxStackCols = overlay.MaxStackCols
	}
	return out
}

func mergeRawLayout(base RawLayout, overlay RawLayout) RawLayout {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Mode != nil {
		out.Mode = overlay.Mode
	}
	if overlay.TileRegion != nil {
		if out.TileRegion == nil {
			out.TileRegion = overlay.TileRegion
		} else {
			merged := mergeRawTileRegion(*out.TileRegion, *overlay.TileRegion)
			out.TileRegion = &merged
		}
	}
	if overlay.FixedGrid != nil {
		if out.FixedGrid == nil {
			out.FixedGrid = overlay.FixedGrid
		} else {
			merged := mergeRawFixedGrid(*out.FixedGrid, *overlay.FixedGrid)
			out.FixedGrid = &merged
		}
	}
	if overlay.MasterStack != nil {
		if out.MasterStack == nil {
			out.MasterStack = overlay.MasterStack
		} else {
			merged := mergeRawMasterStack(*out.MasterStack, *overlay.MasterStack)
			out.MasterStack = &merged
		}
	}
	if overlay.MaxWindowWidth != nil {
		out.MaxWindowWidth = overlay.MaxWindowWidth
	}
	if overlay.MaxWindowHeight != nil {
		out.MaxWindowHeight = overlay.MaxWindowHeight
	}
	if overlay.FlexibleLastRow != nil {
		out.FlexibleLastRow = overlay.FlexibleLastRow
	}
	return out
}
