package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/tagtile/internal/config"
)

// errConfigUsage marks a config subcommand invoked with bad arguments.
var errConfigUsage = errors.New("usage")

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tagtile config validate [--path PATH]")
	fmt.Fprintln(w, "  tagtile config print [--path PATH] [--defaults | --effective]")
	fmt.Fprintln(w, "  tagtile config explain [--path PATH] <yaml.path>")
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stderr)
		return 2
	}

	fs := flag.NewFlagSet("config "+args[0], flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "config file (default: $"+config.ConfigPathEnv+" or ~/.config/tagtile/config.yaml)")

	var run func(w io.Writer) error
	switch args[0] {
	case "validate":
		run = func(w io.Writer) error {
			res, err := loadConfig(*path)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, "config: ok")
			for _, f := range res.Files {
				fmt.Fprintf(w, "  loaded: %s\n", f)
			}
			return nil
		}
	case "print":
		defaults := fs.Bool("defaults", false, "print the builtin defaults without reading any file")
		effective := fs.Bool("effective", false, "summarize resolved settings and layouts with where each came from")
		run = func(w io.Writer) error {
			if *defaults && *effective {
				return fmt.Errorf("%w: --defaults and --effective are exclusive", errConfigUsage)
			}
			if *defaults {
				return writeYAMLConfig(w, config.DefaultConfig())
			}
			res, err := loadConfig(*path)
			if err != nil {
				return err
			}
			if *effective {
				printEffective(w, res)
				return nil
			}
			return writeYAMLConfig(w, res.Config)
		}
	case "explain":
		run = func(w io.Writer) error {
			if fs.NArg() != 1 {
				return fmt.Errorf("%w: explain takes one <yaml.path>", errConfigUsage)
			}
			res, err := loadConfig(*path)
			if err != nil {
				return err
			}
			return explainConfig(w, res, fs.Arg(0))
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n\n", args[0])
		printConfigUsage(os.Stderr)
		return 2
	}

	if err := fs.Parse(args[1:]); err != nil {
		return 2
	}
	if err := run(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, errConfigUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func writeYAMLConfig(w io.Writer, cfg *config.Config) error {
	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func explainConfig(w io.Writer, res *config.LoadResult, path string) error {
	value, src, err := config.Explain(res, path)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(value)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "path: %s\n", path)
	fmt.Fprintf(w, "source: %s\n", formatSource(src))
	fmt.Fprintf(w, "value:\n%s", out)
	return nil
}

// effectiveSettings are the top-level keys shown by print --effective, in
// display order.
var effectiveSettings = []string{
	"tags",
	"default_layout",
	"gap_size",
	"margin",
	"border_width",
	"default_border_color",
	"floating_border_color",
	"focused_border_color",
	"on_new_window_cmd",
	"display",
	"log_level",
	"reconcile_interval_seconds",
}

// printEffective writes two tables: every setting with its source, then every
// layout with its mode, builtin base and inherits chain. The default layout is
// starred; untouched builtins carry their summary.
func printEffective(w io.Writer, res *config.LoadResult) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SETTING\tVALUE\tSOURCE")
	for _, key := range effectiveSettings {
		value, src, err := config.Explain(res, key)
		if err != nil {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", key, settingValue(value), formatSource(src))
	}
	tw.Flush()

	fmt.Fprintln(w)

	names := make([]string, 0, len(res.Config.Layouts))
	for name := range res.Config.Layouts {
		names = append(names, name)
	}
	sort.Strings(names)

	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LAYOUT\tMODE\tBASE\tINHERITS\tSOURCE\tSUMMARY")
	for _, name := range names {
		label := name
		if name == res.Config.DefaultLayout {
			label += "*"
		}
		summary := "-"
		src, ok := res.Sources["layouts."+name]
		if !ok {
			src = config.Source{Kind: config.SourceBuiltin, Name: res.LayoutBases[name]}
			if s, ok := config.BuiltinSummary(name); ok {
				summary = s
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			label,
			res.Config.Layouts[name].Mode,
			res.LayoutBases[name],
			joinWith(res.LayoutChains[name], " <- "),
			formatSource(src),
			summary,
		)
	}
	tw.Flush()
}

func settingValue(v any) string {
	switch v := v.(type) {
	case []string:
		return joinOrDash(v)
	case string:
		if v == "" {
			return "-"
		}
		return v
	default:
		return fmt.Sprint(v)
	}
}

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		switch {
		case src.File == "":
			return "file"
		case src.Line > 0:
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		default:
			return "file:" + src.File
		}
	case config.SourceBuiltin, config.SourceDefault:
		if src.Name == "" {
			return string(src.Kind)
		}
		return string(src.Kind) + ":" + src.Name
	default:
		return string(src.Kind)
	}
}
