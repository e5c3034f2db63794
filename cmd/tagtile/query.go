package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/1broseidon/tagtile/internal/ipc"
)

// parseNoArgs parses a flag set for a command that takes no positional
// arguments. ok is false when the caller should return code.
func parseNoArgs(fs *flag.FlagSet, args []string) (code int, ok bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(os.Stderr, "%s takes no arguments\n", fs.Name())
		fs.Usage()
		return 2, false
	}
	return 0, true
}

func writeJSON(w io.Writer, v any) int {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile status [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return writeJSON(os.Stdout, status)
	}
	printStatus(os.Stdout, status)
	return 0
}

func printStatus(w io.Writer, status *ipc.StatusData) {
	fmt.Fprintf(w, "daemon_running:    %v\n", status.DaemonRunning)
	fmt.Fprintf(w, "active_layout:     %s\n", status.ActiveLayout)
	fmt.Fprintf(w, "window_count:      %d\n", status.WindowCount)
	fmt.Fprintf(w, "workspace_count:   %d\n", status.WorkspaceCount)
	fmt.Fprintf(w, "focused_window:    %s\n", optional(status.FocusedWindow))
	fmt.Fprintf(w, "focused_workspace: %s\n", optional(status.FocusedWorkspace))
	fmt.Fprintf(w, "pending_actions:   %d\n", status.PendingActions)
	fmt.Fprintf(w, "uptime_seconds:    %d\n", status.UptimeSeconds)
}

func optional[T uint32 | int](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

func runWindows(args []string) int {
	fs := flag.NewFlagSet("windows", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile windows [--json]")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	data, err := client.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return writeJSON(os.Stdout, data)
	}
	printWindows(os.Stdout, data.Windows)
	return 0
}

func printWindows(w io.Writer, windows []ipc.WindowInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HANDLE\tTYPE\tTAGS\tFLAGS\tGEOMETRY\tNAME")
	for _, win := range windows {
		fmt.Fprintf(tw, "0x%x\t%s\t%s\t%s\t%s\t%s\n",
			win.Handle, win.Type, joinOrDash(win.Tags), windowFlags(win), formatRect(win.Geometry), win.Name)
	}
	tw.Flush()
}

func windowFlags(win ipc.WindowInfo) string {
	var b strings.Builder
	if win.Focused {
		b.WriteByte('*')
	}
	if win.Floating {
		b.WriteByte('f')
	}
	if !win.Visible {
		b.WriteByte('h')
	}
	if win.Transient != nil {
		b.WriteByte('t')
	}
	if b.Len() == 0 {
		return "-"
	}
	return b.String()
}

func runWorkspaces(args []string) int {
	fs := flag.NewFlagSet("workspaces", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile workspaces [--json]")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	data, err := client.ListWorkspaces()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *asJSON {
		return writeJSON(os.Stdout, data)
	}
	printWorkspaces(os.Stdout, data.Workspaces)
	return 0
}

func printWorkspaces(w io.Writer, workspaces []ipc.WorkspaceInfo) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTAGS\tAREA\tUSABLE\tDOCKS")
	for _, ws := range workspaces {
		id := fmt.Sprint(ws.ID)
		if ws.Focused {
			id += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", id, joinOrDash(ws.Tags), formatRect(ws.Area), formatRect(ws.Usable), len(ws.Avoid))
	}
	tw.Flush()
}

func formatRect(r ipc.Rect) string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

func joinOrDash(items []string) string {
	return joinWith(items, ",")
}

func joinWith(items []string, sep string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, sep)
}

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tagtile layout list [--json]")
	fmt.Fprintln(w, "  tagtile layout apply <name>")
}

func runLayout(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printLayoutUsage(os.Stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		asJSON := fs.Bool("json", false, "Print JSON")
		if code, ok := parseNoArgs(fs, args[1:]); !ok {
			return code
		}

		client, err := newClient()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := client.ListLayouts()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if *asJSON {
			return writeJSON(os.Stdout, data)
		}
		for _, name := range data.Layouts {
			marker := " "
			if name == data.ActiveLayout {
				marker = "*"
			}
			suffix := ""
			if name == data.DefaultLayout {
				suffix = " (default)"
			}
			fmt.Printf("%s %s%s\n", marker, name, suffix)
		}
		return 0

	case "apply":
		fs := flag.NewFlagSet("apply", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		if err := fs.Parse(args[1:]); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return 0
			}
			return 2
		}
		if fs.NArg() != 1 {
			fmt.Fprintln(os.Stderr, "apply requires exactly one layout name")
			printLayoutUsage(os.Stderr)
			return 2
		}

		client, err := newClient()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := client.ApplyLayout(fs.Arg(0)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("layout: %s\n", fs.Arg(0))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown layout subcommand: %s\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tagtile reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the daemon to re-read its configuration.")
	}
	if code, ok := parseNoArgs(fs, args); !ok {
		return code
	}

	client, err := newClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := client.Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("config: reloaded")
	return 0
}
