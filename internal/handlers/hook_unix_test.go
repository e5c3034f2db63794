//go:build unix

package handlers

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func TestHookCommand_OwnProcessGroup(t *testing.T) {
	c := hookCommand("notify-send new-window")

	if !slices.Equal(c.Args, []string{"sh", "-c", "notify-send new-window"}) {
		t.Fatalf("unexpected args %q", c.Args)
	}
	if c.SysProcAttr == nil || !c.SysProcAttr.Setpgid {
		t.Fatalf("expected the hook to start in its own process group")
	}
	if c.Stdin != nil || c.Stdout != nil {
		t.Fatalf("expected the hook to inherit no standard streams")
	}
}

func TestLaunchDetached_RunsCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "ran")
	launchDetached("echo ok > " + out)

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if data, err := os.ReadFile(out); err == nil && string(data) == "ok\n" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected the hook to write %s", out)
}
