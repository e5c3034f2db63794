package handlers

import "os/exec"

// spawnHook launches the new-window hook. Tests replace it.
var spawnHook = launchDetached

// launchDetached starts cmd through the shell and forgets about it. Start
// failures and exit codes are dropped: a broken hook must never affect the
// window manager.
func launchDetached(cmd string) {
	c := hookCommand(cmd)
	if err := c.Start(); err != nil {
		return
	}
	go func() {
		_ = c.Wait()
	}()
}

// hookCommand builds the shell invocation for a hook. The child gets its own
// process group so signals aimed at the window manager's group skip it.
func hookCommand(cmd string) *exec.Cmd {
	c := exec.Command("sh", "-c", cmd)
	detachProcessGroup(c)
	return c
}
