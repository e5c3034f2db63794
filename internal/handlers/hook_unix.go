//go:build unix

package handlers

import (
	"os/exec"
	"syscall"
)

func detachProcessGroup(c *exec.Cmd) {
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
