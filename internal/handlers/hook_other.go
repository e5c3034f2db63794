//go:build !unix

package handlers

import "os/exec"

func detachProcessGroup(*exec.Cmd) {}
