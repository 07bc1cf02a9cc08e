package app

import (
	"os/exec"
	"runtime"
	"strings"
)

var commandBuilder = exec.Command

func detectClipboard() ([]string, bool) {
	return detectClipboardInternal(runtime.GOOS, exec.LookPath)
}

func detectClipboardInternal(goos string, lookPath func(string) (string, error)) ([]string, bool) {
	trySingle := func(candidates ...string) ([]string, bool) {
		for _, candidate := range candidates {
			if candidate == "" {
				continue
			}
			if path, err := lookPath(candidate); err == nil && path != "" {
				return []string{path}, true
			}
		}
		return nil, false
	}

	if strings.EqualFold(goos, "windows") {
		if cmd, ok := trySingle("clip.exe", "clip"); ok {
			return cmd, true
		}
		for _, ps := range []string{"powershell", "powershell.exe", "pwsh"} {
			if path, err := lookPath(ps); err == nil && path != "" {
				return []string{path, "-NoLogo", "-NoProfile", "-Command", "Set-Clipboard"}, true
			}
		}
	}

	if resolved, err := lookPath("xclip"); err == nil && resolved != "" {
		return []string{resolved, "-selection", "clipboard"}, true
	}
	if cmd, ok := trySingle("pbcopy", "wl-copy"); ok {
		return cmd, true
	}
	if resolved, err := lookPath("xsel"); err == nil && resolved != "" {
		return []string{resolved, "--clipboard", "--input"}, true
	}

	return nil, false
}
