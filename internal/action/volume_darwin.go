//go:build darwin

package action

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// appleScriptVolume uses the output volume setting, which is already 0 to 100.
type appleScriptVolume struct{}

func newPlatformVolume() volumeControl {
	return appleScriptVolume{}
}

func (appleScriptVolume) Volume() (float64, error) {
	out, err := runAppleScript(`output volume of (get volume settings)`)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("parse volume %q: %w", out, err)
	}
	return v, nil
}

func (appleScriptVolume) SetVolume(level float64) error {
	_, err := runAppleScript(fmt.Sprintf(`set volume output volume %d`, int(level+0.5)))
	return err
}

func runAppleScript(script string) (string, error) {
	output, err := exec.Command("osascript", "-e", script).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("osascript: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return string(output), nil
}
