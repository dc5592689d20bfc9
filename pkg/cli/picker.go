package cli

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/Fepozopo/rasterfx/pkg/raster"
)

// SelectCommandWithFzf lists commands in fzf and returns the chosen name.
// It fails when fzf is not on PATH or the selection is cancelled.
func SelectCommandWithFzf(commands []raster.CommandSpec) (string, error) {
	if _, err := exec.LookPath("fzf"); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, c := range commands {
		fmt.Fprintf(&b, "%s: %s\n", c.Name, c.Description)
	}
	cmd := exec.Command("fzf", "--prompt=command> ")
	cmd.Stdin = strings.NewReader(b.String())
	cmd.Stderr = os.Stderr
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf: %w", err)
	}
	return commandFromLine(out.String())
}

// commandFromLine extracts the name from a "name: description" line.
func commandFromLine(line string) (string, error) {
	name, _, _ := strings.Cut(strings.TrimSpace(line), ":")
	if name = strings.TrimSpace(name); name == "" {
		return "", fmt.Errorf("no command selected")
	}
	return name, nil
}
