package cv

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Opener launches an external viewer for decoded CVs.
type Opener struct {
	command []string
}

// NewOpener splits command on whitespace. An empty command picks the
// platform default (open on macOS, xdg-open elsewhere).
func NewOpener(command string) Opener {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		if runtime.GOOS == "darwin" {
			fields = []string{"open"}
		} else {
			fields = []string{"xdg-open"}
		}
	}
	return Opener{command: fields}
}

// Open starts the viewer on h without waiting for it to exit. The viewer is
// not tied to docket's lifetime.
func (o Opener) Open(h Handle) error {
	if !h.Available() {
		return fmt.Errorf("no cv available")
	}
	args := append(append([]string(nil), o.command[1:]...), h.Path)
	cmd := exec.Command(o.command[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open cv: %w", err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
