package ojtemplate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrFilterRegistered is returned when a template registers a second filter command.
var ErrFilterRegistered = errors.New("ojtemplate: filter command already registered")

// FilterFunc pipes input through command and returns its standard output.
type FilterFunc func(ctx context.Context, command []string, input []byte) ([]byte, error)

type filterHook struct {
	command []string
}

func (h *filterHook) register(args []string) error {
	if len(args) == 0 || args[0] == "" {
		return errors.New("ojtemplate: filter command is empty")
	}
	if h.command != nil {
		return ErrFilterRegistered
	}
	h.command = append([]string(nil), args...)
	return nil
}

// ExecFilter runs command as a subprocess with input on its standard input.
// It is the default FilterFunc of a Generator.
func ExecFilter(ctx context.Context, command []string, input []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	cmd.Stdin = bytes.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("filter %q: %w", strings.Join(command, " "), err)
		}
		return nil, fmt.Errorf("filter %q: %w: %s", strings.Join(command, " "), err, msg)
	}
	return out, nil
}
