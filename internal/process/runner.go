package process

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/Mk-1000/AirMon/internal/logging"
)

type OutputLine struct {
	Stream  string // "stdout" or "stderr"
	Content string
}

type Runner struct{}

func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) logCommand(name string, args []string) {
	logging.DefaultLogger.Debug("exec", "cmd", name+" "+strings.Join(args, " "))
}

// Output executes a command and returns stdout, bounded by timeout. Stderr is
// included in errors.
func (r *Runner) Output(ctx context.Context, timeout time.Duration, name string, args ...string) ([]byte, error) {
	r.logCommand(name, args)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// RunLenient executes a command and reports whether it ran at all. A command
// that launches and exits counts as having run even when its exit status is
// non-zero; only a failure to start, or a timeout, is a failure.
func (r *Runner) RunLenient(ctx context.Context, timeout time.Duration, name string, args ...string) bool {
	r.logCommand(name, args)

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, name, args...)
	err := cmd.Run()
	if err == nil {
		return true
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return true
	}

	logging.DefaultLogger.Debug("command did not run", "cmd", name, "err", err)
	return false
}

// Stream executes a command and emits its output line by line via channels.
func (r *Runner) Stream(ctx context.Context, name string, args ...string) (<-chan OutputLine, <-chan error) {
	r.logCommand(name, args)

	outChan := make(chan OutputLine, 100)
	errChan := make(chan error, 1)

	go func() {
		defer close(outChan)
		defer close(errChan)

		cmd := exec.CommandContext(ctx, name, args...)

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			errChan <- fmt.Errorf("stdout pipe: %w", err)
			return
		}

		stderr, err := cmd.StderrPipe()
		if err != nil {
			errChan <- fmt.Errorf("stderr pipe: %w", err)
			return
		}

		if err := cmd.Start(); err != nil {
			errChan <- fmt.Errorf("start: %w", err)
			return
		}

		var wg sync.WaitGroup
		wg.Add(2)

		go func() {
			defer wg.Done()
			scanner := bufio.NewScanner(stdout)
			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return
				case outChan <- OutputLine{Stream: "stdout", Content: scanner.Text()}:
				}
			}
		}()

		go func() {
			defer wg.Done()
			scanner := bufio.NewScanner(stderr)
			for scanner.Scan() {
				select {
				case <-ctx.Done():
					return
				case outChan <- OutputLine{Stream: "stderr", Content: scanner.Text()}:
				}
			}
		}()

		wg.Wait()

		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			errChan <- err
		}
	}()

	return outChan, errChan
}

func CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
