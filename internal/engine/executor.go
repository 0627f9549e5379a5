package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

var commandContext = exec.CommandContext

// Command describes one engine invocation.
type Command struct {
	Binary  string
	Args    []string
	Dir     string
	LogPath string
	Env     []string
}

// Executor starts an engine process and returns its PID without waiting.
type Executor interface {
	Start(ctx context.Context, cmd Command) (int, error)
}

// DetachedExecutor starts the engine in its own session with output
// redirected to a log file.
type DetachedExecutor struct{}

// Start launches cmd and releases it.
func (DetachedExecutor) Start(ctx context.Context, cmd Command) (int, error) {
	if cmd.Binary == "" {
		return 0, errors.New("engine binary required")
	}

	// The engine must outlive ctx, which only bounds the launch itself.
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	proc := commandContext(context.WithoutCancel(ctx), cmd.Binary, cmd.Args...) //nolint:gosec
	proc.Dir = cmd.Dir
	proc.Env = append(os.Environ(), cmd.Env...)
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if cmd.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cmd.LogPath), 0o755); err != nil {
			return 0, fmt.Errorf("ensure engine log dir: %w", err)
		}
		logFile, err := os.OpenFile(cmd.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, fmt.Errorf("open engine log: %w", err)
		}
		defer logFile.Close()
		proc.Stdout = logFile
		proc.Stderr = logFile
	}

	if err := proc.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", cmd.Binary, err)
	}
	pid := proc.Process.Pid
	if err := proc.Process.Release(); err != nil {
		return pid, fmt.Errorf("release engine process: %w", err)
	}
	return pid, nil
}
