package preflight

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"brookesia/internal/config"
	"brookesia/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckEngine verifies that the engine command resolves and that any
// script it is given exists in the engine working directory.
func CheckEngine(_ context.Context, cfg *config.Config) Result {
	const name = "Reduction engine"

	statuses := deps.Check(deps.EngineRequirements(cfg.Engine))
	if missing := deps.Missing(statuses); len(missing) > 0 {
		return Result{Name: name, Detail: missing[0].Detail}
	}
	parts := make([]string, len(statuses))
	for i, st := range statuses {
		parts[i] = st.Target
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (found)", strings.Join(parts, " "))}
}
