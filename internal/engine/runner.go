package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"brookesia/internal/config"
	"brookesia/internal/fileutil"
	"brookesia/internal/job"
	"brookesia/internal/jobfile"
	"brookesia/internal/logging"
	"brookesia/internal/services"
	"brookesia/internal/textutil"
)

// mechanismSubdir is where the engine looks for mechanism files, relative
// to its working directory.
const mechanismSubdir = "_kinetic_mech"

// Handoff reports a submitted job.
type Handoff struct {
	RequestID   string    `json:"request_id"`
	InputPath   string    `json:"input_path"`
	ArchivePath string    `json:"archive_path,omitempty"`
	LogPath     string    `json:"log_path"`
	PID         int       `json:"pid"`
	StartedAt   time.Time `json:"started_at"`
}

// Option configures a Runner.
type Option func(*Runner)

// WithExecutor overrides how the engine process is started.
func WithExecutor(exec Executor) Option {
	return func(r *Runner) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logging.NewComponentLogger(logger, "engine")
	}
}

// Runner submits jobs to the configured engine command.
type Runner struct {
	cfg    *config.Config
	exec   Executor
	logger *slog.Logger
}

// NewRunner constructs a Runner using defaults.
func NewRunner(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:    cfg,
		exec:   DetachedExecutor{},
		logger: logging.NewComponentLogger(nil, "engine"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Submit writes j as the engine input and starts the engine. When name is
// non-empty a copy of the job file is archived under that name.
func (r *Runner) Submit(ctx context.Context, j *job.Job, name string) (*Handoff, error) {
	if r.cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "engine", "submit", "configuration required", nil)
	}
	if j == nil {
		return nil, errors.New("job is nil")
	}

	requestID, ok := services.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
		ctx = services.WithRequestID(ctx, requestID)
	}
	logger := logging.WithContext(ctx, r.logger)

	if err := j.Validate(); err != nil {
		return nil, services.Wrap(services.ErrValidation, "engine", "submit", "job is invalid", err)
	}

	if err := r.stageMechanism(j.Main.Mechanism); err != nil {
		return nil, err
	}

	inputPath := r.cfg.LastConditionPath()
	if err := jobfile.WriteFile(inputPath, j); err != nil {
		return nil, fmt.Errorf("write engine input: %w", err)
	}

	handoff := &Handoff{
		RequestID: requestID,
		InputPath: inputPath,
		LogPath:   filepath.Join(r.cfg.Paths.LogDir, "engine-"+requestID+".log"),
	}

	if fileName := textutil.ConditionFileName(name, ""); fileName != "" {
		archive := r.cfg.ConditionPath(fileName)
		if err := fileutil.CopyFile(inputPath, archive); err != nil {
			return nil, fmt.Errorf("archive job file: %w", err)
		}
		handoff.ArchivePath = archive
	}

	cmd := Command{
		Binary:  r.cfg.Engine.Command,
		Args:    BuildArgs(r.cfg.Engine.Args, inputPath),
		Dir:     r.cfg.Engine.WorkDir,
		LogPath: handoff.LogPath,
		Env:     []string{"BROOKESIA_REQUEST_ID=" + requestID},
	}
	pid, err := r.exec.Start(ctx, cmd)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "engine", "start", cmd.Binary, err)
	}
	handoff.PID = pid
	handoff.StartedAt = time.Now().UTC()

	logger.Info("engine started",
		logging.Path(inputPath),
		logging.Int("pid", pid),
		logging.JobShape(j),
	)
	for i, c := range j.Cases {
		if c.Active {
			logger.Debug("case handed off", logging.CaseRef(i, c))
		}
	}
	for i, s := range j.Pipeline.Stages() {
		logger.Debug("stage handed off", logging.StageRef(i, s))
	}
	return handoff, nil
}

// BuildArgs substitutes the input placeholder in args, appending inputPath
// when no placeholder is present.
func BuildArgs(args []string, inputPath string) []string {
	out := make([]string, 0, len(args)+1)
	substituted := false
	for _, arg := range args {
		if strings.Contains(arg, config.InputPlaceholder) {
			arg = strings.ReplaceAll(arg, config.InputPlaceholder, inputPath)
			substituted = true
		}
		out = append(out, arg)
	}
	if !substituted {
		out = append(out, inputPath)
	}
	return out
}

// stageMechanism copies the mechanism from the mechanism library into the
// engine working directory when the engine does not already have it.
func (r *Runner) stageMechanism(mech string) error {
	workDir := strings.TrimSpace(r.cfg.Engine.WorkDir)
	mech = strings.TrimSpace(mech)
	if workDir == "" || mech == "" || filepath.IsAbs(mech) {
		return nil
	}

	dest := filepath.Join(workDir, mechanismSubdir, filepath.Base(mech))
	if _, err := os.Stat(dest); err == nil {
		return nil
	}

	src := r.cfg.MechanismPath(mech)
	if _, err := os.Stat(src); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNotFound, "engine", "stage mechanism", mech, err)
		}
		return fmt.Errorf("stat mechanism: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("ensure mechanism dir: %w", err)
	}
	if err := fileutil.CopyFileVerified(src, dest); err != nil {
		return fmt.Errorf("stage mechanism: %w", err)
	}
	r.logger.Debug("mechanism staged", logging.String("source", src), logging.String("destination", dest))
	return nil
}
