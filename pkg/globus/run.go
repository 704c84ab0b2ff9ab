package globus

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/globusrc/pkg/config"
)

// 🚦 ExitError carries the exit status of a finished external invocation so
// main can propagate it as the process exit code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("transfer tool exited with status %d", e.Code)
}

// 🏃 Run launches the external transfer tool and blocks until it exits.
// Stdout/stderr pass through untouched so the operator sees the tool's own
// output; a non-zero exit is returned as *ExitError, never retried or
// reinterpreted.
func Run(ctx context.Context, cfg *config.Sync) error {
	logger := zerolog.Ctx(ctx)

	args := BuildArgs(cfg)
	logger.Debug().Strs("argv", args).Msg("launching transfer tool")

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug().Int("code", exitErr.ExitCode()).Msg("transfer tool exited non-zero")
			return &ExitError{Code: exitErr.ExitCode()}
		}
		return errors.Errorf("launching %s: %w", cfg.CLI, err)
	}

	logger.Debug().Msg("transfer tool exited cleanly")
	return nil
}
