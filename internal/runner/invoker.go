// Package runner serializes the target browsers and drives the external
// test-runner process against them.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"browser-matrix/internal/config"
	"browser-matrix/internal/matcher"
)

// ExitError carries a nonzero exit status from the test runner.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("test runner exited with status %d", e.Code)
}

type Invoker struct {
	command    string
	args       []string
	configPath string
	envVar     string
	buildLabel string
	runID      string
}

func New(cfg config.Config, runID string) *Invoker {
	return &Invoker{
		command:    cfg.Runner.Command,
		args:       cfg.Runner.Args,
		configPath: cfg.Runner.ConfigPath,
		envVar:     cfg.Runner.EnvVar,
		buildLabel: cfg.Runner.BuildLabel,
		runID:      runID,
	}
}

// Run writes the target list to a temp artifact, launches the runner with
// the artifact path in the configured env var, streams its stdout/stderr
// through unchanged, and maps its exit code. The artifact is removed
// exactly once, whether or not the runner succeeds.
func (iv *Invoker) Run(ctx context.Context, targets []matcher.AvailableBrowser) error {
	if iv.command == "" {
		return errors.New("no test runner command configured")
	}

	path, err := iv.writeArtifact(targets)
	if err != nil {
		return err
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("remove browser artifact")
		}
	}()

	args := append([]string(nil), iv.args...)
	if iv.configPath != "" {
		args = append(args, iv.configPath)
	}

	cmd := exec.CommandContext(ctx, iv.command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Env = append(os.Environ(), iv.envVar+"="+path)
	if iv.buildLabel != "" {
		cmd.Env = append(cmd.Env, "BROWSERSTACK_BUILD_NAME="+iv.buildLabel)
	}

	log.Info().Str("command", iv.command).Str("artifact", path).Msg("launching test runner")
	if err := cmd.Run(); err != nil {
		var xe *exec.ExitError
		if errors.As(err, &xe) {
			return &ExitError{Code: xe.ExitCode()}
		}
		return fmt.Errorf("launch test runner: %w", err)
	}
	return nil
}

func (iv *Invoker) writeArtifact(targets []matcher.AvailableBrowser) (string, error) {
	raw, err := json.Marshal(targets)
	if err != nil {
		return "", fmt.Errorf("serialize browser targets: %w", err)
	}
	path := filepath.Join(os.TempDir(), fmt.Sprintf("matrix-browsers-%s.json", iv.runID))
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write browser artifact: %w", err)
	}
	return path, nil
}
