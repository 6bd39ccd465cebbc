// Package app wires the one-shot pipeline: fetch the catalog, load the
// grouped specs, match, then hand the targets to the test runner.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"browser-matrix/internal/config"
	"browser-matrix/internal/matcher"
	"browser-matrix/internal/observability"
	"browser-matrix/internal/provider"
	"browser-matrix/internal/runner"
	"browser-matrix/internal/spec"
)

// Run executes one full pipeline pass. Errors propagate upward;
// *matcher.ConfigError passes through unwrapped so main can give it the
// immediate-exit treatment.
func Run(ctx context.Context, cfg config.Config) error {
	runID := uuid.NewString()
	started := time.Now()
	log.Info().Str("run_id", runID).Msg("starting browser matrix run")

	catalog, err := provider.New(cfg).ListBrowsers(ctx)
	if err != nil {
		return err
	}
	observability.CatalogEntries.Set(float64(len(catalog)))

	groups, err := spec.Load(cfg.Specs.Path)
	if err != nil {
		return err
	}

	targets, warnings, err := matcher.Aggregate(catalog, groups)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		log.Warn().Str("key", w.Key).Msg("duplicate browser target; keeping last")
	}
	observability.TargetsMatched.Set(float64(len(targets)))
	observability.DuplicateKeys.Add(float64(len(warnings)))
	log.Info().Int("catalog", len(catalog)).Int("targets", len(targets)).Msg("matched browser targets")

	var runErr error
	if cfg.Runner.DryRun {
		runErr = printTargets(os.Stdout, targets)
	} else {
		runErr = runner.New(cfg, runID).Run(ctx, targets)
	}

	exitCode := 0
	var xe *runner.ExitError
	if errors.As(runErr, &xe) {
		exitCode = xe.Code
	}
	observability.RunnerExitCode.Set(float64(exitCode))
	observability.RunDuration.Set(time.Since(started).Seconds())
	if cfg.Metrics.GatewayURL != "" {
		observability.PushMetrics(cfg.Metrics.GatewayURL, cfg.Metrics.Job)
	}
	return runErr
}

func printTargets(w io.Writer, targets []matcher.AvailableBrowser) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(targets)
}
