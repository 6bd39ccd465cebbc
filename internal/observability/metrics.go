package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/rs/zerolog/log"
)

var (
	registry = prometheus.NewRegistry()

	CatalogEntries = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "matrix_catalog_entries",
		Help: "Stable catalog entries fetched from the provider",
	})
	TargetsMatched = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "matrix_targets_matched",
		Help: "Browser targets selected for this run",
	})
	DuplicateKeys = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "matrix_duplicate_keys_total",
		Help: "Identity-key collisions across grouped specs",
	})
	RunnerExitCode = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "matrix_runner_exit_code",
		Help: "Exit status of the external test runner",
	})
	RunDuration = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "matrix_run_duration_seconds",
		Help: "Wall-clock duration of the whole run",
	})
)

func init() {
	registry.MustRegister(CatalogEntries, TargetsMatched, DuplicateKeys, RunnerExitCode, RunDuration)
}

// PushMetrics delivers the run's metrics to a Pushgateway. The process
// exits right after a run, so there is no scrape surface to serve; push
// failures are logged and never fail the run.
func PushMetrics(gatewayURL, job string) {
	if err := push.New(gatewayURL, job).Gatherer(registry).Push(); err != nil {
		log.Warn().Err(err).Str("gateway", gatewayURL).Msg("push run metrics")
	}
}
