package action

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-githubactions"

	"github.com/Sternrassler/package-version-ids/pkg/client"
	"github.com/Sternrassler/package-version-ids/pkg/logging"
	"github.com/Sternrassler/package-version-ids/pkg/matcher"
	"github.com/Sternrassler/package-version-ids/pkg/metrics"
	"github.com/Sternrassler/package-version-ids/pkg/pagination"
)

// pushTimeout bounds the metrics push at the end of a run.
const pushTimeout = 10 * time.Second

// Run resolves the ids of all versions matching in.Version. It reads no
// process state; all configuration comes from in.
func Run(ctx context.Context, in Inputs) ([]string, error) {
	owner, name, err := in.validate()
	if err != nil {
		return nil, err
	}

	mode, err := matcher.ParseMode(in.Match)
	if err != nil {
		return nil, &ConfigurationError{Input: InputMatch, Err: err}
	}
	match, err := matcher.New(mode, in.Version)
	if err != nil {
		return nil, &ConfigurationError{Input: InputVersion, Err: err}
	}
	strategy, err := pagination.ParseStrategy(in.Strategy)
	if err != nil {
		return nil, &ConfigurationError{Input: InputStrategy, Err: err}
	}

	cfg := client.DefaultConfig(owner, name, in.Token)
	if in.GraphQLURL != "" {
		cfg.Endpoint = in.GraphQLURL
	}
	registryClient, err := client.New(cfg)
	if err != nil {
		return nil, &ConfigurationError{Err: err}
	}

	config := pagination.DefaultConfig()
	config.Strategy = strategy

	ids, err := pagination.NewTraverser(registryClient, config).Collect(ctx, match)

	if quota, ok := registryClient.RateLimit(); ok {
		logger := logging.ForRepository("action", owner, name)
		logger.Info().
			Int("remaining", quota.Remaining).
			Int("used", quota.Used()).
			Time("reset_at", quota.ResetAt).
			Msg("GitHub API quota after traversal")
	}
	return ids, err
}

// Execute runs the resolver as a workflow step. On success the joined ids are
// logged and set as the "ids" output. On failure an error annotation is
// emitted, no output is set and the error is returned.
func Execute(ctx context.Context, a *githubactions.Action, in Inputs) error {
	// A malformed repository is reported by Run; here it only labels logs and metrics.
	owner, name, _ := SplitRepository(in.Repository)
	logger := logging.ForRepository("action", owner, name)
	if in.PushgatewayURL != "" {
		defer pushMetrics(ctx, logger, in.PushgatewayURL, owner, name)
	}

	a.Infof("Fetch IDs for %s", in.Version)

	ids, err := Run(ctx, in)
	if err != nil {
		logger.Error().Err(err).Msg("Version id resolution failed")
		a.Errorf("%s", err.Error())
		return err
	}

	joined := strings.Join(ids, ",")
	a.Infof("Found %d ids for version '%s': %s", len(ids), in.Version, joined)
	a.SetOutput(OutputIDs, joined)
	return nil
}

// pushMetrics sends the run's metrics to the Pushgateway. A failed push is
// logged and never fails the step.
func pushMetrics(ctx context.Context, logger zerolog.Logger, url, owner, name string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	grouping := map[string]string{
		"owner":      owner,
		"repository": name,
	}
	if err := metrics.Push(ctx, url, metrics.DefaultJob, grouping); err != nil {
		logger.Warn().Err(err).Msg("Metrics push failed")
		return
	}
	logger.Debug().Str("url", url).Msg("Metrics pushed")
}
