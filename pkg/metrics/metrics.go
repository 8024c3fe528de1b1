// Package metrics provides the Prometheus registry used by the resolver and
// pushes it to a Pushgateway at the end of a run.
// All metrics are defined in their respective packages (client, pagination)
// to maintain modularity and avoid circular dependencies.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry is the default Prometheus registry. All metrics are automatically
// registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer is what Push sends.
var Gatherer prometheus.Gatherer = prometheus.DefaultGatherer

// DefaultJob is the Pushgateway job name used by the action.
const DefaultJob = "package_version_ids"

// Push replaces the metrics of job (and grouping) on the Pushgateway at url.
// A single run is too short-lived to be scraped, so it pushes instead.
func Push(ctx context.Context, url, job string, grouping map[string]string) error {
	if url == "" {
		return fmt.Errorf("pushgateway url is required")
	}
	if job == "" {
		job = DefaultJob
	}

	pusher := push.New(url, job).Gatherer(Gatherer)

	for name, value := range grouping {
		pusher = pusher.Grouping(name, value)
	}

	if err := pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// Metrics Documentation
//
// Query Metrics (pkg/client):
//   - pkgids_graphql_requests_total{status} (Counter): GraphQL queries by HTTP status
//   - pkgids_graphql_request_duration_seconds (Histogram): query duration
//   - pkgids_graphql_errors_total{class} (Counter): failed queries by class
//     (client, server, rate_limit, network, graphql, shape)
//
// Traversal Metrics (pkg/pagination):
//   - pkgids_traversal_fetches_total{level} (Counter): pages fetched by level (packages, versions)
//   - pkgids_traversal_duration_seconds (Histogram): duration of completed traversals
//   - pkgids_traversal_matches (Gauge): distinct ids matched by the last traversal
//
// Example Prometheus Queries:
//
//   # Pages per run
//   sum by (level) (pkgids_traversal_fetches_total)
//
//   # Failed queries by class
//   sum by (class) (pkgids_graphql_errors_total)
