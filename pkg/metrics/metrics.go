// Package metrics exposes the Prometheus registry shared by the engage
// packages and writes it out at the end of a run.
// Collectors are defined in the package that owns the event (client,
// pagination, dispatch) and registered with promauto.With(Registry).
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the registerer every engage collector is added to. It must
// stay paired with Gatherer so WriteTextfile sees every collector.
var Registry = prometheus.DefaultRegisterer

// Gatherer is read by WriteTextfile.
var Gatherer = prometheus.DefaultGatherer

// WriteTextfile writes all gathered metrics to path in the Prometheus text
// format, for the node exporter textfile collector. The file is replaced
// atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Gatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - engage_http_requests_total{method, status} (Counter): Outbound requests by method and HTTP status
//   - engage_http_request_duration_seconds{method} (Histogram): Request duration by method
//   - engage_http_errors_total{class} (Counter): Failures by class (client, server, network, decode)
//
// Feed Metrics (pkg/pagination):
//   - engage_feed_pages_total (Counter): Feed pages fetched, including the final empty page
//   - engage_feed_posts_total (Counter): Posts received from the feed
//
// Dispatch Metrics (pkg/dispatch):
//   - engage_reactions_total (Counter): Reactions added
//   - engage_reaction_failures_total (Counter): Reaction requests that aborted the run
//
// Example Prometheus Queries:
//
//   # Reactions added by the last run
//   engage_reactions_total
//
//   # Rejected requests by class
//   sum by (class) (engage_http_errors_total)
