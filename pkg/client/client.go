// Package client provides the GitHub GraphQL query executor that fetches one
// page of a repository's packages together with one page of their versions.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/Sternrassler/package-version-ids/pkg/logging"
	"github.com/Sternrassler/package-version-ids/pkg/ratelimit"
	"github.com/Sternrassler/package-version-ids/pkg/registry"
)

// Prometheus metrics for registry queries.
var (
	queryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pkgids_graphql_requests_total",
		Help: "Total GraphQL versions queries by HTTP status",
	}, []string{"status"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pkgids_graphql_request_duration_seconds",
		Help:    "GraphQL versions query duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	queryErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pkgids_graphql_errors_total",
		Help: "Total failed GraphQL versions queries by error class",
	}, []string{"class"})
)

const (
	// DefaultEndpoint is the public GitHub GraphQL endpoint.
	DefaultEndpoint = "https://api.github.com/graphql"

	// MaxPageSize is the largest "first" argument GitHub accepts on a connection.
	MaxPageSize = 100
)

// versionsQuery lists the packages of a repository with their versions. The
// versions cursor is applied to every package node on the page.
const versionsQuery = `query Versions($repo: String!, $owner: String!, $cursor_packages: String, $cursor_versions: String, $packages_first: Int!, $versions_first: Int!) {
  repository(name: $repo, owner: $owner) {
    packages(first: $packages_first, after: $cursor_packages) {
      pageInfo {
        endCursor
        hasNextPage
      }
      nodes {
        versions(first: $versions_first, after: $cursor_versions) {
          pageInfo {
            endCursor
            hasNextPage
          }
          nodes {
            id
            version
          }
        }
      }
    }
  }
}`

// Client executes versions queries against the registry.
type Client struct {
	gh     *github.Client
	config Config
	logger zerolog.Logger
	quota  *ratelimit.Tracker
}

// Config holds the client configuration.
type Config struct {
	// Owner and Repository select the repository whose packages are listed.
	Owner      string
	Repository string

	// Token is the bearer credential. Empty sends unauthenticated requests.
	Token string

	// Endpoint is the GraphQL endpoint URL.
	Endpoint string

	// UserAgent header sent with every request.
	UserAgent string

	// Page sizes of the packages and versions connections (1..100).
	PackagesPerPage int
	VersionsPerPage int

	// Timeout per request.
	Timeout time.Duration

	// HTTPClient is the base client the token transport wraps. It is copied, never modified.
	HTTPClient *http.Client
}

// DefaultConfig returns the configuration used against github.com.
func DefaultConfig(owner, repository, token string) Config {
	return Config{
		Owner:           owner,
		Repository:      repository,
		Token:           token,
		Endpoint:        DefaultEndpoint,
		UserAgent:       "package-version-ids",
		PackagesPerPage: MaxPageSize,
		VersionsPerPage: MaxPageSize,
		Timeout:         30 * time.Second,
	}
}

// New creates a new registry client.
func New(cfg Config) (*Client, error) {
	if cfg.Owner == "" {
		return nil, fmt.Errorf("owner is required")
	}

	if cfg.Repository == "" {
		return nil, fmt.Errorf("repository is required")
	}

	if cfg.PackagesPerPage < 1 || cfg.PackagesPerPage > MaxPageSize {
		return nil, fmt.Errorf("packages_per_page must be within 1..%d (got %d)", MaxPageSize, cfg.PackagesPerPage)
	}

	if cfg.VersionsPerPage < 1 || cfg.VersionsPerPage > MaxPageSize {
		return nil, fmt.Errorf("versions_per_page must be within 1..%d (got %d)", MaxPageSize, cfg.VersionsPerPage)
	}

	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if u, err := url.Parse(cfg.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint must be an absolute URL (got %q)", cfg.Endpoint)
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		base := *cfg.HTTPClient
		httpClient = &base
	}
	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}
	if cfg.Timeout > 0 {
		httpClient.Timeout = cfg.Timeout
	}

	gh := github.NewClient(httpClient)
	if cfg.UserAgent != "" {
		gh.UserAgent = cfg.UserAgent
	}

	logger := logging.ForRepository("registry-client", cfg.Owner, cfg.Repository)
	return &Client{
		gh:     gh,
		config: cfg,
		logger: logger,
		quota:  ratelimit.NewTracker(logger),
	}, nil
}

// RateLimit returns the quota reported by the last response, if any.
func (c *Client) RateLimit() (ratelimit.State, bool) {
	return c.quota.State()
}

type queryRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type queryResponse struct {
	Data *struct {
		Repository *struct {
			Packages *registry.PackageConnection `json:"packages"`
		} `json:"repository"`
	} `json:"data"`
	Errors GraphQLErrors `json:"errors"`
}

// Query fetches the packages page after outer, each package carrying its
// versions page after inner. registry.Start begins a level from its first page.
func (c *Client) Query(ctx context.Context, outer, inner registry.Cursor) (*registry.Page, error) {
	startTime := time.Now()
	defer func() {
		queryDuration.Observe(time.Since(startTime).Seconds())
	}()

	req, err := c.gh.NewRequest(http.MethodPost, c.config.Endpoint, c.request(outer, inner))
	if err != nil {
		return nil, c.fail(&TransportError{Class: ErrorClassNetwork, Message: "create request", Err: err})
	}

	c.logger.Debug().
		Str("outer_cursor", string(outer)).
		Str("inner_cursor", string(inner)).
		Msg("Executing versions query")

	var body queryResponse
	resp, err := c.gh.Do(ctx, req, &body)
	if resp != nil {
		c.quota.Record(resp.Rate)
	}
	if err != nil {
		class, status := classifyError(resp, err)
		if status > 0 {
			queryRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		} else {
			queryRequestsTotal.WithLabelValues("network_error").Inc()
		}
		return nil, c.fail(&TransportError{StatusCode: status, Class: class, Message: "versions query failed", Err: err})
	}
	status := resp.StatusCode
	queryRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()

	if len(body.Errors) > 0 {
		return nil, c.fail(&TransportError{StatusCode: status, Class: ErrorClassGraphQL, Message: "versions query rejected", Err: body.Errors})
	}
	if body.Data == nil || body.Data.Repository == nil {
		return nil, c.fail(&TransportError{StatusCode: status, Class: ErrorClassShape, Message: "response missing repository"})
	}
	if body.Data.Repository.Packages == nil {
		return nil, c.fail(&TransportError{StatusCode: status, Class: ErrorClassShape, Message: "response missing packages"})
	}

	page := &registry.Page{Packages: *body.Data.Repository.Packages}
	if err := page.Validate(); err != nil {
		return nil, c.fail(&TransportError{StatusCode: status, Class: ErrorClassShape, Message: "unusable page", Err: err})
	}

	c.logger.Debug().
		Str("outer_cursor", string(outer)).
		Str("inner_cursor", string(inner)).
		Int("packages", len(page.Packages.Nodes)).
		Bool("packages_has_next", page.Packages.PageInfo.HasNextPage).
		Dur("duration", time.Since(startTime)).
		Msg("Versions query complete")

	return page, nil
}

func (c *Client) request(outer, inner registry.Cursor) queryRequest {
	return queryRequest{
		Query: versionsQuery,
		Variables: map[string]any{
			"owner":           c.config.Owner,
			"repo":            c.config.Repository,
			"cursor_packages": cursorValue(outer),
			"cursor_versions": cursorValue(inner),
			"packages_first":  c.config.PackagesPerPage,
			"versions_first":  c.config.VersionsPerPage,
		},
	}
}

// fail records and logs a transport error before it is returned.
func (c *Client) fail(err *TransportError) error {
	queryErrorsTotal.WithLabelValues(string(err.Class)).Inc()
	c.logger.Warn().
		Err(err).
		Int("status", err.StatusCode).
		Str("error_class", string(err.Class)).
		Msg("Versions query failed")
	return err
}

// cursorValue maps registry.Start to a JSON null.
func cursorValue(c registry.Cursor) any {
	if c.IsStart() {
		return nil
	}
	return string(c)
}
