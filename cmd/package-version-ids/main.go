package main

import (
	"os"

	"github.com/sethvargo/go-githubactions"
	"github.com/spf13/cobra"

	"github.com/Sternrassler/package-version-ids/internal/action"
	"github.com/Sternrassler/package-version-ids/pkg/logging"
)

// Version is the current version of package-version-ids
var Version = "0.1.0"

// options holds the command line flags. Flags that were set on the command
// line take precedence over the corresponding step inputs.
type options struct {
	version        string
	token          string
	repository     string
	match          string
	strategy       string
	graphqlURL     string
	pushgatewayURL string
	logLevel       string
	pretty         bool
}

func main() {
	if err := newRootCmd(githubactions.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *githubactions.Action) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "package-version-ids",
		Short: "Resolve GitHub Packages version ids matching a version pattern",
		Long: `package-version-ids walks all packages of a repository and all of their
versions through the GitHub GraphQL API and prints the ids of the versions
whose version string matches the given pattern.

Run as an Actions step it reads its configuration from the step inputs and
sets the comma-separated ids as the "ids" output. Flags override inputs.

Examples:
  package-version-ids --repository octo-org/octo-repo --version-pattern '1\.2\.3'
  package-version-ids --repository octo-org/octo-repo --match semver --version-pattern '>=2.0.0'`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(opts.logLevel)
			if err != nil {
				a.Errorf("%s", err.Error())
				return err
			}
			logging.Setup(logging.Config{
				Level:  logging.LevelFromEnv(a.Getenv, level),
				Pretty: opts.pretty,
				Output: cmd.ErrOrStderr(),
			})

			in, err := action.ReadInputs(a)
			if err != nil {
				a.Errorf("%s", err.Error())
				return err
			}
			opts.apply(cmd, &in)

			return action.Execute(cmd.Context(), a, in)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.version, "version-pattern", "", "version pattern to match (input: version)")
	flags.StringVar(&opts.token, "token", "", "GitHub token (input: token, env: GITHUB_TOKEN)")
	flags.StringVar(&opts.repository, "repository", "", "repository as owner/name (input: repository, env: GITHUB_REPOSITORY)")
	flags.StringVar(&opts.match, "match", "", "match mode: regex, exact or semver (input: match)")
	flags.StringVar(&opts.strategy, "strategy", "", "traversal strategy: drain or single-pass (input: strategy)")
	flags.StringVar(&opts.graphqlURL, "graphql-url", "", "GraphQL endpoint (input: graphql-url, env: GITHUB_GRAPHQL_URL)")
	flags.StringVar(&opts.pushgatewayURL, "pushgateway-url", "", "Prometheus Pushgateway to push run metrics to (input: pushgateway-url)")
	flags.StringVar(&opts.logLevel, "log-level", string(logging.LevelInfo), "log level: debug, info, warn or error")
	flags.BoolVar(&opts.pretty, "pretty", false, "human-readable log output")

	return cmd
}

// apply overlays the flags that were set explicitly onto in.
func (o *options) apply(cmd *cobra.Command, in *action.Inputs) {
	flags := cmd.Flags()

	if flags.Changed("version-pattern") {
		in.Version = o.version
	}
	if flags.Changed("token") {
		in.Token = o.token
	}
	if flags.Changed("match") {
		in.Match = o.match
	}
	if flags.Changed("strategy") {
		in.Strategy = o.strategy
	}
	if flags.Changed("graphql-url") {
		in.GraphQLURL = o.graphqlURL
	}
	if flags.Changed("pushgateway-url") {
		in.PushgatewayURL = o.pushgatewayURL
	}
	if flags.Changed("repository") {
		in.Repository = o.repository
	}
}
