// Package action drives the resolver as a GitHub Actions step: it reads the
// step inputs, runs the traversal and publishes the matching ids as output.
package action

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sethvargo/go-githubactions"
)

// Input names as declared in action.yml.
const (
	InputVersion        = "version"
	InputToken          = "token"
	InputMatch          = "match"
	InputStrategy       = "strategy"
	InputGraphQLURL     = "graphql-url"
	InputRepository     = "repository"
	InputPushgatewayURL = "pushgateway-url"

	// OutputIDs is the comma-separated list of matching version ids.
	OutputIDs = "ids"
)

// Inputs holds the resolved configuration of one run.
type Inputs struct {
	Version string
	Token   string

	// Repository is "owner/name". It is split when the run starts, so a
	// malformed value from the environment can still be replaced by a flag.
	Repository string

	Match          string
	Strategy       string
	GraphQLURL     string
	PushgatewayURL string
}

// ReadInputs reads the step inputs. An empty token falls back to
// GITHUB_TOKEN; the repository and GraphQL endpoint fall back to the
// workflow context of the current run.
func ReadInputs(a *githubactions.Action) (Inputs, error) {
	in := Inputs{
		Version:        a.GetInput(InputVersion),
		Token:          a.GetInput(InputToken),
		Repository:     a.GetInput(InputRepository),
		Match:          a.GetInput(InputMatch),
		Strategy:       a.GetInput(InputStrategy),
		GraphQLURL:     a.GetInput(InputGraphQLURL),
		PushgatewayURL: a.GetInput(InputPushgatewayURL),
	}
	if in.Token == "" {
		in.Token = a.Getenv("GITHUB_TOKEN")
	}

	ghctx, err := a.Context()
	if err != nil {
		return in, fmt.Errorf("read workflow context: %w", err)
	}
	if in.GraphQLURL == "" {
		in.GraphQLURL = ghctx.GraphqlURL
	}
	if in.Repository == "" {
		in.Repository = ghctx.Repository
	}
	return in, nil
}

// SplitRepository splits "owner/name" into its two parts.
func SplitRepository(repository string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(strings.TrimSpace(repository), "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", fmt.Errorf("repository must be owner/name (got %q)", repository)
	}
	return owner, name, nil
}

// validate checks the required inputs and returns the split repository.
func (in Inputs) validate() (owner, name string, err error) {
	if strings.TrimSpace(in.Version) == "" {
		return "", "", &ConfigurationError{Input: InputVersion, Err: errors.New("a version pattern is required")}
	}
	owner, name, err = SplitRepository(in.Repository)
	if err != nil {
		return "", "", &ConfigurationError{Input: InputRepository, Err: err}
	}
	return owner, name, nil
}
