package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v57/github"
)

// ErrorClass represents a classification of query failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors (bad token, unknown repository).
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents primary or secondary rate limit rejections.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network, timeout and cancellation errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassGraphQL represents errors reported in the GraphQL "errors" array.
	ErrorClassGraphQL ErrorClass = "graphql"

	// ErrorClassShape represents a response that does not have the expected shape.
	ErrorClassShape ErrorClass = "shape"
)

// TransportError is returned for every failed query. It is never retried.
type TransportError struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("registry %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("registry %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// GraphQLError is one entry of a GraphQL "errors" array.
type GraphQLError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// GraphQLErrors is the "errors" array of a failed GraphQL response.
type GraphQLErrors []GraphQLError

// Error implements the error interface.
func (e GraphQLErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, gqlErr := range e {
		if gqlErr.Type != "" {
			msgs = append(msgs, gqlErr.Type+": "+gqlErr.Message)
			continue
		}
		msgs = append(msgs, gqlErr.Message)
	}
	return strings.Join(msgs, "; ")
}

// classifyError categorizes an error returned by the GitHub client.
func classifyError(resp *github.Response, err error) (ErrorClass, int) {
	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}

	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var respErr *github.ErrorResponse
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError

	switch {
	case errors.As(err, &rateErr), errors.As(err, &abuseErr):
		return ErrorClassRateLimit, status
	case errors.As(err, &respErr):
		if respErr.Response != nil {
			status = respErr.Response.StatusCode
		}
		return classifyStatus(status), status
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrorClassShape, status
	default:
		return ErrorClassNetwork, status
	}
}

func classifyStatus(status int) ErrorClass {
	switch {
	case status >= http.StatusInternalServerError:
		return ErrorClassServer
	case status >= http.StatusBadRequest:
		return ErrorClassClient
	default:
		return ErrorClassNetwork
	}
}
