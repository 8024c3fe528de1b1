package action

import "fmt"

// ConfigurationError reports a missing or unusable input. It is raised before
// any query is sent.
type ConfigurationError struct {
	Input string
	Err   error
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("invalid configuration: %v", e.Err)
	}
	return fmt.Sprintf("invalid input %q: %v", e.Input, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *ConfigurationError) Unwrap() error {
	return e.Err
}
