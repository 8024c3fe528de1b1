// Package matcher compiles a caller-supplied version specifier into the
// predicate the traversal filters versions with.
package matcher

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// ErrEmptyPattern is returned when no version specifier was given.
	ErrEmptyPattern = errors.New("version pattern is empty")

	// ErrUnknownMode is returned for an unsupported match mode.
	ErrUnknownMode = errors.New("unknown match mode")
)

// Func reports whether a version string matches.
type Func func(version string) bool

// Mode selects how a specifier is interpreted.
type Mode string

const (
	// ModeRegex treats the specifier as a regular expression anchored at both ends.
	ModeRegex Mode = "regex"

	// ModeExact requires string equality.
	ModeExact Mode = "exact"

	// ModeSemver treats the specifier as a semantic version constraint (">= 1.2, < 2").
	ModeSemver Mode = "semver"
)

// ParseMode converts a configuration value into a Mode. Empty selects ModeRegex.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeRegex:
		return ModeRegex, nil
	case ModeExact:
		return ModeExact, nil
	case ModeSemver:
		return ModeSemver, nil
	default:
		return "", fmt.Errorf("%w: %q (want regex, exact or semver)", ErrUnknownMode, s)
	}
}

// New compiles specifier according to mode.
func New(mode Mode, specifier string) (Func, error) {
	if specifier == "" {
		return nil, ErrEmptyPattern
	}

	switch mode {
	case ModeRegex, "":
		return Regex(specifier)
	case ModeExact:
		return Exact(specifier), nil
	case ModeSemver:
		return Semver(specifier)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// Regex matches versions against pattern as a whole, i.e. ^(?:pattern)$.
func Regex(pattern string) (Func, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")$")
	if err != nil {
		return nil, fmt.Errorf("compile version pattern %q: %w", pattern, err)
	}
	return re.MatchString, nil
}

// Exact matches only the identical version string.
func Exact(version string) Func {
	return func(v string) bool {
		return v == version
	}
}

// Semver matches versions satisfying constraint. Versions that are not
// semantic versions never match.
func Semver(constraint string) (Func, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return nil, fmt.Errorf("parse semver constraint %q: %w", constraint, err)
	}
	return func(v string) bool {
		parsed, err := semver.NewVersion(v)
		if err != nil {
			return false
		}
		return c.Check(parsed)
	}, nil
}
