// Package registry models one page of the GitHub Packages versions query and
// provides the pure extractors the traversal folds into its result set.
package registry

import (
	"errors"
	"fmt"
)

// ErrMalformedPage indicates a page whose pagination metadata cannot be followed.
var ErrMalformedPage = errors.New("malformed page")

// Cursor is an opaque pagination token handed out by the registry.
type Cursor string

// Start asks the registry to begin a pagination level from its first page.
// It is sent upstream as null.
const Start Cursor = ""

// IsStart reports whether c begins a level from the first page.
func (c Cursor) IsStart() bool {
	return c == Start
}

// VersionRecord is one addressable version of one package.
type VersionRecord struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// PageInfo carries the continuation metadata of one connection.
type PageInfo struct {
	// HasNextPage is true when more nodes follow EndCursor.
	HasNextPage bool `json:"hasNextPage"`

	// EndCursor is the cursor of the last node on this page (empty when null).
	EndCursor string `json:"endCursor"`
}

// VersionConnection is one page of versions of a single package.
// Nodes may contain nil placeholders.
type VersionConnection struct {
	PageInfo PageInfo         `json:"pageInfo"`
	Nodes    []*VersionRecord `json:"nodes"`
}

// PackageNode is a package on a page, carrying one page of its versions.
type PackageNode struct {
	Versions VersionConnection `json:"versions"`
}

// PackageConnection is one page of packages.
type PackageConnection struct {
	PageInfo PageInfo       `json:"pageInfo"`
	Nodes    []*PackageNode `json:"nodes"`
}

// Page is the result of a single query execution.
type Page struct {
	Packages PackageConnection `json:"packages"`
}

// Validate checks that every announced next page can actually be requested.
func (p *Page) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil page", ErrMalformedPage)
	}
	if p.Packages.PageInfo.HasNextPage && p.Packages.PageInfo.EndCursor == "" {
		return fmt.Errorf("%w: packages report a next page without end cursor", ErrMalformedPage)
	}
	for i, pkg := range p.Packages.Nodes {
		if pkg == nil {
			continue
		}
		if pkg.Versions.PageInfo.HasNextPage && pkg.Versions.PageInfo.EndCursor == "" {
			return fmt.Errorf("%w: package %d reports a next versions page without end cursor", ErrMalformedPage, i)
		}
	}
	return nil
}
