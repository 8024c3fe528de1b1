// Package pagination traverses the two nested cursor levels of the GitHub
// Packages versions query: packages of a repository, and versions of each
// package on a packages page.
//
// Example usage:
//
//	traverser := pagination.NewTraverser(registryClient, pagination.DefaultConfig())
//	ids, err := traverser.Collect(ctx, match)
//
// The traverser:
//   - Starts both levels from their first page
//   - Follows the packages cursor until the registry reports no next page
//   - For every packages page, follows the versions cursors of its packages
//     (all of them with StrategyDrain, only the first batch with StrategySinglePass)
//   - Never sends a cursor pair twice
//   - Folds the matching ids of every fetched page into an insertion-ordered set
//   - Aborts on the first query error and returns no partial result
//
// Queries are issued strictly one at a time: the next cursor is only known once
// the current page has been parsed.
package pagination
