package registry

// MatchingIDs returns the ids of all versions on the page whose version string
// satisfies match, in page order. Nil packages and nil version placeholders are skipped.
func MatchingIDs(page *Page, match func(version string) bool) []string {
	if page == nil || match == nil {
		return nil
	}

	var ids []string
	for _, pkg := range page.Packages.Nodes {
		if pkg == nil {
			continue
		}
		for _, v := range pkg.Versions.Nodes {
			if v == nil {
				continue
			}
			if match(v.Version) {
				ids = append(ids, v.ID)
			}
		}
	}
	return ids
}

// OuterCursors returns the package-level continuation cursor, if any.
func OuterCursors(page *Page) []Cursor {
	if page == nil || !page.Packages.PageInfo.HasNextPage {
		return nil
	}
	return []Cursor{Cursor(page.Packages.PageInfo.EndCursor)}
}

// InnerCursors returns the version-level continuation cursor of every package
// on the page that has more versions, in package order.
func InnerCursors(page *Page) []Cursor {
	if page == nil {
		return nil
	}

	var cursors []Cursor
	for _, pkg := range page.Packages.Nodes {
		if pkg == nil || !pkg.Versions.PageInfo.HasNextPage {
			continue
		}
		cursors = append(cursors, Cursor(pkg.Versions.PageInfo.EndCursor))
	}
	return cursors
}
