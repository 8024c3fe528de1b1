package testutil

import "github.com/Sternrassler/package-version-ids/pkg/registry"

// Version builds a version record.
func Version(id, version string) *registry.VersionRecord {
	return &registry.VersionRecord{ID: id, Version: version}
}

// Package builds a package node. A non-empty next marks the versions
// connection as having another page after that cursor.
func Package(next string, versions ...*registry.VersionRecord) *registry.PackageNode {
	return &registry.PackageNode{
		Versions: registry.VersionConnection{
			PageInfo: pageInfo(next),
			Nodes:    versions,
		},
	}
}

// NewPage builds a page of packages. A non-empty next marks the packages
// connection as having another page after that cursor.
func NewPage(next string, packages ...*registry.PackageNode) *registry.Page {
	return &registry.Page{
		Packages: registry.PackageConnection{
			PageInfo: pageInfo(next),
			Nodes:    packages,
		},
	}
}

func pageInfo(next string) registry.PageInfo {
	if next == "" {
		return registry.PageInfo{}
	}
	return registry.PageInfo{HasNextPage: true, EndCursor: next}
}
