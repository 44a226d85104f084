// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for the clone, ref-listing, checkout, and pull
// operations the mirroring workflow performs, along with clone URL parsing
// utilities used for diagnostics.
package gitrepo
