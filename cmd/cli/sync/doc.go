// Package sync assembles the CLI command that mirrors a hosting project's
// repositories into a local target directory.
package sync
