// Package mirror implements the repository synchronization engine.
//
// The Service lists every repository in a hosting project and drives a
// per-repository state machine: probe the local path, clone when absent,
// list remote-tracking refs, and fast-forward the most recently active
// branch. Failures scoped to one repository are reported through SyncOutcome
// values and never abort the batch.
package mirror
