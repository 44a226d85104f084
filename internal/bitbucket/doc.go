// Package bitbucket implements the REST client used to enumerate the
// repositories that belong to a hosting project.
//
// The client speaks the 1.0 project repository API, follows paging offsets
// until the advertised total is collected, and reports failures through typed
// transport, authentication, and decode errors so callers can distinguish bad
// credentials from flaky networks.
package bitbucket
