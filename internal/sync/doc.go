// Package sync reconciles a local directory tree with the repositories of a
// GitHub organization.
//
// The service fetches the organization's repository inventory once through
// the GitHub CLI, classifies each expected local path, and then clones absent
// repositories, rebases existing clones onto their upstreams, and leaves
// unrelated directories untouched. Per-repository failures are recorded and
// reported without aborting the batch.
package sync
