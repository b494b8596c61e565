// Package refresh rebases already-cloned repositories onto their upstreams.
package refresh
