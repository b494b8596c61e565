// Package ui renders command lifecycle events for interactive console runs.
package ui
