// Package gitrepo contains helpers for interrogating and manipulating Git repositories.
//
// It exposes RepositoryManager for inspecting working trees and branches and
// for pulling upstream changes, backed by the execshell git executor.
package gitrepo
