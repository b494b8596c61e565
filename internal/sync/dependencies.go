package sync

import (
	"context"
	"io"
	"io/fs"
	"os"
	"os/exec"

	"github.com/burib/orgsync/internal/githubcli"
)

// RepositoryLister fetches the organization's repository inventory.
type RepositoryLister interface {
	ListOrganizationRepositories(executionContext context.Context, organization string, repositoryLimit int) ([]githubcli.Repository, error)
}

// RepositoryCloner clones a remote repository into a local destination.
type RepositoryCloner interface {
	CloneRepository(executionContext context.Context, repository string, destinationPath string) error
}

// RepositoryUpdater rebases an existing clone onto its upstream.
type RepositoryUpdater interface {
	PullWithRebase(executionContext context.Context, repositoryPath string) error
}

// AuthenticationVerifier confirms the GitHub CLI holds usable credentials.
type AuthenticationVerifier interface {
	CheckAuthentication(executionContext context.Context) error
}

// ToolLocator resolves external executables on the search path.
type ToolLocator interface {
	LookPath(executableName string) (string, error)
}

// FileSystem provides the filesystem operations required by synchronization.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
}

// TokenResolver reports a GitHub token from the environment when one exists.
type TokenResolver func() (string, bool)

// Dependencies bundles the collaborators required by the sync service.
type Dependencies struct {
	RepositoryLister       RepositoryLister
	RepositoryCloner       RepositoryCloner
	RepositoryUpdater      RepositoryUpdater
	AuthenticationVerifier AuthenticationVerifier
	ToolLocator            ToolLocator
	FileSystem             FileSystem
	TokenResolver          TokenResolver
	Output                 io.Writer
}

// OSToolLocator resolves executables using the process search path.
type OSToolLocator struct{}

// LookPath locates the executable via os/exec.
func (OSToolLocator) LookPath(executableName string) (string, error) {
	return exec.LookPath(executableName)
}

// OSFileSystem implements FileSystem with operating system calls.
type OSFileSystem struct{}

// Stat reports file information for the path.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// MkdirAll creates the directory path along with any missing parents.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}
