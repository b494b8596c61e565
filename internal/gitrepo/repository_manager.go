package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/burib/orgsync/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant    = "git executor not configured"
	repositoryPathRequiredMessageConstant   = "repository path required"
	branchNameRequiredMessageConstant       = "branch name required"
	statusSubcommandConstant                = "status"
	porcelainFlagConstant                   = "--porcelain"
	revParseSubcommandConstant              = "rev-parse"
	insideWorkTreeFlagConstant              = "--is-inside-work-tree"
	abbreviatedReferenceFlagConstant        = "--abbrev-ref"
	headReferenceConstant                   = "HEAD"
	pullSubcommandConstant                  = "pull"
	rebaseFlagConstant                      = "--rebase"
	fetchSubcommandConstant                 = "fetch"
	pruneFlagConstant                       = "--prune"
	checkoutSubcommandConstant              = "checkout"
	insideWorkTreeAffirmativeOutputConstant = "true"
	terminalPromptEnvironmentKeyConstant    = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant     = "0"
)

var (
	// ErrExecutorNotConfigured indicates the manager was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
	// ErrRepositoryPathRequired indicates an operation received a blank repository path.
	ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)
	// ErrBranchNameRequired indicates a checkout request without a branch name.
	ErrBranchNameRequired = errors.New(branchNameRequiredMessageConstant)
)

// GitCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs git operations against local working trees.
type RepositoryManager struct {
	executor GitCommandExecutor
}

// NewRepositoryManager constructs a RepositoryManager from the provided executor.
func NewRepositoryManager(executor GitCommandExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// IsGitRepository reports whether the path is inside a git working tree.
func (manager *RepositoryManager) IsGitRepository(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return false, ErrRepositoryPathRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, insideWorkTreeFlagConstant},
		WorkingDirectory: trimmedRepositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			return false, nil
		}
		return false, executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput) == insideWorkTreeAffirmativeOutputConstant, nil
}

// CheckCleanWorktree reports whether the repository has no uncommitted changes.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return false, ErrRepositoryPathRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{statusSubcommandConstant, porcelainFlagConstant},
		WorkingDirectory: trimmedRepositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return false, executionError
	}

	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// GetCurrentBranch resolves the abbreviated name of the checked-out branch.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", ErrRepositoryPathRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{revParseSubcommandConstant, abbreviatedReferenceFlagConstant, headReferenceConstant},
		WorkingDirectory: trimmedRepositoryPath,
	}

	executionResult, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// PullWithRebase rebases the current branch onto its upstream without prompting for credentials.
func (manager *RepositoryManager) PullWithRebase(executionContext context.Context, repositoryPath string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:            []string{pullSubcommandConstant, rebaseFlagConstant},
		WorkingDirectory:     trimmedRepositoryPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// FetchWithPrune updates remote tracking references and removes stale ones.
func (manager *RepositoryManager) FetchWithPrune(executionContext context.Context, repositoryPath string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:            []string{fetchSubcommandConstant, pruneFlagConstant},
		WorkingDirectory:     trimmedRepositoryPath,
		EnvironmentVariables: nonInteractiveEnvironment(),
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// CheckoutBranch switches the repository to the named branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return ErrBranchNameRequired
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, trimmedBranchName},
		WorkingDirectory: trimmedRepositoryPath,
	}

	_, executionError := manager.executor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

func nonInteractiveEnvironment() map[string]string {
	return map[string]string{terminalPromptEnvironmentKeyConstant: terminalPromptDisabledValueConstant}
}
