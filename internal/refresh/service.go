package refresh

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	repositoryPathRequiredMessageConstant   = "repository path must be provided"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	worktreeNotCleanMessageConstant         = "repository worktree is not clean"
	cleanVerificationErrorTemplateConstant  = "failed to verify clean worktree: %w"
	fetchFailureTemplateConstant            = "failed to fetch updates: %w"
	checkoutFailureTemplateConstant         = "failed to checkout branch %q: %w"
	pullFailureTemplateConstant             = "failed to rebase onto upstream: %w"
	branchResolutionFailureTemplateConstant = "failed to resolve current branch: %w"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrWorktreeNotClean indicates the repository contains uncommitted changes.
var ErrWorktreeNotClean = errors.New(worktreeNotCleanMessageConstant)

// RepositoryManager exposes the git operations required to refresh a clone.
type RepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	FetchWithPrune(executionContext context.Context, repositoryPath string) error
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	PullWithRebase(executionContext context.Context, repositoryPath string) error
}

// Dependencies enumerates external collaborators required for refresh operations.
type Dependencies struct {
	RepositoryManager RepositoryManager
}

// Options configures a repository refresh operation.
type Options struct {
	RepositoryPath string
	BranchName     string
	RequireClean   bool
}

// Result captures the observable outcomes of a refresh.
type Result struct {
	RepositoryPath string
	BranchName     string
}

// Service coordinates repository refresh operations through git.
type Service struct {
	repositoryManager RepositoryManager
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	return &Service{repositoryManager: dependencies.RepositoryManager}, nil
}

// Refresh fetches remote updates and rebases the repository onto its upstream.
//
// When a branch name is supplied the repository is switched to that branch
// first; otherwise the currently checked-out branch is refreshed in place.
func (service *Service) Refresh(executionContext context.Context, options Options) (Result, error) {
	trimmedRepositoryPath := strings.TrimSpace(options.RepositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return Result{}, ErrRepositoryPathRequired
	}

	if options.RequireClean {
		clean, cleanError := service.repositoryManager.CheckCleanWorktree(executionContext, trimmedRepositoryPath)
		if cleanError != nil {
			return Result{}, fmt.Errorf(cleanVerificationErrorTemplateConstant, cleanError)
		}
		if !clean {
			return Result{}, ErrWorktreeNotClean
		}
	}

	if fetchError := service.repositoryManager.FetchWithPrune(executionContext, trimmedRepositoryPath); fetchError != nil {
		return Result{}, fmt.Errorf(fetchFailureTemplateConstant, fetchError)
	}

	trimmedBranchName := strings.TrimSpace(options.BranchName)
	if len(trimmedBranchName) > 0 {
		if checkoutError := service.repositoryManager.CheckoutBranch(executionContext, trimmedRepositoryPath, trimmedBranchName); checkoutError != nil {
			return Result{}, fmt.Errorf(checkoutFailureTemplateConstant, trimmedBranchName, checkoutError)
		}
	} else {
		currentBranchName, branchError := service.repositoryManager.GetCurrentBranch(executionContext, trimmedRepositoryPath)
		if branchError != nil {
			return Result{}, fmt.Errorf(branchResolutionFailureTemplateConstant, branchError)
		}
		trimmedBranchName = currentBranchName
	}

	if pullError := service.repositoryManager.PullWithRebase(executionContext, trimmedRepositoryPath); pullError != nil {
		return Result{}, fmt.Errorf(pullFailureTemplateConstant, pullError)
	}

	return Result{RepositoryPath: trimmedRepositoryPath, BranchName: trimmedBranchName}, nil
}
