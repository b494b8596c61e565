package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/burib/orgsync/internal/execshell"
	"github.com/burib/orgsync/internal/gitrepo"
)

const (
	testRepositoryPathConstant              = "/workspace/acme_repos/widget"
	testBranchNameConstant                  = "main"
	testWorkTreeDetectedCaseNameConstant    = "work_tree_detected"
	testWorkTreeRejectedCaseNameConstant    = "work_tree_rejected"
	testWorkTreeCommandErrorCaseName        = "work_tree_command_error"
	testCleanWorktreeCaseNameConstant       = "clean_worktree"
	testDirtyWorktreeCaseNameConstant       = "dirty_worktree"
	testBlankRepositoryPathCaseNameConstant = "blank_repository_path"
)

type stubGitExecutor struct {
	executeFunc     func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error)
	recordedDetails []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	if executor.executeFunc != nil {
		return executor.executeFunc(executionContext, details)
	}
	return execshell.ExecutionResult{}, nil
}

func gitCommandFailure(exitCode int) (execshell.ExecutionResult, error) {
	failedCommand := execshell.ShellCommand{Name: execshell.CommandGit}
	return execshell.ExecutionResult{ExitCode: exitCode}, execshell.CommandFailedError{Command: failedCommand, Result: execshell.ExecutionResult{ExitCode: exitCode}}
}

func TestNewRepositoryManagerValidation(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.Error(testInstance, creationError)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestIsGitRepository(testInstance *testing.T) {
	testCases := []struct {
		name           string
		repositoryPath string
		executor       *stubGitExecutor
		expectedResult bool
		expectError    bool
	}{
		{
			name:           testWorkTreeDetectedCaseNameConstant,
			repositoryPath: testRepositoryPathConstant,
			executor: &stubGitExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: "true\n"}, nil
			}},
			expectedResult: true,
		},
		{
			name:           testWorkTreeRejectedCaseNameConstant,
			repositoryPath: testRepositoryPathConstant,
			executor: &stubGitExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return gitCommandFailure(128)
			}},
			expectedResult: false,
		},
		{
			name:           testWorkTreeCommandErrorCaseName,
			repositoryPath: testRepositoryPathConstant,
			executor: &stubGitExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{}, execshell.CommandExecutionError{Command: execshell.ShellCommand{Name: execshell.CommandGit}, Cause: errors.New("spawn failure")}
			}},
			expectError: true,
		},
		{
			name:           testBlankRepositoryPathCaseNameConstant,
			repositoryPath: "   ",
			executor:       &stubGitExecutor{},
			expectError:    true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			manager, creationError := gitrepo.NewRepositoryManager(testCase.executor)
			require.NoError(testInstance, creationError)

			insideWorkTree, detectionError := manager.IsGitRepository(context.Background(), testCase.repositoryPath)
			if testCase.expectError {
				require.Error(testInstance, detectionError)
				return
			}

			require.NoError(testInstance, detectionError)
			require.Equal(testInstance, testCase.expectedResult, insideWorkTree)
		})
	}
}

func TestCheckCleanWorktree(testInstance *testing.T) {
	testCases := []struct {
		name           string
		statusOutput   string
		expectedResult bool
	}{
		{
			name:           testCleanWorktreeCaseNameConstant,
			statusOutput:   "\n",
			expectedResult: true,
		},
		{
			name:           testDirtyWorktreeCaseNameConstant,
			statusOutput:   " M internal/service.go\n",
			expectedResult: false,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			stubExecutor := &stubGitExecutor{executeFunc: func(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
				return execshell.ExecutionResult{StandardOutput: testCase.statusOutput}, nil
			}}
			manager, creationError := gitrepo.NewRepositoryManager(stubExecutor)
			require.NoError(testInstance, creationError)

			cleanWorktree, statusError := manager.CheckCleanWorktree(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, statusError)
			require.Equal(testInstance, testCase.expectedResult, cleanWorktree)
			require.Len(testInstance, stubExecutor.recordedDetails, 1)
			require.Equal(testInstance, []string{"status", "--porcelain"}, stubExecutor.recordedDetails[0].Arguments)
		})
	}
}

func TestGetCurrentBranchTrimsOutput(testInstance *testing.T) {
	stubExecutor := &stubGitExecutor{executeFunc: func(context.Context, execshell.CommandDetails) (execshell.ExecutionResult, error) {
		return execshell.ExecutionResult{StandardOutput: "main\n"}, nil
	}}
	manager, creationError := gitrepo.NewRepositoryManager(stubExecutor)
	require.NoError(testInstance, creationError)

	branchName, branchError := manager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, testBranchNameConstant, branchName)
}

func TestPullWithRebaseDisablesTerminalPrompts(testInstance *testing.T) {
	stubExecutor := &stubGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(stubExecutor)
	require.NoError(testInstance, creationError)

	pullError := manager.PullWithRebase(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, pullError)
	require.Len(testInstance, stubExecutor.recordedDetails, 1)
	recordedDetails := stubExecutor.recordedDetails[0]
	require.Equal(testInstance, []string{"pull", "--rebase"}, recordedDetails.Arguments)
	require.Equal(testInstance, testRepositoryPathConstant, recordedDetails.WorkingDirectory)
	require.Equal(testInstance, "0", recordedDetails.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
}

func TestFetchWithPruneUsesRepositoryPath(testInstance *testing.T) {
	stubExecutor := &stubGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(stubExecutor)
	require.NoError(testInstance, creationError)

	fetchError := manager.FetchWithPrune(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, fetchError)
	require.Len(testInstance, stubExecutor.recordedDetails, 1)
	require.Equal(testInstance, []string{"fetch", "--prune"}, stubExecutor.recordedDetails[0].Arguments)
}

func TestCheckoutBranchValidatesBranchName(testInstance *testing.T) {
	stubExecutor := &stubGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(stubExecutor)
	require.NoError(testInstance, creationError)

	checkoutError := manager.CheckoutBranch(context.Background(), testRepositoryPathConstant, "  ")
	require.Error(testInstance, checkoutError)
	require.ErrorIs(testInstance, checkoutError, gitrepo.ErrBranchNameRequired)
	require.Empty(testInstance, stubExecutor.recordedDetails)
}
