package refresh_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burib/orgsync/internal/refresh"
)

const (
	testConfiguredRootConstant         = "/workspace/acme_repos/widget"
	testSecondConfiguredRootConstant   = "/workspace/acme_repos/gadget"
	testConfiguredBranchNameConstant   = "release"
	testArgumentsCaseNameConstant      = "arguments_override_configured_roots"
	testConfiguredRootsCaseName        = "configured_roots_used_without_arguments"
	testDefaultPathCaseNameConstant    = "current_directory_used_as_fallback"
)

func executeRefreshCommand(testInstance *testing.T, builder *refresh.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuilder := &strings.Builder{}
	command.SetOut(outputBuilder)
	command.SetErr(outputBuilder)
	command.SetArgs(arguments)
	command.SetContext(context.Background())

	executionError := command.Execute()
	return outputBuilder.String(), executionError
}

func TestCommandBuilderResolvesRepositoryPaths(testInstance *testing.T) {
	testCases := []struct {
		name            string
		configuration   refresh.CommandConfiguration
		arguments       []string
		expectedOutputs []string
	}{
		{
			name: testArgumentsCaseNameConstant,
			configuration: refresh.CommandConfiguration{
				RepositoryRoots: []string{testSecondConfiguredRootConstant},
			},
			arguments:       []string{testConfiguredRootConstant},
			expectedOutputs: []string{"REFRESHED: " + testConfiguredRootConstant},
		},
		{
			name: testConfiguredRootsCaseName,
			configuration: refresh.CommandConfiguration{
				RepositoryRoots: []string{testConfiguredRootConstant, testSecondConfiguredRootConstant},
			},
			expectedOutputs: []string{
				"REFRESHED: " + testConfiguredRootConstant,
				"REFRESHED: " + testSecondConfiguredRootConstant,
			},
		},
		{
			name:            testDefaultPathCaseNameConstant,
			expectedOutputs: []string{"REFRESHED: ."},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			manager := &stubRepositoryManager{cleanWorktree: true, currentBranchName: "main"}
			builder := &refresh.CommandBuilder{
				LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider: func() refresh.CommandConfiguration { return testCase.configuration },
				RepositoryManager:     manager,
			}

			commandOutput, executionError := executeRefreshCommand(testInstance, builder, testCase.arguments)

			require.NoError(testInstance, executionError)
			for _, expectedOutput := range testCase.expectedOutputs {
				require.Contains(testInstance, commandOutput, expectedOutput)
			}
		})
	}
}

func TestCommandBuilderBranchFlagOverridesConfiguration(testInstance *testing.T) {
	manager := &stubRepositoryManager{cleanWorktree: true}
	builder := &refresh.CommandBuilder{
		LoggerProvider: func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() refresh.CommandConfiguration {
			return refresh.CommandConfiguration{BranchName: testConfiguredBranchNameConstant, RequireClean: true}
		},
		RepositoryManager: manager,
	}

	commandOutput, executionError := executeRefreshCommand(testInstance, builder, []string{testConfiguredRootConstant, "--branch", "main"})

	require.NoError(testInstance, executionError)
	require.Contains(testInstance, commandOutput, "REFRESHED: "+testConfiguredRootConstant+" (main)")
	require.Contains(testInstance, manager.recordedCalls, "checkout")
}

func TestCommandBuilderSurfacesRefreshFailures(testInstance *testing.T) {
	manager := &stubRepositoryManager{cleanWorktree: false}
	builder := &refresh.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		ConfigurationProvider: func() refresh.CommandConfiguration { return refresh.CommandConfiguration{RequireClean: true} },
		RepositoryManager:     manager,
	}

	_, executionError := executeRefreshCommand(testInstance, builder, []string{testConfiguredRootConstant})

	require.Error(testInstance, executionError)
	require.ErrorIs(testInstance, executionError, refresh.ErrWorktreeNotClean)
}
