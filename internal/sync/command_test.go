package sync_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/burib/orgsync/internal/sync"
)

const (
	testFlagOverrideCaseNameConstant       = "flag_overrides_configuration"
	testConfigurationFallbackCaseName      = "configuration_supplies_defaults"
	testPositionalTargetCaseNameConstant   = "positional_target_directory"
	testConfiguredRepositoryLimitConstant  = 125
	testOverriddenRepositoryLimitConstant  = 10
	testConfiguredTargetDirectoryConstant  = "/workspace/from_configuration"
	testPositionalTargetDirectoryConstant  = "/workspace/from_arguments"
	testCommandOrganizationDomainsConstant = "acme"
)

func buildSyncCommandForTest(testInstance *testing.T, builder *sync.CommandBuilder, arguments []string) (string, error) {
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

func TestCommandBuilderRejectsMissingOrganizationArgument(testInstance *testing.T) {
	builder := &sync.CommandBuilder{
		LoggerProvider:         func() *zap.Logger { return zap.NewNop() },
		RepositoryLister:       &stubRepositoryLister{},
		RepositoryCloner:       &stubRepositoryCloner{},
		RepositoryUpdater:      &stubRepositoryUpdater{},
		AuthenticationVerifier: &stubAuthenticationVerifier{},
		ToolLocator:            &stubToolLocator{},
		FileSystem:             &fakeFileSystem{},
		TokenResolver:          func() (string, bool) { return "test-token", true },
	}

	_, executionError := buildSyncCommandForTest(testInstance, builder, []string{})

	require.Error(testInstance, executionError)
}

func TestCommandBuilderResolvesOptions(testInstance *testing.T) {
	testCases := []struct {
		name                    string
		configuration           sync.CommandConfiguration
		arguments               []string
		expectedRepositoryLimit int
		expectedDestinationRoot string
	}{
		{
			name: testConfigurationFallbackCaseName,
			configuration: sync.CommandConfiguration{
				TargetDirectory: testConfiguredTargetDirectoryConstant,
				RepositoryLimit: testConfiguredRepositoryLimitConstant,
			},
			arguments:               []string{testCommandOrganizationDomainsConstant},
			expectedRepositoryLimit: testConfiguredRepositoryLimitConstant,
			expectedDestinationRoot: testConfiguredTargetDirectoryConstant,
		},
		{
			name: testFlagOverrideCaseNameConstant,
			configuration: sync.CommandConfiguration{
				TargetDirectory: testConfiguredTargetDirectoryConstant,
				RepositoryLimit: testConfiguredRepositoryLimitConstant,
			},
			arguments:               []string{testCommandOrganizationDomainsConstant, "--limit", "10"},
			expectedRepositoryLimit: testOverriddenRepositoryLimitConstant,
			expectedDestinationRoot: testConfiguredTargetDirectoryConstant,
		},
		{
			name:                    testPositionalTargetCaseNameConstant,
			configuration:           sync.CommandConfiguration{RepositoryLimit: testConfiguredRepositoryLimitConstant},
			arguments:               []string{testCommandOrganizationDomainsConstant, testPositionalTargetDirectoryConstant},
			expectedRepositoryLimit: testConfiguredRepositoryLimitConstant,
			expectedDestinationRoot: testPositionalTargetDirectoryConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			lister := &stubRepositoryLister{repositories: repositoryInventory(testAbsentRepositoryConstant)}
			cloner := &stubRepositoryCloner{}
			fileSystem := &fakeFileSystem{}

			builder := &sync.CommandBuilder{
				LoggerProvider:         func() *zap.Logger { return zap.NewNop() },
				ConfigurationProvider:  func() sync.CommandConfiguration { return testCase.configuration },
				RepositoryLister:       lister,
				RepositoryCloner:       cloner,
				RepositoryUpdater:      &stubRepositoryUpdater{},
				AuthenticationVerifier: &stubAuthenticationVerifier{},
				ToolLocator:            &stubToolLocator{},
				FileSystem:             fileSystem,
				TokenResolver:          func() (string, bool) { return "test-token", true },
			}

			commandOutput, executionError := buildSyncCommandForTest(testInstance, builder, testCase.arguments)

			require.NoError(testInstance, executionError)
			require.Equal(testInstance, []string{testCommandOrganizationDomainsConstant}, lister.recordedOrgs)
			require.Equal(testInstance, []int{testCase.expectedRepositoryLimit}, lister.recordedCaps)
			require.Equal(testInstance, []string{testCase.expectedDestinationRoot}, fileSystem.createdPaths)
			require.Equal(testInstance, []string{filepath.Join(testCase.expectedDestinationRoot, "alpha")}, cloner.recordedDestinations)
			require.Contains(testInstance, commandOutput, "cloned 1")
		})
	}
}

func TestCommandBuilderReportsSynchronizationFailures(testInstance *testing.T) {
	lister := &stubRepositoryLister{
		repositories: repositoryInventory(testAbsentRepositoryConstant),
	}
	cloner := &stubRepositoryCloner{cloneErrors: map[string]error{
		testAbsentRepositoryConstant: errors.New(testCloneFailureMessageConstant),
	}}

	builder := &sync.CommandBuilder{
		LoggerProvider:         func() *zap.Logger { return zap.NewNop() },
		RepositoryLister:       lister,
		RepositoryCloner:       cloner,
		RepositoryUpdater:      &stubRepositoryUpdater{},
		AuthenticationVerifier: &stubAuthenticationVerifier{},
		ToolLocator:            &stubToolLocator{},
		FileSystem:             &fakeFileSystem{},
		TokenResolver:          func() (string, bool) { return "test-token", true },
	}

	_, executionError := buildSyncCommandForTest(testInstance, builder, []string{testCommandOrganizationDomainsConstant})

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), "organization synchronization failed")
}
