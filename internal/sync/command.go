package sync

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/burib/orgsync/internal/execshell"
	"github.com/burib/orgsync/internal/githubcli"
	"github.com/burib/orgsync/internal/gitrepo"
	"github.com/burib/orgsync/internal/ui"
	pathutils "github.com/burib/orgsync/internal/utils/path"
)

const (
	commandUseConstant                    = "sync organization [target-directory]"
	commandShortDescriptionConstant       = "Clone or update every repository of a GitHub organization"
	commandLongDescriptionConstant        = "sync fetches the organization's repository inventory once, clones repositories that are missing locally, rebases existing clones onto their upstreams, and leaves unrelated directories untouched."
	commandExecutionErrorTemplateConstant = "organization synchronization failed: %w"
	flagLimitNameConstant                 = "limit"
	flagLimitDescriptionConstant          = "Maximum number of repositories fetched from the organization inventory"
	flagDryRunNameConstant                = "dry-run"
	flagDryRunDescriptionConstant         = "Report planned clone and update actions without executing them"
	organizationArgumentIndexConstant     = 0
	targetDirectoryArgumentIndexConstant  = 1
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for organization synchronization.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	RepositoryLister             RepositoryLister
	RepositoryCloner             RepositoryCloner
	RepositoryUpdater            RepositoryUpdater
	AuthenticationVerifier       AuthenticationVerifier
	ToolLocator                  ToolLocator
	FileSystem                   FileSystem
	TokenResolver                TokenResolver
	HomeExpander                 *pathutils.HomeExpander
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.RangeArgs(1, 2),
		RunE:  builder.run,
	}

	command.Flags().Int(flagLimitNameConstant, 0, flagLimitDescriptionConstant)
	command.Flags().Bool(flagDryRunNameConstant, false, flagDryRunDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	options := builder.assembleOptions(command, arguments, configuration)

	logger := builder.resolveLogger()
	dependencies, dependenciesError := builder.resolveDependencies(logger, command)
	if dependenciesError != nil {
		return dependenciesError
	}

	service, serviceError := NewService(logger, dependencies)
	if serviceError != nil {
		return serviceError
	}

	_, runError := service.Run(command.Context(), options)
	if runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) assembleOptions(command *cobra.Command, arguments []string, configuration CommandConfiguration) SynchronizationOptions {
	options := SynchronizationOptions{
		Organization:    strings.TrimSpace(arguments[organizationArgumentIndexConstant]),
		TargetDirectory: configuration.TargetDirectory,
		RepositoryLimit: configuration.RepositoryLimit,
		DryRun:          configuration.DryRun,
	}

	if len(arguments) > targetDirectoryArgumentIndexConstant {
		options.TargetDirectory = strings.TrimSpace(arguments[targetDirectoryArgumentIndexConstant])
	}
	options.TargetDirectory = builder.resolveHomeExpander().Expand(options.TargetDirectory)

	if command.Flags().Changed(flagLimitNameConstant) {
		limitValue, _ := command.Flags().GetInt(flagLimitNameConstant)
		options.RepositoryLimit = limitValue
	}
	if command.Flags().Changed(flagDryRunNameConstant) {
		dryRunValue, _ := command.Flags().GetBool(flagDryRunNameConstant)
		options.DryRun = dryRunValue
	}

	return options
}

func (builder *CommandBuilder) resolveHomeExpander() *pathutils.HomeExpander {
	if builder.HomeExpander != nil {
		return builder.HomeExpander
	}
	return pathutils.NewHomeExpander()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveDependencies(logger *zap.Logger, command *cobra.Command) (Dependencies, error) {
	dependencies := Dependencies{
		RepositoryLister:       builder.RepositoryLister,
		RepositoryCloner:       builder.RepositoryCloner,
		RepositoryUpdater:      builder.RepositoryUpdater,
		AuthenticationVerifier: builder.AuthenticationVerifier,
		ToolLocator:            builder.ToolLocator,
		FileSystem:             builder.FileSystem,
		TokenResolver:          builder.TokenResolver,
		Output:                 command.OutOrStdout(),
	}

	if dependencies.RepositoryLister != nil && dependencies.RepositoryCloner != nil &&
		dependencies.RepositoryUpdater != nil && dependencies.AuthenticationVerifier != nil {
		return dependencies, nil
	}

	shellExecutor, executorError := builder.buildShellExecutor(logger)
	if executorError != nil {
		return Dependencies{}, executorError
	}

	githubClient, clientError := githubcli.NewClient(shellExecutor)
	if clientError != nil {
		return Dependencies{}, clientError
	}
	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return Dependencies{}, managerError
	}

	if dependencies.RepositoryLister == nil {
		dependencies.RepositoryLister = githubClient
	}
	if dependencies.RepositoryCloner == nil {
		dependencies.RepositoryCloner = githubClient
	}
	if dependencies.RepositoryUpdater == nil {
		dependencies.RepositoryUpdater = repositoryManager
	}
	if dependencies.AuthenticationVerifier == nil {
		dependencies.AuthenticationVerifier = githubClient
	}

	return dependencies, nil
}

func (builder *CommandBuilder) buildShellExecutor(logger *zap.Logger) (*execshell.ShellExecutor, error) {
	commandRunner := execshell.NewOSCommandRunner()

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	if humanReadableLogging {
		return execshell.NewShellExecutor(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}
