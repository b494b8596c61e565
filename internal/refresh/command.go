package refresh

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/burib/orgsync/internal/execshell"
	"github.com/burib/orgsync/internal/gitrepo"
	"github.com/burib/orgsync/internal/ui"
	pathutils "github.com/burib/orgsync/internal/utils/path"
)

const (
	commandUseConstant                    = "refresh [repository-path...]"
	commandShortDescriptionConstant       = "Fetch and rebase existing clones onto their upstreams"
	commandLongDescriptionConstant        = "refresh fetches remote updates for each repository path, optionally switches to a configured branch, and rebases the checked-out branch onto its upstream."
	commandExecutionErrorTemplateConstant = "repository refresh failed: %w"
	flagBranchNameConstant                = "branch"
	flagBranchDescriptionConstant         = "Branch to check out before rebasing"
	flagRequireCleanNameConstant          = "require-clean"
	flagRequireCleanDescriptionConstant   = "Refuse to refresh repositories with uncommitted changes"
	refreshSuccessMessageTemplateConstant = "REFRESHED: %s (%s)\n"
	defaultRepositoryPathConstant         = "."
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the Cobra command for repository refresh.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	RepositoryManager            RepositoryManager
	HomeExpander                 *pathutils.HomeExpander
}

// Build constructs the refresh command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	command.Flags().String(flagBranchNameConstant, "", flagBranchDescriptionConstant)
	command.Flags().Bool(flagRequireCleanNameConstant, true, flagRequireCleanDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	branchName := configuration.BranchName
	if command.Flags().Changed(flagBranchNameConstant) {
		branchValue, _ := command.Flags().GetString(flagBranchNameConstant)
		branchName = strings.TrimSpace(branchValue)
	}

	requireClean := configuration.RequireClean
	if command.Flags().Changed(flagRequireCleanNameConstant) {
		requireCleanValue, _ := command.Flags().GetBool(flagRequireCleanNameConstant)
		requireClean = requireCleanValue
	}

	repositoryPaths := builder.resolveRepositoryPaths(arguments, configuration)

	repositoryManager, managerError := builder.resolveRepositoryManager()
	if managerError != nil {
		return managerError
	}

	service, serviceCreationError := NewService(Dependencies{RepositoryManager: repositoryManager})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	for _, repositoryPath := range repositoryPaths {
		refreshResult, refreshError := service.Refresh(command.Context(), Options{
			RepositoryPath: repositoryPath,
			BranchName:     branchName,
			RequireClean:   requireClean,
		})
		if refreshError != nil {
			return fmt.Errorf(commandExecutionErrorTemplateConstant, refreshError)
		}
		fmt.Fprintf(command.OutOrStdout(), refreshSuccessMessageTemplateConstant, refreshResult.RepositoryPath, refreshResult.BranchName)
	}

	return nil
}

func (builder *CommandBuilder) resolveRepositoryPaths(arguments []string, configuration CommandConfiguration) []string {
	homeExpander := builder.resolveHomeExpander()

	repositoryPaths := make([]string, 0, len(arguments))
	for _, argument := range arguments {
		trimmedArgument := strings.TrimSpace(argument)
		if len(trimmedArgument) == 0 {
			continue
		}
		repositoryPaths = append(repositoryPaths, homeExpander.Expand(trimmedArgument))
	}
	if len(repositoryPaths) > 0 {
		return repositoryPaths
	}
	if len(configuration.RepositoryRoots) > 0 {
		expandedRoots := make([]string, 0, len(configuration.RepositoryRoots))
		for _, configuredRoot := range configuration.RepositoryRoots {
			expandedRoots = append(expandedRoots, homeExpander.Expand(configuredRoot))
		}
		return expandedRoots
	}
	return []string{defaultRepositoryPathConstant}
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

func (builder *CommandBuilder) resolveRepositoryManager() (RepositoryManager, error) {
	if builder.RepositoryManager != nil {
		return builder.RepositoryManager, nil
	}

	logger := builder.resolveLogger()
	commandRunner := execshell.NewOSCommandRunner()

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	var shellExecutor *execshell.ShellExecutor
	var executorError error
	if humanReadableLogging {
		shellExecutor, executorError = execshell.NewShellExecutor(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	} else {
		shellExecutor, executorError = execshell.NewShellExecutor(logger, commandRunner)
	}
	if executorError != nil {
		return nil, executorError
	}

	return gitrepo.NewRepositoryManager(shellExecutor)
}
