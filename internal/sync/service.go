package sync

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/burib/orgsync/internal/githubauth"
	"github.com/burib/orgsync/internal/githubcli"
)

const (
	gitExecutableNameConstant               = "git"
	githubCLIExecutableNameConstant         = "gh"
	gitMetadataDirectoryNameConstant        = ".git"
	targetDirectoryPermissionsConstant      = fs.FileMode(0o755)
	defaultTargetDirectoryTemplateConstant  = "%s_repos"
	loggerNotConfiguredMessageConstant      = "logger not configured"
	listerNotConfiguredMessageConstant      = "repository lister not configured"
	clonerNotConfiguredMessageConstant      = "repository cloner not configured"
	updaterNotConfiguredMessageConstant     = "repository updater not configured"
	verifierNotConfiguredMessageConstant    = "authentication verifier not configured"
	organizationRequiredMessageConstant     = "organization name required"
	toolMissingTemplateConstant             = "required tool %s not found: %s"
	authenticationRequiredTemplateConstant  = "github cli authentication unavailable: %s"
	inventoryFailureTemplateConstant        = "repository inventory fetch for %s failed: %s"
	targetDirectoryFailureTemplateConstant  = "target directory %s could not be prepared: %s"
	syncFailuresTemplateConstant            = "synchronization completed with %d failed repositories"
	emptyInventoryTemplateConstant          = "No repositories found for %s.\n"
	summaryLineTemplateConstant             = "Synchronized %s into %s: %s\n"
	dryRunSummaryLineTemplateConstant       = "Planned synchronization of %s into %s: %s\n"
	logMessageRepositoryClonedConstant      = "cloned repository"
	logMessageRepositoryUpdatedConstant     = "updated repository"
	logMessageRepositorySkippedConstant     = "path exists but is not a git repository; leaving untouched"
	logMessageCloneFailedConstant           = "repository clone failed"
	logMessageUpdateFailedConstant          = "repository update failed"
	logMessageClassificationFailedConstant  = "local path classification failed"
	logMessageWouldCloneConstant            = "would clone repository"
	logMessageWouldUpdateConstant           = "would update repository"
	logFieldRepositoryConstant              = "repository"
	logFieldPathConstant                    = "path"
	logFieldErrorConstant                   = "error"
	logFieldOrganizationConstant            = "organization"
	logFieldRepositoryCountConstant         = "repository_count"
	logMessageInventoryFetchedConstant      = "fetched repository inventory"
	logMessageAuthenticationTokenFoundConst = "github token found in environment"
)

var (
	// ErrLoggerNotConfigured indicates the service was constructed without a logger.
	ErrLoggerNotConfigured = errors.New(loggerNotConfiguredMessageConstant)
	// ErrRepositoryListerNotConfigured indicates a missing repository lister.
	ErrRepositoryListerNotConfigured = errors.New(listerNotConfiguredMessageConstant)
	// ErrRepositoryClonerNotConfigured indicates a missing repository cloner.
	ErrRepositoryClonerNotConfigured = errors.New(clonerNotConfiguredMessageConstant)
	// ErrRepositoryUpdaterNotConfigured indicates a missing repository updater.
	ErrRepositoryUpdaterNotConfigured = errors.New(updaterNotConfiguredMessageConstant)
	// ErrAuthenticationVerifierNotConfigured indicates a missing authentication verifier.
	ErrAuthenticationVerifierNotConfigured = errors.New(verifierNotConfiguredMessageConstant)
	// ErrOrganizationRequired indicates a run was requested without an organization name.
	ErrOrganizationRequired = errors.New(organizationRequiredMessageConstant)
)

// ToolMissingError indicates a required executable is absent from the search path.
type ToolMissingError struct {
	ToolName string
	Cause    error
}

// Error describes the missing tool.
func (toolError ToolMissingError) Error() string {
	return fmt.Sprintf(toolMissingTemplateConstant, toolError.ToolName, toolError.Cause)
}

// Unwrap exposes the lookup failure.
func (toolError ToolMissingError) Unwrap() error {
	return toolError.Cause
}

// AuthenticationRequiredError indicates no usable GitHub credentials were found.
type AuthenticationRequiredError struct {
	Cause error
}

// Error describes the missing authentication.
func (authenticationError AuthenticationRequiredError) Error() string {
	return fmt.Sprintf(authenticationRequiredTemplateConstant, authenticationError.Cause)
}

// Unwrap exposes the underlying verification failure.
func (authenticationError AuthenticationRequiredError) Unwrap() error {
	return authenticationError.Cause
}

// InventoryError indicates the single repository inventory fetch failed.
type InventoryError struct {
	Organization string
	Cause        error
}

// Error describes the inventory failure.
func (inventoryError InventoryError) Error() string {
	return fmt.Sprintf(inventoryFailureTemplateConstant, inventoryError.Organization, inventoryError.Cause)
}

// Unwrap exposes the underlying listing failure.
func (inventoryError InventoryError) Unwrap() error {
	return inventoryError.Cause
}

// TargetDirectoryError indicates the destination tree could not be created.
type TargetDirectoryError struct {
	Path  string
	Cause error
}

// Error describes the directory preparation failure.
func (directoryError TargetDirectoryError) Error() string {
	return fmt.Sprintf(targetDirectoryFailureTemplateConstant, directoryError.Path, directoryError.Cause)
}

// Unwrap exposes the underlying filesystem failure.
func (directoryError TargetDirectoryError) Unwrap() error {
	return directoryError.Cause
}

// SyncFailuresError indicates one or more repositories failed to synchronize.
type SyncFailuresError struct {
	Summary RunSummary
}

// Error describes the partial failure.
func (failuresError SyncFailuresError) Error() string {
	return fmt.Sprintf(syncFailuresTemplateConstant, failuresError.Summary.Failed)
}

// SynchronizationOptions configures a single synchronization run.
type SynchronizationOptions struct {
	Organization    string
	TargetDirectory string
	RepositoryLimit int
	DryRun          bool
}

// Service reconciles a local directory tree with an organization's repositories.
type Service struct {
	logger       *zap.Logger
	dependencies Dependencies
}

// NewService validates dependencies and constructs the sync service.
func NewService(logger *zap.Logger, dependencies Dependencies) (*Service, error) {
	if logger == nil {
		return nil, ErrLoggerNotConfigured
	}
	if dependencies.RepositoryLister == nil {
		return nil, ErrRepositoryListerNotConfigured
	}
	if dependencies.RepositoryCloner == nil {
		return nil, ErrRepositoryClonerNotConfigured
	}
	if dependencies.RepositoryUpdater == nil {
		return nil, ErrRepositoryUpdaterNotConfigured
	}
	if dependencies.AuthenticationVerifier == nil {
		return nil, ErrAuthenticationVerifierNotConfigured
	}
	if dependencies.ToolLocator == nil {
		dependencies.ToolLocator = OSToolLocator{}
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = OSFileSystem{}
	}
	if dependencies.TokenResolver == nil {
		dependencies.TokenResolver = func() (string, bool) {
			return githubauth.ResolveToken(nil)
		}
	}
	if dependencies.Output == nil {
		dependencies.Output = os.Stdout
	}

	return &Service{logger: logger, dependencies: dependencies}, nil
}

// Run synchronizes the organization's repositories into the target directory.
//
// Preconditions are verified first; the repository inventory is fetched once;
// each repository is then cloned, updated, or skipped independently. The
// returned summary always partitions the inventory across the four outcomes.
func (service *Service) Run(executionContext context.Context, options SynchronizationOptions) (RunSummary, error) {
	organizationName := strings.TrimSpace(options.Organization)
	if len(organizationName) == 0 {
		return RunSummary{}, ErrOrganizationRequired
	}

	if preconditionError := service.verifyPreconditions(executionContext); preconditionError != nil {
		return RunSummary{}, preconditionError
	}

	repositoryLimit := options.RepositoryLimit
	if repositoryLimit <= 0 {
		repositoryLimit = DefaultRepositoryLimitConstant
	}

	repositories, listError := service.dependencies.RepositoryLister.ListOrganizationRepositories(executionContext, organizationName, repositoryLimit)
	if listError != nil {
		return RunSummary{}, InventoryError{Organization: organizationName, Cause: listError}
	}

	service.logger.Info(
		logMessageInventoryFetchedConstant,
		zap.String(logFieldOrganizationConstant, organizationName),
		zap.Int(logFieldRepositoryCountConstant, len(repositories)),
	)

	targetDirectory := service.resolveTargetDirectory(organizationName, options.TargetDirectory)

	summary := RunSummary{}
	if len(repositories) == 0 {
		fmt.Fprintf(service.dependencies.Output, emptyInventoryTemplateConstant, organizationName)
		return summary, nil
	}

	if !options.DryRun {
		if directoryError := service.dependencies.FileSystem.MkdirAll(targetDirectory, targetDirectoryPermissionsConstant); directoryError != nil {
			return RunSummary{}, TargetDirectoryError{Path: targetDirectory, Cause: directoryError}
		}
	}

	for _, repository := range repositories {
		outcome := service.reconcileRepository(executionContext, repository, targetDirectory, options.DryRun)
		summary.Record(outcome)
	}

	summaryTemplate := summaryLineTemplateConstant
	if options.DryRun {
		summaryTemplate = dryRunSummaryLineTemplateConstant
	}
	fmt.Fprintf(service.dependencies.Output, summaryTemplate, organizationName, targetDirectory, summary.String())

	if summary.Failed > 0 {
		return summary, SyncFailuresError{Summary: summary}
	}

	return summary, nil
}

func (service *Service) verifyPreconditions(executionContext context.Context) error {
	for _, executableName := range []string{gitExecutableNameConstant, githubCLIExecutableNameConstant} {
		if _, lookupError := service.dependencies.ToolLocator.LookPath(executableName); lookupError != nil {
			return ToolMissingError{ToolName: executableName, Cause: lookupError}
		}
	}

	if _, tokenFound := service.dependencies.TokenResolver(); tokenFound {
		service.logger.Debug(logMessageAuthenticationTokenFoundConst)
		return nil
	}

	if verificationError := service.dependencies.AuthenticationVerifier.CheckAuthentication(executionContext); verificationError != nil {
		return AuthenticationRequiredError{Cause: verificationError}
	}

	return nil
}

func (service *Service) resolveTargetDirectory(organizationName string, configuredTargetDirectory string) string {
	trimmedTargetDirectory := strings.TrimSpace(configuredTargetDirectory)
	if len(trimmedTargetDirectory) > 0 {
		return trimmedTargetDirectory
	}
	return fmt.Sprintf(defaultTargetDirectoryTemplateConstant, organizationName)
}

func (service *Service) reconcileRepository(executionContext context.Context, repository githubcli.Repository, targetDirectory string, dryRun bool) RepositoryOutcome {
	destinationPath := filepath.Join(targetDirectory, repository.Name())

	localPathState, classificationError := service.classifyLocalPath(destinationPath)
	if classificationError != nil {
		service.logger.Error(
			logMessageClassificationFailedConstant,
			zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
			zap.String(logFieldPathConstant, destinationPath),
			zap.Error(classificationError),
		)
		return OutcomeFailed
	}

	switch localPathState {
	case LocalPathStateAbsent:
		return service.cloneRepository(executionContext, repository, destinationPath, dryRun)
	case LocalPathStateRepository:
		return service.updateRepository(executionContext, repository, destinationPath, dryRun)
	default:
		service.logger.Warn(
			logMessageRepositorySkippedConstant,
			zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
			zap.String(logFieldPathConstant, destinationPath),
		)
		return OutcomeSkipped
	}
}

// classifyLocalPath places the destination into one of the three reconciliation
// states. Repository detection checks for git metadata at the path itself so a
// plain directory nested inside an unrelated working tree is still skipped.
func (service *Service) classifyLocalPath(destinationPath string) (LocalPathState, error) {
	_, statError := service.dependencies.FileSystem.Stat(destinationPath)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return LocalPathStateAbsent, nil
		}
		return LocalPathStateOccupied, statError
	}

	_, metadataStatError := service.dependencies.FileSystem.Stat(filepath.Join(destinationPath, gitMetadataDirectoryNameConstant))
	if metadataStatError != nil {
		if errors.Is(metadataStatError, fs.ErrNotExist) {
			return LocalPathStateOccupied, nil
		}
		return LocalPathStateOccupied, metadataStatError
	}

	return LocalPathStateRepository, nil
}

func (service *Service) cloneRepository(executionContext context.Context, repository githubcli.Repository, destinationPath string, dryRun bool) RepositoryOutcome {
	if dryRun {
		service.logger.Info(
			logMessageWouldCloneConstant,
			zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
			zap.String(logFieldPathConstant, destinationPath),
		)
		return OutcomeCloned
	}

	cloneError := service.dependencies.RepositoryCloner.CloneRepository(executionContext, repository.NameWithOwner, destinationPath)
	if cloneError != nil {
		service.logger.Error(
			logMessageCloneFailedConstant,
			zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
			zap.String(logFieldPathConstant, destinationPath),
			zap.Error(cloneError),
		)
		return OutcomeFailed
	}

	service.logger.Info(
		logMessageRepositoryClonedConstant,
		zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
		zap.String(logFieldPathConstant, destinationPath),
	)
	return OutcomeCloned
}

func (service *Service) updateRepository(executionContext context.Context, repository githubcli.Repository, destinationPath string, dryRun bool) RepositoryOutcome {
	if dryRun {
		service.logger.Info(
			logMessageWouldUpdateConstant,
			zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
			zap.String(logFieldPathConstant, destinationPath),
		)
		return OutcomeUpdated
	}

	updateError := service.dependencies.RepositoryUpdater.PullWithRebase(executionContext, destinationPath)
	if updateError != nil {
		service.logger.Error(
			logMessageUpdateFailedConstant,
			zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
			zap.String(logFieldPathConstant, destinationPath),
			zap.Error(updateError),
		)
		return OutcomeFailed
	}

	service.logger.Info(
		logMessageRepositoryUpdatedConstant,
		zap.String(logFieldRepositoryConstant, repository.NameWithOwner),
		zap.String(logFieldPathConstant, destinationPath),
	)
	return OutcomeUpdated
}
