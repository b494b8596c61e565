package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/burib/orgsync/internal/execshell"
)

const (
	repoSubcommandConstant                  = "repo"
	listSubcommandConstant                  = "list"
	cloneSubcommandConstant                 = "clone"
	authSubcommandConstant                  = "auth"
	statusSubcommandConstant                = "status"
	jsonFlagConstant                        = "--json"
	limitFlagConstant                       = "--limit"
	noArchivedFlagConstant                  = "--no-archived"
	repositoryListJSONFieldsConstant        = "nameWithOwner"
	ownerFieldNameConstant                  = "owner"
	repositoryFieldNameConstant             = "repository"
	destinationFieldNameConstant            = "destination"
	limitFieldNameConstant                  = "limit"
	requiredValueMessageConstant            = "value required"
	positiveValueMessageConstant            = "value must be positive"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	repositoryOwnerSeparatorConstant        = "/"
	listRepositoriesOperationNameConstant   = OperationName("ListOrganizationRepositories")
	cloneRepositoryOperationNameConstant    = OperationName("CloneRepository")
	checkAuthenticationOperationName        = OperationName("CheckAuthentication")
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// Repository identifies a GitHub repository by its owner-qualified name.
type Repository struct {
	NameWithOwner string
}

// Name returns the repository name without its owner prefix.
func (repository Repository) Name() string {
	separatorIndex := strings.LastIndex(repository.NameWithOwner, repositoryOwnerSeparatorConstant)
	if separatorIndex < 0 {
		return repository.NameWithOwner
	}
	return repository.NameWithOwner[separatorIndex+1:]
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// ListOrganizationRepositories enumerates non-archived repositories owned by
// the organization in a single gh repo list invocation.
func (client *Client) ListOrganizationRepositories(executionContext context.Context, organization string, repositoryLimit int) ([]Repository, error) {
	organizationName := strings.TrimSpace(organization)
	if len(organizationName) == 0 {
		return nil, InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if repositoryLimit <= 0 {
		return nil, InvalidInputError{FieldName: limitFieldNameConstant, Message: positiveValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			listSubcommandConstant,
			organizationName,
			limitFlagConstant,
			strconv.Itoa(repositoryLimit),
			noArchivedFlagConstant,
			jsonFlagConstant,
			repositoryListJSONFieldsConstant,
		},
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listRepositoriesOperationNameConstant, Cause: executionError}
	}

	var response []struct {
		NameWithOwner string `json:"nameWithOwner"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listRepositoriesOperationNameConstant, Cause: decodingError}
	}

	repositories := make([]Repository, 0, len(response))
	for _, repositoryEntry := range response {
		trimmedNameWithOwner := strings.TrimSpace(repositoryEntry.NameWithOwner)
		if len(trimmedNameWithOwner) == 0 {
			continue
		}
		repositories = append(repositories, Repository{NameWithOwner: trimmedNameWithOwner})
	}

	return repositories, nil
}

// CloneRepository clones the named repository into the destination path using gh repo clone.
func (client *Client) CloneRepository(executionContext context.Context, repository string, destinationPath string) error {
	repositoryIdentifier := strings.TrimSpace(repository)
	if len(repositoryIdentifier) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	trimmedDestinationPath := strings.TrimSpace(destinationPath)
	if len(trimmedDestinationPath) == 0 {
		return InvalidInputError{FieldName: destinationFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			cloneSubcommandConstant,
			repositoryIdentifier,
			trimmedDestinationPath,
		},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: cloneRepositoryOperationNameConstant, Cause: executionError}
	}

	return nil
}

// CheckAuthentication verifies the GitHub CLI holds usable credentials via gh auth status.
func (client *Client) CheckAuthentication(executionContext context.Context) error {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			authSubcommandConstant,
			statusSubcommandConstant,
		},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return OperationError{Operation: checkAuthenticationOperationName, Cause: executionError}
	}

	return nil
}
