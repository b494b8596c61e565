package refresh

import "strings"

const (
	configurationBranchKeyConstant       = "branch"
	configurationRequireCleanKeyConstant = "require_clean"
	configurationRootsKeyConstant        = "roots"
)

// CommandConfiguration captures configuration values for the refresh command.
type CommandConfiguration struct {
	BranchName      string   `mapstructure:"branch"`
	RequireClean    bool     `mapstructure:"require_clean"`
	RepositoryRoots []string `mapstructure:"roots"`
}

// DefaultCommandConfiguration provides baseline configuration values for refresh.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		BranchName:      "",
		RequireClean:    true,
		RepositoryRoots: nil,
	}
}

// DefaultConfigurationValues produces Viper defaults for the refresh command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationBranchKeyConstant:       defaults.BranchName,
		rootKey + "." + configurationRequireCleanKeyConstant: defaults.RequireClean,
		rootKey + "." + configurationRootsKeyConstant:        defaults.RepositoryRoots,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.BranchName = strings.TrimSpace(configuration.BranchName)
	sanitized.RepositoryRoots = sanitizeRoots(configuration.RepositoryRoots)
	return sanitized
}

func sanitizeRoots(rawRoots []string) []string {
	sanitizedRoots := make([]string, 0, len(rawRoots))
	for _, candidateRoot := range rawRoots {
		trimmedRoot := strings.TrimSpace(candidateRoot)
		if len(trimmedRoot) == 0 {
			continue
		}
		sanitizedRoots = append(sanitizedRoots, trimmedRoot)
	}
	return sanitizedRoots
}
