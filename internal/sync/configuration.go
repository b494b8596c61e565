package sync

import "strings"

// DefaultRepositoryLimitConstant caps the single inventory fetch when neither
// configuration nor flags override it.
const DefaultRepositoryLimitConstant = 5000

const (
	configurationTargetDirectoryKeyConstant = "target_dir"
	configurationRepositoryLimitKeyConstant = "repository_limit"
	configurationDryRunKeyConstant          = "dry_run"
)

// CommandConfiguration captures configuration values for the sync command.
type CommandConfiguration struct {
	TargetDirectory string `mapstructure:"target_dir"`
	RepositoryLimit int    `mapstructure:"repository_limit"`
	DryRun          bool   `mapstructure:"dry_run"`
}

// DefaultCommandConfiguration provides baseline configuration values for sync.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		TargetDirectory: "",
		RepositoryLimit: DefaultRepositoryLimitConstant,
		DryRun:          false,
	}
}

// DefaultConfigurationValues produces Viper defaults for the sync command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + "." + configurationTargetDirectoryKeyConstant: defaults.TargetDirectory,
		rootKey + "." + configurationRepositoryLimitKeyConstant: defaults.RepositoryLimit,
		rootKey + "." + configurationDryRunKeyConstant:          defaults.DryRun,
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.TargetDirectory = strings.TrimSpace(configuration.TargetDirectory)
	return sanitized
}
