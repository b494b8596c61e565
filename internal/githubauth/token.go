// Package githubauth resolves GitHub credentials from the process environment.
package githubauth

import (
	"os"
	"strings"
)

// Environment variable names recognized as GitHub authentication tokens, in
// order of preference.
const (
	EnvGitHubCLIToken = "GH_TOKEN"
	EnvGitHubToken    = "GITHUB_TOKEN"
	EnvGitHubAPIToken = "GITHUB_API_TOKEN"
)

var tokenPreferenceOrder = []string{
	EnvGitHubCLIToken,
	EnvGitHubToken,
	EnvGitHubAPIToken,
}

// ResolveToken returns the first non-empty token found in the supplied
// environment overrides, falling back to the process environment.
func ResolveToken(environmentOverrides map[string]string) (string, bool) {
	for _, variableName := range tokenPreferenceOrder {
		if tokenValue, found := lookupOverride(environmentOverrides, variableName); found {
			return tokenValue, true
		}
	}
	for _, variableName := range tokenPreferenceOrder {
		if tokenValue, found := os.LookupEnv(variableName); found {
			trimmedTokenValue := strings.TrimSpace(tokenValue)
			if len(trimmedTokenValue) > 0 {
				return trimmedTokenValue, true
			}
		}
	}
	return "", false
}

func lookupOverride(environmentOverrides map[string]string, variableName string) (string, bool) {
	if environmentOverrides == nil {
		return "", false
	}
	overrideValue, exists := environmentOverrides[variableName]
	if !exists {
		return "", false
	}
	trimmedOverrideValue := strings.TrimSpace(overrideValue)
	if len(trimmedOverrideValue) == 0 {
		return "", false
	}
	return trimmedOverrideValue, true
}
