// Package githubcli wraps GitHub CLI invocations behind a typed client.
package githubcli
