package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/burib/orgsync/internal/utils/path"
)

const (
	testHomeDirectoryConstant          = "/home/developer"
	testTildeOnlyCaseNameConstant      = "tilde_only"
	testTildePrefixCaseNameConstant    = "tilde_prefix"
	testAbsolutePathCaseNameConstant   = "absolute_path_unchanged"
	testLookupFailureCaseNameConstant  = "lookup_failure_passes_through"
	testEmptyPathCaseNameConstant      = "empty_path"
	testRelativeSuffixPathConstant     = "workspace/acme_repos"
	testAbsoluteCandidatePathConstant  = "/workspace/acme_repos"
	testHomeLookupFailureMessage       = "home directory unavailable"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name          string
		candidatePath string
		providerError error
		expectedPath  string
	}{
		{
			name:          testTildeOnlyCaseNameConstant,
			candidatePath: "~",
			expectedPath:  testHomeDirectoryConstant,
		},
		{
			name:          testTildePrefixCaseNameConstant,
			candidatePath: filepath.Join("~", testRelativeSuffixPathConstant),
			expectedPath:  filepath.Join(testHomeDirectoryConstant, testRelativeSuffixPathConstant),
		},
		{
			name:          testAbsolutePathCaseNameConstant,
			candidatePath: testAbsoluteCandidatePathConstant,
			expectedPath:  testAbsoluteCandidatePathConstant,
		},
		{
			name:          testLookupFailureCaseNameConstant,
			candidatePath: "~",
			providerError: errors.New(testHomeLookupFailureMessage),
			expectedPath:  "~",
		},
		{
			name:          testEmptyPathCaseNameConstant,
			candidatePath: "",
			expectedPath:  "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
				return testHomeDirectoryConstant, testCase.providerError
			})

			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidatePath))
		})
	}
}
