package mirror_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/mirror"
)

func TestLatestBranchSelectorSelect(testInstance *testing.T) {
	testCases := []struct {
		name              string
		rawOutput         string
		remoteRefPrefix   string
		expectedBranch    string
		expectNoSelection bool
		expectedWarnCount int
	}{
		{
			name:           "head_excluded_first_survivor_wins",
			rawOutput:      "origin/main|2024-01-01\norigin/HEAD|2024-01-01\norigin/dev|2023-12-01\n",
			expectedBranch: "main",
		},
		{
			name:           "head_listed_first_is_skipped",
			rawOutput:      "origin/HEAD|2024-01-01\norigin/develop|2024-01-01\n",
			expectedBranch: "develop",
		},
		{
			name:              "empty_input_selects_nothing",
			rawOutput:         "",
			expectNoSelection: true,
		},
		{
			name:              "only_head_selects_nothing",
			rawOutput:         "origin/HEAD|2024-01-01\n",
			expectNoSelection: true,
		},
		{
			name:              "line_without_separator_is_logged_and_skipped",
			rawOutput:         "origin/broken-line\norigin/main|2024-01-01\n",
			expectedBranch:    "main",
			expectedWarnCount: 1,
		},
		{
			name:              "line_without_prefix_is_logged_and_skipped",
			rawOutput:         "upstream/main|2024-01-01\norigin/dev|2023-12-01\n",
			expectedBranch:    "dev",
			expectedWarnCount: 1,
		},
		{
			name:            "configured_prefix_is_stripped",
			rawOutput:       "mirror/release|2024-02-02\n",
			remoteRefPrefix: "mirror/",
			expectedBranch:  "release",
		},
		{
			name:           "branch_name_containing_head_substring_survives",
			rawOutput:      "origin/HEAD-fixes|2024-01-01\n",
			expectedBranch: "HEAD-fixes",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zap.WarnLevel)
			selector := mirror.NewLatestBranchSelector(testCase.remoteRefPrefix, zap.New(observerCore))

			selectedRef, branchSelected := selector.Select(testCase.rawOutput)

			if testCase.expectNoSelection {
				require.False(testInstance, branchSelected)
			} else {
				require.True(testInstance, branchSelected)
				require.Equal(testInstance, testCase.expectedBranch, selectedRef.ShortName)
			}
			require.Len(testInstance, observedLogs.All(), testCase.expectedWarnCount)
		})
	}
}

func TestLatestBranchSelectorPreservesCommitTimestamp(testInstance *testing.T) {
	selector := mirror.NewLatestBranchSelector("", zap.NewNop())

	selectedRef, branchSelected := selector.Select("origin/main|Mon Jan 1 00:00:00 2024\n")

	require.True(testInstance, branchSelected)
	require.Equal(testInstance, "main", selectedRef.ShortName)
	require.Equal(testInstance, "Mon Jan 1 00:00:00 2024", selectedRef.CommitTimestamp)
}
