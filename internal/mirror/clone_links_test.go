package mirror_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/bitbucket"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/mirror"
)

const (
	testSecureShellCloneHrefConstant = "ssh://git@code.example.com:7999/proj/widget.git"
	testWebCloneHrefConstant         = "https://code.example.com/scm/proj/widget.git"
)

func TestCloneLinkResolverResolve(testInstance *testing.T) {
	testCases := []struct {
		name            string
		repository      bitbucket.Repository
		transportLabel  string
		expectedURL     string
		expectMalformed bool
	}{
		{
			name: "matching_label_returns_href",
			repository: bitbucket.Repository{
				Slug: "widget",
				Links: map[string][]bitbucket.RepositoryLink{
					"clone": {
						{Href: testSecureShellCloneHrefConstant, Name: "ssh"},
						{Href: testWebCloneHrefConstant, Name: "http"},
					},
				},
			},
			expectedURL: testSecureShellCloneHrefConstant,
		},
		{
			name: "no_matching_label_yields_empty_url",
			repository: bitbucket.Repository{
				Slug: "widget",
				Links: map[string][]bitbucket.RepositoryLink{
					"clone": {
						{Href: testWebCloneHrefConstant, Name: "http"},
					},
				},
			},
			expectedURL: "",
		},
		{
			name: "missing_category_is_contract_violation",
			repository: bitbucket.Repository{
				Slug:  "widget",
				Links: map[string][]bitbucket.RepositoryLink{},
			},
			expectMalformed: true,
		},
		{
			name: "nil_links_is_contract_violation",
			repository: bitbucket.Repository{
				Slug: "widget",
			},
			expectMalformed: true,
		},
		{
			name: "label_comparison_is_exact",
			repository: bitbucket.Repository{
				Slug: "widget",
				Links: map[string][]bitbucket.RepositoryLink{
					"clone": {
						{Href: testSecureShellCloneHrefConstant, Name: "SSH"},
					},
				},
			},
			expectedURL: "",
		},
		{
			name: "configured_label_overrides_default",
			repository: bitbucket.Repository{
				Slug: "widget",
				Links: map[string][]bitbucket.RepositoryLink{
					"clone": {
						{Href: testSecureShellCloneHrefConstant, Name: "ssh"},
						{Href: testWebCloneHrefConstant, Name: "http"},
					},
				},
			},
			transportLabel: "http",
			expectedURL:    testWebCloneHrefConstant,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolver := mirror.NewCloneLinkResolver(testCase.transportLabel)
			resolvedURL, resolveError := resolver.Resolve(testCase.repository)

			if testCase.expectMalformed {
				require.Error(testInstance, resolveError)
				require.IsType(testInstance, mirror.MalformedRepositoryDescriptorError{}, resolveError)
				return
			}

			require.NoError(testInstance, resolveError)
			require.Equal(testInstance, testCase.expectedURL, resolvedURL)
		})
	}
}

func TestCloneLinkResolverDefaultsToSecureShellLabel(testInstance *testing.T) {
	resolver := mirror.NewCloneLinkResolver("   ")
	require.Equal(testInstance, "ssh", resolver.TransportLabel())
}
