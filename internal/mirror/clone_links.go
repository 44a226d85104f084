package mirror

import (
	"fmt"
	"strings"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/bitbucket"
)

const (
	cloneLinkCategoryConstant           = "clone"
	defaultCloneLinkLabelConstant       = "ssh"
	malformedDescriptorTemplateConstant = "repository %s descriptor has no %q link category"
	emptyCloneLinkTargetConstant        = ""
)

// MalformedRepositoryDescriptorError indicates a repository descriptor violated the catalogue contract.
type MalformedRepositoryDescriptorError struct {
	RepositorySlug string
}

// Error describes the contract violation.
func (descriptorError MalformedRepositoryDescriptorError) Error() string {
	return fmt.Sprintf(malformedDescriptorTemplateConstant, descriptorError.RepositorySlug, cloneLinkCategoryConstant)
}

// CloneLinkResolver selects the clone URL matching a configured transport label.
//
// A descriptor without a clone link category at all is a contract violation and
// surfaces as MalformedRepositoryDescriptorError; a descriptor whose clone
// links simply lack the configured label is a normal condition and resolves to
// an empty URL. The resolver never falls back to a different transport.
type CloneLinkResolver struct {
	transportLabel string
}

// NewCloneLinkResolver constructs a resolver for the provided transport label,
// defaulting to the secure-shell label when blank.
func NewCloneLinkResolver(transportLabel string) *CloneLinkResolver {
	trimmedLabel := strings.TrimSpace(transportLabel)
	if len(trimmedLabel) == 0 {
		trimmedLabel = defaultCloneLinkLabelConstant
	}
	return &CloneLinkResolver{transportLabel: trimmedLabel}
}

// TransportLabel reports the label the resolver matches against.
func (resolver *CloneLinkResolver) TransportLabel() string {
	return resolver.transportLabel
}

// Resolve extracts the clone URL for the configured transport from the repository descriptor.
func (resolver *CloneLinkResolver) Resolve(repository bitbucket.Repository) (string, error) {
	cloneLinks, categoryExists := repository.Links[cloneLinkCategoryConstant]
	if !categoryExists {
		return emptyCloneLinkTargetConstant, MalformedRepositoryDescriptorError{RepositorySlug: repository.Slug}
	}

	for _, cloneLink := range cloneLinks {
		if cloneLink.Name == resolver.transportLabel {
			return cloneLink.Href, nil
		}
	}

	return emptyCloneLinkTargetConstant, nil
}
