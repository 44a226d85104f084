package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/bitbucket"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/gitrepo"
)

const (
	targetDirectoryPermissionsConstant = 0o755

	repositoriesBannerTemplateConstant = "There are %d %s repos\n"
	repositoriesSeparatorConstant      = "-----\n\n"
	conflictMessageTemplateConstant    = "SYNC-CONFLICT: %s (%s)\n"
	alreadyClonedMessageTemplate       = "SYNC-PRESENT: %s (already cloned)\n"
	cloningMessageTemplateConstant     = "SYNC-CLONE: %s from %s\n"
	noCloneLinkMessageTemplate         = "SYNC-SKIP: %s (no clone link labeled %q)\n"
	malformedDescriptorMessageTemplate = "SYNC-FAIL: %s (descriptor missing clone link category)\n"
	cloneFailureMessageTemplate        = "SYNC-CLONE-FAIL: %s (%s)\n"
	refListingFailureMessageTemplate   = "SYNC-REFS-FAIL: %s (%s)\n"
	noBranchMessageTemplateConstant    = "SYNC-NO-BRANCH: %s (no remote branches)\n"
	switchingMessageTemplateConstant   = "SYNC-SWITCH: %s checking out %s\n"
	checkoutFailureMessageTemplate     = "SYNC-CHECKOUT-FAIL: %s (%s)\n"
	pullFailureMessageTemplate         = "SYNC-PULL-FAIL: %s (%s)\n"

	missingListerMessageConstant     = "repository lister not configured"
	missingGitManagerMessageConstant = "git repository manager not configured"

	targetDirectoryErrorTemplateConstant = "target directory %s is unusable: %w"
	listingFailureErrorTemplateConstant  = "failed to list repositories for project %s: %w"

	noCloneLinkReasonConstant      = "no clone link"
	noRemoteBranchesReasonConstant = "no remote branches"

	repositoryLogFieldConstant = "repository"
	branchLogFieldConstant     = "branch"
	cloneURLLogFieldConstant   = "clone_url"
	hostLogFieldConstant       = "host"
	stageLogFieldConstant      = "stage"

	probeConflictLogMessageConstant    = "local path unusable"
	cloneFailedLogMessageConstant      = "clone failed"
	refListingFailedLogMessageConstant = "remote ref listing failed"
	checkoutFailedLogMessageConstant   = "checkout failed"
	pullFailedLogMessageConstant       = "pull failed"
	unparsableLinkLogMessageConstant   = "clone link could not be parsed"
	cloneTargetLogMessageConstant      = "cloning repository"
	branchSelectedLogMessageConstant   = "selected most recently active branch"
)

// Errors reported when mandatory collaborators are absent.
var (
	ErrListerNotConfigured     = errors.New(missingListerMessageConstant)
	ErrGitManagerNotConfigured = errors.New(missingGitManagerMessageConstant)
)

// Dependencies captures collaborators required to synchronize a project's repositories.
type Dependencies struct {
	Lister     RepositoryLister
	GitManager GitRepositoryManager
	FileSystem FileSystem
	Logger     *zap.Logger
	Output     io.Writer
}

// Options configures one synchronization run.
type Options struct {
	Domain          string
	ProjectKey      string
	AccessToken     string
	TargetDirectory string
	CloneLinkLabel  string
	RemoteRefPrefix string
	PageSize        int
}

// Service drives the per-repository synchronization state machine.
type Service struct {
	dependencies Dependencies
}

// NewService constructs a Service after validating mandatory collaborators.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Lister == nil {
		return nil, ErrListerNotConfigured
	}
	if dependencies.GitManager == nil {
		return nil, ErrGitManagerNotConfigured
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = OSFileSystem{}
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Service{dependencies: dependencies}, nil
}

// Run lists the project's repositories and synchronizes each one in catalogue order.
//
// Failures scoped to a single repository are reported in its SyncOutcome and
// never abort the batch; only listing failures and an unusable target
// directory propagate as errors.
func (service *Service) Run(executionContext context.Context, options Options) ([]SyncOutcome, error) {
	targetDirectory, targetError := service.prepareTargetDirectory(options.TargetDirectory)
	if targetError != nil {
		return nil, targetError
	}

	repositoryQuery := bitbucket.RepositoryQuery{
		Domain:      options.Domain,
		ProjectKey:  options.ProjectKey,
		AccessToken: options.AccessToken,
		PageSize:    options.PageSize,
	}
	repositories, listError := service.dependencies.Lister.ListRepositories(executionContext, repositoryQuery)
	if listError != nil {
		return nil, fmt.Errorf(listingFailureErrorTemplateConstant, options.ProjectKey, listError)
	}

	service.printfOutput(repositoriesBannerTemplateConstant, len(repositories), options.ProjectKey)
	service.printfOutput(repositoriesSeparatorConstant)

	cloneLinkResolver := NewCloneLinkResolver(options.CloneLinkLabel)
	branchSelector := NewLatestBranchSelector(options.RemoteRefPrefix, service.dependencies.Logger)
	localStateProbe := NewLocalStateProbe(service.dependencies.FileSystem)

	syncOutcomes := make([]SyncOutcome, 0, len(repositories))
	for _, repository := range repositories {
		outcome := service.syncRepository(executionContext, repository, targetDirectory, localStateProbe, cloneLinkResolver, branchSelector)
		syncOutcomes = append(syncOutcomes, outcome)
	}

	return syncOutcomes, nil
}

func (service *Service) prepareTargetDirectory(targetDirectory string) (string, error) {
	absoluteTargetDirectory, absoluteError := service.dependencies.FileSystem.AbsolutePath(targetDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf(targetDirectoryErrorTemplateConstant, targetDirectory, absoluteError)
	}

	createError := service.dependencies.FileSystem.MkdirAll(absoluteTargetDirectory, targetDirectoryPermissionsConstant)
	if createError != nil {
		return "", fmt.Errorf(targetDirectoryErrorTemplateConstant, absoluteTargetDirectory, createError)
	}

	return absoluteTargetDirectory, nil
}

func (service *Service) syncRepository(
	executionContext context.Context,
	repository bitbucket.Repository,
	targetDirectory string,
	localStateProbe *LocalStateProbe,
	cloneLinkResolver *CloneLinkResolver,
	branchSelector *LatestBranchSelector,
) SyncOutcome {
	repositoryPath := filepath.Join(targetDirectory, repository.Slug)

	inspection := localStateProbe.Probe(repositoryPath)
	if inspection.State == LocalPathConflict {
		service.printfOutput(conflictMessageTemplateConstant, repository.Slug, inspection.Detail)
		service.dependencies.Logger.Warn(probeConflictLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repository.Slug),
			zap.String(stageLogFieldConstant, string(StageProbe)),
		)
		return SyncOutcome{RepositorySlug: repository.Slug, Status: StatusFailed, Stage: StageProbe, Reason: inspection.Detail}
	}

	candidateStatus := StatusAlreadyUpToDate
	if inspection.State == LocalPathAbsent {
		candidateStatus = StatusCloned
		cloneOutcome, cloneResolved := service.cloneRepository(executionContext, repository, targetDirectory, cloneLinkResolver)
		if !cloneResolved {
			return cloneOutcome
		}
	} else {
		service.printfOutput(alreadyClonedMessageTemplate, repository.Slug)
	}

	refListing, refListingError := service.dependencies.GitManager.ListRemoteBranchRefs(executionContext, repositoryPath)
	if refListingError != nil {
		service.printfOutput(refListingFailureMessageTemplate, repository.Slug, refListingError)
		service.dependencies.Logger.Warn(refListingFailedLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repository.Slug),
			zap.Error(refListingError),
		)
		return SyncOutcome{RepositorySlug: repository.Slug, Status: StatusFailed, Stage: StageListRefs, Reason: refListingError.Error()}
	}

	selectedRef, branchSelected := branchSelector.Select(refListing)
	if !branchSelected {
		service.printfOutput(noBranchMessageTemplateConstant, repository.Slug)
		return SyncOutcome{RepositorySlug: repository.Slug, Status: candidateStatus, Reason: noRemoteBranchesReasonConstant}
	}

	service.printfOutput(switchingMessageTemplateConstant, repository.Slug, selectedRef.ShortName)
	service.dependencies.Logger.Debug(branchSelectedLogMessageConstant,
		zap.String(repositoryLogFieldConstant, repository.Slug),
		zap.String(branchLogFieldConstant, selectedRef.ShortName),
	)

	checkoutError := service.dependencies.GitManager.CheckoutBranch(executionContext, repositoryPath, selectedRef.ShortName)
	if checkoutError != nil {
		service.printfOutput(checkoutFailureMessageTemplate, repository.Slug, checkoutError)
		service.dependencies.Logger.Warn(checkoutFailedLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repository.Slug),
			zap.String(branchLogFieldConstant, selectedRef.ShortName),
			zap.Error(checkoutError),
		)
	}

	pullError := service.dependencies.GitManager.PullCurrentBranch(executionContext, repositoryPath)
	if pullError != nil {
		service.printfOutput(pullFailureMessageTemplate, repository.Slug, pullError)
		service.dependencies.Logger.Warn(pullFailedLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repository.Slug),
			zap.Error(pullError),
		)
	}

	return SyncOutcome{RepositorySlug: repository.Slug, Status: candidateStatus}
}

// cloneRepository resolves the clone link and attempts the clone. The second
// return value reports whether the branch-sync phase should still run: clone
// command failures tolerate partial clones and proceed, while missing or
// malformed links end the repository's processing with the returned outcome.
func (service *Service) cloneRepository(
	executionContext context.Context,
	repository bitbucket.Repository,
	targetDirectory string,
	cloneLinkResolver *CloneLinkResolver,
) (SyncOutcome, bool) {
	cloneURL, resolveError := cloneLinkResolver.Resolve(repository)
	if resolveError != nil {
		service.printfOutput(malformedDescriptorMessageTemplate, repository.Slug)
		service.dependencies.Logger.Error(resolveError.Error(),
			zap.String(repositoryLogFieldConstant, repository.Slug),
			zap.String(stageLogFieldConstant, string(StageCloneLink)),
		)
		return SyncOutcome{RepositorySlug: repository.Slug, Status: StatusFailed, Stage: StageCloneLink, Reason: resolveError.Error()}, false
	}
	if len(strings.TrimSpace(cloneURL)) == 0 {
		service.printfOutput(noCloneLinkMessageTemplate, repository.Slug, cloneLinkResolver.TransportLabel())
		return SyncOutcome{RepositorySlug: repository.Slug, Status: StatusSkipped, Reason: noCloneLinkReasonConstant}, false
	}

	service.printfOutput(cloningMessageTemplateConstant, repository.Slug, cloneURL)
	service.logCloneTarget(repository.Slug, cloneURL)

	cloneError := service.dependencies.GitManager.CloneRepository(executionContext, cloneURL, targetDirectory)
	if cloneError != nil {
		service.printfOutput(cloneFailureMessageTemplate, repository.Slug, cloneError)
		service.dependencies.Logger.Warn(cloneFailedLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repository.Slug),
			zap.Error(cloneError),
		)
	}

	return SyncOutcome{}, true
}

func (service *Service) logCloneTarget(repositorySlug string, cloneURL string) {
	parsedRemote, parseError := gitrepo.ParseRemoteURL(cloneURL)
	if parseError != nil {
		service.dependencies.Logger.Debug(unparsableLinkLogMessageConstant,
			zap.String(repositoryLogFieldConstant, repositorySlug),
			zap.String(cloneURLLogFieldConstant, cloneURL),
		)
		return
	}
	service.dependencies.Logger.Debug(cloneTargetLogMessageConstant,
		zap.String(repositoryLogFieldConstant, repositorySlug),
		zap.String(hostLogFieldConstant, parsedRemote.Host),
	)
}

// Execute performs the synchronization workflow using transient service state.
func Execute(executionContext context.Context, dependencies Dependencies, options Options) ([]SyncOutcome, error) {
	service, creationError := NewService(dependencies)
	if creationError != nil {
		return nil, creationError
	}
	return service.Run(executionContext, options)
}

func (service *Service) printfOutput(format string, arguments ...any) {
	if service.dependencies.Output == nil {
		return
	}
	fmt.Fprintf(service.dependencies.Output, format, arguments...)
}
