package gitrepo

import (
	"context"
	"errors"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant = "git executor not configured"
	requiredValueMessageConstant         = "value required"

	cloneSubcommandConstant      = "clone"
	forEachRefSubcommandConstant = "for-each-ref"
	checkoutSubcommandConstant   = "checkout"
	pullSubcommandConstant       = "pull"

	forEachRefSortFlagConstant   = "--sort=-committerdate"
	forEachRefScopeConstant      = "refs/remotes/origin"
	forEachRefFormatFlagConstant = "--format=%(refname:short)|%(committerdate)"
)

// ErrExecutorNotConfigured indicates the manager was constructed without a git executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// GitExecutor abstracts git command execution.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs the git operations the synchronization workflow relies on.
type RepositoryManager struct {
	gitExecutor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{gitExecutor: gitExecutor}, nil
}

// CloneRepository clones the repository reachable at cloneURL into a subdirectory of parentDirectory.
// Output streams to the terminal so clone progress stays visible.
func (manager *RepositoryManager) CloneRepository(executionContext context.Context, cloneURL string, parentDirectory string) error {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{cloneSubcommandConstant, cloneURL},
		WorkingDirectory: parentDirectory,
		StreamOutput:     true,
	}
	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// ListRemoteBranchRefs returns remote-tracking refs beneath origin, newest commit first,
// one "<shortref>|<committerdate>" entry per line.
func (manager *RepositoryManager) ListRemoteBranchRefs(executionContext context.Context, repositoryPath string) (string, error) {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{forEachRefSubcommandConstant, forEachRefSortFlagConstant, forEachRefScopeConstant, forEachRefFormatFlagConstant},
		WorkingDirectory: repositoryPath,
	}
	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	if executionError != nil {
		return "", executionError
	}
	return executionResult.StandardOutput, nil
}

// CheckoutBranch switches the repository working tree to the named branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{checkoutSubcommandConstant, branchName},
		WorkingDirectory: repositoryPath,
		StreamOutput:     true,
	}
	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	return executionError
}

// PullCurrentBranch fast-forwards the currently checked-out branch.
func (manager *RepositoryManager) PullCurrentBranch(executionContext context.Context, repositoryPath string) error {
	commandDetails := execshell.CommandDetails{
		Arguments:        []string{pullSubcommandConstant},
		WorkingDirectory: repositoryPath,
		StreamOutput:     true,
	}
	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, commandDetails)
	return executionError
}
