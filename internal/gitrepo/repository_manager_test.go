package gitrepo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/execshell"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/gitrepo"
)

const (
	testCloneURLConstant         = "ssh://git@code.example.com:7999/proj/widget.git"
	testParentDirectoryConstant  = "/mirrors/project"
	testRepositoryPathConstant   = "/mirrors/project/widget"
	testBranchNameConstant       = "develop"
	testRefListingOutputConstant = "origin/main|Mon Jan 1 00:00:00 2024\norigin/dev|Sun Dec 31 00:00:00 2023\n"
)

type recordingGitExecutor struct {
	executionResult execshell.ExecutionResult
	executionError  error
	recordedDetails []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.executionResult, executor.executionError
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestRepositoryManagerCloneRepository(testInstance *testing.T) {
	recordingExecutor := &recordingGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(recordingExecutor)
	require.NoError(testInstance, creationError)

	cloneError := manager.CloneRepository(context.Background(), testCloneURLConstant, testParentDirectoryConstant)
	require.NoError(testInstance, cloneError)

	require.Len(testInstance, recordingExecutor.recordedDetails, 1)
	recordedDetails := recordingExecutor.recordedDetails[0]
	require.Equal(testInstance, []string{"clone", testCloneURLConstant}, recordedDetails.Arguments)
	require.Equal(testInstance, testParentDirectoryConstant, recordedDetails.WorkingDirectory)
	require.True(testInstance, recordedDetails.StreamOutput)
}

func TestRepositoryManagerListRemoteBranchRefs(testInstance *testing.T) {
	recordingExecutor := &recordingGitExecutor{
		executionResult: execshell.ExecutionResult{StandardOutput: testRefListingOutputConstant},
	}
	manager, creationError := gitrepo.NewRepositoryManager(recordingExecutor)
	require.NoError(testInstance, creationError)

	refListing, listError := manager.ListRemoteBranchRefs(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, testRefListingOutputConstant, refListing)

	require.Len(testInstance, recordingExecutor.recordedDetails, 1)
	recordedDetails := recordingExecutor.recordedDetails[0]
	require.Equal(testInstance, []string{
		"for-each-ref",
		"--sort=-committerdate",
		"refs/remotes/origin",
		"--format=%(refname:short)|%(committerdate)",
	}, recordedDetails.Arguments)
	require.Equal(testInstance, testRepositoryPathConstant, recordedDetails.WorkingDirectory)
	require.False(testInstance, recordedDetails.StreamOutput)
}

func TestRepositoryManagerListRemoteBranchRefsPropagatesFailures(testInstance *testing.T) {
	commandFailure := execshell.CommandFailedError{Result: execshell.ExecutionResult{ExitCode: 128}}
	recordingExecutor := &recordingGitExecutor{executionError: commandFailure}
	manager, creationError := gitrepo.NewRepositoryManager(recordingExecutor)
	require.NoError(testInstance, creationError)

	refListing, listError := manager.ListRemoteBranchRefs(context.Background(), testRepositoryPathConstant)
	require.Error(testInstance, listError)
	require.Empty(testInstance, refListing)
}

func TestRepositoryManagerCheckoutBranch(testInstance *testing.T) {
	recordingExecutor := &recordingGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(recordingExecutor)
	require.NoError(testInstance, creationError)

	checkoutError := manager.CheckoutBranch(context.Background(), testRepositoryPathConstant, testBranchNameConstant)
	require.NoError(testInstance, checkoutError)

	require.Len(testInstance, recordingExecutor.recordedDetails, 1)
	recordedDetails := recordingExecutor.recordedDetails[0]
	require.Equal(testInstance, []string{"checkout", testBranchNameConstant}, recordedDetails.Arguments)
	require.Equal(testInstance, testRepositoryPathConstant, recordedDetails.WorkingDirectory)
	require.True(testInstance, recordedDetails.StreamOutput)
}

func TestRepositoryManagerPullCurrentBranch(testInstance *testing.T) {
	recordingExecutor := &recordingGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(recordingExecutor)
	require.NoError(testInstance, creationError)

	pullError := manager.PullCurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, pullError)

	require.Len(testInstance, recordingExecutor.recordedDetails, 1)
	recordedDetails := recordingExecutor.recordedDetails[0]
	require.Equal(testInstance, []string{"pull"}, recordedDetails.Arguments)
	require.Equal(testInstance, testRepositoryPathConstant, recordedDetails.WorkingDirectory)
	require.True(testInstance, recordedDetails.StreamOutput)
}
