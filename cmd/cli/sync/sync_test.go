package sync_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	synccmd "github.com/stevefranchak/bitbucket-repo-puller/cmd/cli/sync"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/bitbucket"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/mirror"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/utils"
)

const (
	accessTokenEnvironmentVariableConstant = "BITBUCKET_ACCESS_TOKEN"
	testAccessTokenConstant                = "cli-test-token"
	testDomainArgumentConstant             = "code.example.com"
	testProjectArgumentConstant            = "PROJ"
	testConfigurationFilePathConstant      = "/etc/repo-puller/config.yaml"
)

type stubRepositoryLister struct {
	repositories    []bitbucket.Repository
	recordedQueries []bitbucket.RepositoryQuery
}

func (lister *stubRepositoryLister) ListRepositories(executionContext context.Context, query bitbucket.RepositoryQuery) ([]bitbucket.Repository, error) {
	lister.recordedQueries = append(lister.recordedQueries, query)
	return lister.repositories, nil
}

type stubGitManager struct{}

func (manager *stubGitManager) CloneRepository(executionContext context.Context, cloneURL string, parentDirectory string) error {
	return nil
}

func (manager *stubGitManager) ListRemoteBranchRefs(executionContext context.Context, repositoryPath string) (string, error) {
	return "", nil
}

func (manager *stubGitManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	return nil
}

func (manager *stubGitManager) PullCurrentBranch(executionContext context.Context, repositoryPath string) error {
	return nil
}

func buildSyncCommand(testInstance *testing.T, builder *synccmd.CommandBuilder) (*bytes.Buffer, func(arguments ...string) error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)
	command.SetContext(context.Background())

	return outputBuffer, func(arguments ...string) error {
		command.SetArgs(arguments)
		return command.Execute()
	}
}

func TestSyncCommandRequiresAccessToken(testInstance *testing.T) {
	testInstance.Setenv(accessTokenEnvironmentVariableConstant, "")

	lister := &stubRepositoryLister{}
	builder := &synccmd.CommandBuilder{
		Lister:                lister,
		GitManager:            &stubGitManager{},
		EnvironmentFileLoader: func() error { return nil },
	}
	_, executeCommand := buildSyncCommand(testInstance, builder)

	executionError := executeCommand(testDomainArgumentConstant, testProjectArgumentConstant, testInstance.TempDir())

	require.Error(testInstance, executionError)
	require.Contains(testInstance, executionError.Error(), accessTokenEnvironmentVariableConstant)
	require.Empty(testInstance, lister.recordedQueries)
}

func TestSyncCommandRejectsWrongArgumentCount(testInstance *testing.T) {
	builder := &synccmd.CommandBuilder{
		Lister:                &stubRepositoryLister{},
		GitManager:            &stubGitManager{},
		EnvironmentFileLoader: func() error { return nil },
	}
	_, executeCommand := buildSyncCommand(testInstance, builder)

	executionError := executeCommand(testDomainArgumentConstant, testProjectArgumentConstant)

	require.Error(testInstance, executionError)
}

func TestSyncCommandRunsWorkflowWithConfiguredOptions(testInstance *testing.T) {
	testInstance.Setenv(accessTokenEnvironmentVariableConstant, testAccessTokenConstant)

	lister := &stubRepositoryLister{}
	builder := &synccmd.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.NewNop() },
		Lister:                lister,
		GitManager:            &stubGitManager{},
		FileSystem:            mirror.OSFileSystem{},
		EnvironmentFileLoader: func() error { return nil },
		ConfigurationProvider: func() synccmd.CommandConfiguration {
			return synccmd.CommandConfiguration{CloneLinkLabel: "http", PageSize: 250, RemoteRefPrefix: "origin/"}
		},
	}
	outputBuffer, executeCommand := buildSyncCommand(testInstance, builder)

	executionError := executeCommand(testDomainArgumentConstant, testProjectArgumentConstant, testInstance.TempDir())

	require.NoError(testInstance, executionError)
	require.Len(testInstance, lister.recordedQueries, 1)
	require.Equal(testInstance, testDomainArgumentConstant, lister.recordedQueries[0].Domain)
	require.Equal(testInstance, testProjectArgumentConstant, lister.recordedQueries[0].ProjectKey)
	require.Equal(testInstance, testAccessTokenConstant, lister.recordedQueries[0].AccessToken)
	require.Equal(testInstance, 250, lister.recordedQueries[0].PageSize)
	require.Contains(testInstance, outputBuffer.String(), "There are 0 PROJ repos")
}

func TestSyncCommandLogsConfigurationFileFromContext(testInstance *testing.T) {
	testInstance.Setenv(accessTokenEnvironmentVariableConstant, testAccessTokenConstant)

	observerCore, observerLogs := observer.New(zap.DebugLevel)
	builder := &synccmd.CommandBuilder{
		LoggerProvider:        func() *zap.Logger { return zap.New(observerCore) },
		Lister:                &stubRepositoryLister{},
		GitManager:            &stubGitManager{},
		FileSystem:            mirror.OSFileSystem{},
		EnvironmentFileLoader: func() error { return nil },
	}

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(outputBuffer)

	commandContextAccessor := utils.NewCommandContextAccessor()
	command.SetContext(commandContextAccessor.WithConfigurationFilePath(context.Background(), testConfigurationFilePathConstant))
	command.SetArgs([]string{testDomainArgumentConstant, testProjectArgumentConstant, testInstance.TempDir()})

	require.NoError(testInstance, command.Execute())

	provenanceEntries := observerLogs.FilterMessage("using configuration file").All()
	require.Len(testInstance, provenanceEntries, 1)
	require.Equal(testInstance, testConfigurationFilePathConstant, provenanceEntries[0].ContextMap()["config_file"])
}

func TestSyncCommandSanitizesBlankConfiguration(testInstance *testing.T) {
	testInstance.Setenv(accessTokenEnvironmentVariableConstant, testAccessTokenConstant)

	lister := &stubRepositoryLister{}
	builder := &synccmd.CommandBuilder{
		Lister:                lister,
		GitManager:            &stubGitManager{},
		EnvironmentFileLoader: func() error { return nil },
		ConfigurationProvider: func() synccmd.CommandConfiguration {
			return synccmd.CommandConfiguration{}
		},
	}
	_, executeCommand := buildSyncCommand(testInstance, builder)

	executionError := executeCommand(testDomainArgumentConstant, testProjectArgumentConstant, testInstance.TempDir())

	require.NoError(testInstance, executionError)
	require.Len(testInstance, lister.recordedQueries, 1)
	require.Equal(testInstance, synccmd.DefaultCommandConfiguration().PageSize, lister.recordedQueries[0].PageSize)
}
