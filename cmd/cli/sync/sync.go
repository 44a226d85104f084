package sync

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/gitrepo"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/mirror"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/utils"
)

const (
	syncUseConstant              = "sync <domain> <project> <target-directory>"
	syncShortDescriptionConstant = "Mirror every repository of a hosting project into a local directory"
	syncLongDescriptionConstant  = "sync lists the repositories of a remote hosting project, clones the ones missing locally, and fast-forwards the most recently active remote branch of each one. Failures scoped to a single repository are reported and never abort the batch."

	accessTokenEnvironmentVariableConstant = "BITBUCKET_ACCESS_TOKEN"
	missingAccessTokenMessageConstant      = "environment variable " + accessTokenEnvironmentVariableConstant + " is not set"

	positionalArgumentCountConstant = 3

	domainArgumentIndexConstant          = 0
	projectArgumentIndexConstant         = 1
	targetDirectoryArgumentIndexConstant = 2

	outcomesLogMessageConstant     = "synchronization finished"
	attemptedCountLogFieldConstant = "attempted"
	failedCountLogFieldConstant    = "failed"
	skippedCountLogFieldConstant   = "skipped"

	configurationFileLogMessageConstant = "using configuration file"
	configurationFileLogFieldConstant   = "config_file"
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the sync command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Lister                       mirror.RepositoryLister
	GitExecutor                  gitrepo.GitExecutor
	GitManager                   mirror.GitRepositoryManager
	FileSystem                   mirror.FileSystem
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	EnvironmentFileLoader        func() error
}

// Build constructs the sync command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   syncUseConstant,
		Short: syncShortDescriptionConstant,
		Long:  syncLongDescriptionConstant,
		Args:  cobra.ExactArgs(positionalArgumentCountConstant),
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	builder.loadEnvironmentFile()

	accessToken := strings.TrimSpace(os.Getenv(accessTokenEnvironmentVariableConstant))
	if len(accessToken) == 0 {
		return errors.New(missingAccessTokenMessageConstant)
	}

	configuration := builder.resolveConfiguration()
	logger := builder.resolveLogger()
	builder.logConfigurationProvenance(command.Context(), logger)

	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	gitExecutor, executorError := mirror.ResolveGitExecutor(builder.GitExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	gitManager, managerError := mirror.ResolveGitManager(builder.GitManager, gitExecutor)
	if managerError != nil {
		return managerError
	}

	syncDependencies := mirror.Dependencies{
		Lister:     mirror.ResolveRepositoryLister(builder.Lister),
		GitManager: gitManager,
		FileSystem: mirror.ResolveFileSystem(builder.FileSystem),
		Logger:     logger,
		Output:     command.OutOrStdout(),
	}

	syncOptions := mirror.Options{
		Domain:          strings.TrimSpace(arguments[domainArgumentIndexConstant]),
		ProjectKey:      strings.TrimSpace(arguments[projectArgumentIndexConstant]),
		AccessToken:     accessToken,
		TargetDirectory: arguments[targetDirectoryArgumentIndexConstant],
		CloneLinkLabel:  configuration.CloneLinkLabel,
		RemoteRefPrefix: configuration.RemoteRefPrefix,
		PageSize:        configuration.PageSize,
	}

	syncOutcomes, runError := mirror.Execute(command.Context(), syncDependencies, syncOptions)
	if runError != nil {
		return runError
	}

	failedCount := 0
	skippedCount := 0
	for _, outcome := range syncOutcomes {
		switch outcome.Status {
		case mirror.StatusFailed:
			failedCount++
		case mirror.StatusSkipped:
			skippedCount++
		}
	}

	logger.Info(outcomesLogMessageConstant,
		zap.Int(attemptedCountLogFieldConstant, len(syncOutcomes)),
		zap.Int(failedCountLogFieldConstant, failedCount),
		zap.Int(skippedCountLogFieldConstant, skippedCount),
	)

	return nil
}

// logConfigurationProvenance records which configuration file shaped the run when the host command published one.
func (builder *CommandBuilder) logConfigurationProvenance(executionContext context.Context, logger *zap.Logger) {
	commandContextAccessor := utils.NewCommandContextAccessor()
	configurationFilePath, configurationFilePathAvailable := commandContextAccessor.ConfigurationFilePath(executionContext)
	if !configurationFilePathAvailable || len(configurationFilePath) == 0 {
		return
	}
	logger.Debug(configurationFileLogMessageConstant, zap.String(configurationFileLogFieldConstant, configurationFilePath))
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

// loadEnvironmentFile loads a .env file when present so the access token can live beside the checkout.
func (builder *CommandBuilder) loadEnvironmentFile() {
	if builder.EnvironmentFileLoader != nil {
		_ = builder.EnvironmentFileLoader()
		return
	}
	_ = godotenv.Load()
}
