package mirror

import (
	"os"

	"go.uber.org/zap"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/bitbucket"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/execshell"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/gitrepo"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/ui"
	"github.com/stevefranchak/bitbucket-repo-puller/internal/utils"
)

// ResolveRepositoryLister returns the provided lister or a REST-backed default.
func ResolveRepositoryLister(existing RepositoryLister) RepositoryLister {
	if existing != nil {
		return existing
	}
	return bitbucket.NewClient()
}

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing FileSystem) FileSystem {
	if existing != nil {
		return existing
	}
	return OSFileSystem{}
}

// ResolveGitExecutor returns the provided executor or constructs a shell-backed default.
// Streamed command output flows through flushing writers so clone progress stays visible,
// and human-readable runs additionally echo command lifecycle events to the console.
func ResolveGitExecutor(existing gitrepo.GitExecutor, logger *zap.Logger, humanReadableLogging bool) (gitrepo.GitExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunnerWithOutputStreams(
		utils.NewFlushingWriter(os.Stdout),
		utils.NewFlushingWriter(os.Stderr),
	)

	if humanReadableLogging {
		return execshell.NewShellExecutor(logger, commandRunner, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, commandRunner)
}

// ResolveGitManager returns the provided repository manager or constructs one from the executor.
func ResolveGitManager(existing GitRepositoryManager, executor gitrepo.GitExecutor) (GitRepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}
