package mirror

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/stevefranchak/bitbucket-repo-puller/internal/bitbucket"
)

// RepositoryLister enumerates the repositories belonging to a hosting project.
type RepositoryLister interface {
	ListRepositories(executionContext context.Context, query bitbucket.RepositoryQuery) ([]bitbucket.Repository, error)
}

// GitRepositoryManager performs the git operations one repository synchronization needs.
type GitRepositoryManager interface {
	CloneRepository(executionContext context.Context, cloneURL string, parentDirectory string) error
	ListRemoteBranchRefs(executionContext context.Context, repositoryPath string) (string, error)
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	PullCurrentBranch(executionContext context.Context, repositoryPath string) error
}

// FileSystem abstracts the filesystem operations the synchronization workflow performs.
type FileSystem interface {
	Lstat(path string) (fs.FileInfo, error)
	MkdirAll(path string, permissions fs.FileMode) error
	AbsolutePath(path string) (string, error)
}

// OSFileSystem implements FileSystem using the os and filepath packages.
type OSFileSystem struct{}

// Lstat returns file information without following symbolic links.
func (OSFileSystem) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

// MkdirAll creates the directory path along with any missing parents.
func (OSFileSystem) MkdirAll(path string, permissions fs.FileMode) error {
	return os.MkdirAll(path, permissions)
}

// AbsolutePath converts path into an absolute representation.
func (OSFileSystem) AbsolutePath(path string) (string, error) {
	return filepath.Abs(path)
}

// LocalPathState classifies what occupies a repository's local path.
type LocalPathState int

// Local path classifications.
const (
	LocalPathAbsent LocalPathState = iota
	LocalPathDirectory
	LocalPathConflict
)

// LocalPathInspection combines a path classification with a diagnostic for conflicts.
type LocalPathInspection struct {
	State  LocalPathState
	Detail string
}

// RefEntry describes one remote-tracking ref with its remote prefix stripped.
type RefEntry struct {
	ShortName       string
	CommitTimestamp string
}

// SyncStage identifies the workflow phase a failure occurred in.
type SyncStage string

// Workflow phases.
const (
	StageProbe     SyncStage = SyncStage("probe")
	StageCloneLink SyncStage = SyncStage("clone-link")
	StageClone     SyncStage = SyncStage("clone")
	StageListRefs  SyncStage = SyncStage("list-refs")
	StageCheckout  SyncStage = SyncStage("checkout")
	StagePull      SyncStage = SyncStage("pull")
)

// SyncStatus classifies the terminal result of one repository synchronization.
type SyncStatus string

// Terminal synchronization statuses.
const (
	StatusCloned          SyncStatus = SyncStatus("cloned")
	StatusAlreadyUpToDate SyncStatus = SyncStatus("already-up-to-date")
	StatusSkipped         SyncStatus = SyncStatus("skipped")
	StatusFailed          SyncStatus = SyncStatus("failed")
)

// SyncOutcome reports how one repository's synchronization ended.
type SyncOutcome struct {
	RepositorySlug string
	Status         SyncStatus
	Stage          SyncStage
	Reason         string
}
