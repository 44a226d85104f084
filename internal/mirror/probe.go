package mirror

import (
	"errors"
	"io/fs"
)

const (
	pathNotDirectoryDetailConstant = "exists but is not a directory"
)

// LocalStateProbe classifies the local path a repository would occupy.
//
// The probe never follows symbolic links, so a path that is a symlink to a
// directory elsewhere is reported as a conflict instead of being traversed.
type LocalStateProbe struct {
	fileSystem FileSystem
}

// NewLocalStateProbe constructs a probe backed by the provided filesystem.
func NewLocalStateProbe(fileSystem FileSystem) *LocalStateProbe {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	return &LocalStateProbe{fileSystem: fileSystem}
}

// Probe inspects the provided path and reports whether it is absent, a usable directory, or a conflict.
func (probe *LocalStateProbe) Probe(path string) LocalPathInspection {
	fileInformation, statError := probe.fileSystem.Lstat(path)
	if statError != nil {
		if errors.Is(statError, fs.ErrNotExist) {
			return LocalPathInspection{State: LocalPathAbsent}
		}
		return LocalPathInspection{State: LocalPathConflict, Detail: statError.Error()}
	}

	if fileInformation.IsDir() {
		return LocalPathInspection{State: LocalPathDirectory}
	}

	return LocalPathInspection{State: LocalPathConflict, Detail: pathNotDirectoryDetailConstant}
}
