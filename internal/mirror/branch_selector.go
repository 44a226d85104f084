package mirror

import (
	"strings"

	"go.uber.org/zap"
)

const (
	refLineFieldSeparatorConstant      = "|"
	defaultRemoteRefPrefixConstant     = "origin/"
	headSymbolicRefNameConstant        = "HEAD"
	malformedRefLineLogMessageConstant = "skipping malformed remote ref line"
	refLineLogFieldNameConstant        = "line"
	missingSeparatorLogReasonConstant  = "missing field separator"
	missingPrefixLogReasonConstant     = "missing remote ref prefix"
	malformedRefReasonLogFieldConstant = "reason"
)

// LatestBranchSelector picks the branch to synchronize to from a remote ref listing.
//
// The listing is expected newest-commit-first, one "<shortref>|<committerdate>"
// entry per line, so selection reduces to taking the first entry that survives
// filtering. Lines that do not match the expected shape are logged and skipped
// rather than aborting the parse.
type LatestBranchSelector struct {
	remoteRefPrefix string
	logger          *zap.Logger
}

// NewLatestBranchSelector constructs a selector stripping the provided
// remote-tracking prefix, defaulting to the origin prefix when blank.
func NewLatestBranchSelector(remoteRefPrefix string, logger *zap.Logger) *LatestBranchSelector {
	trimmedPrefix := strings.TrimSpace(remoteRefPrefix)
	if len(trimmedPrefix) == 0 {
		trimmedPrefix = defaultRemoteRefPrefixConstant
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LatestBranchSelector{remoteRefPrefix: trimmedPrefix, logger: logger}
}

// Select parses the raw ref listing and returns the most recently active branch.
// The second return value reports whether any branch survived filtering.
func (selector *LatestBranchSelector) Select(rawOutput string) (RefEntry, bool) {
	for _, rawLine := range strings.Split(rawOutput, "\n") {
		trimmedLine := strings.TrimSpace(rawLine)
		if len(trimmedLine) == 0 {
			continue
		}

		separatorIndex := strings.Index(trimmedLine, refLineFieldSeparatorConstant)
		if separatorIndex == -1 {
			selector.logger.Warn(malformedRefLineLogMessageConstant,
				zap.String(refLineLogFieldNameConstant, trimmedLine),
				zap.String(malformedRefReasonLogFieldConstant, missingSeparatorLogReasonConstant),
			)
			continue
		}

		shortRefField := trimmedLine[:separatorIndex]
		commitTimestampField := trimmedLine[separatorIndex+1:]

		if !strings.HasPrefix(shortRefField, selector.remoteRefPrefix) {
			selector.logger.Warn(malformedRefLineLogMessageConstant,
				zap.String(refLineLogFieldNameConstant, trimmedLine),
				zap.String(malformedRefReasonLogFieldConstant, missingPrefixLogReasonConstant),
			)
			continue
		}

		strippedName := strings.TrimPrefix(shortRefField, selector.remoteRefPrefix)
		if strippedName == headSymbolicRefNameConstant {
			continue
		}

		return RefEntry{ShortName: strippedName, CommitTimestamp: commitTimestampField}, true
	}

	return RefEntry{}, false
}
