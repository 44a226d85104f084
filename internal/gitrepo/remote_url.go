package gitrepo

import (
	"fmt"
	"strings"
)

const (
	sshProtocolPrefixConstant           = "ssh://"
	sshUserDelimiterConstant            = "@"
	portDelimiterConstant               = ":"
	httpsProtocolPrefixConstant         = "https://"
	httpProtocolPrefixConstant          = "http://"
	pathSeparatorConstant               = "/"
	gitSuffixConstant                   = ".git"
	httpsSCMPathSegmentConstant         = "scm"
	remoteURLParseErrorTemplateConstant = "%s: %s"
	invalidRemoteURLMessageConstant     = "invalid remote url"
)

// RemoteProtocol enumerates supported git remote protocols.
type RemoteProtocol string

// Supported remote protocols.
const (
	RemoteProtocolSSH   RemoteProtocol = RemoteProtocol("ssh")
	RemoteProtocolHTTPS RemoteProtocol = RemoteProtocol("https")
)

// RemoteURL represents a structured clone URL as published by the hosting server.
type RemoteURL struct {
	Protocol   RemoteProtocol
	Host       string
	Port       string
	ProjectKey string
	Repository string
}

// RemoteURLParseError indicates a remote string could not be parsed.
type RemoteURLParseError struct {
	Input   string
	Message string
}

// Error describes the parse failure.
func (parseError RemoteURLParseError) Error() string {
	return fmt.Sprintf(remoteURLParseErrorTemplateConstant, parseError.Input, parseError.Message)
}

// ParseRemoteURL converts a textual clone URL into a structured representation.
// It understands the secure-shell form ssh://git@host:port/project/repo.git and
// the web form https://host/scm/project/repo.git.
func ParseRemoteURL(remote string) (RemoteURL, error) {
	trimmedRemote := strings.TrimSpace(remote)
	if len(trimmedRemote) == 0 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: requiredValueMessageConstant}
	}

	if strings.HasPrefix(trimmedRemote, sshProtocolPrefixConstant) {
		return parseSSHRemote(strings.TrimPrefix(trimmedRemote, sshProtocolPrefixConstant))
	}
	if strings.HasPrefix(trimmedRemote, httpsProtocolPrefixConstant) {
		return parseHTTPRemote(strings.TrimPrefix(trimmedRemote, httpsProtocolPrefixConstant))
	}
	if strings.HasPrefix(trimmedRemote, httpProtocolPrefixConstant) {
		return parseHTTPRemote(strings.TrimPrefix(trimmedRemote, httpProtocolPrefixConstant))
	}

	return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
}

func parseSSHRemote(remote string) (RemoteURL, error) {
	hostAndPath := remote
	userSplitIndex := strings.Index(remote, sshUserDelimiterConstant)
	if userSplitIndex != -1 {
		hostAndPath = remote[userSplitIndex+1:]
	}

	slashIndex := strings.Index(hostAndPath, pathSeparatorConstant)
	if slashIndex == -1 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	hostComponent := hostAndPath[:slashIndex]
	pathComponent := hostAndPath[slashIndex+1:]

	host := hostComponent
	port := ""
	if portSplitIndex := strings.Index(hostComponent, portDelimiterConstant); portSplitIndex != -1 {
		host = hostComponent[:portSplitIndex]
		port = hostComponent[portSplitIndex+1:]
	}

	projectKey, repository, parseError := splitProjectAndRepository(remote, pathComponent)
	if parseError != nil {
		return RemoteURL{}, parseError
	}

	return RemoteURL{Protocol: RemoteProtocolSSH, Host: host, Port: port, ProjectKey: projectKey, Repository: repository}, nil
}

func parseHTTPRemote(remote string) (RemoteURL, error) {
	pathComponents := strings.Split(remote, pathSeparatorConstant)
	if len(pathComponents) < 3 {
		return RemoteURL{}, RemoteURLParseError{Input: remote, Message: invalidRemoteURLMessageConstant}
	}

	host := pathComponents[0]
	remainingComponents := pathComponents[1:]
	if remainingComponents[0] == httpsSCMPathSegmentConstant {
		remainingComponents = remainingComponents[1:]
	}

	projectKey, repository, parseError := splitProjectAndRepository(remote, strings.Join(remainingComponents, pathSeparatorConstant))
	if parseError != nil {
		return RemoteURL{}, parseError
	}

	return RemoteURL{Protocol: RemoteProtocolHTTPS, Host: host, ProjectKey: projectKey, Repository: repository}, nil
}

func splitProjectAndRepository(input string, path string) (string, string, error) {
	segments := strings.Split(path, pathSeparatorConstant)
	if len(segments) != 2 {
		return "", "", RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}

	repository := strings.TrimSuffix(segments[1], gitSuffixConstant)
	if len(segments[0]) == 0 || len(repository) == 0 {
		return "", "", RemoteURLParseError{Input: input, Message: invalidRemoteURLMessageConstant}
	}

	return segments[0], repository, nil
}
