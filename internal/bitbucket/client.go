package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	repositoryListEndpointTemplateConstant      = "https://%s/rest/api/1.0/projects/%s/repos?limit=%d&start=%d"
	authorizationHeaderNameConstant             = "Authorization"
	authorizationHeaderValueTemplateConstant    = "Bearer %s"
	acceptHeaderNameConstant                    = "Accept"
	acceptHeaderValueConstant                   = "application/json"
	defaultRequestTimeoutConstant               = 30 * time.Second
	defaultPageSizeConstant                     = 1000
	transportErrorMessageTemplateConstant       = "repository listing request failed: %v"
	authenticationErrorMessageTemplateConstant  = "repository listing rejected with status %d: check the access token"
	unexpectedStatusMessageTemplateConstant     = "repository listing returned unexpected status %d"
	responseDecodeErrorMessageTemplateConstant  = "repository listing response could not be decoded: %v"
	requestCreationErrorMessageTemplateConstant = "repository listing request could not be created: %v"
)

// RepositoryLink describes one entry of a repository link category.
type RepositoryLink struct {
	Href string `json:"href"`
	Name string `json:"name,omitempty"`
}

// Repository describes one repository returned by the project catalogue.
type Repository struct {
	Slug  string                      `json:"slug"`
	Name  string                      `json:"name"`
	Links map[string][]RepositoryLink `json:"links"`
}

// RepositoryPage captures one page of the project repository listing.
type RepositoryPage struct {
	TotalCount   int          `json:"size"`
	PageLimit    int          `json:"limit"`
	Repositories []Repository `json:"values"`
}

// RepositoryQuery identifies the project whose repositories should be listed.
type RepositoryQuery struct {
	Domain      string
	ProjectKey  string
	AccessToken string
	PageSize    int
}

// TransportError indicates the listing request could not complete or returned an unexpected status.
type TransportError struct {
	Cause      error
	StatusCode int
}

// Error describes the transport failure.
func (transportError TransportError) Error() string {
	if transportError.Cause != nil {
		return fmt.Sprintf(transportErrorMessageTemplateConstant, transportError.Cause)
	}
	return fmt.Sprintf(unexpectedStatusMessageTemplateConstant, transportError.StatusCode)
}

// Unwrap exposes the underlying cause when one exists.
func (transportError TransportError) Unwrap() error {
	return transportError.Cause
}

// AuthenticationError indicates the remote host rejected the supplied credential.
type AuthenticationError struct {
	StatusCode int
}

// Error describes the rejected credential.
func (authenticationError AuthenticationError) Error() string {
	return fmt.Sprintf(authenticationErrorMessageTemplateConstant, authenticationError.StatusCode)
}

// ResponseDecodeError indicates the listing response did not match the expected schema.
type ResponseDecodeError struct {
	Cause error
}

// Error describes the decode failure.
func (decodeError ResponseDecodeError) Error() string {
	return fmt.Sprintf(responseDecodeErrorMessageTemplateConstant, decodeError.Cause)
}

// Unwrap exposes the underlying cause.
func (decodeError ResponseDecodeError) Unwrap() error {
	return decodeError.Cause
}

// HTTPDoer abstracts the HTTP client used to reach the repository catalogue.
type HTTPDoer interface {
	Do(request *http.Request) (*http.Response, error)
}

// Client lists repositories belonging to a hosting project.
type Client struct {
	httpClient HTTPDoer
}

// NewClient constructs a Client backed by a default HTTP client with a request timeout.
func NewClient() *Client {
	return &Client{httpClient: &http.Client{Timeout: defaultRequestTimeoutConstant}}
}

// NewClientWithHTTPDoer constructs a Client backed by the supplied HTTP implementation.
func NewClientWithHTTPDoer(httpDoer HTTPDoer) *Client {
	if httpDoer == nil {
		return NewClient()
	}
	return &Client{httpClient: httpDoer}
}

// ListRepositoryPage fetches a single page of the project repository listing starting at the provided offset.
func (client *Client) ListRepositoryPage(executionContext context.Context, query RepositoryQuery, startOffset int) (RepositoryPage, error) {
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSizeConstant
	}

	requestURL := fmt.Sprintf(repositoryListEndpointTemplateConstant, strings.TrimSpace(query.Domain), strings.TrimSpace(query.ProjectKey), pageSize, startOffset)
	request, requestCreationError := http.NewRequestWithContext(executionContext, http.MethodGet, requestURL, nil)
	if requestCreationError != nil {
		return RepositoryPage{}, TransportError{Cause: fmt.Errorf(requestCreationErrorMessageTemplateConstant, requestCreationError)}
	}

	request.Header.Set(authorizationHeaderNameConstant, fmt.Sprintf(authorizationHeaderValueTemplateConstant, query.AccessToken))
	request.Header.Set(acceptHeaderNameConstant, acceptHeaderValueConstant)

	response, requestError := client.httpClient.Do(request)
	if requestError != nil {
		return RepositoryPage{}, TransportError{Cause: requestError}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, response.Body)
		_ = response.Body.Close()
	}()

	switch {
	case response.StatusCode == http.StatusUnauthorized || response.StatusCode == http.StatusForbidden:
		return RepositoryPage{}, AuthenticationError{StatusCode: response.StatusCode}
	case response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices:
		return RepositoryPage{}, TransportError{StatusCode: response.StatusCode}
	}

	repositoryPage := RepositoryPage{}
	decodeError := json.NewDecoder(response.Body).Decode(&repositoryPage)
	if decodeError != nil {
		return RepositoryPage{}, ResponseDecodeError{Cause: decodeError}
	}

	return repositoryPage, nil
}

// ListRepositories fetches every page of the project repository listing and returns the combined descriptors.
func (client *Client) ListRepositories(executionContext context.Context, query RepositoryQuery) ([]Repository, error) {
	collectedRepositories := []Repository{}
	startOffset := 0

	for {
		repositoryPage, pageError := client.ListRepositoryPage(executionContext, query, startOffset)
		if pageError != nil {
			return nil, pageError
		}

		collectedRepositories = append(collectedRepositories, repositoryPage.Repositories...)

		if len(repositoryPage.Repositories) == 0 {
			break
		}
		if len(collectedRepositories) >= repositoryPage.TotalCount {
			break
		}

		startOffset += len(repositoryPage.Repositories)
	}

	return collectedRepositories, nil
}
