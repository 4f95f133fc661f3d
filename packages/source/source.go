// Package source abstracts where API artifacts come from. The normalizer
// only ever sees text; fetchers supply it from a repository checkout on
// disk or over HTTP.
package source

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Fetcher retrieves one artifact's content from a repository.
type Fetcher interface {
	FetchFile(repo, path string) (string, error)
}

// LocalFetcher reads artifacts from repository checkouts under a root
// directory.
type LocalFetcher struct {
	Root string
}

func NewLocalFetcher(root string) *LocalFetcher {
	return &LocalFetcher{Root: root}
}

func (f *LocalFetcher) FetchFile(repo, path string) (string, error) {
	full := filepath.Join(f.Root, repo, filepath.Clean("/"+path))
	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", full, err)
	}
	return string(data), nil
}

// HTTPFetcher retrieves artifacts from a content service at
// baseURL/<repo>/<path>.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *HTTPFetcher) FetchFile(repo, path string) (string, error) {
	url := f.BaseURL + "/" + repo + "/" + strings.TrimLeft(path, "/")
	resp, err := f.Client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// KindHint guesses the artifact kind from a file name. Callers may
// override the guess.
func KindHint(path string) string {
	name := strings.ToLower(filepath.Base(path))
	switch {
	case strings.HasSuffix(name, ".graphql"), strings.HasSuffix(name, ".gql"):
		return "graphql"
	case strings.HasSuffix(name, ".proto"):
		return "grpc"
	case strings.Contains(name, "postman"), strings.HasSuffix(name, ".postman_collection.json"):
		return "postman"
	default:
		return "openapi"
	}
}
