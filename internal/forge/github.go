package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/alexsohr/autodoc/internal/config"
	"github.com/alexsohr/autodoc/internal/logfields"
)

// GitHubClient fetches repository snapshots over the GitHub REST API.
// The HTTP client is injected at construction so its lifetime is owned by the
// process, not by ambient package state.
type GitHubClient struct {
	httpClient *http.Client
	apiURL     string
	token      string
}

// NewGitHubClient creates a snapshot client from forge configuration.
func NewGitHubClient(fc config.ForgeConfig, httpClient *http.Client) *GitHubClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fc.Timeout}
	}
	apiURL := fc.APIURL
	if apiURL == "" {
		apiURL = "https://api.github.com"
	}
	return &GitHubClient{
		httpClient: httpClient,
		apiURL:     apiURL,
		token:      fc.Token,
	}
}

// githubTree is the response shape of the git/trees endpoint.
type githubTree struct {
	Tree []githubTreeEntry `json:"tree"`
}

type githubTreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// FetchFileTree returns the flattened file listing of the repository at the
// given branch. Directories ("tree" entries) are excluded. Any failure is
// logged and degrades to an empty listing.
func (c *GitHubClient) FetchFileTree(ctx context.Context, owner, repo, branch string) []string {
	endpoint := fmt.Sprintf("/repos/%s/%s/git/trees/%s?recursive=1", owner, repo, branch)

	var tree githubTree
	if err := c.getJSON(ctx, endpoint, &tree); err != nil {
		slog.Warn("Failed to fetch repository file tree",
			logfields.Repository(owner+"/"+repo),
			logfields.Branch(branch),
			logfields.Error(err))
		return nil
	}

	paths := make([]string, 0, len(tree.Tree))
	for _, entry := range tree.Tree {
		if entry.Type == "blob" {
			paths = append(paths, entry.Path)
		}
	}
	slog.Info("Fetched repository file tree",
		logfields.Repository(owner+"/"+repo),
		logfields.Branch(branch),
		slog.Int("files", len(paths)))
	return paths
}

// FetchReadme returns the raw README content, or "" when the repository has
// none or the request fails.
func (c *GitHubClient) FetchReadme(ctx context.Context, owner, repo string) string {
	endpoint := fmt.Sprintf("/repos/%s/%s/readme", owner, repo)

	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		slog.Warn("Failed to build README request", logfields.Repository(owner+"/"+repo), logfields.Error(err))
		return ""
	}
	// Raw media type avoids a base64 decode round trip.
	req.Header.Set("Accept", "application/vnd.github.v3.raw")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Failed to fetch README", logfields.Repository(owner+"/"+repo), logfields.Error(err))
		return ""
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("README not available",
			logfields.Repository(owner+"/"+repo),
			slog.Int("status", resp.StatusCode))
		return ""
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Warn("Failed to read README body", logfields.Repository(owner+"/"+repo), logfields.Error(err))
		return ""
	}
	return string(body)
}

func (c *GitHubClient) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *GitHubClient) getJSON(ctx context.Context, endpoint string, result any) error {
	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", endpoint, resp.StatusCode, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
