// Package gitfs implements a repository snapshot fetcher backed by an
// in-memory git clone. It serves as a fallback when no forge API token is
// configured or the REST API is unreachable: a shallow single-branch clone
// yields the same file listing and README the API would.
package gitfs

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/alexsohr/autodoc/internal/logfields"
)

// Fetcher clones repositories into memory and walks the commit tree.
// It keeps no state between calls; each fetch owns its own clone.
type Fetcher struct {
	// BaseURL turns owner/repo into a clone URL. Defaults to GitHub.
	BaseURL string
}

// NewFetcher returns a clone-based snapshot fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{BaseURL: "https://github.com"}
}

// FetchFileTree clones the branch and returns the flattened file listing.
// Failures degrade to an empty listing with a warning, matching the REST
// fetcher contract.
func (f *Fetcher) FetchFileTree(ctx context.Context, owner, repo, branch string) []string {
	tree, err := f.cloneTree(ctx, owner, repo, branch)
	if err != nil {
		slog.Warn("Failed to clone repository for file tree",
			logfields.Repository(owner+"/"+repo),
			logfields.Branch(branch),
			logfields.Error(err))
		return nil
	}

	var paths []string
	err = tree.Files().ForEach(func(file *object.File) error {
		paths = append(paths, file.Name)
		return nil
	})
	if err != nil {
		slog.Warn("Failed to walk repository tree",
			logfields.Repository(owner+"/"+repo),
			logfields.Error(err))
		return nil
	}
	sort.Strings(paths)
	slog.Info("Listed repository files from clone",
		logfields.Repository(owner+"/"+repo),
		logfields.Branch(branch),
		slog.Int("files", len(paths)))
	return paths
}

// FetchReadme clones the default branch and returns the first README it finds
// at the repository root, or "" when none exists.
func (f *Fetcher) FetchReadme(ctx context.Context, owner, repo string) string {
	tree, err := f.cloneTree(ctx, owner, repo, "")
	if err != nil {
		slog.Warn("Failed to clone repository for README",
			logfields.Repository(owner+"/"+repo),
			logfields.Error(err))
		return ""
	}

	var readme string
	_ = tree.Files().ForEach(func(file *object.File) error {
		if strings.Contains(file.Name, "/") {
			return nil
		}
		base := strings.ToLower(file.Name)
		if base != "readme" && base != "readme.md" && base != "readme.rst" && base != "readme.txt" {
			return nil
		}
		reader, err := file.Reader()
		if err != nil {
			return nil
		}
		defer func() { _ = reader.Close() }()
		data, err := io.ReadAll(reader)
		if err != nil {
			return nil
		}
		readme = string(data)
		return storer.ErrStop
	})
	return readme
}

func (f *Fetcher) cloneTree(ctx context.Context, owner, repo, branch string) (*object.Tree, error) {
	opts := &git.CloneOptions{
		URL:   strings.TrimSuffix(f.BaseURL, "/") + "/" + owner + "/" + repo + ".git",
		Depth: 1,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}

	repository, err := git.CloneContext(ctx, memory.NewStorage(), nil, opts)
	if err != nil {
		return nil, err
	}
	head, err := repository.Head()
	if err != nil {
		return nil, err
	}
	commit, err := repository.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}
