// Package gitmeta reads version-control metadata from the project being
// packaged, so build records and bundle metadata carry the exact source
// revision they were produced from.
package gitmeta

import (
	"log/slog"

	git "github.com/go-git/go-git/v5"
)

// Meta is the VCS state of the project tree at build time.
type Meta struct {
	Commit string
	Branch string
	Dirty  bool
}

// Read returns the VCS metadata for the repository containing dir. Projects
// that are not under version control are not an error; the zero Meta is
// returned and the build proceeds unstamped.
func Read(dir string) Meta {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		slog.Debug("Project is not a git repository", "dir", dir, "error", err)
		return Meta{}
	}

	var meta Meta

	head, err := repo.Head()
	if err != nil {
		slog.Debug("Could not resolve HEAD", "dir", dir, "error", err)
		return Meta{}
	}
	meta.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		meta.Branch = head.Name().Short()
	}

	wt, err := repo.Worktree()
	if err != nil {
		return meta
	}
	status, err := wt.Status()
	if err != nil {
		slog.Debug("Could not read worktree status", "dir", dir, "error", err)
		return meta
	}
	meta.Dirty = !status.IsClean()

	return meta
}
