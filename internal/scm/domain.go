package scm

import "context"

// Client is the narrow source-control surface the workflow depends on. It is
// deliberately small: clone, remote management, fetch, the cherry-pick
// trio and the worktree operations needed around conflict resolution.
type Client interface {
	// Clone materializes a repository at req.Directory.
	Clone(ctx context.Context, req CloneRequest) error

	// Checkout materializes worktree files after a NoCheckout clone. When
	// paths is non-empty only those directories are checked out.
	Checkout(ctx context.Context, path string, paths []string) error

	// EnsureRemote adds a remote if it is not already configured.
	EnsureRemote(ctx context.Context, path, name, url string) error

	// Fetch fetches the named remote.
	Fetch(ctx context.Context, path, remote string) error

	// CherryPick applies the named commit onto the current worktree.
	CherryPick(ctx context.Context, path, commit string) (CherryPickResult, error)

	// ContinueCherryPick resumes an in-progress cherry-pick after its
	// conflicts have been resolved and staged.
	ContinueCherryPick(ctx context.Context, path string) (CherryPickResult, error)

	// AbortCherryPick abandons an in-progress cherry-pick.
	AbortCherryPick(ctx context.Context, path string) error

	// HasUncommittedChanges reports whether the worktree is dirty.
	HasUncommittedChanges(path string) (bool, error)

	// Commit stages everything and records a commit.
	Commit(ctx context.Context, path, message string, allowEmpty bool) error

	// Stage adds a single repository-relative file to the index.
	Stage(path, file string) error

	// ConflictedFiles lists repository-relative paths that are unmerged.
	ConflictedFiles(ctx context.Context, path string) ([]string, error)

	// IsRepository reports whether path holds a git repository.
	IsRepository(path string) bool
}

// CloneRequest describes one repository to materialize.
type CloneRequest struct {
	URL        string // Remote repository URL
	Ref        string // Branch to clone (optional, defaults to default branch)
	Directory  string // Directory to clone into
	Depth      int    // Shallow clone depth, 0 for full history
	NoCheckout bool   // Clone metadata only, leave the worktree empty
}
