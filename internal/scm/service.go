package scm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v6"
	gitconfig "github.com/go-git/go-git/v6/config"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"go.uber.org/zap"
)

// Service implements Client. Clone, remotes, fetch and all worktree
// operations go through go-git; cherry-pick, its continuation and abort are
// not modeled by go-git, so those three shell out to the git binary.
type Service struct {
	config Config
	logger *zap.Logger
}

func NewService(config Config, logger *zap.Logger) *Service {
	return &Service{
		config: config,
		logger: logger,
	}
}

var _ Client = (*Service)(nil)

// Clone clones a repository to the specified directory.
func (s *Service) Clone(ctx context.Context, req CloneRequest) error {
	s.logger.Info("cloning repository",
		zap.String("url", req.URL),
		zap.String("directory", req.Directory),
		zap.String("ref", req.Ref))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cloneOptions := &git.CloneOptions{
		URL:        req.URL,
		Depth:      req.Depth,
		NoCheckout: req.NoCheckout,
	}

	if req.Ref != "" {
		cloneOptions.ReferenceName = plumbing.NewBranchReferenceName(req.Ref)
		cloneOptions.SingleBranch = true
	}

	if _, err := git.PlainCloneContext(ctx, req.Directory, cloneOptions); err != nil {
		s.logger.Error("failed to clone repository", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCloneFailed, err)
	}

	return nil
}

// Checkout materializes worktree files after a NoCheckout clone. A non-empty
// paths list restricts the checkout to those directories.
func (s *Service) Checkout(_ context.Context, path string, paths []string) error {
	repo, worktree, err := s.openWorktree(path)
	if err != nil {
		return err
	}

	head, err := repo.Head()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	checkoutOptions := &git.CheckoutOptions{
		Hash:  head.Hash(),
		Force: true,
	}
	if len(paths) > 0 {
		checkoutOptions.SparseCheckoutDirectories = paths
	}

	if err := worktree.Checkout(checkoutOptions); err != nil {
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}

	return nil
}

// EnsureRemote adds a remote entry, skipping if one with the same name is
// already configured.
func (s *Service) EnsureRemote(_ context.Context, path, name, url string) error {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepositoryNotFound, err)
	}

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil && !errors.Is(err, git.ErrRemoteExists) {
		s.logger.Error("failed to add remote",
			zap.String("remote", name), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrRemoteFailed, err)
	}

	return nil
}

// Fetch fetches the named remote. Already-up-to-date is a success.
func (s *Service) Fetch(ctx context.Context, path, remote string) error {
	s.logger.Info("fetching remote",
		zap.String("path", path),
		zap.String("remote", remote))

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	repo, err := git.PlainOpen(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRepositoryNotFound, err)
	}

	err = repo.FetchContext(ctx, &git.FetchOptions{RemoteName: remote})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		s.logger.Error("failed to fetch remote",
			zap.String("remote", remote), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	return nil
}

// CherryPick applies the named commit. A pick whose content is already
// present reports PickEmpty; a pick stopped on conflicts reports
// PickConflicted together with the unmerged paths.
func (s *Service) CherryPick(ctx context.Context, path, commit string) (CherryPickResult, error) {
	s.logger.Info("cherry-picking",
		zap.String("path", path),
		zap.String("commit", commit))

	out, err := s.runGit(ctx, path, "cherry-pick", "--allow-empty", commit)
	if err == nil {
		return CherryPickResult{State: PickApplied}, nil
	}

	if isEmptyPick(out) {
		// Clear the sequencer state the stopped pick left behind.
		_, _ = s.runGit(ctx, path, "cherry-pick", "--skip")
		return CherryPickResult{State: PickEmpty}, nil
	}

	files, confErr := s.ConflictedFiles(ctx, path)
	if confErr == nil && len(files) > 0 {
		s.logger.Warn("cherry-pick stopped on conflicts",
			zap.String("commit", commit),
			zap.Strings("files", files))
		return CherryPickResult{State: PickConflicted, ConflictFiles: files}, nil
	}

	return CherryPickResult{}, fmt.Errorf("%w: %s", ErrCherryPickFailed, firstLine(out))
}

// ContinueCherryPick resumes a conflicted pick after its files were staged.
func (s *Service) ContinueCherryPick(ctx context.Context, path string) (CherryPickResult, error) {
	out, err := s.runGit(ctx, path, "-c", "core.editor=true", "cherry-pick", "--continue")
	if err == nil {
		return CherryPickResult{State: PickApplied}, nil
	}

	if isEmptyPick(out) {
		_, _ = s.runGit(ctx, path, "cherry-pick", "--skip")
		return CherryPickResult{State: PickEmpty}, nil
	}

	return CherryPickResult{}, fmt.Errorf("%w: %s", ErrCherryPickFailed, firstLine(out))
}

// AbortCherryPick abandons an in-progress pick and restores the worktree.
func (s *Service) AbortCherryPick(ctx context.Context, path string) error {
	if out, err := s.runGit(ctx, path, "cherry-pick", "--abort"); err != nil {
		return fmt.Errorf("%w: %s", ErrCherryPickFailed, firstLine(out))
	}

	return nil
}

// HasUncommittedChanges reports whether the worktree is dirty.
func (s *Service) HasUncommittedChanges(path string) (bool, error) {
	_, worktree, err := s.openWorktree(path)
	if err != nil {
		return false, err
	}

	status, err := worktree.Status()
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return !status.IsClean(), nil
}

// Commit stages all pending changes and records a commit.
func (s *Service) Commit(_ context.Context, path, message string, allowEmpty bool) error {
	s.logger.Info("committing",
		zap.String("path", path),
		zap.String("message", message))

	_, worktree, err := s.openWorktree(path)
	if err != nil {
		return err
	}

	if err := worktree.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	_, err = worktree.Commit(message, &git.CommitOptions{
		AllowEmptyCommits: allowEmpty,
		Author:            s.signature(),
	})
	if err != nil {
		s.logger.Error("failed to commit", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}

	return nil
}

// Stage adds a single repository-relative file to the index.
func (s *Service) Stage(path, file string) error {
	_, worktree, err := s.openWorktree(path)
	if err != nil {
		return err
	}

	if _, err := worktree.Add(file); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return nil
}

// ConflictedFiles lists repository-relative paths that are unmerged. It
// asks the git binary directly: go-git's status does not model the index
// stages an in-progress cherry-pick leaves behind.
func (s *Service) ConflictedFiles(ctx context.Context, path string) ([]string, error) {
	out, err := s.runGit(ctx, path, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRepository, firstLine(out))
	}

	var files []string
	for _, line := range strings.Split(out, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	sort.Strings(files)

	return files, nil
}

// IsRepository reports whether path holds a git repository.
func (s *Service) IsRepository(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

func (s *Service) openWorktree(path string) (*git.Repository, *git.Worktree, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrRepositoryNotFound, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	return repo, worktree, nil
}

func (s *Service) signature() *object.Signature {
	return &object.Signature{
		Name:  s.config.AuthorName,
		Email: s.config.AuthorEmail,
		When:  time.Now(),
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.config.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.config.Timeout)
}

// runGit executes the git binary against the repository at dir, returning the
// combined output. The configured author identity is passed along so commits
// recorded by git itself do not depend on host-level configuration.
func (s *Service) runGit(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	base := []string{
		"-C", dir,
		"-c", "user.name=" + s.config.AuthorName,
		"-c", "user.email=" + s.config.AuthorEmail,
	}
	cmd := exec.CommandContext(ctx, "git", append(base, args...)...)
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf

	err := cmd.Run()
	return buf.String(), err
}

// isEmptyPick recognizes git telling us the picked change is already present.
func isEmptyPick(out string) bool {
	return strings.Contains(out, "is now empty") ||
		strings.Contains(out, "nothing to commit")
}

func firstLine(out string) string {
	out = strings.TrimSpace(out)
	if i := strings.IndexByte(out, '\n'); i >= 0 {
		out = out[:i]
	}
	return out
}
