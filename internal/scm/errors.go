package scm

import "errors"

var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrCloneFailed        = errors.New("failed to clone repository")
	ErrCheckoutFailed     = errors.New("failed to check out worktree")
	ErrRemoteFailed       = errors.New("failed to configure remote")
	ErrFetchFailed        = errors.New("failed to fetch remote")
	ErrCherryPickFailed   = errors.New("cherry-pick failed")
	ErrCommitFailed       = errors.New("failed to commit")
	ErrInvalidRepository  = errors.New("invalid repository")
)
