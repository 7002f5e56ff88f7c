package service

import (
	"errors"

	"pagure/internal/gitrepo"
	"pagure/internal/merge"
	"pagure/internal/repository"
)

var (
	ErrDenied            = errors.New("denied")
	ErrNotFound          = repository.ErrNotFound
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyExists     = errors.New("already exists")
	ErrMergeConflict     = merge.ErrMergeConflict
	ErrRefUpdateConflict = gitrepo.ErrRefUpdateConflict
)

// DeniedError carries the reason an actor may not perform an operation.
type DeniedError struct {
	Reason string
}

func (e *DeniedError) Error() string {
	return "denied: " + e.Reason
}

func (e *DeniedError) Is(target error) bool {
	return target == ErrDenied
}

func denied(reason string) error {
	return &DeniedError{Reason: reason}
}
