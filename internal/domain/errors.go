package domain

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against a *RepoError.
var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("duplicate record")
	ErrReference = errors.New("referenced record does not exist")
	ErrBackend   = errors.New("backend request failed")
)

// Business conditions raised by repositories inside a transaction.
var (
	ErrJobFull           = errors.New("job has no positions left")
	ErrInvalidTransition = errors.New("status transition not allowed")
)

// ErrorKind classifies a failed backend request.
type ErrorKind string

const (
	KindNotFound  ErrorKind = "not_found"
	KindDuplicate ErrorKind = "duplicate"
	KindReference ErrorKind = "reference"
	KindBackend   ErrorKind = "backend"
)

// RepoError is the only error type repositories return for backend failures.
type RepoError struct {
	Op   string    // e.g. "job_applications.insert"
	Kind ErrorKind // classification used by use-cases
	Code string    // backend error code, if any (SQLSTATE)
	Err  error
}

func (e *RepoError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *RepoError) Unwrap() error { return e.Err }

func (e *RepoError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrDuplicate:
		return e.Kind == KindDuplicate
	case ErrReference:
		return e.Kind == KindReference
	case ErrBackend:
		return e.Kind == KindBackend
	}
	return false
}

// KindOf returns the kind of a repository error, or "" for other errors.
func KindOf(err error) ErrorKind {
	var repoErr *RepoError
	if errors.As(err, &repoErr) {
		return repoErr.Kind
	}
	return ""
}
