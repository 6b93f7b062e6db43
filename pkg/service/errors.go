package service

import (
	"errors"
	"fmt"
)

// ErrDirectoryNotFound is matched by DirectoryNotFoundError.
var ErrDirectoryNotFound = errors.New("directory not found")

// DirectoryNotFoundError is returned when a bank's statement directory does
// not exist. Callers usually treat it as "no files".
type DirectoryNotFoundError struct {
	Bank string
	Dir  string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("statement directory for %s not found: %s", e.Bank, e.Dir)
}

func (e *DirectoryNotFoundError) Is(target error) bool {
	return target == ErrDirectoryNotFound
}

// ExtractionError wraps a failure to read or extract one file.
type ExtractionError struct {
	File string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s: %v", e.File, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
