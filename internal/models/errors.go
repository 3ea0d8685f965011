package models

import "errors"

// Domain errors. Callers match them with errors.Is.
var (
	// ErrNotFound: the entity id does not resolve.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidChoice: the choice does not exist or does not belong to the stated node.
	ErrInvalidChoice = errors.New("invalid choice")
	// ErrInvalidNode: a required node id does not resolve.
	ErrInvalidNode = errors.New("invalid story node")
	// ErrConflict: the stored state changed concurrently and the checked precondition no longer holds.
	ErrConflict = errors.New("conflicting concurrent update")
	// ErrValidation: malformed input rejected before reaching the domain layer.
	ErrValidation = errors.New("validation failed")
)
