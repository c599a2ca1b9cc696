package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("project not found")

	// ErrWrongState rejects an operation that is invalid for the project's
	// current status, e.g. funding a non-WAITING project or disbursing a
	// non-FUNDED one.
	ErrWrongState = errors.New("operation invalid for project status")

	ErrBadInput = errors.New("malformed request")

	// ErrNotRecipient rejects evidence submitted by anyone other than the
	// project's designated heritage recipient.
	ErrNotRecipient = errors.New("caller is not the project's heritage recipient")
)
