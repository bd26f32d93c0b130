package services

import "errors"

// Business error taxonomy. Handlers match these with errors.Is to pick a
// response status; wrapped causes carry the store's own message.
var (
	// ErrAuthRequired signals a checkout attempted without a session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrProfileIncomplete signals a session whose profile record is
	// missing; the caller should re-authenticate.
	ErrProfileIncomplete = errors.New("profile incomplete")

	// ErrEmptySelection signals a checkout with no matching cart lines.
	ErrEmptySelection = errors.New("no items selected for checkout")

	// ErrPersistenceFailed signals that the order could not be written to
	// the store and a local-only fallback order was produced instead.
	ErrPersistenceFailed = errors.New("order persistence failed")

	// ErrAuthorizationSuspected signals a delete that reported success but
	// left the row in place, which usually means a policy rejection.
	ErrAuthorizationSuspected = errors.New("delete appears to have been rejected by store policy")
)
