package domain

import "errors"

var (
	// Ballot-casting gates, in the order they are checked.
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrIdentityIncomplete = errors.New("member identity is incomplete or unverified")
	ErrNotAuthorized      = errors.New("member is not authorized to vote")
	ErrAlreadyVoted       = errors.New("member has already voted on this poll")
	ErrPollNotFound       = errors.New("poll not found")
	ErrPollNotPublished   = errors.New("poll is not published")
	ErrPollNotOpen        = errors.New("poll has not opened yet")
	ErrPollClosed         = errors.New("poll is closed")
	ErrInvalidSelection   = errors.New("invalid option selection for this poll")
	ErrInvalidOption      = errors.New("option does not belong to this poll")

	// Lifecycle and administration.
	ErrAdminRequired  = errors.New("administrator privileges required")
	ErrInvalidWindow  = errors.New("poll open time must precede close time")
	ErrMemberNotFound = errors.New("member not found")
	ErrMemberExists   = errors.New("member with this dni or email already exists")

	// Authentication.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionExpired     = errors.New("session is expired or inactive")
)
