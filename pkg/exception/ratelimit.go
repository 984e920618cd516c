package exception

import "errors"

var (
	// ErrConsumeTimeout signals the caller should retry or back off,
	// not that the request was invalid.
	ErrConsumeTimeout = errors.New("ratelimit: consume timed out")
)
