package exception

import "errors"

var (
	ErrOrderTerminal       = errors.New("order: already in a terminal state")
	ErrOrderUnknownStatus  = errors.New("order: unknown status")
	ErrOrderInvalidRequest = errors.New("order: invalid request")
)
