package exception

import "errors"

var (
	ErrSchedClosed   = errors.New("sched: scheduler closed")
	ErrSchedNilItem  = errors.New("sched: nil work item")
	ErrSchedNilStep  = errors.New("sched: work item has no step function")
)
