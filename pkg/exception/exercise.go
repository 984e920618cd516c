package exception

import "errors"

var (
	ErrExerciseManualOTM          = errors.New("exercise: manual exercise of out-of-the-money contract is unsupported")
	ErrExerciseNilUnderlying      = errors.New("exercise: option has no underlying")
	ErrExerciseUnpricedUnderlying = errors.New("exercise: underlying has no price")
)
