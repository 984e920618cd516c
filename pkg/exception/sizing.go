package exception

import "errors"

var (
	ErrSizingPercentOutOfBand   = errors.New("sizing: target percent outside configured band")
	ErrSizingUnpricedInstrument = errors.New("sizing: instrument has no price")
	ErrMarginInsufficientData   = errors.New("margin: insufficient data to size order")
)
