package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction is the side of a trade implied by a signed quantity.
type Direction uint8

const (
	DirectionHold Direction = iota
	DirectionBuy
	DirectionSell
)

func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "buy"
	case DirectionSell:
		return "sell"
	default:
		return "hold"
	}
}

// DirectionOf maps a signed quantity onto a trade direction.
func DirectionOf(qty decimal.Decimal) Direction {
	switch qty.Sign() {
	case 1:
		return DirectionBuy
	case -1:
		return DirectionSell
	default:
		return DirectionHold
	}
}

// Tick is a single observed price point for one instrument.
type Tick struct {
	Symbol string
	Time   time.Time
	Price  decimal.Decimal
	Volume decimal.Decimal
}
