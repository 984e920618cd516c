package order

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/pkg/exception"
)

// Status tracks the lifecycle of an order.
type Status uint8

const (
	StatusUnknown Status = iota
	StatusSubmitted
	StatusFilled
	StatusExpired
	StatusCanceled
)

func (s Status) String() string {
	switch s {
	case StatusSubmitted:
		return "submitted"
	case StatusFilled:
		return "filled"
	case StatusExpired:
		return "expired"
	case StatusCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether the status is final. Terminal orders are
// never revived.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusFilled, StatusExpired, StatusCanceled:
		return true
	default:
		return false
	}
}

// Order is a request to trade a signed quantity of one instrument. The
// engine is the only mutator of its status.
type Order struct {
	ID         uint64
	Symbol     string
	Quantity   decimal.Decimal
	LimitPrice decimal.Decimal
	Time       time.Time
	TIF        TimeInForce

	status Status
}

// New creates a submitted order. Time is the UTC placement instant.
func New(id uint64, symbol string, qty decimal.Decimal, limit decimal.Decimal, placed time.Time, tif TimeInForce) *Order {
	return &Order{
		ID:         id,
		Symbol:     symbol,
		Quantity:   qty,
		LimitPrice: limit,
		Time:       placed.UTC(),
		TIF:        tif,
		status:     StatusSubmitted,
	}
}

// Status returns the current lifecycle state.
func (o *Order) Status() Status {
	return o.status
}

// Direction maps the signed quantity onto buy/sell.
func (o *Order) Direction() model.Direction {
	return model.DirectionOf(o.Quantity)
}

// SetStatus advances the lifecycle. Moving out of a terminal state is a
// caller bug and returns ErrOrderTerminal; the order is left unchanged.
func (o *Order) SetStatus(next Status) error {
	if next == StatusUnknown {
		return exception.ErrOrderUnknownStatus
	}
	if o.status.IsTerminal() {
		return exception.ErrOrderTerminal
	}
	o.status = next
	return nil
}
