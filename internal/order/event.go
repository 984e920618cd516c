package order

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model"
)

// Event is an immutable fact about an order. Events are append-only and
// never mutated after emission. A single order may emit several events,
// e.g. the option leg and the underlying leg of a physical exercise.
type Event struct {
	OrderID      uint64
	Symbol       string
	Time         time.Time
	Status       Status
	Direction    model.Direction
	FillPrice    decimal.Decimal
	FillQuantity decimal.Decimal
	Fee          decimal.Decimal
	Message      string
	IsAssignment bool
}

// NewEvent stamps an event with the UTC emission time.
func NewEvent(o *Order, t time.Time, status Status, price, qty, fee decimal.Decimal, message string) Event {
	return Event{
		OrderID:      o.ID,
		Symbol:       o.Symbol,
		Time:         t.UTC(),
		Status:       status,
		Direction:    model.DirectionOf(qty),
		FillPrice:    price,
		FillQuantity: qty,
		Fee:          fee,
		Message:      message,
	}
}
