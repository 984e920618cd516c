package exercise

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/instrument"
	"main/internal/model"
	"main/internal/order"
	"main/pkg/exception"
)

// Event tags, chosen by (in-the-money, assignment).
const (
	TagAutomaticExercise   = "Automatic Exercise"
	TagAutomaticAssignment = "Automatic Assignment"
	TagOTM                 = "OTM"
	TagOptionAssignment    = "Option Assignment"
	TagOptionExercise      = "Option Exercise"
)

// Engine decides automatic option exercise and assignment at expiry.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// Exercise runs once at the option's exercise time and returns the
// settlement events, option leg first. The order quantity closes the held
// contracts; automatic marks engine-driven expiry processing as opposed
// to a holder's request. Calling this with a non-option instrument is a
// caller bug and panics.
func (e *Engine) Exercise(opt *instrument.Instrument, ord *order.Order, automatic bool, now time.Time) ([]order.Event, error) {
	if !opt.Kind.IsOption() || opt.Option == nil {
		panic(fmt.Sprintf("exercise: %s is not an option contract", opt.Symbol))
	}
	spec := opt.Option
	if spec.Underlying == nil {
		return nil, exception.ErrExerciseNilUnderlying
	}
	underClose := spec.Underlying.Price()
	if underClose.Sign() <= 0 {
		return nil, exception.ErrExerciseUnpricedUnderlying
	}

	inTheMoney := intrinsic(spec, underClose).Sign() > 0
	isAssignment := inTheMoney && opt.Holding().IsShort()

	if !inTheMoney && !automatic {
		// manual exercise of an out-of-the-money contract is rejected,
		// never silently ignored
		return nil, exception.ErrExerciseManualOTM
	}

	tag := TagOTM
	if inTheMoney {
		if isAssignment {
			tag = TagAutomaticAssignment
		} else {
			tag = TagAutomaticExercise
		}
	}

	leg := order.NewEvent(ord, now, order.StatusFilled, decimal.Zero, ord.Quantity, decimal.Zero, tag)
	leg.IsAssignment = isAssignment
	events := []order.Event{leg}

	if inTheMoney && spec.Settlement == instrument.SettlePhysicalDelivery {
		// the exercise order sells the held contracts, so the delivered
		// underlying quantity carries the opposite sign scaled by the
		// contract multiplier
		delivered := ord.Quantity.Neg().Mul(opt.Multiplier)
		if spec.Right == instrument.RightPut {
			delivered = delivered.Neg()
		}

		underTag := TagOptionExercise
		if isAssignment {
			underTag = TagOptionAssignment
		}
		events = append(events, order.Event{
			OrderID:      ord.ID,
			Symbol:       spec.Underlying.Symbol,
			Time:         now.UTC(),
			Status:       order.StatusFilled,
			Direction:    model.DirectionOf(delivered),
			FillPrice:    decimal.Zero,
			FillQuantity: delivered,
			Fee:          decimal.Zero,
			Message:      underTag,
			IsAssignment: isAssignment,
		})
	}

	// cash-settled in-the-money contracts realize the difference through
	// portfolio valuation outside this engine
	return events, nil
}

func intrinsic(spec *instrument.OptionSpec, underClose decimal.Decimal) decimal.Decimal {
	if spec.Right == instrument.RightCall {
		return underClose.Sub(spec.Strike)
	}
	return spec.Strike.Sub(underClose)
}
