package instrument

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model"
	"main/pkg/exception"
)

// ImmediateFill executes at the last observed price, shifted against the
// taker by the instrument's slippage strategy and snapped to the price grid.
type ImmediateFill struct{}

func (ImmediateFill) FillPrice(i *Instrument, dir model.Direction, last decimal.Decimal) decimal.Decimal {
	slip := i.Bundle.Slippage.Slippage(i, dir, last)
	var price decimal.Decimal
	switch dir {
	case model.DirectionBuy:
		price = last.Add(slip)
	case model.DirectionSell:
		price = last.Sub(slip)
	default:
		price = last
	}
	return i.Bundle.PriceVariation.Round(i, price)
}

// ConstantFee charges a fixed amount per fill.
type ConstantFee struct {
	Amount decimal.Decimal
}

func (f ConstantFee) Fee(_ *Instrument, _, _ decimal.Decimal) decimal.Decimal {
	return f.Amount
}

// PerShareFee charges per traded unit with a minimum per order.
type PerShareFee struct {
	PerShare decimal.Decimal
	Minimum  decimal.Decimal
}

func (f PerShareFee) Fee(_ *Instrument, qty, _ decimal.Decimal) decimal.Decimal {
	fee := qty.Abs().Mul(f.PerShare)
	if fee.LessThan(f.Minimum) {
		return f.Minimum
	}
	return fee
}

// ConstantSlippage concedes a fixed fraction of the reference price.
type ConstantSlippage struct {
	Fraction decimal.Decimal
}

func (s ConstantSlippage) Slippage(_ *Instrument, _ model.Direction, last decimal.Decimal) decimal.Decimal {
	return last.Mul(s.Fraction).Abs()
}

// ImmediateSettlement makes fill proceeds available at the fill instant.
type ImmediateSettlement struct{}

func (ImmediateSettlement) AvailableAt(fill time.Time) time.Time {
	return fill
}

// DelayedSettlement defers proceeds by a number of calendar days.
type DelayedSettlement struct {
	Days int
}

func (s DelayedSettlement) AvailableAt(fill time.Time) time.Time {
	return fill.AddDate(0, 0, s.Days)
}

// StandardMargin sizes positions in margin space with a fixed leverage.
type StandardMargin struct {
	Lev decimal.Decimal
}

func NewStandardMargin(leverage int64) StandardMargin {
	return StandardMargin{Lev: decimal.NewFromInt(leverage)}
}

func (m StandardMargin) Leverage(_ *Instrument) decimal.Decimal {
	if m.Lev.Sign() <= 0 {
		return decimal.NewFromInt(1)
	}
	return m.Lev
}

// MaximumLots yields the incremental lot count that moves the current
// position's consumed margin to marginTarget (a fraction of total
// portfolio value). A resulting order below the floor is not worth
// placing and yields zero lots.
func (m StandardMargin) MaximumLots(view PortfolioView, i *Instrument, marginTarget, floor decimal.Decimal) (int64, error) {
	total := view.TotalValue()
	if total.Sign() <= 0 {
		return 0, exception.ErrMarginInsufficientData
	}
	price := i.Price()
	if price.Sign() <= 0 {
		return 0, exception.ErrMarginInsufficientData
	}

	lev := m.Leverage(i)
	unit := price.Mul(i.Multiplier)
	marginPerLot := i.LotSize.Mul(unit).Div(lev)
	if marginPerLot.Sign() == 0 {
		return 0, exception.ErrMarginInsufficientData
	}

	currentMargin := i.Holding().Quantity.Mul(unit).Div(lev)
	targetMargin := marginTarget.Mul(total)

	lots := targetMargin.Sub(currentMargin).Div(marginPerLot).IntPart()
	if lots == 0 {
		return 0, nil
	}

	orderMargin := decimal.NewFromInt(lots).Mul(marginPerLot)
	if orderMargin.Abs().Div(total).LessThan(floor) {
		return 0, nil
	}
	return lots, nil
}

// NullVolatility ignores updates and reports zero.
type NullVolatility struct{}

func (NullVolatility) Update(time.Time, decimal.Decimal) {}

func (NullVolatility) Volatility() decimal.Decimal { return decimal.Zero }

// StdDevVolatility annualizes the standard deviation of close-to-close
// returns over a rolling window, using the instrument's trading days.
type StdDevVolatility struct {
	Window  int
	PerYear int

	last    decimal.Decimal
	returns []float64
}

func NewStdDevVolatility(window, periodsPerYear int) *StdDevVolatility {
	if window <= 1 {
		window = 30
	}
	return &StdDevVolatility{Window: window, PerYear: periodsPerYear}
}

func (v *StdDevVolatility) Update(_ time.Time, price decimal.Decimal) {
	if price.Sign() <= 0 {
		return
	}
	if v.last.Sign() > 0 {
		r, _ := price.Div(v.last).Float64()
		v.returns = append(v.returns, math.Log(r))
		if len(v.returns) > v.Window {
			v.returns = v.returns[len(v.returns)-v.Window:]
		}
	}
	v.last = price
}

func (v *StdDevVolatility) Volatility() decimal.Decimal {
	n := len(v.returns)
	if n < 2 {
		return decimal.Zero
	}
	var mean float64
	for _, r := range v.returns {
		mean += r
	}
	mean /= float64(n)
	var variance float64
	for _, r := range v.returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(n - 1)
	return decimal.NewFromFloat(math.Sqrt(variance) * math.Sqrt(float64(v.PerYear)))
}

// StrictDataFilter accepts only positive prices for the right symbol.
type StrictDataFilter struct{}

func (StrictDataFilter) Filter(i *Instrument, tick model.Tick) bool {
	return tick.Symbol == i.Symbol && tick.Price.Sign() > 0
}

// RoundToIncrement snaps prices onto the minimum price increment grid.
type RoundToIncrement struct{}

func (RoundToIncrement) Round(i *Instrument, price decimal.Decimal) decimal.Decimal {
	if i.PriceIncrement.Sign() <= 0 {
		return price
	}
	return price.Div(i.PriceIncrement).Round(0).Mul(i.PriceIncrement)
}
