package sizing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"main/internal/instrument"
	"main/pkg/exception"
)

// PortfolioTarget is the sizing output: an instrument and the quantity to
// hold (or the delta to trade, in delta mode). It is not an order.
type PortfolioTarget struct {
	Symbol   string
	Quantity decimal.Decimal
}

func (t PortfolioTarget) String() string {
	return fmt.Sprintf("%s: %s", t.Symbol, t.Quantity)
}

// Rejection is a typed sizing failure carrying a human-readable reason.
// The caller decides whether to log and skip or abort the rebalance.
type Rejection struct {
	Reason string
	Err    error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("sizing rejected: %s: %v", r.Reason, r.Err)
	}
	return "sizing rejected: " + r.Reason
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

func reject(err error, reason string) error {
	return &Rejection{Reason: reason, Err: err}
}

// Settings bound the sizer. FreeReserve is an absolute slice of portfolio
// value deliberately excluded from sizing.
type Settings struct {
	MinAbsoluteTargetPercent  decimal.Decimal
	MaxAbsoluteTargetPercent  decimal.Decimal
	FreeReserve               decimal.Decimal
	MinimumOrderMarginPercent decimal.Decimal
}

// DefaultSettings allows any target up to 100% with no reserve.
func DefaultSettings() Settings {
	return Settings{
		MaxAbsoluteTargetPercent: decimal.NewFromInt(1),
	}
}

// Sizer converts a requested portfolio percentage into a quantized order
// quantity through the instrument's margin strategy.
type Sizer struct {
	settings Settings
}

func New(settings Settings) *Sizer {
	return &Sizer{settings: settings}
}

// Percent sizes the target. With returnDelta the quantity is the delta to
// trade; otherwise it is the absolute quantity to hold. Rejections leave
// the portfolio and holding untouched.
func (s *Sizer) Percent(view instrument.PortfolioView, i *instrument.Instrument, percent decimal.Decimal, returnDelta bool) (PortfolioTarget, error) {
	abs := percent.Abs()
	if abs.GreaterThan(s.settings.MaxAbsoluteTargetPercent) ||
		(abs.Sign() != 0 && abs.LessThan(s.settings.MinAbsoluteTargetPercent)) {
		return PortfolioTarget{}, reject(exception.ErrSizingPercentOutOfBand,
			fmt.Sprintf("target percent %s outside [%s, %s]",
				percent, s.settings.MinAbsoluteTargetPercent, s.settings.MaxAbsoluteTargetPercent))
	}

	price := i.Price()
	if price.Sign() == 0 {
		return PortfolioTarget{}, reject(exception.ErrSizingUnpricedInstrument,
			fmt.Sprintf("%s has no price yet", i.Symbol))
	}

	total := view.TotalValue()
	if total.Sign() <= 0 {
		return PortfolioTarget{}, reject(exception.ErrMarginInsufficientData, "portfolio has no value")
	}

	// back out the reserved slice, then normalize into margin space
	adjusted := percent.Mul(total.Sub(s.settings.FreeReserve)).Div(total)
	marginTarget := adjusted.Div(i.Leverage())

	lots, err := i.Bundle.Margin.MaximumLots(view, i, marginTarget, s.settings.MinimumOrderMarginPercent)
	if err != nil {
		return PortfolioTarget{}, reject(err, fmt.Sprintf("unable to size %s", i.Symbol))
	}

	// the margin strategy yields the delta lot count needed to reach the
	// target, so the absolute quantity backs in the current holding
	qty := decimal.NewFromInt(lots).Mul(i.LotSize)
	if !returnDelta {
		qty = qty.Add(i.Holding().Quantity)
	}
	return PortfolioTarget{Symbol: i.Symbol, Quantity: qty}, nil
}
