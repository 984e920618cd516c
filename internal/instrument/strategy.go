package instrument

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/model"
)

// PortfolioView is the read-only slice of the shared portfolio the margin
// strategy needs. The full portfolio manager lives outside this engine.
type PortfolioView interface {
	TotalValue() decimal.Decimal
}

// FillStrategy decides the executed price for an aggressive fill.
type FillStrategy interface {
	FillPrice(i *Instrument, dir model.Direction, last decimal.Decimal) decimal.Decimal
}

// FeeStrategy prices the fee charged for a fill.
type FeeStrategy interface {
	Fee(i *Instrument, qty, price decimal.Decimal) decimal.Decimal
}

// SlippageStrategy models the price concession paid by an aggressive order.
type SlippageStrategy interface {
	Slippage(i *Instrument, dir model.Direction, last decimal.Decimal) decimal.Decimal
}

// SettlementStrategy decides when the cash from a fill becomes available.
type SettlementStrategy interface {
	AvailableAt(fill time.Time) time.Time
}

// MarginStrategy converts between position size and the margin it consumes.
type MarginStrategy interface {
	Leverage(i *Instrument) decimal.Decimal

	// MaximumLots answers: how many lot-sized units, added to or removed
	// from the current position, reach marginTarget (a fraction of total
	// portfolio value). Orders whose own margin stays below floor are not
	// worth placing and yield zero lots.
	MaximumLots(view PortfolioView, i *Instrument, marginTarget, floor decimal.Decimal) (int64, error)
}

// VolatilityStrategy tracks an annualized volatility estimate from prices.
type VolatilityStrategy interface {
	Update(t time.Time, price decimal.Decimal)
	Volatility() decimal.Decimal
}

// DataFilter drops market data the simulation should never act on.
type DataFilter interface {
	Filter(i *Instrument, tick model.Tick) bool
}

// PriceVariationStrategy quantizes a raw price onto the instrument's grid.
type PriceVariationStrategy interface {
	Round(i *Instrument, price decimal.Decimal) decimal.Decimal
}

// Bundle is the fixed set of strategies an instrument carries. It is bound
// by the kind constructor and never partially swapped afterwards.
type Bundle struct {
	Fill           FillStrategy
	Fee            FeeStrategy
	Slippage       SlippageStrategy
	Settlement     SettlementStrategy
	Margin         MarginStrategy
	Volatility     VolatilityStrategy
	Filter         DataFilter
	PriceVariation PriceVariationStrategy
}
