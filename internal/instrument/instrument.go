package instrument

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/market"
	"main/internal/model"
)

// Holding is the current position in one instrument: signed quantity,
// average cost and realized profit. A zero Holding is flat.
type Holding struct {
	Quantity       decimal.Decimal
	AveragePrice   decimal.Decimal
	RealizedProfit decimal.Decimal
	TotalFees      decimal.Decimal
}

func (h Holding) IsLong() bool {
	return h.Quantity.Sign() > 0
}

func (h Holding) IsShort() bool {
	return h.Quantity.Sign() < 0
}

func (h Holding) Invested() bool {
	return h.Quantity.Sign() != 0
}

// OptionSpec is the contract detail carried only by option kinds.
type OptionSpec struct {
	Underlying *Instrument
	Strike     decimal.Decimal
	Right      Right
	Settlement SettlementKind
	Expiry     time.Time
}

// Instrument is an immutable identity plus calendar plus a fixed strategy
// bundle. Only the holding and the cached price mutate after construction,
// each behind its own lock.
type Instrument struct {
	Symbol         string
	Kind           Kind
	LotSize        decimal.Decimal
	Multiplier     decimal.Decimal
	PriceIncrement decimal.Decimal
	TradingDays    int
	Exchange       *market.Exchange
	Option         *OptionSpec
	Bundle         Bundle

	tradable bool

	holdMu  sync.Mutex
	holding Holding

	priceMu sync.RWMutex
	last    decimal.Decimal
	lastAt  time.Time
}

// Properties are the quantization parameters of an instrument.
type Properties struct {
	LotSize        decimal.Decimal
	Multiplier     decimal.Decimal
	PriceIncrement decimal.Decimal
}

func (p Properties) normalized() Properties {
	if p.LotSize.Sign() <= 0 {
		p.LotSize = decimal.NewFromInt(1)
	}
	if p.Multiplier.Sign() <= 0 {
		p.Multiplier = decimal.NewFromInt(1)
	}
	if p.PriceIncrement.Sign() < 0 {
		p.PriceIncrement = decimal.Zero
	}
	return p
}

func newInstrument(symbol string, kind Kind, exch *market.Exchange, props Properties, bundle Bundle, tradable bool, tradingDays int) *Instrument {
	props = props.normalized()
	return &Instrument{
		Symbol:         symbol,
		Kind:           kind,
		LotSize:        props.LotSize,
		Multiplier:     props.Multiplier,
		PriceIncrement: props.PriceIncrement,
		TradingDays:    tradingDays,
		Exchange:       exch,
		Bundle:         bundle,
		tradable:       tradable,
	}
}

// IsTradable reports whether orders may be placed on this instrument.
// Index instruments are priceable but never tradable.
func (i *Instrument) IsTradable() bool {
	return i.tradable
}

// Leverage is a shortcut into the margin strategy.
func (i *Instrument) Leverage() decimal.Decimal {
	return i.Bundle.Margin.Leverage(i)
}

// ApplyTick runs the tick through the data filter and, if accepted,
// updates the cached price and the volatility estimate.
func (i *Instrument) ApplyTick(tick model.Tick) bool {
	if !i.Bundle.Filter.Filter(i, tick) {
		return false
	}
	i.priceMu.Lock()
	i.last = tick.Price
	i.lastAt = tick.Time
	i.priceMu.Unlock()
	i.Bundle.Volatility.Update(tick.Time, tick.Price)
	return true
}

// Price returns the last accepted price, zero if never priced.
func (i *Instrument) Price() decimal.Decimal {
	i.priceMu.RLock()
	defer i.priceMu.RUnlock()
	return i.last
}

// PricedAt returns the time of the last accepted price.
func (i *Instrument) PricedAt() time.Time {
	i.priceMu.RLock()
	defer i.priceMu.RUnlock()
	return i.lastAt
}

// Holding returns a snapshot of the current position.
func (i *Instrument) Holding() Holding {
	i.holdMu.Lock()
	defer i.holdMu.Unlock()
	return i.holding
}

// ApplyFill mutates the holding with a signed fill. This is the only
// write path into the holding; callers must serialize per instrument,
// which the internal lock enforces.
func (i *Instrument) ApplyFill(qty, price, fee decimal.Decimal) Holding {
	i.holdMu.Lock()
	defer i.holdMu.Unlock()

	h := &i.holding
	h.TotalFees = h.TotalFees.Add(fee)

	old := h.Quantity
	next := old.Add(qty)
	switch {
	case old.Sign() == 0 || old.Sign() == qty.Sign():
		// opening or extending
		if next.Sign() != 0 {
			cost := h.AveragePrice.Mul(old).Add(price.Mul(qty))
			h.AveragePrice = cost.Div(next)
		}
	case next.Sign() == old.Sign() || next.Sign() == 0:
		// reducing or closing out
		closed := qty.Neg()
		h.RealizedProfit = h.RealizedProfit.Add(price.Sub(h.AveragePrice).Mul(closed).Mul(i.Multiplier))
		if next.Sign() == 0 {
			h.AveragePrice = decimal.Zero
		}
	default:
		// crossing through flat: close everything, reopen the remainder
		h.RealizedProfit = h.RealizedProfit.Add(price.Sub(h.AveragePrice).Mul(old).Mul(i.Multiplier))
		h.AveragePrice = price
	}
	h.Quantity = next
	return *h
}

// UnrealizedProfit values the open position against the last price.
func (i *Instrument) UnrealizedProfit() decimal.Decimal {
	h := i.Holding()
	if !h.Invested() {
		return decimal.Zero
	}
	return i.Price().Sub(h.AveragePrice).Mul(h.Quantity).Mul(i.Multiplier)
}
