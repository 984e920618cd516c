package instrument

import (
	"time"

	"github.com/shopspring/decimal"

	"main/internal/market"
)

// Annualization constants per kind. FX venues quote 313 trading days, 24/7
// venues a full year, everything else the US equity calendar.
const (
	tradingDaysEquity = 252
	tradingDaysFx     = 313
	tradingDaysCrypto = 365
)

const volatilityWindow = 30

// NewEquity builds a US equity with per-share fees, T+1 settlement and 2x
// margin leverage.
func NewEquity(symbol string, exch *market.Exchange) *Instrument {
	bundle := Bundle{
		Fill:           ImmediateFill{},
		Fee:            PerShareFee{PerShare: decimal.NewFromFloat(0.005), Minimum: decimal.NewFromInt(1)},
		Slippage:       ConstantSlippage{},
		Settlement:     DelayedSettlement{Days: 1},
		Margin:         NewStandardMargin(2),
		Volatility:     NewStdDevVolatility(volatilityWindow, tradingDaysEquity),
		Filter:         StrictDataFilter{},
		PriceVariation: RoundToIncrement{},
	}
	props := Properties{PriceIncrement: decimal.NewFromFloat(0.01)}
	return newInstrument(symbol, KindEquity, exch, props, bundle, true, tradingDaysEquity)
}

// NewForex builds a currency pair: 1000-unit lots, 50x default leverage,
// 313 trading days per year.
func NewForex(symbol string, exch *market.Exchange) *Instrument {
	bundle := Bundle{
		Fill:           ImmediateFill{},
		Fee:            ConstantFee{},
		Slippage:       ConstantSlippage{},
		Settlement:     ImmediateSettlement{},
		Margin:         NewStandardMargin(50),
		Volatility:     NewStdDevVolatility(volatilityWindow, tradingDaysFx),
		Filter:         StrictDataFilter{},
		PriceVariation: RoundToIncrement{},
	}
	props := Properties{
		LotSize:        decimal.NewFromInt(1000),
		PriceIncrement: decimal.NewFromFloat(0.0001),
	}
	return newInstrument(symbol, KindForex, exch, props, bundle, true, tradingDaysFx)
}

// NewCfd builds a contract for difference. Same 50x leverage and FX
// calendar constant as forex, but quantization comes from the venue.
func NewCfd(symbol string, exch *market.Exchange, props Properties) *Instrument {
	bundle := Bundle{
		Fill:           ImmediateFill{},
		Fee:            ConstantFee{},
		Slippage:       ConstantSlippage{},
		Settlement:     ImmediateSettlement{},
		Margin:         NewStandardMargin(50),
		Volatility:     NullVolatility{},
		Filter:         StrictDataFilter{},
		PriceVariation: RoundToIncrement{},
	}
	return newInstrument(symbol, KindCfd, exch, props, bundle, true, tradingDaysFx)
}

// NewCrypto builds a cash-leverage crypto pair on a 365-day year.
func NewCrypto(symbol string, exch *market.Exchange, props Properties) *Instrument {
	bundle := Bundle{
		Fill:           ImmediateFill{},
		Fee:            ConstantFee{},
		Slippage:       ConstantSlippage{},
		Settlement:     ImmediateSettlement{},
		Margin:         NewStandardMargin(1),
		Volatility:     NewStdDevVolatility(volatilityWindow, tradingDaysCrypto),
		Filter:         StrictDataFilter{},
		PriceVariation: RoundToIncrement{},
	}
	return newInstrument(symbol, KindCrypto, exch, props, bundle, true, tradingDaysCrypto)
}

// NewIndex builds an index: priceable for options and valuation but never
// directly tradable.
func NewIndex(symbol string, exch *market.Exchange) *Instrument {
	bundle := Bundle{
		Fill:           ImmediateFill{},
		Fee:            ConstantFee{},
		Slippage:       ConstantSlippage{},
		Settlement:     ImmediateSettlement{},
		Margin:         NewStandardMargin(1),
		Volatility:     NullVolatility{},
		Filter:         StrictDataFilter{},
		PriceVariation: RoundToIncrement{},
	}
	props := Properties{PriceIncrement: decimal.NewFromFloat(0.01)}
	return newInstrument(symbol, KindIndex, exch, props, bundle, false, tradingDaysEquity)
}

// NewFuture builds a futures contract with a venue-defined multiplier.
func NewFuture(symbol string, exch *market.Exchange, props Properties) *Instrument {
	bundle := Bundle{
		Fill:           ImmediateFill{},
		Fee:            ConstantFee{},
		Slippage:       ConstantSlippage{},
		Settlement:     ImmediateSettlement{},
		Margin:         NewStandardMargin(1),
		Volatility:     NewStdDevVolatility(volatilityWindow, tradingDaysEquity),
		Filter:         StrictDataFilter{},
		PriceVariation: RoundToIncrement{},
	}
	return newInstrument(symbol, KindFuture, exch, props, bundle, true, tradingDaysEquity)
}

// NewOption builds an equity option: physical or cash settlement per the
// contract, multiplier 100.
func NewOption(symbol string, underlying *Instrument, strike decimal.Decimal, right Right, settlement SettlementKind, expiry time.Time, exch *market.Exchange) *Instrument {
	i := newOptionInstrument(symbol, KindOption, exch, decimal.NewFromInt(100))
	i.Option = &OptionSpec{
		Underlying: underlying,
		Strike:     strike,
		Right:      right,
		Settlement: settlement,
		Expiry:     expiry,
	}
	return i
}

// NewFutureOption builds an option on a future. The contract trades the
// underlying future's multiplier and settles physically into it.
func NewFutureOption(symbol string, underlying *Instrument, strike decimal.Decimal, right Right, expiry time.Time, exch *market.Exchange) *Instrument {
	i := newOptionInstrument(symbol, KindFutureOption, exch, underlying.Multiplier)
	i.Option = &OptionSpec{
		Underlying: underlying,
		Strike:     strike,
		Right:      right,
		Settlement: SettlePhysicalDelivery,
		Expiry:     expiry,
	}
	return i
}

// NewIndexOption builds an option on an index. Indexes are not tradable,
// so the contract always settles in cash.
func NewIndexOption(symbol string, underlying *Instrument, strike decimal.Decimal, right Right, expiry time.Time, exch *market.Exchange) *Instrument {
	i := newOptionInstrument(symbol, KindIndexOption, exch, decimal.NewFromInt(100))
	i.Option = &OptionSpec{
		Underlying: underlying,
		Strike:     strike,
		Right:      right,
		Settlement: SettleCash,
		Expiry:     expiry,
	}
	return i
}

func newOptionInstrument(symbol string, kind Kind, exch *market.Exchange, multiplier decimal.Decimal) *Instrument {
	bundle := Bundle{
		Fill:           ImmediateFill{},
		Fee:            ConstantFee{},
		Slippage:       ConstantSlippage{},
		Settlement:     ImmediateSettlement{},
		Margin:         NewStandardMargin(1),
		Volatility:     NullVolatility{},
		Filter:         StrictDataFilter{},
		PriceVariation: RoundToIncrement{},
	}
	props := Properties{
		Multiplier:     multiplier,
		PriceIncrement: decimal.NewFromFloat(0.01),
	}
	return newInstrument(symbol, kind, exch, props, bundle, true, tradingDaysEquity)
}
