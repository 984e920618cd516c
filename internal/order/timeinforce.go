package order

import (
	"fmt"
	"time"

	"main/internal/instrument"
	"main/internal/market"
)

// TIFKind is the closed set of time-in-force policies.
type TIFKind uint8

const (
	TIFGoodTilCanceled TIFKind = iota
	TIFGoodTilDate
)

// fxCutoff is the New York close used by FX brokerages for GTD expiry.
const fxCutoff = 17 * time.Hour

// TimeInForce decides how long an order stays live. It is evaluated on
// demand each tick, never stored as engine state.
type TimeInForce struct {
	Kind   TIFKind
	Expiry time.Time

	// FillValidator is a hook for suppressing fills on an otherwise live
	// order. Nil accepts every fill, which matches both built-in kinds.
	FillValidator func(i *instrument.Instrument, o *Order, fill Event) bool
}

// GoodTilCanceled never expires.
func GoodTilCanceled() TimeInForce {
	return TimeInForce{Kind: TIFGoodTilCanceled}
}

// GoodTilDate expires on a fixed date; the exact cutoff instant depends on
// the instrument kind.
func GoodTilDate(expiry time.Time) TimeInForce {
	return TimeInForce{Kind: TIFGoodTilDate, Expiry: expiry}
}

// IsExpired reports whether the order has expired at instant now.
func (tif TimeInForce) IsExpired(i *instrument.Instrument, o *Order, now time.Time) bool {
	switch tif.Kind {
	case TIFGoodTilCanceled:
		return false
	case TIFGoodTilDate:
		return tif.goodTilDateExpired(i, o, now)
	default:
		panic(fmt.Sprintf("order: unhandled time-in-force kind %d", tif.Kind))
	}
}

// IsFillValid reports whether a fill may be emitted for the order.
func (tif TimeInForce) IsFillValid(i *instrument.Instrument, o *Order, fill Event) bool {
	if tif.FillValidator != nil {
		return tif.FillValidator(i, o, fill)
	}
	return true
}

func (tif TimeInForce) goodTilDateExpired(i *instrument.Instrument, o *Order, now time.Time) bool {
	switch i.Kind {
	case instrument.KindForex, instrument.KindCfd:
		// FX orders expire at 5 PM New York time at real brokerages.
		return !now.UTC().Before(tif.forexExpiryUTC(o))
	case instrument.KindCrypto:
		// expires at local midnight strictly after the expiry date
		local := now.In(i.Exchange.Location())
		return dateKey(local) > dateKey(tif.Expiry)
	case instrument.KindEquity, instrument.KindIndex, instrument.KindOption,
		instrument.KindFuture, instrument.KindFutureOption, instrument.KindIndexOption:
		// expires at the venue's market close at/after the expiry date
		local := now.In(i.Exchange.Location())
		ey, em, ed := tif.Expiry.Date()
		dayStart := time.Date(ey, em, ed, 0, 0, 0, 0, i.Exchange.Location())
		return !local.Before(i.Exchange.NextMarketClose(dayStart))
	default:
		panic(fmt.Sprintf("order: unhandled instrument kind %v", i.Kind))
	}
}

// forexExpiryUTC returns the UTC expiry of an FX/CFD order: 17:00 New York
// on the expiry date, rolled one day forward when the order itself was
// placed on the expiry date after the cutoff.
func (tif TimeInForce) forexExpiryUTC(o *Order) time.Time {
	ny := market.NewYork()
	ey, em, ed := tif.Expiry.Date()
	expiryDay := ed

	oy, om, od := o.Time.Date()
	if oy == ey && om == em && od == ed {
		orderLocal := o.Time.In(ny)
		h, m, s := orderLocal.Clock()
		if time.Duration(h)*time.Hour+time.Duration(m)*time.Minute+time.Duration(s)*time.Second > fxCutoff {
			// placed after the cutoff on the expiry date itself
			expiryDay++
		}
	}
	return time.Date(ey, em, expiryDay, 17, 0, 0, 0, ny).UTC()
}

func dateKey(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}
