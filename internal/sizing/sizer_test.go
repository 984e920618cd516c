package sizing

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/instrument"
	"main/internal/market"
	"main/internal/model"
	"main/pkg/exception"
)

type fixedPortfolio struct {
	total decimal.Decimal
}

func (p fixedPortfolio) TotalValue() decimal.Decimal {
	return p.total
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func pricedForex(price string) *instrument.Instrument {
	i := instrument.NewForex("EURUSD", market.FxWeek())
	i.ApplyTick(model.Tick{Symbol: "EURUSD", Time: time.Now(), Price: dec(price)})
	return i
}

func pricedEquity(price string) *instrument.Instrument {
	i := instrument.NewEquity("SPY", market.NewYorkEquity())
	i.ApplyTick(model.Tick{Symbol: "SPY", Time: time.Now(), Price: dec(price)})
	return i
}

func TestPercentSizesToNotional(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	sizer := New(DefaultSettings())

	// 50% of 100000 at 1.25 with 1000-unit lots is 40 lots
	target, err := sizer.Percent(view, pricedForex("1.25"), dec("0.5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !target.Quantity.Equal(dec("40000")) {
		t.Fatalf("quantity = %s, want 40000", target.Quantity)
	}
	if target.Symbol != "EURUSD" {
		t.Fatalf("symbol = %s, want EURUSD", target.Symbol)
	}
}

func TestPercentLeverageCancelsOut(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	sizer := New(DefaultSettings())

	// same notional target regardless of the instrument's leverage
	target, err := sizer.Percent(view, pricedEquity("100"), dec("0.5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !target.Quantity.Equal(dec("500")) {
		t.Fatalf("quantity = %s, want 500 shares", target.Quantity)
	}
}

func TestPercentShortTarget(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	sizer := New(DefaultSettings())

	target, err := sizer.Percent(view, pricedEquity("100"), dec("-0.5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !target.Quantity.Equal(dec("-500")) {
		t.Fatalf("quantity = %s, want -500", target.Quantity)
	}
}

func TestPercentOutOfBand(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	settings := DefaultSettings()
	settings.MinAbsoluteTargetPercent = dec("0.01")
	sizer := New(settings)

	for _, percent := range []string{"1.5", "-1.5", "0.001"} {
		_, err := sizer.Percent(view, pricedEquity("100"), dec(percent), false)
		if !errors.Is(err, exception.ErrSizingPercentOutOfBand) {
			t.Fatalf("percent %s: error = %v, want ErrSizingPercentOutOfBand", percent, err)
		}
		var rej *Rejection
		if !errors.As(err, &rej) {
			t.Fatalf("percent %s: error %v is not a Rejection", percent, err)
		}
	}
}

func TestPercentZeroClosesPosition(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	sizer := New(DefaultSettings())

	spy := pricedEquity("100")
	spy.ApplyFill(dec("300"), dec("100"), decimal.Zero)

	delta, err := sizer.Percent(view, spy, decimal.Zero, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !delta.Quantity.Equal(dec("-300")) {
		t.Fatalf("delta = %s, want -300 to flatten", delta.Quantity)
	}
}

func TestPercentUnpricedInstrument(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	sizer := New(DefaultSettings())

	_, err := sizer.Percent(view, instrument.NewEquity("SPY", market.NewYorkEquity()), dec("0.5"), false)
	if !errors.Is(err, exception.ErrSizingUnpricedInstrument) {
		t.Fatalf("error = %v, want ErrSizingUnpricedInstrument", err)
	}
}

func TestPercentEmptyPortfolio(t *testing.T) {
	sizer := New(DefaultSettings())

	_, err := sizer.Percent(fixedPortfolio{}, pricedEquity("100"), dec("0.5"), false)
	if !errors.Is(err, exception.ErrMarginInsufficientData) {
		t.Fatalf("error = %v, want ErrMarginInsufficientData", err)
	}
}

func TestPercentHonorsFreeReserve(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	settings := DefaultSettings()
	settings.FreeReserve = dec("20000")
	sizer := New(settings)

	// 50% of the sizable 80000 at 100 per share
	target, err := sizer.Percent(view, pricedEquity("100"), dec("0.5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !target.Quantity.Equal(dec("400")) {
		t.Fatalf("quantity = %s, want 400", target.Quantity)
	}
}

func TestPercentDeltaVersusAbsolute(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	sizer := New(DefaultSettings())

	spy := pricedEquity("100")
	spy.ApplyFill(dec("200"), dec("100"), decimal.Zero)

	absolute, err := sizer.Percent(view, spy, dec("0.5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	delta, err := sizer.Percent(view, spy, dec("0.5"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !absolute.Quantity.Equal(dec("500")) {
		t.Fatalf("absolute = %s, want 500", absolute.Quantity)
	}
	if !delta.Quantity.Equal(dec("300")) {
		t.Fatalf("delta = %s, want 300", delta.Quantity)
	}
	if !absolute.Quantity.Equal(delta.Quantity.Add(spy.Holding().Quantity)) {
		t.Fatal("absolute target must equal delta plus current holding")
	}
}

func TestPercentIsIdempotentOnceFilled(t *testing.T) {
	view := fixedPortfolio{total: dec("100000")}
	sizer := New(DefaultSettings())

	spy := pricedEquity("100")
	first, err := sizer.Percent(view, spy, dec("0.5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	spy.ApplyFill(first.Quantity, dec("100"), decimal.Zero)

	second, err := sizer.Percent(view, spy, dec("0.5"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Quantity.Equal(first.Quantity) {
		t.Fatalf("resizing at the target must hold steady: first %s, second %s", first.Quantity, second.Quantity)
	}
}

func TestRejectionMessage(t *testing.T) {
	err := reject(exception.ErrSizingPercentOutOfBand, "target percent 2 outside [0, 1]")
	want := "sizing rejected: target percent 2 outside [0, 1]: " + exception.ErrSizingPercentOutOfBand.Error()
	if err.Error() != want {
		t.Fatalf("message = %q, want %q", err.Error(), want)
	}
}
