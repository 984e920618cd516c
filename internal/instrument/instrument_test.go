package instrument

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"main/internal/market"
	"main/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyTickFilters(t *testing.T) {
	eurusd := NewForex("EURUSD", market.FxWeek())
	now := time.Now().UTC()

	if eurusd.ApplyTick(model.Tick{Symbol: "GBPUSD", Time: now, Price: dec("1.1")}) {
		t.Fatal("tick for another symbol should be rejected")
	}
	if eurusd.ApplyTick(model.Tick{Symbol: "EURUSD", Time: now, Price: decimal.Zero}) {
		t.Fatal("zero price should be rejected")
	}
	if !eurusd.ApplyTick(model.Tick{Symbol: "EURUSD", Time: now, Price: dec("1.1")}) {
		t.Fatal("valid tick should be accepted")
	}
	if !eurusd.Price().Equal(dec("1.1")) {
		t.Fatalf("cached price = %s, want 1.1", eurusd.Price())
	}
	if !eurusd.PricedAt().Equal(now) {
		t.Fatalf("priced at = %s, want %s", eurusd.PricedAt(), now)
	}
}

func TestApplyFill(t *testing.T) {
	testCases := []struct {
		desc     string
		fills    [][2]string // qty, price
		wantQty  string
		wantAvg  string
		wantPnl  string
	}{
		{
			"open long",
			[][2]string{{"100", "10"}},
			"100", "10", "0",
		},
		{
			"extend averages the cost",
			[][2]string{{"100", "10"}, {"100", "12"}},
			"200", "11", "0",
		},
		{
			"partial reduce realizes on the closed part",
			[][2]string{{"100", "10"}, {"-40", "12"}},
			"60", "10", "80",
		},
		{
			"full close resets average",
			[][2]string{{"100", "10"}, {"-100", "12"}},
			"0", "0", "200",
		},
		{
			"flip closes all then reopens at the fill price",
			[][2]string{{"100", "10"}, {"-150", "12"}},
			"-50", "12", "200",
		},
		{
			"short side realizes on buy-to-cover",
			[][2]string{{"-100", "10"}, {"50", "8"}},
			"-50", "10", "100",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			spy := NewEquity("SPY", market.NewYorkEquity())
			var h Holding
			for _, f := range tc.fills {
				h = spy.ApplyFill(dec(f[0]), dec(f[1]), decimal.Zero)
			}
			if !h.Quantity.Equal(dec(tc.wantQty)) {
				t.Fatalf("quantity = %s, want %s", h.Quantity, tc.wantQty)
			}
			if !h.AveragePrice.Equal(dec(tc.wantAvg)) {
				t.Fatalf("average price = %s, want %s", h.AveragePrice, tc.wantAvg)
			}
			if !h.RealizedProfit.Equal(dec(tc.wantPnl)) {
				t.Fatalf("realized profit = %s, want %s", h.RealizedProfit, tc.wantPnl)
			}
		})
	}
}

func TestApplyFillAccumulatesFees(t *testing.T) {
	spy := NewEquity("SPY", market.NewYorkEquity())
	spy.ApplyFill(dec("100"), dec("10"), dec("1"))
	h := spy.ApplyFill(dec("-100"), dec("11"), dec("1.5"))
	if !h.TotalFees.Equal(dec("2.5")) {
		t.Fatalf("total fees = %s, want 2.5", h.TotalFees)
	}
}

func TestApplyFillScalesRealizedByMultiplier(t *testing.T) {
	spx := NewIndex("SPX", market.NewYorkEquity())
	contract := NewIndexOption("SPXW", spx, dec("5000"), RightCall, time.Now(), market.NewYorkEquity())

	contract.ApplyFill(dec("2"), dec("10"), decimal.Zero)
	h := contract.ApplyFill(dec("-2"), dec("13"), decimal.Zero)
	// 2 contracts * 3 points * 100 multiplier
	if !h.RealizedProfit.Equal(dec("600")) {
		t.Fatalf("realized profit = %s, want 600", h.RealizedProfit)
	}
}

func TestUnrealizedProfit(t *testing.T) {
	spy := NewEquity("SPY", market.NewYorkEquity())
	spy.ApplyFill(dec("100"), dec("10"), decimal.Zero)
	spy.ApplyTick(model.Tick{Symbol: "SPY", Time: time.Now(), Price: dec("10.50")})

	if !spy.UnrealizedProfit().Equal(dec("50")) {
		t.Fatalf("unrealized = %s, want 50", spy.UnrealizedProfit())
	}
}

func TestKindDefaults(t *testing.T) {
	nyse := market.NewYorkEquity()

	eurusd := NewForex("EURUSD", market.FxWeek())
	if !eurusd.Leverage().Equal(dec("50")) {
		t.Fatalf("forex leverage = %s, want 50", eurusd.Leverage())
	}
	if !eurusd.LotSize.Equal(dec("1000")) {
		t.Fatalf("forex lot size = %s, want 1000", eurusd.LotSize)
	}
	if eurusd.TradingDays != 313 {
		t.Fatalf("forex trading days = %d, want 313", eurusd.TradingDays)
	}

	btc := NewCrypto("BTCUSD", market.TwentyFourSeven(), Properties{})
	if !btc.Leverage().Equal(dec("1")) {
		t.Fatalf("crypto leverage = %s, want 1", btc.Leverage())
	}
	if btc.TradingDays != 365 {
		t.Fatalf("crypto trading days = %d, want 365", btc.TradingDays)
	}

	spy := NewEquity("SPY", nyse)
	if !spy.Leverage().Equal(dec("2")) {
		t.Fatalf("equity leverage = %s, want 2", spy.Leverage())
	}
	if spy.TradingDays != 252 {
		t.Fatalf("equity trading days = %d, want 252", spy.TradingDays)
	}

	spx := NewIndex("SPX", nyse)
	if spx.IsTradable() {
		t.Fatal("index must not be tradable")
	}
	if !spy.IsTradable() {
		t.Fatal("equity must be tradable")
	}
}

func TestOptionContracts(t *testing.T) {
	nyse := market.NewYorkEquity()
	expiry := time.Date(2025, 9, 19, 0, 0, 0, 0, time.UTC)

	es := NewFuture("ES", nyse, Properties{Multiplier: dec("50")})
	fop := NewFutureOption("ES 5000C", es, dec("5000"), RightCall, expiry, nyse)
	if !fop.Multiplier.Equal(dec("50")) {
		t.Fatalf("future option multiplier = %s, want underlying's 50", fop.Multiplier)
	}
	if fop.Option.Settlement != SettlePhysicalDelivery {
		t.Fatal("future option must settle physically")
	}

	spx := NewIndex("SPX", nyse)
	idxOpt := NewIndexOption("SPXW", spx, dec("5000"), RightPut, expiry, nyse)
	if idxOpt.Option.Settlement != SettleCash {
		t.Fatal("index option must settle in cash")
	}
	if !idxOpt.Multiplier.Equal(dec("100")) {
		t.Fatalf("index option multiplier = %s, want 100", idxOpt.Multiplier)
	}
	if !idxOpt.Kind.IsOption() {
		t.Fatal("index option kind must report as option")
	}
}
