package ops

import "strings"

// defaultFutureToOption maps GLOBEX futures tickers to their futures
// options tickers.
var defaultFutureToOption = map[string]string{
	"EH":  "OEH",
	"KE":  "OKE",
	"TN":  "OTN",
	"UB":  "OUB",
	"YM":  "OYM",
	"ZB":  "OZB",
	"ZC":  "OZC",
	"ZF":  "OZF",
	"ZL":  "OZL",
	"ZM":  "OZM",
	"ZN":  "OZN",
	"ZO":  "OZO",
	"ZS":  "OZS",
	"ZT":  "OZT",
	"ZW":  "OZW",
	"RTY": "RTO",
	"GC":  "OG",
	"HG":  "HXE",
	"SI":  "SO",
	"CL":  "LO",
	"HCL": "HCO",
	"HO":  "OH",
	"NG":  "ON",
	"PA":  "PAO",
	"PL":  "PO",
	"RB":  "OB",
	"YG":  "OYG",
	"ZG":  "OZG",
	"ZI":  "OZI",
}

// FutureOptionTickers converts between futures tickers and their futures
// options tickers. Built once at startup and immutable afterwards;
// treat it as configuration data, not mutable global state.
type FutureOptionTickers struct {
	toOption map[string]string
	toFuture map[string]string
}

// NewFutureOptionTickers builds the table from the defaults plus the
// given overrides (future ticker -> option ticker).
func NewFutureOptionTickers(overrides map[string]string) *FutureOptionTickers {
	t := &FutureOptionTickers{
		toOption: make(map[string]string, len(defaultFutureToOption)+len(overrides)),
		toFuture: make(map[string]string, len(defaultFutureToOption)+len(overrides)),
	}
	for future, option := range defaultFutureToOption {
		t.toOption[future] = option
	}
	for future, option := range overrides {
		t.toOption[strings.ToUpper(future)] = strings.ToUpper(option)
	}
	for future, option := range t.toOption {
		t.toFuture[option] = future
	}
	return t
}

// Map returns the futures options ticker for a futures ticker, defaulting
// to the input when no entry exists.
func (t *FutureOptionTickers) Map(futureTicker string) string {
	futureTicker = strings.ToUpper(futureTicker)
	if option, ok := t.toOption[futureTicker]; ok {
		return option
	}
	return futureTicker
}

// MapFromOption returns the underlying future's ticker for a futures
// options ticker, defaulting to the input when no entry exists.
func (t *FutureOptionTickers) MapFromOption(optionTicker string) string {
	optionTicker = strings.ToUpper(optionTicker)
	if future, ok := t.toFuture[optionTicker]; ok {
		return future
	}
	return optionTicker
}
