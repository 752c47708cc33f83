package sim

// Assets is the catalog of tradable instruments. Base price and volatility
// parameterize the synthetic series; pip size normalizes PnL.
var Assets = []Instrument{
	{ID: "EUR/USD", Name: "EUR/USD", Type: "forex", BasePrice: 1.0850, Volatility: 0.0008, PipSize: 0.0001},
	{ID: "GBP/USD", Name: "GBP/USD", Type: "forex", BasePrice: 1.2650, Volatility: 0.001, PipSize: 0.0001},
	{ID: "BTC/USD", Name: "Bitcoin", Type: "crypto", BasePrice: 43500, Volatility: 200, PipSize: 1},
	{ID: "XAU/USD", Name: "Gold", Type: "commodity", BasePrice: 2025, Volatility: 5, PipSize: 0.01},
	{ID: "SPX500", Name: "S&P 500", Type: "index", BasePrice: 4780, Volatility: 10, PipSize: 0.1},
}

// AssetByID looks up an instrument from the catalog.
func AssetByID(id string) (Instrument, bool) {
	for _, a := range Assets {
		if a.ID == id {
			return a, true
		}
	}
	return Instrument{}, false
}
