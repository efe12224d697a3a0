package model

// PriceObservation is a raw, pre-enrichment price reading for one item.
// High is the instant-buy side, Low the instant-sell side; timestamps are
// seconds since epoch. All fields may be absent on the wire.
type PriceObservation struct {
	ItemID   int    `json:"item_id"`
	High     *int64 `json:"high"`
	Low      *int64 `json:"low"`
	HighTime *int64 `json:"highTime"`
	LowTime  *int64 `json:"lowTime"`
}

// EnrichedPriceRecord is a PriceObservation joined with its catalog entry.
// When the catalog has no entry for the id the name is a synthesized
// placeholder and the metadata fields stay at their zero values.
type EnrichedPriceRecord struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Examine  string `json:"examine"`
	Members  bool   `json:"members"`
	LowAlch  *int   `json:"lowalch"`
	HighAlch *int   `json:"highalch"`
	BuyLimit *int   `json:"limit"`
	Value    *int   `json:"value"`
	High     *int64 `json:"high"`
	Low      *int64 `json:"low"`
	HighTime *int64 `json:"highTime"`
	LowTime  *int64 `json:"lowTime"`
}

// PriceHistoryPoint is one entry of a daily/average price-history series.
// Timestamp keeps the wire value (milliseconds since epoch); Date is the
// calendar day derived from it.
type PriceHistoryPoint struct {
	Date      string  `json:"date"`
	Timestamp int64   `json:"timestamp"`
	Price     float64 `json:"price"`
}

// PriceHistory holds the two chronological series of a graph payload, each
// sorted ascending by timestamp.
type PriceHistory struct {
	Daily   []PriceHistoryPoint `json:"daily"`
	Average []PriceHistoryPoint `json:"average"`
}

// TimeseriesPoint is one bucket of the fine-grained timeseries feed
// (5m/1h/6h/24h). Timestamp is seconds since epoch.
type TimeseriesPoint struct {
	Timestamp       int64  `json:"timestamp"`
	AvgHighPrice    *int64 `json:"avgHighPrice"`
	AvgLowPrice     *int64 `json:"avgLowPrice"`
	HighPriceVolume int64  `json:"highPriceVolume"`
	LowPriceVolume  int64  `json:"lowPriceVolume"`
}
