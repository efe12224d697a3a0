package model

// ItemMeta is one entry of the item catalog snapshot. Alchemy values, buy
// limit and base value are absent for some items on the wire, hence the
// pointers. Read-only once loaded.
type ItemMeta struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Examine  string `json:"examine"`
	Members  bool   `json:"members"`
	LowAlch  *int   `json:"lowalch"`
	HighAlch *int   `json:"highalch"`
	BuyLimit *int   `json:"limit"`
	Value    *int   `json:"value"`
}
