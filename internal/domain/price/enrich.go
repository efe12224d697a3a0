// Package price joins raw price observations with item metadata and
// parses price-history series into chronological order.
package price

import (
	"fmt"

	"github.com/okian/runelens/internal/domain/model"
)

// ItemLookup is the catalog read side needed by the join.
type ItemLookup interface {
	ByID(id int) (model.ItemMeta, bool)
}

// Enrich performs a left outer join of observations against the catalog,
// keyed on item id with observations as the driving side: every
// observation produces exactly one output record. A catalog miss
// substitutes a placeholder name and leaves the numeric fields unchanged;
// unknown items never abort the batch.
func Enrich(observations map[int]model.PriceObservation, catalog ItemLookup) map[int]model.EnrichedPriceRecord {
	out := make(map[int]model.EnrichedPriceRecord, len(observations))
	for id, obs := range observations {
		rec := model.EnrichedPriceRecord{
			ID:       id,
			High:     obs.High,
			Low:      obs.Low,
			HighTime: obs.HighTime,
			LowTime:  obs.LowTime,
		}
		if meta, ok := catalog.ByID(id); ok {
			rec.Name = meta.Name
			rec.Examine = meta.Examine
			rec.Members = meta.Members
			rec.LowAlch = meta.LowAlch
			rec.HighAlch = meta.HighAlch
			rec.BuyLimit = meta.BuyLimit
			rec.Value = meta.Value
		} else {
			rec.Name = PlaceholderName(id)
		}
		out[id] = rec
	}
	return out
}

// PlaceholderName is the synthesized name for an observation whose item
// id has no catalog entry.
func PlaceholderName(id int) string {
	return fmt.Sprintf("Unknown Item %d", id)
}
