package snow

import "time"

// PruneHistory drops entries older than six calendar months before now.
// It runs on load and on every insertion; retained entries keep their order.
func PruneHistory(entries []SnowEntry, now time.Time) []SnowEntry {
	cutoff := now.AddDate(0, -6, 0)

	pruned := make([]SnowEntry, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp.After(cutoff) {
			pruned = append(pruned, e)
		}
	}
	return pruned
}
