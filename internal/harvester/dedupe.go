package harvester

import "scout/pkg/domain"

// Dedupe collapses rows sharing a dedup key, keeping the first occurrence in
// input order. Single stable pass, O(n).
func Dedupe(places []domain.Place) []domain.Place {
	seen := make(map[string]struct{}, len(places))
	out := make([]domain.Place, 0, len(places))
	for _, place := range places {
		key := place.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, place)
	}

	return out
}
