package asset

// Merge builds the filter entries for a balance snapshot. Balances come first
// in source order, followed by the watched assets whose id is not already
// held, also in source order. Ids are matched literally, so an empty id only
// matches another empty id.
func Merge(balances []Balance, watched []WatchedAsset) []FilterEntry {
	out := make([]FilterEntry, 0, len(balances)+len(watched))
	owned := make(map[string]struct{}, len(balances))
	for _, b := range balances {
		owned[b.AssetID] = struct{}{}
		out = append(out, FromBalance(b))
	}
	for _, w := range watched {
		if _, ok := owned[w.AssetID]; ok {
			continue
		}
		out = append(out, FromWatched(w))
	}
	return out
}

// IndexOf returns the position of the first entry with the given id, or -1.
func IndexOf(entries []FilterEntry, assetID string) int {
	for i, e := range entries {
		if e.AssetID == assetID {
			return i
		}
	}
	return -1
}

// IDs lists the asset ids of entries in order.
func IDs(entries []FilterEntry) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.AssetID
	}
	return ids
}
