package neo

import (
	"slices"
	"sort"
)

// Flatten appends every bucket of m in ascending date-key order, stamping
// each object with the key it was returned under. Objects that appear under
// more than one key are kept once per key.
func Flatten(m DateMap) []Summary {
	total := 0
	for _, bucket := range m {
		total += len(bucket)
	}

	all := make([]Summary, 0, total)
	for _, date := range sortedKeys(m) {
		for _, item := range m[date] {
			item.ApproachDate = date
			all = append(all, item)
		}
	}

	return all
}

// GroupByDate re-buckets items by their resolved approach date, keeping the
// relative order of items inside each bucket.
func GroupByDate(items []Summary) DateMap {
	grouped := make(DateMap)
	for _, item := range items {
		date := item.ResolvedDate()
		grouped[date] = append(grouped[date], item)
	}
	return grouped
}

// SortedDates returns the keys of groups in chronological order.
func SortedDates(groups DateMap) []string {
	dates := sortedKeys(groups)
	sort.SliceStable(dates, func(i, j int) bool {
		return ParseDate(dates[i]).Before(ParseDate(dates[j]))
	})
	return dates
}

// Merge returns a new map holding dst's buckets overlaid with src's. A date
// present in both takes src's bucket, matching how a later page replaces an
// earlier one for the same day.
func Merge(dst, src DateMap) DateMap {
	merged := make(DateMap, len(dst)+len(src))
	for date, bucket := range dst {
		merged[date] = bucket
	}
	for date, bucket := range src {
		merged[date] = bucket
	}
	return merged
}

// Find returns the first object with the given id in flattened order.
func Find(m DateMap, id string) (Summary, bool) {
	all := Flatten(m)
	idx := slices.IndexFunc(all, func(s Summary) bool { return s.ID == id })
	if idx < 0 {
		return Summary{}, false
	}
	return all[idx], true
}

func sortedKeys(m DateMap) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
