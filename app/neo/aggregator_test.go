package neo

import (
	"reflect"
	"testing"
)

func TestFlatten(t *testing.T) {
	m := DateMap{
		"2024-01-02": {sample("b", false, 1, "", 0), sample("c", false, 1, "", 0)},
		"2024-01-01": {sample("a", false, 1, "", 0)},
		"2024-01-03": {},
	}

	all := Flatten(m)

	if len(all) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(all))
	}
	if got := ids(all); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Expected ascending date order, got %v", got)
	}
	for _, item := range all {
		found := false
		for _, bucketItem := range m[item.ApproachDate] {
			if bucketItem.ID == item.ID {
				found = true
			}
		}
		if !found {
			t.Errorf("Item %s stamped with %s but not present in that bucket", item.ID, item.ApproachDate)
		}
	}

	if m["2024-01-01"][0].ApproachDate != "" {
		t.Error("Flatten must not modify the input map")
	}
}

func TestFlattenKeepsDuplicatesAcrossDates(t *testing.T) {
	m := DateMap{
		"2024-01-01": {sample("a", false, 1, "", 0)},
		"2024-01-02": {sample("a", false, 1, "", 0)},
	}
	if len(Flatten(m)) != 2 {
		t.Errorf("Expected one entry per date key, got %d", len(Flatten(m)))
	}
}

func TestFlattenEmpty(t *testing.T) {
	if got := Flatten(nil); len(got) != 0 {
		t.Errorf("Expected empty result, got %d", len(got))
	}
}

func TestGroupByDate(t *testing.T) {
	items := []Summary{
		sample("a", false, 1, "2024-01-02", 0),
		sample("b", false, 1, "2024-01-01", 0),
		sample("c", false, 1, "2024-01-02", 0),
	}
	noApproach := sample("d", false, 1, "", 0)
	noApproach.ApproachDate = "2024-01-01"
	items = append(items, noApproach)

	groups := GroupByDate(items)

	if got := ids(groups["2024-01-02"]); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Expected [a c], got %v", got)
	}
	if got := ids(groups["2024-01-01"]); !reflect.DeepEqual(got, []string{"b", "d"}) {
		t.Errorf("Expected [b d], got %v", got)
	}
	if dates := SortedDates(groups); !reflect.DeepEqual(dates, []string{"2024-01-01", "2024-01-02"}) {
		t.Errorf("Unexpected date order: %v", dates)
	}
}

func TestMerge(t *testing.T) {
	dst := DateMap{
		"2024-01-01": {sample("a", false, 1, "", 0)},
		"2024-01-08": {sample("old", false, 1, "", 0)},
	}
	src := DateMap{
		"2024-01-08": {sample("new", false, 1, "", 0)},
		"2024-01-09": {sample("b", false, 1, "", 0)},
	}

	merged := Merge(dst, src)

	if len(merged) != 3 {
		t.Fatalf("Expected 3 dates, got %d", len(merged))
	}
	if merged["2024-01-08"][0].ID != "new" {
		t.Errorf("Expected later page to replace same date, got %s", merged["2024-01-08"][0].ID)
	}
	if len(dst) != 2 || dst["2024-01-08"][0].ID != "old" {
		t.Error("Merge must not modify dst")
	}
}

func TestFind(t *testing.T) {
	m := DateMap{"2024-01-01": {sample("a", false, 1, "", 0)}}

	item, ok := Find(m, "a")
	if !ok || item.ApproachDate != "2024-01-01" {
		t.Errorf("Expected to find a stamped with its date, got %+v", item)
	}
	if _, ok := Find(m, "zzz"); ok {
		t.Error("Expected missing id not to be found")
	}
}
