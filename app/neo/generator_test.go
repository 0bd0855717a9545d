package neo

import (
	"strings"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestGeneratorRun(t *testing.T) {
	hazard := sample("3542519", true, 0.3, "2024-01-02", 2_991_882)
	hazard.Name = "(2010 PK9) <x>"
	hazard.ReferenceURL = "https://ssd.jpl.nasa.gov/tools/sbdb_lookup.html#/?sstr=3542519"
	items := []Summary{hazard, sample("2000433", false, 2, "", 0)}

	out, err := NewGenerator("1.0.0").Run("Hazards", "http://localhost:8080/api/neos.rss", items)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	feed, err := gofeed.NewParser().ParseString(out)
	if err != nil {
		t.Fatalf("Generated feed does not parse: %v", err)
	}

	if feed.Title != "Hazards" {
		t.Errorf("Expected title 'Hazards', got %q", feed.Title)
	}
	if len(feed.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(feed.Items))
	}

	first := feed.Items[0]
	if !strings.HasPrefix(first.Title, "2010 PK9") {
		t.Errorf("Expected display name as title, got %q", first.Title)
	}
	if !strings.Contains(out, "2010 PK9 &lt;x&gt;") {
		t.Error("Expected markup in names to be escaped")
	}
	if first.GUID != "3542519@2024-01-02" {
		t.Errorf("Unexpected guid %q", first.GUID)
	}
	if first.PublishedParsed == nil || first.PublishedParsed.Format(DateLayout) != "2024-01-02" {
		t.Errorf("Unexpected pubDate %v", first.PublishedParsed)
	}
	if !containsString(first.Categories, "Potentially Hazardous") {
		t.Errorf("Expected hazardous category, got %v", first.Categories)
	}
	if !strings.Contains(first.Description, "40,000 km/h") {
		t.Errorf("Expected formatted velocity in description, got %q", first.Description)
	}

	if !strings.Contains(feed.Items[1].Description, "No close approach data") {
		t.Errorf("Unexpected description: %q", feed.Items[1].Description)
	}
	if !strings.Contains(feed.Generator, "NEO-Comb/1.0.0") {
		t.Errorf("Unexpected generator %q", feed.Generator)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
