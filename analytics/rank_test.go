// ABOUTME: Tests for the ranking aggregator
// ABOUTME: Covers truncation, skipped records, and stable tie ordering
package analytics

import "testing"

type rankedDeal struct {
	company string
	name    string
	value   int64
	linked  bool
}

func rankDeals(deals []rankedDeal, n int) []RankEntry {
	return Rank(deals, func(d rankedDeal) (string, string, bool) {
		return d.company, d.name, d.linked
	}, func(d rankedDeal) int64 { return d.value }, n)
}

func TestRankOrdersByValue(t *testing.T) {
	deals := []rankedDeal{
		{"c1", "Acme", 100, true},
		{"c2", "Globex", 300, true},
		{"c1", "Acme", 150, true},
		{"c3", "Initech", 200, true},
	}

	got := rankDeals(deals, 10)
	if len(got) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(got))
	}
	if got[0].ID != "c2" || got[0].Value != 300 {
		t.Errorf("Expected c2 first with 300, got %+v", got[0])
	}
	if got[1].ID != "c1" || got[1].Value != 250 || got[1].Count != 2 {
		t.Errorf("Expected c1 second with summed 250 over 2 deals, got %+v", got[1])
	}
}

func TestRankTruncates(t *testing.T) {
	var deals []rankedDeal
	for i := 0; i < 15; i++ {
		deals = append(deals, rankedDeal{
			company: string(rune('a' + i)),
			value:   int64(i),
			linked:  true,
		})
	}

	if got := rankDeals(deals, 10); len(got) != 10 {
		t.Errorf("Expected 10 entries, got %d", len(got))
	}
	// non-positive n falls back to the default board size
	if got := rankDeals(deals, 0); len(got) != 10 {
		t.Errorf("Expected default of 10 entries, got %d", len(got))
	}
	if got := rankDeals(deals, 3); len(got) != 3 {
		t.Errorf("Expected 3 entries, got %d", len(got))
	}
}

func TestRankSkipsUnlinkedRecords(t *testing.T) {
	deals := []rankedDeal{
		{"c1", "Acme", 100, true},
		{"", "", 900, false},
		{"c2", "Globex", 50, true},
	}

	got := rankDeals(deals, 10)
	if len(got) != 2 {
		t.Fatalf("Unlinked record should be skipped, got %d entries", len(got))
	}
	if got[0].ID != "c1" {
		t.Errorf("Expected c1 first, got %s", got[0].ID)
	}
}

func TestRankStableTies(t *testing.T) {
	deals := []rankedDeal{
		{"first", "First", 100, true},
		{"second", "Second", 100, true},
		{"third", "Third", 100, true},
	}

	got := rankDeals(deals, 10)
	want := []string{"first", "second", "third"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Tied entries should keep first-seen order: position %d expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestRankNilValue(t *testing.T) {
	activities := []rankedDeal{
		{"c1", "Acme", 0, true},
		{"c1", "Acme", 0, true},
		{"c2", "Globex", 0, true},
	}
	got := Rank(activities, func(d rankedDeal) (string, string, bool) {
		return d.company, d.name, d.linked
	}, nil, 10)

	if got[0].ID != "c1" || got[0].Count != 2 {
		t.Errorf("Expected c1 first with count 2, got %+v", got[0])
	}
}
