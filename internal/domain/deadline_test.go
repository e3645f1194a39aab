package domain

import (
	"testing"
	"time"
)

func day(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t.UTC()
}

func TestClassify(t *testing.T) {
	today := day("2024-06-01")
	cases := []struct {
		date string
		want Status
	}{
		{"2024-05-31", StatusExpired},
		{"2024-05-20", StatusExpired},
		{"2024-06-01", StatusUpcoming},
		{"2024-06-03", StatusUpcoming},
		{"2024-06-08", StatusUpcoming}, // today+7 still upcoming
		{"2024-06-09", StatusFuture},
		{"2024-08-01", StatusFuture},
	}
	for _, c := range cases {
		if got := Classify(day(c.date), today); got != c.want {
			t.Errorf("Classify(%s): want %v, got %v", c.date, c.want, got)
		}
	}
}

func TestFilterDeadlines(t *testing.T) {
	today := day("2024-06-01")
	ds := []Deadline{
		{ID: 1, Date: "2024-05-20", Type: "Inspection"},
		{ID: 2, Date: "not-a-date", Type: "Broken"},
		{ID: 3, Date: "2024-06-03", Type: "Insurance"},
		{ID: 4, Date: "2024-08-01", Type: "Tax"},
	}

	upcoming := FilterDeadlines(ds, FilterUpcoming, today)
	if len(upcoming) != 1 || upcoming[0].ID != 3 {
		t.Fatalf("upcoming: want [3], got %v", upcoming)
	}

	expired := FilterDeadlines(ds, FilterExpired, today)
	if len(expired) != 1 || expired[0].ID != 1 {
		t.Fatalf("expired: want [1], got %v", expired)
	}

	// ALL keeps future items but still drops the malformed date,
	// preserving storage order.
	all := FilterDeadlines(ds, FilterAll, today)
	if len(all) != 3 || all[0].ID != 1 || all[1].ID != 3 || all[2].ID != 4 {
		t.Fatalf("all: want [1 3 4], got %v", all)
	}
}

func TestParseFilterMode(t *testing.T) {
	for _, s := range []string{"UPCOMING", "EXPIRED", "ALL"} {
		m, err := ParseFilterMode(s)
		if err != nil {
			t.Fatalf("ParseFilterMode(%s): %v", s, err)
		}
		if m.String() != s {
			t.Fatalf("round trip %s: got %s", s, m)
		}
	}
	if _, err := ParseFilterMode("SOON"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestTodayTruncates(t *testing.T) {
	got := Today(time.Date(2024, time.June, 1, 17, 45, 12, 0, time.UTC))
	if !got.Equal(day("2024-06-01")) {
		t.Fatalf("want 2024-06-01, got %v", got)
	}
}
