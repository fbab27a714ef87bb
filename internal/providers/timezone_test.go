package providers

import "testing"

func TestResolveTimezoneValid(t *testing.T) {
	loc := ResolveTimezone("UTC")
	if loc == nil || loc.String() != "UTC" {
		t.Fatalf("expected UTC, got %v", loc)
	}
}

func TestResolveTimezoneInvalid(t *testing.T) {
	if loc := ResolveTimezone("Not/AZone"); loc != nil {
		t.Fatalf("expected nil for invalid timezone, got %v", loc)
	}
}

func TestResolveTimezoneEmpty(t *testing.T) {
	if loc := ResolveTimezone(""); loc != nil {
		t.Fatalf("expected nil for empty timezone")
	}
}

func TestKickoffDateUsesLocation(t *testing.T) {
	ny := ResolveTimezone("America/New_York")
	if ny == nil {
		t.Skip("tzdata unavailable")
	}
	got, err := KickoffDate("2024-01-07T02:30:00Z", ny)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if got != "2024-01-06" {
		t.Fatalf("expected previous local day, got %s", got)
	}

	utc, err := KickoffDate("2024-01-07T02:30:00Z", nil)
	if err != nil || utc != "2024-01-07" {
		t.Fatalf("expected UTC date, got %s (%v)", utc, err)
	}

	if _, err := KickoffDate("not-a-time", nil); err == nil {
		t.Fatal("expected parse error")
	}
}
