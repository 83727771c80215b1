package timezone

import (
	"testing"
	"time"
)

func TestLocation(t *testing.T) {
	if got := Location("UTC"); got != time.UTC && got.String() != "UTC" {
		t.Fatalf("expected UTC, got %v", got)
	}
	if IsValid("Not/AZone") {
		t.Fatalf("bogus zone should be invalid")
	}
	if Location("Not/AZone") == nil {
		t.Fatalf("fallback location must not be nil")
	}
	if IsValid("") {
		t.Fatalf("empty zone should be invalid")
	}
}
