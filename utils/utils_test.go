package utils

import "testing"

func TestUrlQuery(t *testing.T) {
	if got := UrlQuery(" ev market 2026 "); got != "ev+market+2026" {
		t.Fatalf("UrlQuery = %q", got)
	}
}

func TestStr(t *testing.T) {
	if Str(nil) != "" {
		t.Fatal("Str(nil) not empty")
	}
	if Str(42) != "42" || Str("x") != "x" {
		t.Fatal("Str conversion broken")
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("Truncate = %q", got)
	}
	if got := Truncate("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("Truncate = %q", got)
	}
}
