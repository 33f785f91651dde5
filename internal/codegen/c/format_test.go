package c

import "testing"

func TestEscapeLiteralPercent(t *testing.T) {
	got, err := Escape("100%%")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "100%" {
		t.Errorf("Escape(100%%%%) = %q, want %q", got, "100%")
	}
}

func TestEscapeStringSpecifier(t *testing.T) {
	got, err := Escape("name: %s")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "name: %s" {
		t.Errorf("Escape = %q, want %q", got, "name: %s")
	}
}

func TestEscapeSignedWidthSpecifier(t *testing.T) {
	got, err := Escape("%i8")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := `%" PRId8 "`
	if got != want {
		t.Errorf("Escape(%%i8) = %q, want %q", got, want)
	}
}

func TestEscapeWidthRoundsUpToSmallestBucket(t *testing.T) {
	got, err := Escape("%u20")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := `%" PRIu32 "`
	if got != want {
		t.Errorf("Escape(%%u20) = %q, want %q (20 should round up to the 32-bit bucket)", got, want)
	}
}

func TestEscapeWidthDefaultsTo64WhenOmitted(t *testing.T) {
	got, err := Escape("%x")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := `%" PRIx64 "`
	if got != want {
		t.Errorf("Escape(%%x) = %q, want %q", got, want)
	}
}

func TestEscapeWidthOver64IsAnError(t *testing.T) {
	if _, err := Escape("%i128"); err == nil {
		t.Fatal("expected an error for a format width exceeding 64")
	}
}

func TestEscapeUnknownSpecifierDropsSilently(t *testing.T) {
	got, err := Escape("a%zb")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if got != "ab" {
		t.Errorf("Escape(a%%zb) = %q, want %q (unknown specifier reverts to Copy without emitting anything)", got, "ab")
	}
}

func TestEscapeQuotesAreEscaped(t *testing.T) {
	got, err := Escape(`say "hi"`)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	want := `say \"hi\"`
	if got != want {
		t.Errorf("Escape = %q, want %q", got, want)
	}
}
