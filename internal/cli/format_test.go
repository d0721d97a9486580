package cli

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		in       float64
		currency string
		want     string
	}{
		{0, "", "¥0.00"},
		{300, "¥", "¥300.00"},
		{1234.5, "¥", "¥1,234.50"},
		{1299.999, "$", "$1,300.00"},
		{0.1 + 0.2, "¥", "¥0.30"},
		{-42.25, "¥", "-¥42.25"},
		{1234567.89, "€", "€1,234,567.89"},
	}
	for _, tc := range cases {
		if got := FormatMoney(tc.in, tc.currency); got != tc.want {
			t.Fatalf("FormatMoney(%v, %q) = %q, want %q", tc.in, tc.currency, got, tc.want)
		}
	}
}

func TestParseAmount(t *testing.T) {
	cases := map[string]float64{
		"300":       300,
		"1,299.99":  1299.99,
		"¥2000":     2000,
		" 12.345 ":  12.35,
		"0":         0,
		"1_000_000": 1000000,
	}
	for in, want := range cases {
		got, err := ParseAmount(in)
		if err != nil {
			t.Fatalf("ParseAmount(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseAmount(%q) = %v, want %v", in, got, want)
		}
	}

	for _, bad := range []string{"", "abc", "-5", "1.2.3"} {
		if _, err := ParseAmount(bad); !errors.Is(err, ErrBadAmount) {
			t.Fatalf("ParseAmount(%q) err = %v, want ErrBadAmount", bad, err)
		}
	}
}

func TestParsePriceRejectsZero(t *testing.T) {
	if _, err := ParsePrice("0"); !errors.Is(err, ErrBadAmount) {
		t.Fatalf("ParsePrice(0) err = %v, want ErrBadAmount", err)
	}
	if _, err := ParsePrice("0.001"); err == nil {
		t.Fatal("ParsePrice(0.001) succeeded, rounds to zero")
	}
	if got, err := ParsePrice("150"); err != nil || got != 150 {
		t.Fatalf("ParsePrice(150) = %v, %v", got, err)
	}
}

func TestFormatDays(t *testing.T) {
	cases := map[int]string{0: "now", 1: "1 day", 15: "15 days", 1200: "1,200 days"}
	for in, want := range cases {
		if got := FormatDays(in); got != want {
			t.Fatalf("FormatDays(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2027, 2, 9, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "2027-02-09" {
		t.Fatalf("FormatDate = %q, want 2027-02-09", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -1234: "-1,234"}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestStalledNote(t *testing.T) {
	if got := StalledNote(0); !strings.Contains(got, "zero") {
		t.Fatalf("StalledNote(0) = %q, want zero-rate note", got)
	}
	if got := StalledNote(0.01); !strings.Contains(got, "too small") {
		t.Fatalf("StalledNote(0.01) = %q, want slow-rate note", got)
	}
}
