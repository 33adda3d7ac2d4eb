package locale

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestNegotiate(t *testing.T) {
	cases := []struct {
		header string
		want   language.Tag
	}{
		{"", language.AmericanEnglish},
		{"de-DE,de;q=0.9,en;q=0.8", language.German},
		{"en-GB,en;q=0.9", language.BritishEnglish},
		{"nl", language.Dutch},
		{"xx-invalid;;", language.AmericanEnglish},
	}

	for _, tc := range cases {
		if got := Negotiate(tc.header); got != tc.want {
			t.Fatalf("header %q: expected %s, got %s", tc.header, tc.want, got)
		}
	}
}

func TestDateLayout(t *testing.T) {
	d := time.Date(2024, time.March, 7, 15, 4, 0, 0, time.UTC)

	if got := d.Format(DateLayout(language.AmericanEnglish)); got != "3/7/2024" {
		t.Fatalf("expected 3/7/2024, got %q", got)
	}
	if got := d.Format(DateLayout(language.BritishEnglish)); got != "07/03/2024" {
		t.Fatalf("expected 07/03/2024, got %q", got)
	}
	if got := d.Format(DateLayout(language.German)); got != "7.3.2024" {
		t.Fatalf("expected 7.3.2024, got %q", got)
	}
}

func TestDateLayoutUnknownTagFallsBack(t *testing.T) {
	if got := DateLayout(language.Japanese); got != "1/2/2006" {
		t.Fatalf("expected default layout, got %q", got)
	}
}
