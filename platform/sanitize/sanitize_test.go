package sanitize

import "testing"

func TestTextPlainUnchanged(t *testing.T) {
	if got := Text("  Call me after 5 pm  "); got != "Call me after 5 pm" {
		t.Fatalf("expected trimmed plain text, got %q", got)
	}
}

func TestTextRemovesScript(t *testing.T) {
	got := Text("Hello<script>alert('xss')</script>")
	if got != "Hello" {
		t.Fatalf("expected script removed, got %q", got)
	}
}

func TestTextKeepsInnerTextOfFormatting(t *testing.T) {
	got := Text("<b>Great</b> service & fast")
	if got != "Great service & fast" {
		t.Fatalf("expected tags stripped and ampersand kept, got %q", got)
	}
}

func TestTextRemovesEventHandlers(t *testing.T) {
	got := Text(`<img src=x onerror="alert(1)">nice`)
	if got != "nice" {
		t.Fatalf("expected element removed, got %q", got)
	}
}

func TestTextKeepsComparisons(t *testing.T) {
	for _, in := range []string{"budget x<y please call", "need 2 units, a<b ok", "I <3 your product"} {
		if got := Text(in); got != in {
			t.Fatalf("expected %q unchanged, got %q", in, got)
		}
	}
}
