package phone

import (
	"reflect"
	"testing"
)

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		region string
		want   string
	}{
		{"national mexican mobile", "55 1234 5678", "MX", "+525512345678"},
		{"already e164", "+525512345678", "MX", "+525512345678"},
		{"whitespace trimmed", "  5512345678 ", "MX", "+525512345678"},
		{"unparseable kept verbatim", "ext. 204", "MX", "ext. 204"},
		{"invalid number kept verbatim", "123", "MX", "123"},
		{"empty stays empty", "   ", "MX", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeE164(tc.input, tc.region); got != tc.want {
				t.Fatalf("NormalizeE164(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeAllPreservesOrderAndDropsEmpties(t *testing.T) {
	got := NormalizeAll([]string{"5512345678", "", "+525598765432"}, "MX")
	want := []string{"+525512345678", "+525598765432"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("NormalizeAll = %v, want %v", got, want)
	}
}

func TestNormalizeAllEmptyInput(t *testing.T) {
	if got := NormalizeAll(nil, "MX"); got != nil {
		t.Fatalf("expected nil for empty input, got %v", got)
	}
}
