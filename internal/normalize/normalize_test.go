package normalize

import "testing"

func TestNormalize_Basic(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"lowercases", "The COURT Held", "the court held"},
		{"collapses whitespace", "a  b\tc\nd", "a b c d"},
		{"trims", "  hello world  ", "hello world"},
		{"hyphen line break", "de-\nfendant", "defendant"},
		{"hyphen before spaces", "state- law", "statelaw"},
		{"hyphen without break kept", "well-known rule", "well-known rule"},
		{"trailing hyphen kept", "cont-", "cont-"},
		{"trailing hyphen break trimmed", "cont- ", "cont"},
		{"mixed", "The de-\nfendant   ARGUED\tthat", "the defendant argued that"},
		{"unicode", "Straße Nr. 7", "straße nr. 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"  The COURT   held-\nthat ",
		"a-\n b- c",
		"already normalized text",
		"Straße Nr. 7 de-\tfendant",
	}

	for _, input := range inputs {
		once := Normalize(input)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
