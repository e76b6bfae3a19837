package utils

import "testing"

func TestTruncateForLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{name: "non-positive limit hides the text", input: "Match Score: 80", limit: 0, expect: ""},
		{name: "short response kept", input: `{"match_score": 72}`, limit: 40, expect: `{"match_score": 72}`},
		{name: "long prompt cut", input: "Resume: Go developer with Kubernetes", limit: 6, expect: "Resume..."},
		{name: "whitespace trimmed first", input: "\n  Missing Skills:\n", limit: 7, expect: "Missing..."},
		{name: "counts runes not bytes", input: "Résumé scoring", limit: 6, expect: "Résumé..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateForLog(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}
