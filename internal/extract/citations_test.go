// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"reflect"
	"testing"
)

func TestCitations(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "numeric and author-year mixed",
			text: "Transformers [1] build on attention [2] as shown by (Smith, 2020).",
			want: []string{"[1]", "[2]", "Smith, 2020"},
		},
		{
			name: "numeric keeps brackets and deduplicates",
			text: "See [3] and again [3], plus [10].",
			want: []string{"[10]", "[3]"},
		},
		{
			name: "et al style",
			text: "Earlier work (Vaswani et al., 2017) established the architecture.",
			want: []string{"Vaswani et al., 2017"},
		},
		{
			name: "author pair style",
			text: "Following (Sutton & Barto, 2018) we use value iteration.",
			want: []string{"Sutton & Barto, 2018"},
		},
		{
			name: "no citations",
			text: "Plain prose with parentheses (like this) and numbers 42.",
			want: nil,
		},
		{
			name: "empty text",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Citations(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Citations(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCitationsDeterministicOrder(t *testing.T) {
	text := "Results (Zhang, 2021) improve on [2] and [1] and (Adams, 2019)."
	first := Citations(text)
	for i := 0; i < 5; i++ {
		if got := Citations(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %v vs %v", i, got, first)
		}
	}
	// Sorted output means a downstream cap always keeps the same subset.
	want := []string{"Adams, 2019", "Zhang, 2021", "[1]", "[2]"}
	if !reflect.DeepEqual(first, want) {
		t.Errorf("Citations order = %v, want %v", first, want)
	}
}
