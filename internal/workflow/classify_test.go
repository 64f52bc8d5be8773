// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"testing"

	"github.com/pdiddy/research-assistant/pkg/types"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.InputKind
	}{
		{name: "pdf path", input: "papers/attention.pdf", want: types.KindDocument},
		{name: "pdf suffix uppercase", input: "REPORT.PDF", want: types.KindDocument},
		{name: "pdf marker inside url wins over http", input: "https://arxiv.org/pdf/1706.03762", want: types.KindDocument},
		{name: "http url", input: "https://example.com/article", want: types.KindWebPage},
		{name: "bare http prefix", input: "http://localhost:8080", want: types.KindWebPage},
		{name: "plain question", input: "what is a transformer?", want: types.KindQuery},
		{name: "empty input", input: "", want: types.KindQuery},
		{name: "whitespace only", input: "   ", want: types.KindQuery},
		{name: "word containing pdf", input: "summarize the pdf I uploaded", want: types.KindDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.input); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
