// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestKeyConcepts(t *testing.T) {
	text := "Abstract: We present Deep Learning methods for Graph Networks in this work. " +
		"Keywords: neural networks, graph theory\n\n1. Introduction\nBody text follows."

	got := KeyConcepts(text)
	want := []string{"Deep Learning", "Graph Networks", "graph theory", "neural networks"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("KeyConcepts = %v, want %v", got, want)
	}
}

func TestKeyConceptsNoSections(t *testing.T) {
	got := KeyConcepts("Plain text without any recognizable paper structure.")
	if got != nil {
		t.Errorf("KeyConcepts on plain text = %v, want nil", got)
	}
}

func TestKeyConceptsBounded(t *testing.T) {
	var b strings.Builder
	b.WriteString("Abstract: survey follows. Keywords: ")
	for i := 0; i < 40; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "concept number %02d", i)
	}
	b.WriteString("\n\nIntroduction\n")

	got := KeyConcepts(b.String())
	if len(got) > maxConcepts {
		t.Errorf("KeyConcepts returned %d entries, cap is %d", len(got), maxConcepts)
	}
	if len(got) == 0 {
		t.Errorf("KeyConcepts returned nothing for a long keywords block")
	}
}

func TestKeyConceptsDropsShortTerms(t *testing.T) {
	text := "Abstract: We use It and Ai here with Reinforcement Learning today. Keywords: ml, ai, reinforcement learning\n\n"
	got := KeyConcepts(text)
	for _, c := range got {
		if len(c) < minConceptLen {
			t.Errorf("concept %q shorter than minimum %d", c, minConceptLen)
		}
	}
}
