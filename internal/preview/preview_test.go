// Package preview tests for markdown to plain text conversion.
package preview

import (
	"strings"
	"testing"
)

// TestPlainText_StripsFormatting verifies markup is removed but text kept.
func TestPlainText_StripsFormatting(t *testing.T) {
	markdown := "# Cell Structure\n\nThe **membrane** separates the _interior_ of a cell.\n\n- lipid bilayer\n- proteins"

	plain := PlainText(markdown)

	for _, marker := range []string{"#", "**", "_"} {
		if strings.Contains(plain, marker) {
			t.Errorf("PlainText() kept markup %q: %q", marker, plain)
		}
	}
	for _, want := range []string{"Cell Structure", "membrane", "lipid bilayer"} {
		if !strings.Contains(plain, want) {
			t.Errorf("PlainText() lost content %q: %q", want, plain)
		}
	}
}

// TestPlainText_CodeBlock verifies fenced code content survives.
func TestPlainText_CodeBlock(t *testing.T) {
	markdown := "Setup:\n\n```\npip install biopython\n```\n"

	plain := PlainText(markdown)
	if !strings.Contains(plain, "pip install biopython") {
		t.Errorf("PlainText() lost code content: %q", plain)
	}
}

// TestPlainText_PlainInput verifies non-markdown text passes through.
func TestPlainText_PlainInput(t *testing.T) {
	in := "Just a sentence about mitosis."
	if got := PlainText(in); got != in {
		t.Errorf("PlainText(%q) = %q", in, got)
	}
}

// TestExcerpt verifies truncation and single-line collapsing.
func TestExcerpt(t *testing.T) {
	markdown := "# Genetics\n\nMendel crossed pea plants.\nDominant and recessive traits."

	excerpt := Excerpt(markdown, 30)
	if strings.Contains(excerpt, "\n") {
		t.Errorf("Excerpt() should be a single line: %q", excerpt)
	}
	if !strings.HasSuffix(excerpt, "...") {
		t.Errorf("truncated excerpt should end with ellipsis: %q", excerpt)
	}

	short := Excerpt("tiny", 30)
	if short != "tiny" {
		t.Errorf("Excerpt(short) = %q, want unchanged text", short)
	}
}
