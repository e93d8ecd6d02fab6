// Package preview converts note content from Markdown to plain text.
// Notes are free-form text and usually written as Markdown; listings show
// a plain-text excerpt, and the insight adapter feeds the model plain
// text rather than raw markup.
package preview

import (
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// PlainText converts markdown to plain text by walking the parsed AST.
func PlainText(markdown string) string {
	md := goldmark.New()
	source := []byte(markdown)
	node := md.Parser().Parse(text.NewReader(source))

	var builder strings.Builder
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n.Kind() {
		case ast.KindText:
			textNode := n.(*ast.Text)
			builder.Write(textNode.Segment.Value(source))
			if textNode.SoftLineBreak() || textNode.HardLineBreak() {
				builder.WriteString(" ")
			}
		case ast.KindParagraph:
			builder.WriteString("\n\n")
		case ast.KindHeading:
			builder.WriteString("\n")
		case ast.KindList:
			builder.WriteString("\n")
		case ast.KindListItem:
			builder.WriteString("- ")
		case ast.KindFencedCodeBlock:
			code := n.(*ast.FencedCodeBlock)
			builder.WriteString("\n")
			for i := 0; i < code.Lines().Len(); i++ {
				line := code.Lines().At(i)
				builder.Write(line.Value(source))
			}
			builder.WriteString("\n")
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(builder.String())
}

// Excerpt returns the first maxRunes runes of the plain-text rendering,
// collapsed to a single line.
func Excerpt(markdown string, maxRunes int) string {
	plain := PlainText(markdown)
	plain = strings.Join(strings.Fields(plain), " ")

	if utf8.RuneCountInString(plain) <= maxRunes {
		return plain
	}

	runes := []rune(plain)
	return strings.TrimSpace(string(runes[:maxRunes])) + "..."
}
