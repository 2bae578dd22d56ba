package source

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MarkdownNormalizer flattens markdown to plain text using goldmark AST
// parsing. Markup is dropped; the text content is kept with headings,
// paragraphs, list items, and table rows on separate lines.
type MarkdownNormalizer struct {
	parser goldmark.Markdown
}

// NewMarkdownNormalizer creates a new markdown normalizer.
func NewMarkdownNormalizer() *MarkdownNormalizer {
	return &MarkdownNormalizer{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Normalize parses markdown and returns its plain text content. Code
// blocks keep their raw lines; table rows are rendered as cells joined
// with " | " separators.
func (n *MarkdownNormalizer) Normalize(content []byte) string {
	if len(content) == 0 {
		return ""
	}

	reader := text.NewReader(content)
	doc := n.parser.Parser().Parse(reader)

	var b strings.Builder

	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Heading:
			breakLine(&b)
			b.WriteString(extractTextFromNode(v, content))
			return ast.WalkSkipChildren, nil

		case *ast.Text:
			b.Write(v.Segment.Value(content))
			// Line breaks inside a paragraph are not part of any segment.
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil

		case *ast.String:
			b.Write(v.Value)
			return ast.WalkContinue, nil

		case *ast.CodeBlock:
			breakLine(&b)
			writeRawLines(&b, v.Lines(), content)
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			breakLine(&b)
			writeRawLines(&b, v.Lines(), content)
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.ListItem:
			breakLine(&b)
			return ast.WalkContinue, nil
		}

		// Table extension nodes are matched by kind name. Rows (including
		// the header row) become single lines; cells are extracted there.
		kindName := node.Kind().String()
		if strings.Contains(kindName, "TableRow") || strings.Contains(kindName, "TableHeader") {
			breakLine(&b)
			b.WriteString(extractTableRowText(node, content))
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(b.String())
}

// breakLine terminates the current line unless the builder is empty or
// already ends with a newline.
func breakLine(b *strings.Builder) {
	if b.Len() > 0 && !strings.HasSuffix(b.String(), "\n") {
		b.WriteString("\n")
	}
}

// writeRawLines writes code block lines verbatim, trailing newlines included.
func writeRawLines(b *strings.Builder, lines *text.Segments, content []byte) {
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		b.Write(line.Value(content))
	}
}

// extractTextFromNode extracts the text content of a node and its children.
func extractTextFromNode(n ast.Node, content []byte) string {
	var textBuilder strings.Builder

	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch v := node.(type) {
		case *ast.Text:
			textBuilder.Write(v.Segment.Value(content))
		case *ast.String:
			textBuilder.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(textBuilder.String())
}

// extractTableRowText extracts the cells of a table row, joined with pipe
// separators.
func extractTableRowText(row ast.Node, content []byte) string {
	var rowBuilder strings.Builder
	cellCount := 0

	_ = ast.Walk(row, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		if strings.Contains(node.Kind().String(), "TableCell") {
			if cellCount > 0 {
				rowBuilder.WriteString(" | ")
			}
			rowBuilder.WriteString(extractTextFromNode(node, content))
			cellCount++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return rowBuilder.String()
}
