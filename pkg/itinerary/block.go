package itinerary

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kind classifies a rendered block.
type Kind int

const (
	KindSection    Kind = iota // level-2 heading
	KindSubheading             // level-3 and deeper headings
	KindParagraph
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindSubheading:
		return "subheading"
	case KindParagraph:
		return "paragraph"
	case KindList:
		return "list"
	}
	return "unknown"
}

// Block is one top-level unit of the itinerary.
type Block struct {
	Kind  Kind
	Level int      // heading level, 0 for body blocks
	Text  string   // heading or paragraph text
	Items []string // list items, KindList only
	Icon  Icon     // KindSection only
}

// Markdown reconstructs the block as markdown for body rendering.
func (b Block) Markdown() string {
	switch b.Kind {
	case KindSection, KindSubheading:
		return strings.Repeat("#", b.Level) + " " + b.Text
	case KindList:
		lines := make([]string, len(b.Items))
		for i, item := range b.Items {
			lines[i] = "- " + item
		}
		return strings.Join(lines, "\n")
	}
	return b.Text
}

var parser = goldmark.New().Parser()

// Parse splits markdown into blocks in document order. A level-1 heading is
// treated like a section so that a model that ignores the requested heading
// level still gets grouped output.
func Parse(markdown string) []Block {
	src := []byte(markdown)
	doc := parser.Parse(text.NewReader(src))

	var blocks []Block
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(inlineText(node, src))
			if node.Level <= 2 {
				blocks = append(blocks, Block{Kind: KindSection, Level: node.Level, Text: title, Icon: IconFor(title)})
			} else {
				blocks = append(blocks, Block{Kind: KindSubheading, Level: node.Level, Text: title})
			}
		case *ast.List:
			blocks = append(blocks, Block{Kind: KindList, Items: listItems(node, src, 0)})
		case *ast.Paragraph, *ast.TextBlock:
			if t := strings.TrimSpace(inlineText(node, src)); t != "" {
				blocks = append(blocks, Block{Kind: KindParagraph, Text: t})
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			blocks = append(blocks, Block{Kind: KindParagraph, Text: linesText(node, src)})
		case *ast.Blockquote:
			for c := node.FirstChild(); c != nil; c = c.NextSibling() {
				if t := strings.TrimSpace(inlineText(c, src)); t != "" {
					blocks = append(blocks, Block{Kind: KindParagraph, Text: t})
				}
			}
		}
	}
	return blocks
}

// listItems flattens a list; nested items are indented by two spaces per level.
func listItems(list *ast.List, src []byte, depth int) []string {
	var items []string
	indent := strings.Repeat("  ", depth)
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				items = append(items, listItems(sub, src, depth+1)...)
				continue
			}
			if t := strings.TrimSpace(inlineText(c, src)); t != "" {
				items = append(items, indent+t)
			}
		}
	}
	return items
}

// inlineText concatenates the text of n's inline descendants.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		case *ast.CodeSpan:
			for cc := t.FirstChild(); cc != nil; cc = cc.NextSibling() {
				if txt, ok := cc.(*ast.Text); ok {
					b.Write(txt.Segment.Value(src))
				}
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func linesText(n ast.Node, src []byte) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimRight(b.String(), "\n")
}
