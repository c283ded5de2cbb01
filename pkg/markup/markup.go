// Package markup reduces article HTML to ordered text blocks. The blocks feed both
// the plain-text search projection and the PDF layout.
package markup

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Kind classifies a text block.
type Kind string

const (
	Heading      Kind = "heading"
	Paragraph    Kind = "paragraph"
	ListItem     Kind = "item"
	Preformatted Kind = "pre"
	Quote        Kind = "quote"
)

// Block is a run of text that renders as one visual unit.
type Block struct {
	Kind  Kind
	Level int
	Text  string
}

var blockKinds = map[string]Kind{
	"h1": Heading, "h2": Heading, "h3": Heading,
	"h4": Heading, "h5": Heading, "h6": Heading,
	"p":          Paragraph,
	"li":         ListItem,
	"dt":         Paragraph,
	"dd":         Paragraph,
	"pre":        Preformatted,
	"blockquote": Quote,
	"td":         Paragraph,
	"th":         Paragraph,
	"caption":    Paragraph,
	"figcaption": Paragraph,
}

var containers = map[string]bool{
	"html": true, "body": true, "div": true, "section": true, "article": true,
	"main": true, "header": true, "footer": true, "aside": true, "nav": true,
	"ul": true, "ol": true, "dl": true, "table": true, "thead": true,
	"tbody": true, "tfoot": true, "tr": true, "figure": true,
}

// Parse splits content into blocks. Script, style and comment nodes are dropped.
func Parse(content string) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()

	p := &parser{}
	p.walk(doc.Find("body"))
	p.flush()
	return p.blocks, nil
}

// PlainText returns the text of content with markup removed, one block per line.
func PlainText(content string) string {
	blocks, err := Parse(content)
	if err != nil {
		return collapse(content)
	}
	return Join(blocks)
}

// Join concatenates block texts separated by newlines.
func Join(blocks []Block) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		lines = append(lines, b.Text)
	}
	return strings.Join(lines, "\n")
}

type parser struct {
	blocks []Block
	inline strings.Builder
}

func (p *parser) walk(s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		node := c.Get(0)
		switch node.Type {
		case html.TextNode:
			p.inline.WriteString(node.Data)
		case html.ElementNode:
			p.element(node.Data, c)
		}
	})
}

func (p *parser) element(tag string, c *goquery.Selection) {
	if tag == "br" {
		p.inline.WriteString(" ")
		return
	}

	kind, isBlock := blockKinds[tag]
	switch {
	case isBlock:
		p.flush()
		p.block(tag, kind, c)
	case containers[tag]:
		p.flush()
		p.walk(c)
		p.flush()
	default:
		p.walk(c)
	}
}

func (p *parser) block(tag string, kind Kind, c *goquery.Selection) {
	switch kind {
	case Preformatted:
		p.emit(Block{Kind: kind, Text: strings.Trim(c.Text(), "\n")})
	case ListItem:
		p.emit(Block{Kind: kind, Text: collapse(text(c.Get(0), true))})
		p.walk(c.ChildrenFiltered("ul, ol"))
	case Heading:
		p.emit(Block{Kind: kind, Level: int(tag[1] - '0'), Text: collapse(text(c.Get(0), false))})
	default:
		p.emit(Block{Kind: kind, Text: collapse(text(c.Get(0), false))})
	}
}

// text flattens the descendants of n. Line breaks and nested block boundaries
// become spaces. With skipLists, nested ul/ol subtrees are left out.
func text(n *html.Node, skipLists bool) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				switch {
				case c.Data == "br":
					b.WriteString(" ")
				case skipLists && (c.Data == "ul" || c.Data == "ol"):
				case blockKinds[c.Data] != "" || containers[c.Data]:
					b.WriteString(" ")
					visit(c)
					b.WriteString(" ")
				default:
					visit(c)
				}
			}
		}
	}
	visit(n)
	return b.String()
}

func (p *parser) emit(b Block) {
	if strings.TrimSpace(b.Text) == "" {
		return
	}
	p.blocks = append(p.blocks, b)
}

func (p *parser) flush() {
	text := collapse(p.inline.String())
	p.inline.Reset()
	p.emit(Block{Kind: Paragraph, Text: text})
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
