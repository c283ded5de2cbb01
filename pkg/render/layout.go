package render

import (
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/content-lab/pkg/markup"
)

// Average glyph advance as a fraction of the font size. Helvetica averages
// slightly above 0.5em for mixed text; Courier is fixed at 0.6em.
const (
	proportionalAdvance = 0.55
	monospaceAdvance    = 0.6
)

var headingScale = map[int]float64{1: 1.8, 2: 1.5, 3: 1.3, 4: 1.15, 5: 1.05, 6: 1.0}

type cursor struct {
	cfg    *Config
	doc    *document
	width  float64
	height float64
	page   int
	y      float64
}

// layout flows the title and blocks top to bottom over as many pages as needed.
// The cursor tracks distance from the top edge; positions are emitted relative to
// the lower-left origin.
func layout(cfg *Config, title string, blocks []markup.Block) *document {
	w, h, _ := paperSize(cfg.Paper)
	c := &cursor{
		cfg:    cfg,
		doc:    &document{Paper: cfg.Paper, Pages: make(map[string]*page)},
		width:  w,
		height: h,
	}
	c.newPage()

	if title != "" {
		c.paragraph(title, cfg.FontBold, scaled(cfg.FontSize, headingScale[1]), proportionalAdvance, 0)
		c.gap(cfg.FontSize)
	}

	for _, b := range blocks {
		switch b.Kind {
		case markup.Heading:
			c.gap(cfg.FontSize / 2)
			c.paragraph(b.Text, cfg.FontBold, scaled(cfg.FontSize, headingScale[b.Level]), proportionalAdvance, 0)
		case markup.ListItem:
			c.paragraph("- "+b.Text, cfg.Font, cfg.FontSize, proportionalAdvance, float64(cfg.FontSize))
		case markup.Quote:
			c.paragraph(b.Text, cfg.Font, cfg.FontSize, proportionalAdvance, float64(cfg.FontSize)*2)
		case markup.Preformatted:
			for _, line := range strings.Split(b.Text, "\n") {
				c.paragraph(line, cfg.FontMono, cfg.FontSize-1, monospaceAdvance, 0)
			}
		default:
			c.paragraph(b.Text, cfg.Font, cfg.FontSize, proportionalAdvance, 0)
		}
		c.gap(cfg.FontSize / 2)
	}

	return c.doc
}

func (c *cursor) newPage() {
	c.page++
	c.doc.Pages[pageKey(c.page)] = &page{}
	c.y = c.cfg.Margin
}

func (c *cursor) gap(points int) {
	c.y += float64(points)
}

func (c *cursor) paragraph(s, fontName string, size int, advance, indent float64) {
	usable := c.width - 2*c.cfg.Margin - indent
	maxRunes := int(usable / (float64(size) * advance))
	if maxRunes < 1 {
		maxRunes = 1
	}

	lineHeight := float64(size) * c.cfg.LineHeight
	for _, line := range wrap(s, maxRunes) {
		if c.y+lineHeight > c.height-c.cfg.Margin {
			c.newPage()
		}
		c.y += lineHeight
		if line == "" {
			continue
		}
		p := c.doc.Pages[pageKey(c.page)]
		p.Content.Text = append(p.Content.Text, text{
			Value: line,
			Pos:   [2]float64{c.cfg.Margin + indent, c.height - c.y},
			Font:  font{Name: fontName, Size: size},
		})
	}
}

// wrap breaks s into lines of at most limit runes, splitting on spaces and
// hard-breaking words that are longer than a line.
func wrap(s string, limit int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	curLen := 0

	for _, word := range words {
		for utf8.RuneCountInString(word) > limit {
			if curLen > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
				curLen = 0
			}
			r := []rune(word)
			lines = append(lines, string(r[:limit]))
			word = string(r[limit:])
		}

		n := utf8.RuneCountInString(word)
		if curLen > 0 && curLen+1+n > limit {
			lines = append(lines, cur.String())
			cur.Reset()
			curLen = 0
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += n
	}

	if curLen > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

func scaled(size int, factor float64) int {
	if factor == 0 {
		factor = 1
	}
	return int(float64(size)*factor + 0.5)
}
