package render

import (
	"fmt"
	"os"
	"strconv"
)

// Config controls the PDF page layout.
type Config struct {
	Paper      string  `toml:"paper"`
	Margin     float64 `toml:"margin"`
	Font       string  `toml:"font"`
	FontBold   string  `toml:"font_bold"`
	FontMono   string  `toml:"font_mono"`
	FontSize   int     `toml:"font_size"`
	LineHeight float64 `toml:"line_height"`
}

// Env names the environment variables that override Config fields.
type Env struct {
	Paper    string
	Margin   string
	Font     string
	FontSize string
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Paper != "" {
		c.Paper = overlay.Paper
	}
	if overlay.Margin > 0 {
		c.Margin = overlay.Margin
	}
	if overlay.Font != "" {
		c.Font = overlay.Font
	}
	if overlay.FontBold != "" {
		c.FontBold = overlay.FontBold
	}
	if overlay.FontMono != "" {
		c.FontMono = overlay.FontMono
	}
	if overlay.FontSize > 0 {
		c.FontSize = overlay.FontSize
	}
	if overlay.LineHeight > 0 {
		c.LineHeight = overlay.LineHeight
	}
}

func (c *Config) loadDefaults() {
	if c.Paper == "" {
		c.Paper = "A4P"
	}
	if c.Margin <= 0 {
		c.Margin = 56
	}
	if c.Font == "" {
		c.Font = "Helvetica"
	}
	if c.FontBold == "" {
		c.FontBold = "Helvetica-Bold"
	}
	if c.FontMono == "" {
		c.FontMono = "Courier"
	}
	if c.FontSize <= 0 {
		c.FontSize = 11
	}
	if c.LineHeight <= 0 {
		c.LineHeight = 1.4
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Paper != "" {
		if v := os.Getenv(env.Paper); v != "" {
			c.Paper = v
		}
	}
	if env.Margin != "" {
		if v := os.Getenv(env.Margin); v != "" {
			if m, err := strconv.ParseFloat(v, 64); err == nil {
				c.Margin = m
			}
		}
	}
	if env.Font != "" {
		if v := os.Getenv(env.Font); v != "" {
			c.Font = v
		}
	}
	if env.FontSize != "" {
		if v := os.Getenv(env.FontSize); v != "" {
			if s, err := strconv.Atoi(v); err == nil {
				c.FontSize = s
			}
		}
	}
}

func (c *Config) validate() error {
	w, h, ok := paperSize(c.Paper)
	if !ok {
		return fmt.Errorf("unsupported paper %q", c.Paper)
	}
	if c.Margin*2 >= w || c.Margin*2 >= h {
		return fmt.Errorf("margin %.0f leaves no printable area on %s", c.Margin, c.Paper)
	}
	if c.FontSize < 6 || c.FontSize > 36 {
		return fmt.Errorf("font_size must be between 6 and 36")
	}
	return nil
}

// paperSize returns the page dimensions in points.
func paperSize(paper string) (width, height float64, ok bool) {
	switch paper {
	case "A4P", "A4":
		return 595, 842, true
	case "A4L":
		return 842, 595, true
	case "LetterP", "Letter":
		return 612, 792, true
	case "LetterL":
		return 792, 612, true
	}
	return 0, 0, false
}
