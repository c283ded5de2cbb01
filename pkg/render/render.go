// Package render produces PDF documents from article HTML.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/JaimeStill/content-lab/pkg/markup"
)

// ErrEmptySource is returned when there is nothing to render.
var ErrEmptySource = errors.New("render: empty source")

// Source is the input of a render: a document title and its HTML body.
type Source struct {
	Title string
	HTML  string
}

// Renderer converts a Source into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, src Source) ([]byte, error)
}

type pdfRenderer struct {
	cfg    *Config
	logger *slog.Logger
}

// New creates a pdfcpu-backed renderer.
func New(cfg *Config, logger *slog.Logger) Renderer {
	return &pdfRenderer{
		cfg:    cfg,
		logger: logger.With("system", "render"),
	}
}

func (r *pdfRenderer) Render(ctx context.Context, src Source) ([]byte, error) {
	blocks, err := markup.Parse(src.HTML)
	if err != nil {
		return nil, err
	}
	if src.Title == "" && len(blocks) == 0 {
		return nil, ErrEmptySource
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := layout(r.cfg, src.Title, blocks)

	desc, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode layout: %w", err)
	}

	var buf bytes.Buffer
	if err := api.Create(nil, bytes.NewReader(desc), &buf, model.NewDefaultConfiguration()); err != nil {
		return nil, fmt.Errorf("create pdf: %w", err)
	}

	r.logger.Debug("rendered pdf", "title", src.Title, "pages", len(doc.Pages), "bytes", buf.Len())
	return buf.Bytes(), nil
}

// PageCount returns the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	return api.PageCount(bytes.NewReader(data), model.NewDefaultConfiguration())
}

// document mirrors the subset of the pdfcpu JSON page description used here.
type document struct {
	Paper string           `json:"paper"`
	Pages map[string]*page `json:"pages"`
}

type page struct {
	Content content `json:"content"`
}

type content struct {
	Text []text `json:"text"`
}

type text struct {
	Value string     `json:"value"`
	Pos   [2]float64 `json:"pos"`
	Font  font       `json:"font"`
}

type font struct {
	Name string `json:"name"`
	Size int    `json:"size"`
}

func pageKey(n int) string {
	return strconv.Itoa(n)
}
