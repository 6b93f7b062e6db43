// Package extract reads the plain text out of statement documents.
package extract

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"
	"golang.org/x/text/unicode/norm"
)

// Extractor returns the text of a document. Pages are joined by newlines.
type Extractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// PDF extracts text with github.com/ledongthuc/pdf.
type PDF struct {
	logger *log.Logger
}

func NewPDF(logger *log.Logger) *PDF {
	return &PDF{logger: logger}
}

func (e *PDF) ExtractText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		text, err := pageText(p)
		if err != nil {
			e.logger.Debug("skipping unreadable page", "file", filepath.Base(path), "page", i, "err", err)
			continue
		}
		pages = append(pages, text)
	}

	e.logger.Debug("extracted pdf text", "file", filepath.Base(path), "pages", r.NumPage())
	return Clean(strings.Join(pages, "\n")), nil
}

// pageText rebuilds the page from positioned glyphs: a change of baseline
// starts a new line and a horizontal gap wider than a quarter of the font
// size becomes a space.
func pageText(p pdf.Page) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("reading page content: %v", rec)
		}
	}()

	var b strings.Builder
	var prev pdf.Text
	for i, t := range p.Content().Text {
		if i > 0 {
			size := max(prev.FontSize, t.FontSize, 1)
			switch {
			case math.Abs(t.Y-prev.Y) > size/2:
				b.WriteByte('\n')
			case t.X-(prev.X+prev.W) > size/4 && prev.S != " " && t.S != " ":
				b.WriteByte(' ')
			}
		}
		b.WriteString(t.S)
		prev = t
	}
	return b.String(), nil
}

// Clean puts text in NFC form and turns non-breaking spaces into plain
// spaces so that parser regexes see them as whitespace.
func Clean(text string) string {
	text = norm.NFC.String(text)
	return strings.NewReplacer("\u00a0", " ", "\u202f", " ").Replace(text)
}
