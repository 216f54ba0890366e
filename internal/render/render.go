// Package render writes a review for people (text, markdown) or programs (json)
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/tildaslashalef/snapreview/internal/review"
)

// Format selects the output representation
type Format string

const (
	// FormatText is a colored summary with an issues table
	FormatText Format = "text"
	// FormatMarkdown is markdown rendered for the terminal, or raw when Raw is set
	FormatMarkdown Format = "markdown"
	// FormatJSON is the review object itself
	FormatJSON Format = "json"
)

// DefaultWidth is the wrap width when the terminal width is unknown
const DefaultWidth = 100

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatMarkdown, FormatJSON:
		return f, nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (must be text, markdown or json)", s)
	}
}

// Options control rendering
type Options struct {
	Format   Format
	Width    int    // wrap width, DefaultWidth when zero
	Raw      bool   // markdown only: skip terminal styling
	Language string // shown in headings when set
}

// Render writes r to w in the requested format
func Render(w io.Writer, r *review.Review, opts Options) error {
	if r == nil {
		return fmt.Errorf("no review to render")
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}

	switch opts.Format {
	case FormatJSON:
		return JSON(w, r)
	case FormatMarkdown:
		md := Markdown(r, opts.Language)
		if opts.Raw {
			_, err := io.WriteString(w, md)
			return err
		}
		out, err := Terminal(md, opts.Width)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	case FormatText, "":
		return Text(w, r, opts)
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// JSON writes the review as indented JSON
func JSON(w io.Writer, r *review.Review) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding review: %w", err)
	}
	return nil
}
