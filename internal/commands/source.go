package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/tildaslashalef/snapreview/internal/app"
	"github.com/tildaslashalef/snapreview/internal/language"
	"github.com/tildaslashalef/snapreview/internal/render"
	"github.com/tildaslashalef/snapreview/internal/tui"
)

// maxSourceBytes caps how much code is read for one review
const maxSourceBytes = 1 << 20

var (
	// ErrNoSource is returned when there is nothing to review
	ErrNoSource = errors.New("no source code to review: pass a file or pipe code on stdin")
	// ErrBinarySource is returned for input that is not text
	ErrBinarySource = errors.New("input looks like a binary file")
)

// source is the code read for one review
type source struct {
	Name     string // base name of the file, or stdin
	Path     string // empty for stdin
	Code     string
	Language string
}

// langFlag is shared by the commands that review code
var langFlag = &cli.StringFlag{
	Name:    "lang",
	Aliases: []string{"l"},
	Usage:   "Language tag for the prompt (detected from the file when omitted)",
}

// readSource reads FILE, or stdin when no argument or "-" is given, and resolves its language
func readSource(c *cli.Context, application *app.App) (*source, error) {
	src := &source{Name: tui.StdinName}

	var reader io.Reader = c.App.Reader
	if path := c.Args().First(); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open source file: %w", err)
		}
		defer f.Close()
		reader = f
		src.Path = path
		src.Name = filepath.Base(path)
	} else if f, ok := reader.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return nil, ErrNoSource
	}

	data, err := io.ReadAll(io.LimitReader(reader, maxSourceBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read source: %w", err)
	}
	if len(data) > maxSourceBytes {
		return nil, fmt.Errorf("source is larger than %d bytes", maxSourceBytes)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, ErrNoSource
	}
	if language.IsBinary(data) {
		return nil, ErrBinarySource
	}

	src.Code = string(data)
	src.Language = application.Detector.Resolve(
		c.String(langFlag.Name),
		src.Path,
		data,
		application.Config.Review.DefaultLanguage,
	)

	application.Logger.Debug("Source read",
		"name", src.Name,
		"bytes", len(data),
		"language", src.Language,
	)
	return src, nil
}

// outputWidth is the terminal width of w, or the default width when w is not a terminal
func outputWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return render.DefaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return render.DefaultWidth
	}
	return width
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
