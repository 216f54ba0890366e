// Package language infers the language tag placed on the review prompt's code fence
package language

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-enry/go-enry/v2"

	"github.com/tildaslashalef/snapreview/internal/loggy"
)

// Default is the tag used when nothing else is known
const Default = "javascript"

// Language is a fence tag with the linguist name it comes from
type Language struct {
	Tag        string   // Code fence tag, e.g. "cpp"
	Name       string   // Linguist name, e.g. "C++"
	Extensions []string // Known file extensions
}

// fenceTags maps linguist names whose lowercase form is not the usual fence tag
var fenceTags = map[string]string{
	"C++":              "cpp",
	"C#":               "csharp",
	"F#":               "fsharp",
	"Objective-C":      "objc",
	"Objective-C++":    "objcpp",
	"Shell":            "bash",
	"Emacs Lisp":       "elisp",
	"Vim Script":       "vim",
	"Jupyter Notebook": "json",
	"Protocol Buffer":  "protobuf",
}

// common lists the languages offered by the languages command, in display order
var common = []string{
	"JavaScript", "Python", "TypeScript", "Java", "C++",
	"Go", "Rust", "C", "C#", "Ruby", "PHP", "Kotlin", "Swift",
	"Scala", "Shell", "SQL", "HTML", "CSS",
}

// Detector detects the language of a source blob
type Detector struct {
	logger *loggy.Logger
}

// NewDetector creates a new language detector
func NewDetector(logger *loggy.Logger) *Detector {
	if logger == nil {
		logger = loggy.GetGlobalLogger()
	}
	return &Detector{
		logger: logger,
	}
}

// Detect returns the fence tag for a file name and its content, or "" when the
// language cannot be determined. Either argument may be empty.
func (d *Detector) Detect(filename string, content []byte) string {
	base := filepath.Base(filename)
	if filename == "" {
		base = ""
	}

	name := enry.GetLanguage(base, content)
	if name == "" && base != "" {
		// Fallback to extension, then filename, when content is ambiguous
		name, _ = enry.GetLanguageByExtension(base)
		if name == "" {
			name, _ = enry.GetLanguageByFilename(base)
		}
	}
	if name == "" {
		d.logger.Debug("No language detected", "filename", filename, "content_length", len(content))
		return ""
	}

	tag := Tag(name)
	d.logger.Debug("Detected language", "filename", filename, "language", name, "tag", tag)
	return tag
}

// Resolve picks the tag for a review: an explicit tag wins, then detection,
// then fallback. Explicit tags are passed through unvalidated.
func (d *Detector) Resolve(explicit, filename string, content []byte, fallback string) string {
	if tag := strings.TrimSpace(explicit); tag != "" {
		return tag
	}
	if tag := d.Detect(filename, content); tag != "" {
		return tag
	}
	if fallback != "" {
		return fallback
	}
	return Default
}

// IsBinary reports whether content looks like binary data rather than source
func IsBinary(content []byte) bool {
	return enry.IsBinary(content)
}

// Tag converts a linguist language name to a code fence tag
func Tag(name string) string {
	if tag, ok := fenceTags[name]; ok {
		return tag
	}
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// Common returns the languages offered by the languages command
func Common() []Language {
	langs := make([]Language, 0, len(common))
	for _, name := range common {
		exts := append([]string(nil), enry.GetLanguageExtensions(name)...)
		sort.Strings(exts)
		langs = append(langs, Language{
			Tag:        Tag(name),
			Name:       name,
			Extensions: exts,
		})
	}
	return langs
}
