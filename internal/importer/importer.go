// Package importer parses bank export files (OFX, OFC) into statements.
package importer

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/budgetdash-dev/budgetdash/internal/model"
)

// FallbackAccountID is used when a file carries no account identity and
// the file name yields nothing usable either.
const FallbackAccountID = "unknown"

// Parser converts a bank export file into a Statement.
type Parser interface {
	Parse(r io.Reader) (model.Statement, error)
	Format() string
}

// ParseError reports a file that matched no known dialect or was
// structurally truncated.
type ParseError struct {
	File   string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing %s: %s", e.File, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a single transaction field that failed to
// parse. The transaction is rejected; the rest of the file is kept.
type ValidationError struct {
	Field string
	Value string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
	order   []string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
	r.order = append(r.order, key)
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats returns registered format names in registration order.
func (r *Registry) Formats() []string {
	return append([]string(nil), r.order...)
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&OFXParser{})
	r.Register(&OFCParser{})
	return r
}

// File is one uploaded or scanned bank export.
type File struct {
	Name   string
	Data   []byte
	Format string // "" = derive from the file extension
}

// FileResult is the outcome of parsing one file in a batch.
type FileResult struct {
	Name      string
	Format    string
	Statement model.Statement
}

// Ingest parses each file in the batch independently. A malformed file
// never aborts the batch: its ParseError is collected and the remaining
// files are still parsed. When the hinted format fails, the other
// registered formats are tried before the file is reported as failed.
//
// A statement with no account identity gets one derived from the file
// name, or FallbackAccountID when the name yields nothing.
func (r *Registry) Ingest(files []File) ([]FileResult, []*ParseError) {
	var results []FileResult
	var errs []*ParseError

	for _, f := range files {
		format := strings.ToLower(f.Format)
		if format == "" {
			format = strings.TrimPrefix(strings.ToLower(filepath.Ext(f.Name)), ".")
		}

		p := r.Get(format)
		if p == nil {
			errs = append(errs, &ParseError{File: f.Name, Reason: fmt.Sprintf("unsupported format %q", format)})
			continue
		}

		stmt, err := p.Parse(bytes.NewReader(f.Data))
		if err != nil {
			// Fall back to the other known formats before giving up.
			recovered := false
			for _, alt := range r.order {
				if alt == format {
					continue
				}
				altStmt, altErr := r.parsers[alt].Parse(bytes.NewReader(f.Data))
				if altErr == nil {
					stmt, format, recovered = altStmt, alt, true
					break
				}
			}
			if !recovered {
				errs = append(errs, &ParseError{File: f.Name, Reason: "unrecognized " + format + " content", Err: err})
				continue
			}
		}

		if stmt.AccountID == "" {
			stmt.AccountID = accountFromFileName(f.Name)
		}
		results = append(results, FileResult{Name: f.Name, Format: format, Statement: stmt})
	}
	return results, errs
}

// accountFromFileName derives a fallback account ID from a file name:
// the base name without extension, lowered, with anything that is not a
// letter or digit collapsed to '-'. Returns FallbackAccountID when
// nothing usable remains.
func accountFromFileName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, base)
	mapped = strings.Trim(mapped, "-")
	if mapped == "" {
		return FallbackAccountID
	}
	return mapped
}

// importDir is the subdirectory scanned for bank exports.
const importDir = "import"

// processedDir is the subdirectory for ingested exports.
const processedDir = "import/processed"

// Scan returns bank export files in <root>/import/ whose extension
// matches a registered format.
func Scan(root string, registry *Registry) ([]File, error) {
	dir := filepath.Join(root, importDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(e.Name())), ".")
		if registry.Get(ext) == nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", e.Name(), err)
		}
		files = append(files, File{Name: e.Name(), Data: data, Format: ext})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(root, fileName string) error {
	src := filepath.Join(root, importDir, fileName)
	dstDir := filepath.Join(root, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
