package page

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/gridshift/pkg/errors"
)

// Format is a page encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks a format from a file extension, defaulting to TOML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// =============================================================================
// Page Serialization API
// =============================================================================

// Marshal encodes a page. JSON output is indented.
func Marshal(p *Page, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, p, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes and validates a page.
func Unmarshal(data []byte, f Format) (*Page, error) {
	return Read(bytes.NewReader(data), f)
}

// Write encodes p to w.
func Write(w io.Writer, p *Page, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(p); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeUnsupported, "unknown page format %q", f)
	}
	return nil
}

// Read decodes a page from r and validates it.
func Read(r io.Reader, f Format) (*Page, error) {
	p, err := Decode(r, f)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Decode decodes a page from r without validating it. Diagnostics use it to
// inspect pages that Read would reject.
func Decode(r io.Reader, f Format) (*Page, error) {
	var p Page
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&p); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode page")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&p)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode page")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown page keys: %v", undecoded)
		}
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown page format %q", f)
	}
	return &p, nil
}

// ReadFile reads a page file, picking the format from its extension.
func ReadFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFor(path))
}

// DecodeFile reads a page file without validating it.
func DecodeFile(path string) (*Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Decode(f, FormatFor(path))
}

// WriteFile writes a page file, picking the format from its extension.
func WriteFile(path string, p *Page) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, p, FormatFor(path))
}
