// Package portfolio reads and writes catalog portfolios (SoCs, sensors,
// functions and features) as JSON, YAML, TOML or Excel files, and applies
// imported portfolios to a catalog state.
package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kamusis/socsel/internal/catalog"
)

var (
	// ErrUnsupportedFormat is returned for file extensions with no codec.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrUnknownKind is returned for portfolio kinds other than the four known.
	ErrUnknownKind = errors.New("unknown portfolio kind")
)

// Kind selects which catalog a portfolio file holds.
type Kind string

const (
	KindSoCs      Kind = "socs"
	KindSensors   Kind = "sensors"
	KindFunctions Kind = "functions"
	// KindFeatures is the combined functions-and-features list, features
	// flagged with isFeature.
	KindFeatures Kind = "features"
)

// Kinds returns every portfolio kind.
func Kinds() []Kind { return []Kind{KindSoCs, KindSensors, KindFunctions, KindFeatures} }

// ParseKind resolves a kind name; singular forms are accepted.
func ParseKind(s string) (Kind, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasSuffix(k, "s") {
		k += "s"
	}
	for _, known := range Kinds() {
		if k == string(known) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w %q (want socs, sensors, functions or features)", ErrUnknownKind, s)
}

// Format is a portfolio file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %s (use .json, .yaml, .toml or .xlsx)", ErrUnsupportedFormat, filepath.Base(path))
}

// Batch is the decoded content of one portfolio file. SoC files fill SoCs;
// every other kind fills Entries.
type Batch struct {
	Kind    Kind
	SoCs    []catalog.SoC
	Entries []catalog.Entry
}

// Len returns the number of records in b.
func (b *Batch) Len() int {
	if b.Kind == KindSoCs {
		return len(b.SoCs)
	}
	return len(b.Entries)
}

// Read decodes the portfolio file at path.
func Read(path string, kind Kind) (*Batch, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer f.Close()

	b, err := Decode(f, format, kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return b, nil
}

// Decode reads a portfolio of kind from r.
func Decode(r io.Reader, format Format, kind Kind) (*Batch, error) {
	b := &Batch{Kind: kind}
	var err error
	switch format {
	case FormatXLSX:
		err = decodeXLSX(r, b)
	case FormatJSON, FormatYAML, FormatTOML:
		err = decodeText(r, format, b)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// FromState builds the batch of kind held in s, ready for encoding.
func FromState(s *catalog.State, kind Kind) (*Batch, error) {
	b := &Batch{Kind: kind}
	switch kind {
	case KindSoCs:
		b.SoCs = append([]catalog.SoC{}, s.SoCs...)
	case KindSensors:
		b.Entries = make([]catalog.Entry, 0, len(s.Sensors))
		for _, sn := range s.Sensors {
			b.Entries = append(b.Entries, catalog.FunctionEntry(catalog.Function{Component: sn.Component}))
		}
	case KindFunctions:
		b.Entries = make([]catalog.Entry, 0, len(s.Functions))
		for _, fn := range s.Functions {
			b.Entries = append(b.Entries, catalog.FunctionEntry(fn))
		}
	case KindFeatures:
		b.Entries = catalog.JoinEntries(s.Functions, s.Features)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKind, kind)
	}
	return b, nil
}

// Write exports the catalog of kind in s to path.
func Write(path string, kind Kind, s *catalog.State) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	b, err := FromState(s, kind)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, format, b); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// Encode writes b to w in format.
func Encode(w io.Writer, format Format, b *Batch) error {
	switch format {
	case FormatXLSX:
		return encodeXLSX(w, b)
	case FormatJSON, FormatYAML, FormatTOML:
		return encodeText(w, format, b)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
