package portfolio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kamusis/socsel/internal/catalog"
)

// TOML has no top-level arrays, so portfolios live under [[items]].
type tomlSoCs struct {
	Items []catalog.SoC `toml:"items"`
}

type tomlEntries struct {
	Items []catalog.Entry `toml:"items"`
}

func decodeText(r io.Reader, format Format, b *Batch) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var target any = &b.Entries
	if b.Kind == KindSoCs {
		target = &b.SoCs
	}

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, target); err != nil {
			return fmt.Errorf("invalid format: expected an array: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, target); err != nil {
			return fmt.Errorf("invalid YAML: expected a list: %w", err)
		}
	case FormatTOML:
		if b.Kind == KindSoCs {
			var doc tomlSoCs
			if err := toml.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("invalid TOML: %w", err)
			}
			b.SoCs = doc.Items
			return nil
		}
		var doc tomlEntries
		if err := toml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("invalid TOML: %w", err)
		}
		b.Entries = doc.Items
	}
	return nil
}

func encodeText(w io.Writer, format Format, b *Batch) error {
	switch format {
	case FormatJSON:
		var v any = b.Entries
		if b.Kind == KindSoCs {
			v = b.SoCs
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		var v any = b.Entries
		if b.Kind == KindSoCs {
			v = b.SoCs
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		var v any = tomlEntries{Items: b.Entries}
		if b.Kind == KindSoCs {
			v = tomlSoCs{Items: b.SoCs}
		}
		return toml.NewEncoder(w).Encode(v)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}
