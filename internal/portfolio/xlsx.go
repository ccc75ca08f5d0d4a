package portfolio

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kamusis/socsel/internal/catalog"
	"github.com/kamusis/socsel/internal/resource"
)

const (
	sheetName      = "Data"
	resourcePrefix = "resources."
	idListSep      = ", "
)

// Spreadsheets are flat: resources become resources.<axis> columns and id
// lists become comma-separated strings.

func resourceColumns() []string {
	cols := make([]string, 0, len(resource.Axes()))
	for _, a := range resource.Axes() {
		cols = append(cols, resourcePrefix+a.Key())
	}
	return cols
}

func columnsFor(kind Kind) []string {
	switch kind {
	case KindSoCs:
		return append([]string{"id", "name", "vendor", "tier"}, resourceColumns()...)
	case KindFeatures:
		cols := append([]string{"id", "name"}, resourceColumns()...)
		return append(cols, "isFeature", "description", "category", "mandatoryFunctionIds", "mandatorySensorIds")
	default:
		return append([]string{"id", "name"}, resourceColumns()...)
	}
}

func vectorCells(v resource.Vector) []any {
	out := make([]any, 0, len(resource.Axes()))
	for _, a := range resource.Axes() {
		out = append(out, v.Get(a))
	}
	return out
}

func encodeXLSX(w io.Writer, b *Batch) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	header := columnsFor(b.Kind)
	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	rows := [][]any{headerRow}

	if b.Kind == KindSoCs {
		for _, soc := range b.SoCs {
			row := []any{soc.ID, soc.Name, soc.Vendor, string(soc.Tier)}
			rows = append(rows, append(row, vectorCells(soc.Resources)...))
		}
	} else {
		for _, e := range b.Entries {
			row := append([]any{e.ID, e.Name}, vectorCells(e.Resources)...)
			if b.Kind == KindFeatures {
				row = append(row,
					e.IsFeature,
					e.Description,
					string(e.Category),
					strings.Join(e.MandatoryFunctionIDs, idListSep),
					strings.Join(e.MandatorySensorIDs, idListSep),
				)
			}
			rows = append(rows, row)
		}
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &rows[i]); err != nil {
			return fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func decodeXLSX(r io.Reader, b *Batch) error {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return fmt.Errorf("invalid xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("invalid xlsx: workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return fmt.Errorf("xlsx sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	for _, cells := range rows[1:] {
		rec := map[string]string{}
		blank := true
		for i, v := range cells {
			if i >= len(header) || header[i] == "" {
				continue
			}
			v = strings.TrimSpace(v)
			if v != "" {
				blank = false
			}
			rec[header[i]] = v
		}
		if blank {
			continue
		}
		if b.Kind == KindSoCs {
			b.SoCs = append(b.SoCs, socFromRecord(rec))
		} else {
			b.Entries = append(b.Entries, entryFromRecord(rec))
		}
	}
	return nil
}

func socFromRecord(rec map[string]string) catalog.SoC {
	return catalog.SoC{
		ID:        rec["id"],
		Name:      rec["name"],
		Vendor:    rec["vendor"],
		Tier:      catalog.Tier(rec["tier"]),
		Resources: vectorFromRecord(rec),
	}
}

func entryFromRecord(rec map[string]string) catalog.Entry {
	isFeature, _ := strconv.ParseBool(rec["isFeature"])
	return catalog.Entry{
		ID:                   rec["id"],
		Name:                 rec["name"],
		Resources:            vectorFromRecord(rec),
		IsFeature:            isFeature,
		Description:          rec["description"],
		Category:             catalog.Category(rec["category"]),
		MandatoryFunctionIDs: splitIDs(rec["mandatoryFunctionIds"]),
		MandatorySensorIDs:   splitIDs(rec["mandatorySensorIds"]),
	}
}

// vectorFromRecord reads resources.<axis> columns. Missing or unparsable
// values count as 0.
func vectorFromRecord(rec map[string]string) resource.Vector {
	var v resource.Vector
	for col, val := range rec {
		key, ok := strings.CutPrefix(col, resourcePrefix)
		if !ok {
			continue
		}
		a, err := resource.ParseAxis(key)
		if err != nil {
			continue
		}
		v.Set(a, parseNumber(val))
	}
	return v
}

func parseNumber(s string) float64 {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

func splitIDs(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
