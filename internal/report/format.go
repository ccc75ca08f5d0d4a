package report

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/kamusis/socsel/internal/resource"
)

// Formatter renders resource values for humans in a given locale.
type Formatter struct {
	p *message.Printer
}

// NewFormatter returns a Formatter for locale (a BCP 47 tag such as "en-US"
// or "de-DE"). Unknown or empty tags fall back to US English.
func NewFormatter(locale string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil || locale == "" {
		tag = language.AmericanEnglish
	}
	return &Formatter{p: message.NewPrinter(tag)}
}

// Value formats v for summary tables: CPU, ISP and dewarp get thousands
// grouping, DRAM bandwidth one decimal, the rest are printed as is.
func (f *Formatter) Value(a resource.Axis, v float64) string {
	switch a {
	case resource.KDMIPS, resource.ISP, resource.Dewarp:
		return f.p.Sprint(number.Decimal(v))
	case resource.DRAMBW:
		return f.p.Sprint(number.Decimal(v, number.Scale(1)))
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// Compared formats v for required-vs-available tables, where every axis but
// DRAM bandwidth is grouped.
func (f *Formatter) Compared(a resource.Axis, v float64) string {
	if a == resource.DRAMBW {
		return f.p.Sprint(number.Decimal(v, number.Scale(1)))
	}
	return f.p.Sprint(number.Decimal(v))
}

// Percent formats a utilisation percentage with one decimal.
func (f *Formatter) Percent(pct float64) string {
	return f.p.Sprint(number.Decimal(pct, number.Scale(1))) + "%"
}

// Number formats v with grouping and at most one decimal.
func (f *Formatter) Number(v float64) string {
	return f.p.Sprint(number.Decimal(v, number.MaxFractionDigits(1)))
}
