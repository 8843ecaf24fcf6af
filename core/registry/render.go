package registry

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// raw HTML in markdown is escaped (goldmark default, no html.WithUnsafe)
var markdown = goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))

var dateLayouts = []string{"2006-01-02", time.RFC3339Nano, "2006-01-02T15:04:05"}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseDecimal(v interface{}) (decimal.Decimal, bool) {
	switch val := v.(type) {
	case float64:
		return decimal.NewFromFloat(val), true
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		return d, err == nil
	}
	return decimal.Zero, false
}

// Text is the plain text of the column value in row, used for search and sort.
func (c Column) Text(row Row) string {
	v := row[c.Key]
	switch c.Kind {
	case Date:
		if s, ok := v.(string); ok {
			if t, ok := parseDate(s); ok {
				return t.Format("02 Jan 2006")
			}
		}
	case Money:
		if d, ok := parseDecimal(v); ok {
			return strings.TrimSpace(formatText(row["currency"]) + " " + d.StringFixed(2))
		}
	}
	return formatText(v)
}

// HTML renders the column value in row as safe HTML.
func (c Column) HTML(row Row) template.HTML {
	if c.Kind == Markdown {
		if out, err := renderMarkdown(formatText(row[c.Key])); err == nil {
			return out
		}
	}
	return template.HTML(template.HTMLEscapeString(c.Text(row)))
}

func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// less compares the column values of a and b. decided is false on ties.
func (c Column) less(a, b Row, asc bool) (less, decided bool) {
	var cmp int
	switch c.Kind {
	case Number, Money:
		da, okA := parseDecimal(a[c.Key])
		db, okB := parseDecimal(b[c.Key])
		if okA && okB {
			cmp = da.Cmp(db)
			break
		}
		cmp = strings.Compare(c.Text(a), c.Text(b))
	case Date:
		sa, _ := a[c.Key].(string)
		sb, _ := b[c.Key].(string)
		ta, okA := parseDate(sa)
		tb, okB := parseDate(sb)
		switch {
		case okA && okB:
			cmp = compareTimes(ta, tb)
		case okA:
			return true, true // missing dates last
		case okB:
			return false, true
		}
	default:
		cmp = strings.Compare(strings.ToLower(c.Text(a)), strings.ToLower(c.Text(b)))
	}
	if cmp == 0 {
		return false, false
	}
	if asc {
		return cmp < 0, true
	}
	return cmp > 0, true
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
