// Package registry describes the generic list and form pages of the portal:
// which backend collection a section shows, its columns and its create form.
package registry

import (
	"strconv"
	"strings"
)

// Kind tells how a column value is displayed and compared.
type Kind int

const (
	Text Kind = iota
	Number
	Date
	Money
	Bool
	Markdown
)

type (
	// Row is one backend object as decoded from JSON.
	Row map[string]interface{}

	Column struct {
		Key   string
		Label string
		Kind  Kind
	}

	// Field is an input of a create form.
	Field struct {
		Name     string
		Label    string
		Type     string // html input type, "textarea" or "select"
		Required bool
		Options  []string
	}

	// Resource is a backend collection shown as a table.
	Resource struct {
		Name     string
		Title    string
		Endpoint string // collection path, with trailing slash
		Columns  []Column
		Fields   []Field // empty: no create form
		// DeletePath returns the path deleting one object; nil: no delete.
		DeletePath func(id string) string
		// ReceiptLinks adds an invoice receipt link to every row.
		ReceiptLinks bool
	}

	// Binding attaches a resource to a portal section.
	Binding struct {
		Resource *Resource
		Writable bool // create and delete allowed in this section
	}
)

// ID returns the "id" of the row as text.
func (r Row) ID() string {
	return formatText(r["id"])
}

// CanCreate reports whether b shows a create form.
func (b Binding) CanCreate() bool { return b.Writable && len(b.Resource.Fields) > 0 }

// CanDelete reports whether b shows delete buttons.
func (b Binding) CanDelete() bool { return b.Writable && b.Resource.DeletePath != nil }

func detailPath(endpoint string) func(string) string {
	return func(id string) string { return endpoint + id + "/" }
}

func formatText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatText(item))
		}
		return strings.Join(parts, ", ")
	case map[string]interface{}:
		for _, k := range []string{"name", "full_name", "title", "username"} {
			if s, ok := val[k]; ok {
				return formatText(s)
			}
		}
		return formatText(val["id"])
	default:
		return ""
	}
}
