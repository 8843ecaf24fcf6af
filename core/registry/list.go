package registry

import (
	"sort"
	"strings"

	"github.com/trezcool/masomo-portal/core"
)

// Column returns the column with key.
func (res *Resource) Column(key string) (Column, bool) {
	for _, c := range res.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Filter keeps the rows where any column contains q, case-insensitively.
func (res *Resource) Filter(rows []Row, q string) []Row {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return rows
	}
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		for _, c := range res.Columns {
			if strings.Contains(strings.ToLower(c.Text(row)), q) {
				out = append(out, row)
				break
			}
		}
	}
	return out
}

// Sort orders a copy of rows by the orderings. Unknown columns are ignored; ties keep backend order.
func (res *Resource) Sort(rows []Row, orderings []core.Ordering) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)

	var cols []Column
	var asc []bool
	for _, o := range orderings {
		if c, ok := res.Column(o.Field); ok {
			cols = append(cols, c)
			asc = append(asc, o.Ascending)
		}
	}
	if len(cols) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		for k, c := range cols {
			if less, decided := c.less(out[i], out[j], asc[k]); decided {
				return less
			}
		}
		return false
	})
	return out
}

// Listing is one rendered page of a resource.
type Listing struct {
	Rows  []Row
	Page  core.Page
	Empty bool
}

// List filters, sorts and paginates rows.
func (res *Resource) List(rows []Row, q, ordering string, page, size int) Listing {
	rows = res.Sort(res.Filter(rows, q), core.ParseOrdering(ordering))
	p := core.Paginate(len(rows), page, size)
	return Listing{Rows: rows[p.Start:p.End], Page: p, Empty: len(rows) == 0}
}
