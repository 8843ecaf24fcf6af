package payment

import (
	"sort"
	"strconv"
	"strings"

	"github.com/trezcool/masomo-portal/core"
)

func matchText(q string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// FilterRecords keeps the records whose student name contains q, or whose id is q.
func FilterRecords(records []PaymentRecord, q string) []PaymentRecord {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return records
	}
	id := strings.TrimPrefix(q, "#")
	out := make([]PaymentRecord, 0, len(records))
	for _, r := range records {
		if matchText(q, r.StudentName) || strconv.Itoa(r.ID) == id {
			out = append(out, r)
		}
	}
	return out
}

// FilterInvoices keeps the invoices whose student name or invoice number contains q.
func FilterInvoices(invoices []Invoice, q string) []Invoice {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return invoices
	}
	out := make([]Invoice, 0, len(invoices))
	for _, inv := range invoices {
		if matchText(q, inv.StudentName, inv.InvoiceNumber) {
			out = append(out, inv)
		}
	}
	return out
}

// compareDates orders absent dates after every real one.
func compareDates(a, b Date, asc bool) (less, decided bool) {
	switch {
	case a.Equal(b.Time):
		return false, false
	case a.IsZero():
		return false, true
	case b.IsZero():
		return true, true
	case asc:
		return a.Before(b.Time), true
	default:
		return a.After(b.Time), true
	}
}

var recordSorters = map[string]func(a, b PaymentRecord, asc bool) (bool, bool){
	"due_date": func(a, b PaymentRecord, asc bool) (bool, bool) { return compareDates(a.DueDate, b.DueDate, asc) },
	"student": func(a, b PaymentRecord, asc bool) (bool, bool) {
		return compareStrings(a.StudentName, b.StudentName, asc)
	},
	"balance": func(a, b PaymentRecord, asc bool) (bool, bool) {
		return compareInts(a.Balance().Cmp(b.Balance()), asc)
	},
}

var invoiceSorters = map[string]func(a, b Invoice, asc bool) (bool, bool){
	"due_date": func(a, b Invoice, asc bool) (bool, bool) { return compareDates(a.DueDate, b.DueDate, asc) },
	"number": func(a, b Invoice, asc bool) (bool, bool) {
		return compareStrings(a.InvoiceNumber, b.InvoiceNumber, asc)
	},
	"student": func(a, b Invoice, asc bool) (bool, bool) {
		return compareStrings(a.StudentName, b.StudentName, asc)
	},
	"balance": func(a, b Invoice, asc bool) (bool, bool) {
		return compareInts(a.Balance.Cmp(b.Balance), asc)
	},
}

func compareStrings(a, b string, asc bool) (bool, bool) {
	return compareInts(strings.Compare(strings.ToLower(a), strings.ToLower(b)), asc)
}

func compareInts(c int, asc bool) (bool, bool) {
	if c == 0 {
		return false, false
	}
	if asc {
		return c < 0, true
	}
	return c > 0, true
}

// SortRecords sorts a copy of records by the orderings ("-due_date" is newest first).
// Ties keep the backend order.
func SortRecords(records []PaymentRecord, orderings []core.Ordering) []PaymentRecord {
	out := make([]PaymentRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range orderings {
			cmp, ok := recordSorters[o.Field]
			if !ok {
				continue
			}
			if less, decided := cmp(out[i], out[j], o.Ascending); decided {
				return less
			}
		}
		return false
	})
	return out
}

// SortInvoices sorts a copy of invoices by the orderings. Ties keep the backend order.
func SortInvoices(invoices []Invoice, orderings []core.Ordering) []Invoice {
	out := make([]Invoice, len(invoices))
	copy(out, invoices)
	sort.SliceStable(out, func(i, j int) bool {
		for _, o := range orderings {
			cmp, ok := invoiceSorters[o.Field]
			if !ok {
				continue
			}
			if less, decided := cmp(out[i], out[j], o.Ascending); decided {
				return less
			}
		}
		return false
	})
	return out
}
