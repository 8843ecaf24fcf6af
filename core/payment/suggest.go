package payment

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const suggestCutoff = 0.6

// Suggest returns up to n candidates close to query, best match first.
// Used to offer a "did you mean" when a search matches nothing.
func Suggest(query string, candidates []string, n int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || n <= 0 {
		return nil
	}

	type scored struct {
		value string
		ratio float64
	}
	var matches []scored
	seen := make(map[string]bool)

	m := difflib.NewMatcher(nil, nil)
	m.SetSeq2(strings.Split(query, ""))
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		m.SetSeq1(strings.Split(key, ""))
		if m.RealQuickRatio() < suggestCutoff || m.QuickRatio() < suggestCutoff {
			continue
		}
		if r := m.Ratio(); r >= suggestCutoff {
			matches = append(matches, scored{value: c, ratio: r})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, 0, len(matches))
	for _, s := range matches {
		out = append(out, s.value)
	}
	return out
}

func recordNames(records []PaymentRecord) []string {
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.StudentName)
	}
	return names
}

func invoiceNames(invoices []Invoice) []string {
	names := make([]string, 0, 2*len(invoices))
	for _, inv := range invoices {
		names = append(names, inv.StudentName, inv.InvoiceNumber)
	}
	return names
}
