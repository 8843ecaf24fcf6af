package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-portal/core"
)

func TestSortRecords_NewestFirst(t *testing.T) {
	records := []PaymentRecord{
		{ID: 1, DueDate: NewDate(2025, time.January, 10)},
		{ID: 2, DueDate: NewDate(2025, time.March, 1)},
		{ID: 3, DueDate: NewDate(2025, time.February, 15)},
	}
	got := SortRecords(records, core.ParseOrdering("-due_date"))

	dates := make([]string, 0, len(got))
	for _, r := range got {
		dates = append(dates, r.DueDate.String())
	}
	assert.Equal(t, []string{"2025-03-01", "2025-02-15", "2025-01-10"}, dates)
	assert.Equal(t, 1, records[0].ID, "input must not be reordered")
}

func TestSortRecords_StableTies(t *testing.T) {
	d := NewDate(2025, time.March, 1)
	records := []PaymentRecord{
		{ID: 5, DueDate: d},
		{ID: 2},
		{ID: 9, DueDate: d},
		{ID: 1, DueDate: NewDate(2025, time.April, 1)},
		{ID: 7, DueDate: d},
	}
	ids := func(rs []PaymentRecord) []int {
		out := make([]int, 0, len(rs))
		for _, r := range rs {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []int{1, 5, 9, 7, 2}, ids(SortRecords(records, core.ParseOrdering("-due_date"))))
	assert.Equal(t, []int{5, 9, 7, 1, 2}, ids(SortRecords(records, core.ParseOrdering("due_date"))))
	assert.Equal(t, []int{5, 2, 9, 1, 7}, ids(SortRecords(records, core.ParseOrdering("unknown"))))
}

func TestSortInvoices(t *testing.T) {
	invoices := []Invoice{
		{InvoiceNumber: "INV-2", StudentName: "b", DueDate: NewDate(2025, time.January, 10)},
		{InvoiceNumber: "INV-1", StudentName: "a", DueDate: NewDate(2025, time.January, 10)},
		{InvoiceNumber: "INV-3", StudentName: "a", DueDate: NewDate(2025, time.March, 1)},
	}
	got := SortInvoices(invoices, core.ParseOrdering("student,-due_date"))
	assert.Equal(t, "INV-3", got[0].InvoiceNumber)
	assert.Equal(t, "INV-1", got[1].InvoiceNumber)
	assert.Equal(t, "INV-2", got[2].InvoiceNumber)
}

func TestFilter(t *testing.T) {
	records := []PaymentRecord{
		{ID: 12, StudentName: "Amina Njoroge"},
		{ID: 7, StudentName: "Brian Otieno"},
		{ID: 3, StudentName: "amina wanjiru"},
	}
	assert.Len(t, FilterRecords(records, "AMINA"), 2)
	assert.Len(t, FilterRecords(records, ""), 3)
	if got := FilterRecords(records, "#7"); assert.Len(t, got, 1) {
		assert.Equal(t, "Brian Otieno", got[0].StudentName)
	}
	assert.Empty(t, FilterRecords(records, "zed"))

	invoices := []Invoice{
		{InvoiceNumber: "INV-2025-001", StudentName: "Amina"},
		{InvoiceNumber: "INV-2025-002", StudentName: "Brian"},
	}
	assert.Len(t, FilterInvoices(invoices, "inv-2025"), 2)
	assert.Len(t, FilterInvoices(invoices, "002"), 1)
	assert.Len(t, FilterInvoices(invoices, "brian"), 1)
}

func TestSuggest(t *testing.T) {
	names := []string{"Amina Njoroge", "Brian Otieno", "Amina Njoroge", "Caro Wanjiku"}
	assert.Equal(t, []string{"Amina Njoroge"}, Suggest("amina njorge", names, 3))
	assert.Equal(t, []string{"Brian Otieno"}, Suggest("brain otieno", names, 3))
	assert.Empty(t, Suggest("zzz", names, 3))
	assert.Empty(t, Suggest("", names, 3))
}
