package payment

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const invoiceSheet = "Invoices"

var invoiceHeaders = []string{
	"Invoice Number", "Student", "Class", "Issue Date", "Due Date",
	"Total Amount", "Amount Paid", "Balance", "Currency", "Paid",
}

// ExportInvoices writes invoices as an xlsx workbook to w.
func ExportInvoices(w io.Writer, invoices []Invoice) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(invoiceSheet)
	if err != nil {
		return errors.Wrap(err, "creating sheet")
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range invoiceHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err = f.SetCellValue(invoiceSheet, cell, h); err != nil {
			return errors.Wrap(err, "writing header")
		}
	}

	for i, inv := range invoices {
		inv.Normalize()
		total, _ := inv.TotalAmount.Float64()
		paid, _ := inv.AmountPaid.Float64()
		balance, _ := inv.Balance.Float64()
		isPaid := "No"
		if inv.IsPaid {
			isPaid = "Yes"
		}

		row := []interface{}{
			inv.InvoiceNumber, inv.StudentName, inv.ClassName, inv.IssueDate.String(), inv.DueDate.String(),
			total, paid, balance, inv.Currency, isPaid,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err = f.SetSheetRow(invoiceSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing invoice %s", inv.InvoiceNumber)
		}
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}
