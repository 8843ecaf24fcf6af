package receipt

import (
	"bytes"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
)

// PDF writes r as a single A4 page to w.
func PDF(w io.Writer, r Receipt) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("") // cp1252
	pdf.SetTitle(r.Title()+" "+r.Number, true)
	pdf.SetAuthor(r.School.Name, true)
	pdf.AddPage()

	// header
	x := 20.0
	if len(r.School.Logo) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader("logo", opts, bytes.NewReader(r.School.Logo))
		pdf.ImageOptions("logo", 20, 15, 22, 0, false, opts, 0, "")
		x = 46
	}
	pdf.SetXY(x, 16)
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, tr(r.School.Name))
	pdf.SetXY(x, 24)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, tr(r.School.Address))
	pdf.SetXY(x, 29)
	pdf.Cell(0, 5, tr("Tel: "+r.School.Phone+" | Email: "+r.School.Email))
	pdf.SetDrawColor(30, 58, 138)
	pdf.SetLineWidth(0.6)
	pdf.Line(20, 40, 190, 40)

	// title
	pdf.SetXY(20, 46)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, tr(r.Title()))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 5, tr("No. "+r.Number+"   "+r.IssuedAt.Format("02 Jan 2006 15:04")))
	pdf.Ln(10)

	line := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(70, 7, tr(label), "B", 0, "L", false, 0, "")
		pdf.CellFormat(100, 7, tr(value), "B", 1, "R", false, 0, "")
	}

	line("Student", r.StudentName, false)
	if r.ClassName != "" {
		line("Class", r.ClassName, false)
	}
	if r.Description != "" {
		line("Description", r.Description, false)
	}
	pdf.Ln(4)

	if r.Kind == KindPayment {
		line("Total due", Money(r.TotalDue, r.Currency), false)
		line("Previously paid", Money(r.PreviouslyPaid, r.Currency), false)
		line("This payment", Money(r.AmountPaid, r.Currency), false)
		line("Remaining balance", Money(r.Balance, r.Currency), true)
		line("Payment method", r.Method, false)
		if r.Reference != "" {
			line("Reference", r.Reference, false)
		}
		if !r.NextDueDate.IsZero() {
			line("Next payment due", r.NextDueDate.String(), false)
		}
	} else {
		line("Invoice total", Money(r.TotalDue, r.Currency), false)
		line("Amount paid", Money(r.AmountPaid, r.Currency), false)
		line("Balance", Money(r.Balance, r.Currency), true)
		if !r.DueDate.IsZero() {
			line("Due date", r.DueDate.String(), false)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(170, 5, tr("Amount in words: "+r.AmountInWords), "", "L", false)
	pdf.Ln(4)

	// stamp
	y := pdf.GetY()
	pdf.SetFont("Arial", "B", 12)
	if r.Clear {
		pdf.SetTextColor(21, 128, 61)
		pdf.CellFormat(50, 10, "FULLY PAID", "1", 0, "C", false, 0, "")
	} else {
		pdf.SetTextColor(185, 28, 28)
		pdf.CellFormat(50, 10, "BALANCE DUE", "1", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(0, 0, 0)

	qr, err := r.QRCode()
	if err != nil {
		return err
	}
	qrOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", qrOpts, bytes.NewReader(qr))
	pdf.ImageOptions("qr", 160, y, 30, 30, false, qrOpts, 0, "")

	pdf.SetXY(20, y+34)
	pdf.SetFont("Arial", "", 8)
	pdf.Cell(0, 4, tr("This receipt was generated electronically and is valid without a signature."))

	if err = pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}
