package echoportal

import (
	"bytes"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/receipt"
)

// paymentReceipt reopens the receipt signed into a link right after a payment.
func (s *Server) paymentReceipt(c echo.Context) error {
	r, err := receipt.Verify(c.Param("token"), s.secretKey, s.School)
	if err != nil {
		return err
	}
	return s.writeReceipt(c, r)
}

// invoiceReceipt prints the current balance of an invoice.
func (s *Server) invoiceReceipt(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	sess, _ := contextSession(c)
	inv, err := s.BackendFor(sess).Invoice(c.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "loading invoice")
	}
	inv.Normalize()

	r, err := receipt.ForInvoice(s.School, inv, nowFunc())
	if err != nil {
		return errors.Wrap(err, "building invoice receipt")
	}
	return s.writeReceipt(c, r)
}

// writeReceipt sends r as a printable page, or as a PDF download with ?format=pdf.
func (s *Server) writeReceipt(c echo.Context, r receipt.Receipt) error {
	var buf bytes.Buffer
	if c.QueryParam("format") == "pdf" {
		if err := receipt.PDF(&buf, r); err != nil {
			return err
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+r.Filename()+`"`)
		return c.Blob(http.StatusOK, "application/pdf", buf.Bytes())
	}

	opts := receipt.HTMLOptions{
		AutoPrint: c.QueryParam("print") == "1",
		PDFURL:    c.Request().URL.Path + "?format=pdf",
	}
	if err := s.receipts.Render(&buf, r, opts); err != nil {
		return err
	}
	c.Response().Header().Set("Cache-Control", "no-store")
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}
