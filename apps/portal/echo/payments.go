package echoportal

import (
	"bytes"
	"fmt"
	"net/http"
	"net/mail"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/payment"
	"github.com/trezcool/masomo-portal/core/receipt"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type paymentsData struct {
	Base     string
	State    payment.State
	Values   url.Values // filters of the active tab, without page or modal
	Statuses []payment.Status
	Alert    string
}

func (s *Server) registerPayments() {
	for _, base := range paymentSections {
		s.app.GET(base, s.paymentsPage(base))
		s.app.GET(base+"/export", s.exportInvoices(base))
		s.app.POST(base+"/records", s.createPaymentRecord(base))
		s.app.POST(base+"/records/:id/payments", s.addPayment(base))
		s.app.POST(base+"/records/:id/status", s.updatePaymentStatus(base))
		s.app.GET(base+"/receipts/:token", s.paymentReceipt)
		s.app.GET(base+"/invoices/:id/receipt", s.invoiceReceipt)
	}
}

func (s *Server) paymentView(c echo.Context) *payment.View {
	sess, _ := contextSession(c)
	return payment.NewView(s.BackendFor(sess), s.Validate, s.Translator, s.Conf.PageSize)
}

// pageURL is the payments page showing q.
func pageURL(base string, q payment.Query) string {
	return base + "?" + q.Values().Encode()
}

func formClassID(c echo.Context) int {
	id, _ := strconv.Atoi(c.FormValue("class_id"))
	return id
}

func (s *Server) paymentsPage(base string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q payment.Query
		if err := bind(c, &q); err != nil {
			return err
		}
		q.Normalize()

		st, err := s.paymentView(c).Load(c.Request().Context(), q)
		data := paymentsData{
			Base:     base,
			State:    st,
			Values:   q.Values(),
			Statuses: []payment.Status{payment.StatusPaid, payment.StatusPartial, payment.StatusUnpaid},
		}
		if err != nil {
			if data.Alert, err = s.backendAlert(c, err); err != nil {
				return err
			}
			data.State.Modal = payment.ModalNone
		}
		return s.render(c, http.StatusOK, "payments", "Payments", data)
	}
}

func (s *Server) createPaymentRecord(base string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var form payment.NewPaymentRecord
		if err := bind(c, &form); err != nil {
			return err
		}
		back := payment.Query{Tab: payment.TabRecords, ClassID: form.ClassID}

		rec, err := s.paymentView(c).CreatePaymentRecord(c.Request().Context(), form)
		if err != nil {
			msg, herr := s.backendAlert(c, err)
			if herr != nil {
				return herr
			}
			s.setFlash(c, flashError, msg)
			vals := back.Values()
			vals.Set("modal", string(payment.ModalAddRecord))
			return c.Redirect(http.StatusSeeOther, base+"?"+vals.Encode())
		}

		name := rec.StudentName
		if name == "" {
			name = "the student"
		}
		s.setFlash(c, flashSuccess, fmt.Sprintf("Payment record created for %s: %s due.", name, receipt.Money(rec.TotalAmountDue, rec.Currency)))
		return c.Redirect(http.StatusSeeOther, pageURL(base, back))
	}
}

func (s *Server) addPayment(base string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		var form payment.NewPayment
		if err = bind(c, &form); err != nil {
			return err
		}
		form.RecordID = id
		back := payment.Query{Tab: payment.TabRecords, ClassID: formClassID(c)}

		applied, err := s.paymentView(c).AddPaymentToRecord(c.Request().Context(), back.ClassID, form)
		if err != nil {
			msg, herr := s.backendAlert(c, err)
			if herr != nil {
				return herr
			}
			s.setFlash(c, flashError, msg)
			vals := back.Values()
			vals.Set("modal", string(payment.ModalAddPayment))
			vals.Set("record", strconv.Itoa(id))
			return c.Redirect(http.StatusSeeOther, base+"?"+vals.Encode())
		}

		r, err := receipt.ForPayment(s.School, applied.Before, applied.Request, nowFunc())
		if err != nil {
			return errors.Wrap(err, "building payment receipt")
		}
		token, err := receipt.Sign(r, s.secretKey, s.Conf.Server.ReceiptLinkTTL)
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("Payment of %s recorded for %s.", receipt.Money(r.AmountPaid, r.Currency), r.StudentName)
		if form.EmailReceipt {
			msg += " " + s.emailReceipt(r, applied.Before)
		}
		s.setFlashLink(c, flashSuccess, msg, base+"/receipts/"+token, "Print receipt "+r.Number)
		return c.Redirect(http.StatusSeeOther, pageURL(base, back))
	}
}

// emailReceipt sends r to the guardian of rec and returns the sentence telling the user about it.
func (s *Server) emailReceipt(r receipt.Receipt, rec payment.PaymentRecord) string {
	if rec.GuardianEmail == "" {
		return "No guardian email is on file, the receipt was not emailed."
	}
	to, err := mail.ParseAddress(rec.GuardianEmail)
	if err != nil {
		return "The guardian email on file is not valid, the receipt was not emailed."
	}
	msg, err := receipt.Message(r, *to)
	if err != nil {
		s.Logger.Error("building receipt email", err)
		return "The receipt email could not be prepared."
	}
	s.Mailer.SendMessages(msg)
	return "The receipt was emailed to " + to.Address + "."
}

func (s *Server) updatePaymentStatus(base string) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		back := payment.Query{Tab: payment.TabRecords, ClassID: formClassID(c), Status: c.FormValue("filter_status")}
		back.Normalize()

		rec, err := s.paymentView(c).UpdatePaymentStatus(c.Request().Context(), id, c.FormValue("status"))
		if err != nil {
			msg, herr := s.backendAlert(c, err)
			if herr != nil {
				return herr
			}
			s.setFlash(c, flashError, msg)
			return c.Redirect(http.StatusSeeOther, pageURL(base, back))
		}

		msg := fmt.Sprintf("Status of record #%d set to %s by hand.", id, rec.Status)
		if rec.StatusOverridden() {
			msg += fmt.Sprintf(" The balance of %s still says %s.", receipt.Money(rec.Balance(), rec.Currency), rec.DerivedStatus())
		}
		s.setFlash(c, flashSuccess, msg)
		return c.Redirect(http.StatusSeeOther, pageURL(base, back))
	}
}

func (s *Server) exportInvoices(base string) echo.HandlerFunc {
	return func(c echo.Context) error {
		var q payment.Query
		if err := bind(c, &q); err != nil {
			return err
		}
		q.Tab = payment.TabInvoices
		q.Normalize()

		invoices, err := s.paymentView(c).LoadInvoices(c.Request().Context(), q.ClassID)
		if err == payment.ErrClassRequired {
			s.setFlash(c, flashInfo, "Select a class to export its invoices.")
			return c.Redirect(http.StatusSeeOther, pageURL(base, q))
		} else if err != nil {
			msg, herr := s.backendAlert(c, err)
			if herr != nil {
				return herr
			}
			s.setFlash(c, flashError, msg)
			return c.Redirect(http.StatusSeeOther, pageURL(base, q))
		}
		invoices = payment.SortInvoices(payment.FilterInvoices(invoices, q.Search), nil)

		var buf bytes.Buffer
		if err = payment.ExportInvoices(&buf, invoices); err != nil {
			return err
		}
		filename := fmt.Sprintf("invoices-class-%d.xlsx", q.ClassID)
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
		return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
	}
}
