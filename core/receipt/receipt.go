// Package receipt builds printable receipts from a financial snapshot and renders them as HTML or PDF.
// Receipts are never stored: building one again later reflects the amounts of that moment.
package receipt

import (
	"strings"
	"time"

	"github.com/kat-co/vala"
	"github.com/shopspring/decimal"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/payment"
)

// Kind tells the two receipt templates apart.
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindPayment Kind = "payment"

	numberLayout = "20060102-150405"
)

// School identifies the issuer printed on every receipt.
type School struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Logo    []byte // PNG thumbnail, optional
}

// Receipt is the structured content of a printed receipt.
type Receipt struct {
	Kind        Kind      `json:"kind"`
	Number      string    `json:"number"`
	IssuedAt    time.Time `json:"issued_at"`
	School      School    `json:"-"`
	StudentName string    `json:"student"`
	ClassName   string    `json:"class,omitempty"`
	Description string    `json:"desc,omitempty"`
	Currency    string    `json:"currency"`

	TotalDue       decimal.Decimal `json:"total"`
	PreviouslyPaid decimal.Decimal `json:"prev"`
	AmountPaid     decimal.Decimal `json:"paid"`
	Balance        decimal.Decimal `json:"balance"`
	Clear          bool            `json:"clear"`

	Method        string       `json:"method,omitempty"`
	Reference     string       `json:"ref,omitempty"`
	DueDate       payment.Date `json:"due"`
	NextDueDate   payment.Date `json:"next_due"`
	AmountInWords string       `json:"words"`
}

// NewSchool applies placeholders to the missing identity fields of conf.
func NewSchool(conf core.SchoolConfig) School {
	def := func(v, fallback string) string {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
		return fallback
	}
	return School{
		Name:    def(conf.Name, "School Name"),
		Address: def(conf.Address, "School Address"),
		Phone:   def(conf.Phone, "N/A"),
		Email:   def(conf.Email, "N/A"),
	}
}

// Number returns the payment receipt number for t: RCP-YYYYMMDD-HHMMSS.
func Number(t time.Time) string {
	return "RCP-" + t.Format(numberLayout)
}

func balanceOf(total, paid decimal.Decimal) decimal.Decimal {
	b := total.Sub(paid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

func describe(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " - ")
}

// ForInvoice builds the balance receipt of an invoice. It reuses the invoice number.
func ForInvoice(school School, inv payment.Invoice, now time.Time) (Receipt, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(inv.InvoiceNumber, "invoice number"),
		vala.StringNotEmpty(school.Name, "school name"),
	).Check()
	if err != nil {
		return Receipt{}, err
	}

	balance := balanceOf(inv.TotalAmount, inv.AmountPaid)
	return Receipt{
		Kind:          KindInvoice,
		Number:        inv.InvoiceNumber,
		IssuedAt:      now,
		School:        school,
		StudentName:   inv.StudentName,
		ClassName:     inv.ClassName,
		Description:   describe("Invoice "+inv.InvoiceNumber, inv.Notes),
		Currency:      inv.Currency,
		TotalDue:      inv.TotalAmount,
		AmountPaid:    inv.AmountPaid,
		Balance:       balance,
		Clear:         balance.IsZero(),
		DueDate:       inv.DueDate,
		AmountInWords: AmountInWords(inv.AmountPaid, inv.Currency),
	}, nil
}

// ForPayment builds the receipt of a payment just applied to rec.
// rec is the record as it was before the payment.
func ForPayment(school School, rec payment.PaymentRecord, pay payment.AddPaymentRequest, now time.Time) (Receipt, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(school.Name, "school name"),
		vala.StringNotEmpty(pay.PaymentMethod, "payment method"),
	).Check()
	if err != nil {
		return Receipt{}, err
	}

	balance := balanceOf(rec.TotalAmountDue, rec.AmountPaid.Add(pay.Amount))
	next := pay.NextPaymentDue
	if next.IsZero() && !balance.IsZero() {
		next = rec.NextPaymentDue
	}
	if balance.IsZero() {
		next = payment.Date{}
	}
	return Receipt{
		Kind:           KindPayment,
		Number:         Number(now),
		IssuedAt:       now,
		School:         school,
		StudentName:    rec.StudentName,
		ClassName:      rec.ClassName,
		Description:    describe(rec.PaymentType, rec.AcademicTerm, rec.AcademicYear),
		Currency:       rec.Currency,
		TotalDue:       rec.TotalAmountDue,
		PreviouslyPaid: rec.AmountPaid,
		AmountPaid:     pay.Amount,
		Balance:        balance,
		Clear:          balance.IsZero(),
		Method:         payment.MethodLabel(pay.PaymentMethod),
		Reference:      pay.Reference,
		NextDueDate:    next,
		AmountInWords:  AmountInWords(pay.Amount, rec.Currency),
	}, nil
}

// Title is the heading printed on the receipt.
func (r Receipt) Title() string {
	if r.Kind == KindPayment {
		return "Payment Receipt"
	}
	return "Invoice Receipt"
}

// Filename is the download name of the PDF.
func (r Receipt) Filename() string {
	return strings.ToLower(string(r.Kind)) + "-" + r.Number + ".pdf"
}

// Money formats an amount with its currency.
func Money(amount decimal.Decimal, currency string) string {
	return strings.TrimSpace(currency + " " + amount.StringFixed(2))
}
