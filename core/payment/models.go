package payment

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Status is the payment state of a record.
type Status string

const (
	StatusPaid    Status = "paid"
	StatusPartial Status = "partial"
	StatusUnpaid  Status = "unpaid"
)

// ParseStatus parses a status value; "" and unknown values are not ok.
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPaid, StatusPartial, StatusUnpaid:
		return st, true
	}
	return "", false
}

// Payment methods accepted by the backend.
const (
	MethodCash         = "cash"
	MethodBankTransfer = "bank_transfer"
	MethodCard         = "card"
	MethodMobileMoney  = "mobile_money"
)

var methodLabels = map[string]string{
	MethodCash:         "Cash",
	MethodBankTransfer: "Bank Transfer",
	MethodCard:         "Card",
	MethodMobileMoney:  "Mobile Money",
}

// Methods lists the payment methods in display order.
func Methods() []string {
	return []string{MethodCash, MethodBankTransfer, MethodCard, MethodMobileMoney}
}

// MethodLabel returns the human label of a payment method.
func MethodLabel(m string) string {
	if l, ok := methodLabels[m]; ok {
		return l
	}
	return m
}

type (
	Class struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	Student struct {
		ID              int    `json:"id"`
		FullName        string `json:"full_name"`
		AdmissionNumber string `json:"admission_number"`
		ClassID         int    `json:"class_id"`
		ClassName       string `json:"class_name"`
		GuardianEmail   string `json:"guardian_email"`
	}

	// PaymentRecord tracks what a student owes and has paid for a fee plan and term.
	PaymentRecord struct {
		ID             int             `json:"id"`
		StudentID      int             `json:"student_id"`
		StudentName    string          `json:"student_name"`
		ClassID        int             `json:"class_id"`
		ClassName      string          `json:"class_name"`
		PaymentType    string          `json:"payment_type"`
		PaymentPlan    string          `json:"payment_plan"`
		AcademicYear   string          `json:"academic_year"`
		AcademicTerm   string          `json:"academic_term"`
		TotalAmountDue decimal.Decimal `json:"total_amount_due"`
		AmountPaid     decimal.Decimal `json:"amount_paid"`
		Currency       string          `json:"currency"`
		Status         Status          `json:"status"`
		DueDate        Date            `json:"due_date"`
		NextPaymentDue Date            `json:"next_payment_due"`
		GuardianEmail  string          `json:"guardian_email"`
	}

	Invoice struct {
		ID            int             `json:"id"`
		InvoiceNumber string          `json:"invoice_number"`
		StudentID     int             `json:"student_id"`
		StudentName   string          `json:"student_name"`
		ClassName     string          `json:"class_name"`
		TotalAmount   decimal.Decimal `json:"total_amount"`
		AmountPaid    decimal.Decimal `json:"amount_paid"`
		Balance       decimal.Decimal `json:"balance"`
		Currency      string          `json:"currency"`
		DueDate       Date            `json:"due_date"`
		IssueDate     Date            `json:"issue_date"`
		IsPaid        bool            `json:"is_paid"`
		Notes         string          `json:"notes"`
		AutoGenerated bool            `json:"auto_generated"`
		GuardianEmail string          `json:"guardian_email"`
	}

	// ClassFeesReport aggregates the payment state of one class. Computed by the backend.
	ClassFeesReport struct {
		ClassID       int             `json:"class_id"`
		ClassName     string          `json:"class_name"`
		TotalStudents int             `json:"total_students"`
		PaidCount     int             `json:"paid_count"`
		PartialCount  int             `json:"partial_count"`
		UnpaidCount   int             `json:"unpaid_count"`
		TotalDue      decimal.Decimal `json:"total_due"`
		TotalPaid     decimal.Decimal `json:"total_paid"`
		TotalBalance  decimal.Decimal `json:"total_balance"`
		Currency      string          `json:"currency"`
	}
)

// outstanding is max(0, total - paid).
func outstanding(total, paid decimal.Decimal) decimal.Decimal {
	b := total.Sub(paid)
	if b.IsNegative() {
		return decimal.Zero
	}
	return b
}

// Balance is what is still owed, never negative.
func (r PaymentRecord) Balance() decimal.Decimal {
	return outstanding(r.TotalAmountDue, r.AmountPaid)
}

// DerivedStatus is the status implied by the amounts alone.
func (r PaymentRecord) DerivedStatus() Status {
	switch {
	case r.Balance().IsZero():
		return StatusPaid
	case r.AmountPaid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// StatusOverridden reports whether the stored status disagrees with the amounts,
// which happens after a manual paid/unpaid override.
func (r PaymentRecord) StatusOverridden() bool {
	return r.Status != r.DerivedStatus()
}

// Normalize fills a missing or unknown status from the amounts.
// A known status is kept as is, so manual overrides stay visible.
func (r *PaymentRecord) Normalize() {
	if st, ok := ParseStatus(string(r.Status)); ok {
		r.Status = st
		return
	}
	r.Status = r.DerivedStatus()
}

// WithPayment returns the record as it is once amount has been applied.
func (r PaymentRecord) WithPayment(amount decimal.Decimal, nextDue Date) PaymentRecord {
	r.AmountPaid = r.AmountPaid.Add(amount)
	r.Status = r.DerivedStatus()
	if !nextDue.IsZero() {
		r.NextPaymentDue = nextDue
	}
	return r
}

// Normalize re-derives Balance and IsPaid from the amounts.
func (inv *Invoice) Normalize() {
	inv.Balance = outstanding(inv.TotalAmount, inv.AmountPaid)
	inv.IsPaid = inv.Balance.IsZero()
}

// CollectionRate is the paid share of the total due, in percent.
func (rep ClassFeesReport) CollectionRate() decimal.Decimal {
	if !rep.TotalDue.IsPositive() {
		return decimal.Zero
	}
	return rep.TotalPaid.Div(rep.TotalDue).Mul(decimal.NewFromInt(100)).Round(1)
}
