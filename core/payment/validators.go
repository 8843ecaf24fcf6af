package payment

import (
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/trezcool/masomo-portal/core"
)

var (
	amountTag  = "amount"
	amountText = "enter an amount greater than 0"

	methodTag  = "paymethod"
	methodText = "choose a valid payment method"

	currencyTag  = "currency"
	currencyText = "enter a 3-letter currency code"
)

// InitValidators registers the payment form validations on validate.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(amountTag, amountValidation)
	core.RegisterCustomTranslation(validate, translator, amountTag, amountText)

	_ = validate.RegisterValidation(methodTag, methodValidation)
	core.RegisterCustomTranslation(validate, translator, methodTag, methodText)

	_ = validate.RegisterValidation(currencyTag, currencyValidation)
	core.RegisterCustomTranslation(validate, translator, currencyTag, currencyText)
}

type (
	// NewPaymentRecord is the "add payment record" form.
	NewPaymentRecord struct {
		StudentID      int    `form:"student_id" validate:"required"`
		ClassID        int    `form:"class_id"`
		PaymentType    string `form:"payment_type"`
		PaymentPlan    string `form:"payment_plan" validate:"required,notblank"`
		AcademicYear   string `form:"academic_year"`
		AcademicTerm   string `form:"academic_term"`
		TotalAmountDue string `form:"total_amount_due" validate:"required,amount"`
		Currency       string `form:"currency" validate:"required,currency"`
		DueDate        string `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	}

	// NewPayment is the "add payment" form.
	NewPayment struct {
		RecordID       int    `form:"record_id" validate:"required"`
		Amount         string `form:"amount" validate:"required,amount"`
		Method         string `form:"payment_method" validate:"required,paymethod"`
		Reference      string `form:"reference" validate:"max=100"`
		NextPaymentDue string `form:"next_payment_due" validate:"omitempty,datetime=2006-01-02"`
		EmailReceipt   bool   `form:"email_receipt"`
	}

	CreateRecordRequest struct {
		StudentID      int             `json:"student_id"`
		ClassID        int             `json:"class_id,omitempty"`
		PaymentType    string          `json:"payment_type,omitempty"`
		PaymentPlan    string          `json:"payment_plan"`
		AcademicYear   string          `json:"academic_year,omitempty"`
		AcademicTerm   string          `json:"academic_term,omitempty"`
		TotalAmountDue decimal.Decimal `json:"total_amount_due"`
		Currency       string          `json:"currency"`
		DueDate        Date            `json:"due_date"`
	}

	AddPaymentRequest struct {
		PaymentRecordID int             `json:"payment_record_id"`
		Amount          decimal.Decimal `json:"amount"`
		PaymentMethod   string          `json:"payment_method"`
		Reference       string          `json:"reference,omitempty"`
		NextPaymentDue  Date            `json:"next_payment_due"`
	}

	StatusRequest struct {
		Status Status `json:"status"`
	}
)

// Request converts a validated form into the backend payload.
func (nr NewPaymentRecord) Request() CreateRecordRequest {
	amount, _ := decimal.NewFromString(strings.TrimSpace(nr.TotalAmountDue))
	due, _ := ParseDate(nr.DueDate)
	return CreateRecordRequest{
		StudentID:      nr.StudentID,
		ClassID:        nr.ClassID,
		PaymentType:    strings.TrimSpace(nr.PaymentType),
		PaymentPlan:    strings.TrimSpace(nr.PaymentPlan),
		AcademicYear:   strings.TrimSpace(nr.AcademicYear),
		AcademicTerm:   strings.TrimSpace(nr.AcademicTerm),
		TotalAmountDue: amount,
		Currency:       strings.ToUpper(strings.TrimSpace(nr.Currency)),
		DueDate:        due,
	}
}

// Request converts a validated form into the backend payload.
func (np NewPayment) Request() AddPaymentRequest {
	amount, _ := decimal.NewFromString(strings.TrimSpace(np.Amount))
	next, _ := ParseDate(np.NextPaymentDue)
	return AddPaymentRequest{
		PaymentRecordID: np.RecordID,
		Amount:          amount,
		PaymentMethod:   np.Method,
		Reference:       strings.TrimSpace(np.Reference),
		NextPaymentDue:  next,
	}
}

// CheckAmount is the client-side guard of a payment: 0 < amount <= balance.
func CheckAmount(rec PaymentRecord, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return core.NewValidationError(nil, core.FieldError{Field: "amount", Error: amountText})
	}
	if bal := rec.Balance(); amount.GreaterThan(bal) {
		return core.NewValidationError(nil, core.FieldError{
			Field: "amount",
			Error: "amount cannot exceed the balance of " + bal.StringFixed(2) + " " + rec.Currency,
		})
	}
	return nil
}

func amountValidation(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	return err == nil && d.IsPositive()
}

func methodValidation(fl validator.FieldLevel) bool {
	_, ok := methodLabels[fl.Field().String()]
	return ok
}

func currencyValidation(fl validator.FieldLevel) bool {
	s := strings.TrimSpace(fl.Field().String())
	if len(s) != 3 {
		return false
	}
	for _, c := range s {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}
