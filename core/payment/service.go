package payment

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/masomo-portal/core"
)

// Tab is the active panel of the payments page.
type Tab string

const (
	TabRecords  Tab = "records"
	TabReport   Tab = "report"
	TabInvoices Tab = "invoices"
)

// Modal is the overlay open on top of the active tab. Only one can be open.
type Modal string

const (
	ModalNone        Modal = ""
	ModalAddRecord   Modal = "add-record"
	ModalAddPayment  Modal = "add-payment"
	ModalViewInvoice Modal = "view-invoice"
)

var ErrClassRequired = errors.New("select a class first")

type (
	// Backend is the part of the REST API the payments page talks to, scoped to one session.
	Backend interface {
		Classes(ctx context.Context) ([]Class, error)
		StudentsForPayment(ctx context.Context) ([]Student, error)
		PaymentRecords(ctx context.Context, classID int, status Status) ([]PaymentRecord, error)
		CreatePaymentRecord(ctx context.Context, req CreateRecordRequest) (PaymentRecord, error)
		AddPayment(ctx context.Context, req AddPaymentRequest) (PaymentRecord, error)
		UpdatePaymentStatus(ctx context.Context, id int, status Status) (PaymentRecord, error)
		ClassFeesReport(ctx context.Context, classID int) (ClassFeesReport, error)
		InvoicesByClass(ctx context.Context, classID int) ([]Invoice, error)
		Invoice(ctx context.Context, id int) (Invoice, error)
	}

	// Query is the page state carried in the URL.
	Query struct {
		Tab       Tab    `query:"tab"`
		Modal     Modal  `query:"modal"`
		ClassID   int    `query:"class_id"`
		Status    string `query:"status"`
		Search    string `query:"q"`
		Sort      string `query:"sort"`
		Page      int    `query:"page"`
		RecordID  int    `query:"record"`
		InvoiceID int    `query:"invoice"`
	}

	// State is everything the payments page renders.
	State struct {
		Query    Query
		Tab      Tab
		Modal    Modal
		Classes  []Class
		Students []Student // add-record modal only

		Records      []PaymentRecord // current page
		RecordsPage  core.Page
		Outstanding  decimal.Decimal // balance of every filtered record
		Report       *ClassFeesReport
		Invoices     []Invoice // current page
		InvoicesPage core.Page

		Record  *PaymentRecord // add-payment modal
		Invoice *Invoice       // view-invoice modal

		Prompt      bool // the tab needs a class selection
		Empty       bool
		Suggestions []string
	}

	// Applied is the outcome of a payment: the record before and after it.
	Applied struct {
		Before  PaymentRecord
		After   PaymentRecord
		Request AddPaymentRequest
	}

	View struct {
		backend    Backend
		validate   *validator.Validate
		translator ut.Translator
		pageSize   int
	}
)

func NewView(backend Backend, validate *validator.Validate, translator ut.Translator, pageSize int) *View {
	return &View{backend: backend, validate: validate, translator: translator, pageSize: pageSize}
}

// Normalize fills defaults and drops values the page does not know.
func (q *Query) Normalize() {
	switch q.Tab {
	case TabRecords, TabReport, TabInvoices:
	default:
		q.Tab = TabRecords
	}
	switch q.Modal {
	case ModalNone, ModalAddRecord, ModalAddPayment, ModalViewInvoice:
	default:
		q.Modal = ModalNone
	}
	if st, ok := ParseStatus(q.Status); ok {
		q.Status = string(st)
	} else {
		q.Status = ""
	}
	if q.Sort == "" {
		q.Sort = "-due_date"
	}
	if q.Page < 1 {
		q.Page = 1
	}
}

// Values encodes the filters of q back into URL values, skipping defaults.
func (q Query) Values() url.Values {
	vals := url.Values{"tab": {string(q.Tab)}}
	if q.ClassID > 0 {
		vals.Set("class_id", strconv.Itoa(q.ClassID))
	}
	if q.Status != "" {
		vals.Set("status", q.Status)
	}
	if q.Search != "" {
		vals.Set("q", q.Search)
	}
	if q.Sort != "" && q.Sort != "-due_date" {
		vals.Set("sort", q.Sort)
	}
	return vals
}

// Load builds the page state for q.
func (v *View) Load(ctx context.Context, q Query) (State, error) {
	q.Normalize()
	st := State{Query: q, Tab: q.Tab, Modal: q.Modal}

	var err error
	if st.Classes, err = v.backend.Classes(ctx); err != nil {
		return st, pkgerrors.Wrap(err, "loading classes")
	}

	switch q.Tab {
	case TabRecords:
		err = v.loadRecordsTab(ctx, q, &st)
	case TabReport:
		err = v.loadReportTab(ctx, q, &st)
	case TabInvoices:
		err = v.loadInvoicesTab(ctx, q, &st)
	}
	if err != nil {
		return st, err
	}

	switch q.Modal {
	case ModalAddRecord:
		if st.Students, err = v.backend.StudentsForPayment(ctx); err != nil {
			return st, pkgerrors.Wrap(err, "loading students")
		}
	case ModalAddPayment:
		rec, err := v.FindRecord(ctx, q.ClassID, q.RecordID)
		if err != nil {
			return st, err
		}
		st.Record = &rec
	case ModalViewInvoice:
		inv, err := v.backend.Invoice(ctx, q.InvoiceID)
		if err != nil {
			return st, pkgerrors.Wrap(err, "loading invoice")
		}
		inv.Normalize()
		st.Invoice = &inv
	}
	return st, nil
}

func (v *View) loadRecordsTab(ctx context.Context, q Query, st *State) error {
	status, _ := ParseStatus(q.Status)
	records, err := v.LoadPaymentRecords(ctx, q.ClassID, status)
	if err != nil {
		return err
	}
	filtered := SortRecords(FilterRecords(records, q.Search), core.ParseOrdering(q.Sort))
	st.RecordsPage = core.Paginate(len(filtered), q.Page, v.pageSize)
	st.Records = filtered[st.RecordsPage.Start:st.RecordsPage.End]
	st.Outstanding = Total(filtered)
	st.Empty = len(filtered) == 0
	if st.Empty && q.Search != "" {
		st.Suggestions = Suggest(q.Search, recordNames(records), 3)
	}
	return nil
}

func (v *View) loadReportTab(ctx context.Context, q Query, st *State) error {
	rep, err := v.LoadClassReport(ctx, q.ClassID)
	if err == ErrClassRequired {
		st.Prompt = true
		return nil
	}
	if err != nil {
		return err
	}
	st.Report = &rep
	return nil
}

func (v *View) loadInvoicesTab(ctx context.Context, q Query, st *State) error {
	invoices, err := v.LoadInvoices(ctx, q.ClassID)
	if err == ErrClassRequired {
		st.Prompt = true
		return nil
	}
	if err != nil {
		return err
	}
	filtered := SortInvoices(FilterInvoices(invoices, q.Search), core.ParseOrdering(q.Sort))
	st.InvoicesPage = core.Paginate(len(filtered), q.Page, v.pageSize)
	st.Invoices = filtered[st.InvoicesPage.Start:st.InvoicesPage.End]
	st.Empty = len(filtered) == 0
	if st.Empty && q.Search != "" {
		st.Suggestions = Suggest(q.Search, invoiceNames(invoices), 3)
	}
	return nil
}

// LoadPaymentRecords fetches the records of a class (0 = all) with an optional status.
// An empty result is not an error.
func (v *View) LoadPaymentRecords(ctx context.Context, classID int, status Status) ([]PaymentRecord, error) {
	records, err := v.backend.PaymentRecords(ctx, classID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading payment records")
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}

// LoadClassReport fetches the fees report of a class. Without a class nothing is fetched.
func (v *View) LoadClassReport(ctx context.Context, classID int) (ClassFeesReport, error) {
	if classID <= 0 {
		return ClassFeesReport{}, ErrClassRequired
	}
	rep, err := v.backend.ClassFeesReport(ctx, classID)
	if err != nil {
		return ClassFeesReport{}, pkgerrors.Wrap(err, "loading class report")
	}
	return rep, nil
}

// LoadInvoices fetches the invoices of a class. Without a class nothing is fetched.
func (v *View) LoadInvoices(ctx context.Context, classID int) ([]Invoice, error) {
	if classID <= 0 {
		return nil, ErrClassRequired
	}
	invoices, err := v.backend.InvoicesByClass(ctx, classID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "loading invoices")
	}
	for i := range invoices {
		invoices[i].Normalize()
	}
	return invoices, nil
}

// FindRecord looks a record up in the list of its class.
func (v *View) FindRecord(ctx context.Context, classID, id int) (PaymentRecord, error) {
	records, err := v.LoadPaymentRecords(ctx, classID, "")
	if err != nil {
		return PaymentRecord{}, err
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return PaymentRecord{}, ErrRecordNotFound
}

var ErrRecordNotFound = errors.New("payment record not found")

func (v *View) validateForm(form interface{}) error {
	if err := v.validate.Struct(form); err != nil {
		return core.TranslateValidationErrors(err, v.translator)
	}
	return nil
}

// CreatePaymentRecord validates the form and submits it. Nothing is retried.
func (v *View) CreatePaymentRecord(ctx context.Context, form NewPaymentRecord) (PaymentRecord, error) {
	if err := v.validateForm(form); err != nil {
		return PaymentRecord{}, err
	}
	rec, err := v.backend.CreatePaymentRecord(ctx, form.Request())
	if err != nil {
		return PaymentRecord{}, pkgerrors.Wrap(err, "creating payment record")
	}
	rec.Normalize()
	return rec, nil
}

// AddPaymentToRecord applies a payment to a record of classID once 0 < amount <= balance holds.
func (v *View) AddPaymentToRecord(ctx context.Context, classID int, form NewPayment) (Applied, error) {
	if err := v.validateForm(form); err != nil {
		return Applied{}, err
	}
	before, err := v.FindRecord(ctx, classID, form.RecordID)
	if err != nil {
		return Applied{}, err
	}

	req := form.Request()
	if err = CheckAmount(before, req.Amount); err != nil {
		return Applied{}, err
	}

	after, err := v.backend.AddPayment(ctx, req)
	if err != nil {
		return Applied{}, pkgerrors.Wrap(err, "adding payment")
	}
	// some backend versions reply with a bare acknowledgement
	if after.ID == 0 {
		after = before.WithPayment(req.Amount, req.NextPaymentDue)
	}
	after.Normalize()
	return Applied{Before: before, After: after, Request: req}, nil
}

// UpdatePaymentStatus sets the status by hand. Amounts are left untouched,
// so the record shows up as overridden when the status disagrees with its balance.
func (v *View) UpdatePaymentStatus(ctx context.Context, id int, status string) (PaymentRecord, error) {
	st, ok := ParseStatus(status)
	if !ok || st == StatusPartial {
		return PaymentRecord{}, core.NewValidationError(nil, core.FieldError{
			Field: "status",
			Error: "status can only be set to paid or unpaid",
		})
	}
	rec, err := v.backend.UpdatePaymentStatus(ctx, id, st)
	if err != nil {
		return PaymentRecord{}, pkgerrors.Wrap(err, "updating payment status")
	}
	rec.Normalize()
	return rec, nil
}

// Total sums the balances of records.
func Total(records []PaymentRecord) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Balance())
	}
	return total
}
