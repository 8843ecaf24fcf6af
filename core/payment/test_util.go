package payment

import (
	"context"
	"sync"
)

// BackendMock is an in-memory Backend counting the calls it receives.
type BackendMock struct {
	mu        sync.Mutex
	Calls     map[string]int
	ClassList []Class
	Students  []Student
	Records   []PaymentRecord
	Report    ClassFeesReport
	Invoices  []Invoice
	Err       error // returned by every call when set
	nextID    int
}

func NewBackendMock() *BackendMock {
	return &BackendMock{Calls: make(map[string]int), nextID: 100}
}

func (b *BackendMock) call(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls[name]++
	return b.Err
}

// TotalCalls is the number of calls received so far.
func (b *BackendMock) TotalCalls() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, c := range b.Calls {
		n += c
	}
	return n
}

func (b *BackendMock) Classes(context.Context) ([]Class, error) {
	if err := b.call("Classes"); err != nil {
		return nil, err
	}
	return b.ClassList, nil
}

func (b *BackendMock) StudentsForPayment(context.Context) ([]Student, error) {
	if err := b.call("StudentsForPayment"); err != nil {
		return nil, err
	}
	return b.Students, nil
}

func (b *BackendMock) PaymentRecords(_ context.Context, classID int, status Status) ([]PaymentRecord, error) {
	if err := b.call("PaymentRecords"); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []PaymentRecord
	for _, r := range b.Records {
		if (classID == 0 || r.ClassID == classID) && (status == "" || r.Status == status) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (b *BackendMock) CreatePaymentRecord(_ context.Context, req CreateRecordRequest) (PaymentRecord, error) {
	if err := b.call("CreatePaymentRecord"); err != nil {
		return PaymentRecord{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	rec := PaymentRecord{
		ID:             b.nextID,
		StudentID:      req.StudentID,
		ClassID:        req.ClassID,
		PaymentType:    req.PaymentType,
		PaymentPlan:    req.PaymentPlan,
		AcademicYear:   req.AcademicYear,
		AcademicTerm:   req.AcademicTerm,
		TotalAmountDue: req.TotalAmountDue,
		Currency:       req.Currency,
		DueDate:        req.DueDate,
	}
	rec.Status = rec.DerivedStatus()
	b.Records = append(b.Records, rec)
	return rec, nil
}

func (b *BackendMock) AddPayment(_ context.Context, req AddPaymentRequest) (PaymentRecord, error) {
	if err := b.call("AddPayment"); err != nil {
		return PaymentRecord{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.Records {
		if r.ID == req.PaymentRecordID {
			b.Records[i] = r.WithPayment(req.Amount, req.NextPaymentDue)
			return b.Records[i], nil
		}
	}
	return PaymentRecord{}, ErrRecordNotFound
}

func (b *BackendMock) UpdatePaymentStatus(_ context.Context, id int, status Status) (PaymentRecord, error) {
	if err := b.call("UpdatePaymentStatus"); err != nil {
		return PaymentRecord{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, r := range b.Records {
		if r.ID == id {
			b.Records[i].Status = status
			return b.Records[i], nil
		}
	}
	return PaymentRecord{}, ErrRecordNotFound
}

func (b *BackendMock) ClassFeesReport(_ context.Context, classID int) (ClassFeesReport, error) {
	if err := b.call("ClassFeesReport"); err != nil {
		return ClassFeesReport{}, err
	}
	rep := b.Report
	rep.ClassID = classID
	return rep, nil
}

func (b *BackendMock) InvoicesByClass(context.Context, int) ([]Invoice, error) {
	if err := b.call("InvoicesByClass"); err != nil {
		return nil, err
	}
	return b.Invoices, nil
}

func (b *BackendMock) Invoice(_ context.Context, id int) (Invoice, error) {
	if err := b.call("Invoice"); err != nil {
		return Invoice{}, err
	}
	for _, inv := range b.Invoices {
		if inv.ID == id {
			return inv, nil
		}
	}
	return Invoice{}, ErrRecordNotFound
}
