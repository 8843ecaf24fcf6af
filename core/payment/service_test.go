package payment

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/masomo-portal/core"
)

func newTestView(b Backend) *View {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return NewView(b, validate, translator, 2)
}

func seededBackend() *BackendMock {
	b := NewBackendMock()
	b.ClassList = []Class{{ID: 1, Name: "Grade 1"}, {ID: 2, Name: "Grade 2"}}
	b.Records = []PaymentRecord{
		{ID: 1, StudentName: "Amina Njoroge", ClassID: 1, TotalAmountDue: dec("100"), AmountPaid: dec("40"), Currency: "USD", DueDate: NewDate(2025, time.January, 10)},
		{ID: 2, StudentName: "Brian Otieno", ClassID: 1, TotalAmountDue: dec("100"), Currency: "USD", DueDate: NewDate(2025, time.March, 1)},
		{ID: 3, StudentName: "Caro Wanjiku", ClassID: 1, TotalAmountDue: dec("80"), AmountPaid: dec("80"), Currency: "USD", DueDate: NewDate(2025, time.February, 15)},
		{ID: 4, StudentName: "Dan Kamau", ClassID: 2, TotalAmountDue: dec("50"), Currency: "USD"},
	}
	b.Invoices = []Invoice{
		{ID: 10, InvoiceNumber: "INV-001", StudentName: "Amina Njoroge", TotalAmount: dec("100"), AmountPaid: dec("40")},
		{ID: 11, InvoiceNumber: "INV-002", StudentName: "Brian Otieno", TotalAmount: dec("100")},
	}
	b.Report = ClassFeesReport{ClassName: "Grade 1", PaidCount: 1, PartialCount: 1, UnpaidCount: 1}
	return b
}

func TestView_LoadInvoices_NoClass(t *testing.T) {
	b := seededBackend()
	v := newTestView(b)

	invoices, err := v.LoadInvoices(context.Background(), 0)
	assert.Equal(t, ErrClassRequired, err)
	assert.Nil(t, invoices)
	assert.Zero(t, b.TotalCalls())

	_, err = v.LoadClassReport(context.Background(), 0)
	assert.Equal(t, ErrClassRequired, err)
	assert.Zero(t, b.TotalCalls())
}

func TestView_Load(t *testing.T) {
	ctx := context.Background()

	t.Run("invoices tab prompts for a class", func(t *testing.T) {
		b := seededBackend()
		st, err := newTestView(b).Load(ctx, Query{Tab: TabInvoices})
		require.NoError(t, err)
		assert.True(t, st.Prompt)
		assert.Empty(t, st.Invoices)
		assert.Zero(t, b.Calls["InvoicesByClass"])
	})

	t.Run("report tab prompts for a class", func(t *testing.T) {
		b := seededBackend()
		st, err := newTestView(b).Load(ctx, Query{Tab: TabReport})
		require.NoError(t, err)
		assert.True(t, st.Prompt)
		assert.Nil(t, st.Report)
		assert.Zero(t, b.Calls["ClassFeesReport"])
	})

	t.Run("report tab", func(t *testing.T) {
		st, err := newTestView(seededBackend()).Load(ctx, Query{Tab: TabReport, ClassID: 1})
		require.NoError(t, err)
		assert.False(t, st.Prompt)
		require.NotNil(t, st.Report)
		assert.Equal(t, 1, st.Report.ClassID)
	})

	t.Run("records newest first, paginated", func(t *testing.T) {
		st, err := newTestView(seededBackend()).Load(ctx, Query{ClassID: 1, Tab: "bogus"})
		require.NoError(t, err)
		assert.Equal(t, TabRecords, st.Tab)
		assert.Equal(t, 3, st.RecordsPage.Total)
		assert.Equal(t, 2, st.RecordsPage.Pages)
		if assert.Len(t, st.Records, 2) {
			assert.Equal(t, 2, st.Records[0].ID)
			assert.Equal(t, 3, st.Records[1].ID)
		}
		assert.Equal(t, StatusPaid, st.Records[1].Status)
		assert.True(t, dec("160").Equal(st.Outstanding))
	})

	t.Run("empty state with suggestion", func(t *testing.T) {
		st, err := newTestView(seededBackend()).Load(ctx, Query{ClassID: 1, Search: "amina njorge"})
		require.NoError(t, err)
		assert.True(t, st.Empty)
		assert.Equal(t, []string{"Amina Njoroge"}, st.Suggestions)
	})

	t.Run("invoices tab", func(t *testing.T) {
		st, err := newTestView(seededBackend()).Load(ctx, Query{Tab: TabInvoices, ClassID: 1, Modal: ModalViewInvoice, InvoiceID: 10})
		require.NoError(t, err)
		assert.Len(t, st.Invoices, 2)
		require.NotNil(t, st.Invoice)
		assert.True(t, dec("60").Equal(st.Invoice.Balance))
		assert.False(t, st.Invoice.IsPaid)
	})

	t.Run("add payment modal", func(t *testing.T) {
		st, err := newTestView(seededBackend()).Load(ctx, Query{ClassID: 1, Modal: ModalAddPayment, RecordID: 1})
		require.NoError(t, err)
		assert.Equal(t, ModalAddPayment, st.Modal)
		require.NotNil(t, st.Record)
		assert.Equal(t, "Amina Njoroge", st.Record.StudentName)
	})

	t.Run("unknown modal is closed", func(t *testing.T) {
		st, err := newTestView(seededBackend()).Load(ctx, Query{Modal: "everything"})
		require.NoError(t, err)
		assert.Equal(t, ModalNone, st.Modal)
	})

	t.Run("backend failure", func(t *testing.T) {
		b := seededBackend()
		b.Err = errors.New("connection refused")
		_, err := newTestView(b).Load(ctx, Query{})
		assert.Error(t, err)
		assert.Equal(t, 1, b.TotalCalls(), "no retry")
	})
}

func TestView_CreatePaymentRecord(t *testing.T) {
	ctx := context.Background()

	t.Run("required fields", func(t *testing.T) {
		b := seededBackend()
		_, err := newTestView(b).CreatePaymentRecord(ctx, NewPaymentRecord{})
		vErr, ok := core.AsValidationError(err)
		require.True(t, ok, "%v", err)
		fields := vErr.FieldMap()
		assert.Contains(t, fields, "student_id")
		assert.Contains(t, fields, "total_amount_due")
		assert.Contains(t, fields, "currency")
		assert.Contains(t, fields, "payment_plan")
		assert.Zero(t, b.Calls["CreatePaymentRecord"])
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := newTestView(seededBackend()).CreatePaymentRecord(ctx, NewPaymentRecord{
			StudentID: 1, PaymentPlan: "termly", TotalAmountDue: "-5", Currency: "dollars", DueDate: "tomorrow",
		})
		vErr, ok := core.AsValidationError(err)
		require.True(t, ok)
		fields := vErr.FieldMap()
		assert.Equal(t, amountText, fields["total_amount_due"])
		assert.Equal(t, currencyText, fields["currency"])
		assert.Contains(t, fields, "due_date")
	})

	t.Run("created", func(t *testing.T) {
		b := seededBackend()
		rec, err := newTestView(b).CreatePaymentRecord(ctx, NewPaymentRecord{
			StudentID: 9, ClassID: 2, PaymentPlan: "termly", TotalAmountDue: "1200.50", Currency: "kes", DueDate: "2025-05-01",
		})
		require.NoError(t, err)
		assert.Equal(t, "KES", rec.Currency)
		assert.Equal(t, StatusUnpaid, rec.Status)
		assert.True(t, dec("1200.50").Equal(rec.Balance()))
		assert.Equal(t, "2025-05-01", rec.DueDate.String())
	})
}

func TestView_AddPaymentToRecord(t *testing.T) {
	ctx := context.Background()
	form := func(amount string) NewPayment {
		return NewPayment{RecordID: 1, Amount: amount, Method: MethodCash}
	}

	tests := []struct {
		name    string
		form    NewPayment
		wantErr bool
	}{
		{name: "zero", form: form("0"), wantErr: true},
		{name: "negative", form: form("-1"), wantErr: true},
		{name: "not a number", form: form("ten"), wantErr: true},
		{name: "above balance", form: form("60.01"), wantErr: true},
		{name: "unknown method", form: NewPayment{RecordID: 1, Amount: "10", Method: "cheque"}, wantErr: true},
		{name: "bad next due date", form: NewPayment{RecordID: 1, Amount: "10", Method: MethodCard, NextPaymentDue: "soon"}, wantErr: true},
		{name: "small amount", form: form("0.01")},
		{name: "exact balance", form: form("60")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := seededBackend()
			applied, err := newTestView(b).AddPaymentToRecord(ctx, 1, tt.form)
			if tt.wantErr {
				_, ok := core.AsValidationError(err)
				assert.True(t, ok, "%v", err)
				assert.Zero(t, b.Calls["AddPayment"])
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, b.Calls["AddPayment"])
			assert.True(t, dec("40").Equal(applied.Before.AmountPaid))
			assert.True(t, applied.Before.AmountPaid.Add(applied.Request.Amount).Equal(applied.After.AmountPaid))
			assert.False(t, applied.After.Balance().IsNegative())
		})
	}

	t.Run("clears the balance", func(t *testing.T) {
		b := seededBackend()
		applied, err := newTestView(b).AddPaymentToRecord(ctx, 1, NewPayment{
			RecordID: 1, Amount: "60", Method: MethodMobileMoney, Reference: "MP123", NextPaymentDue: "2025-04-01",
		})
		require.NoError(t, err)
		assert.True(t, applied.After.Balance().IsZero())
		assert.Equal(t, StatusPaid, applied.After.Status)
		assert.Equal(t, "MP123", applied.Request.Reference)
	})

	t.Run("unknown record", func(t *testing.T) {
		_, err := newTestView(seededBackend()).AddPaymentToRecord(ctx, 1, NewPayment{RecordID: 99, Amount: "1", Method: MethodCash})
		assert.Equal(t, ErrRecordNotFound, err)
	})
}

func TestView_UpdatePaymentStatus(t *testing.T) {
	ctx := context.Background()
	b := seededBackend()
	v := newTestView(b)

	_, err := v.UpdatePaymentStatus(ctx, 1, "partial")
	_, ok := core.AsValidationError(err)
	assert.True(t, ok)
	assert.Zero(t, b.Calls["UpdatePaymentStatus"])

	rec, err := v.UpdatePaymentStatus(ctx, 1, "paid")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, rec.Status)
	assert.True(t, dec("40").Equal(rec.AmountPaid), "amounts are not touched")
	assert.True(t, rec.StatusOverridden())
}

func TestExportInvoices(t *testing.T) {
	var buf bytes.Buffer
	invoices := seededBackend().Invoices
	require.NoError(t, ExportInvoices(&buf, invoices))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(invoiceSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, invoiceHeaders[0], rows[0][0])
	assert.Equal(t, "INV-001", rows[1][0])
	assert.Equal(t, "60", rows[1][7])
	assert.Equal(t, "No", rows[1][9])
}
