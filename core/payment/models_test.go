package payment

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestPaymentRecord_Balance(t *testing.T) {
	tests := []struct {
		name       string
		due, paid  string
		wantBal    string
		wantStatus Status
	}{
		{name: "unpaid", due: "100", paid: "0", wantBal: "100", wantStatus: StatusUnpaid},
		{name: "partial", due: "100", paid: "40", wantBal: "60", wantStatus: StatusPartial},
		{name: "paid", due: "100", paid: "100", wantBal: "0", wantStatus: StatusPaid},
		{name: "overpaid is clamped", due: "100", paid: "120.50", wantBal: "0", wantStatus: StatusPaid},
		{name: "cents", due: "99.99", paid: "0.99", wantBal: "99", wantStatus: StatusPartial},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := PaymentRecord{TotalAmountDue: dec(tt.due), AmountPaid: dec(tt.paid)}
			assert.True(t, dec(tt.wantBal).Equal(rec.Balance()), "balance = %s", rec.Balance())
			assert.Equal(t, tt.wantStatus, rec.DerivedStatus())
		})
	}
}

func TestPaymentRecord_WithPayment(t *testing.T) {
	rec := PaymentRecord{ID: 1, TotalAmountDue: dec("300"), Status: StatusUnpaid}
	next := NewDate(2025, time.April, 1)

	// the invariant holds after every payment
	for _, amount := range []string{"50", "125.25", "124.75"} {
		rec = rec.WithPayment(dec(amount), Date{})
		want := rec.TotalAmountDue.Sub(rec.AmountPaid)
		if want.IsNegative() {
			want = decimal.Zero
		}
		assert.True(t, want.Equal(rec.Balance()))
		assert.False(t, rec.StatusOverridden())
	}
	assert.Equal(t, StatusPaid, rec.Status)
	assert.True(t, rec.Balance().IsZero())

	rec = PaymentRecord{TotalAmountDue: dec("100"), AmountPaid: dec("40")}.WithPayment(dec("10"), next)
	assert.Equal(t, StatusPartial, rec.Status)
	assert.Equal(t, next, rec.NextPaymentDue)
}

func TestPaymentRecord_Normalize(t *testing.T) {
	rec := PaymentRecord{TotalAmountDue: dec("100"), AmountPaid: dec("40")}
	rec.Normalize()
	assert.Equal(t, StatusPartial, rec.Status)

	// a manual override is kept and flagged
	rec = PaymentRecord{TotalAmountDue: dec("100"), AmountPaid: dec("40"), Status: "PAID"}
	rec.Normalize()
	assert.Equal(t, StatusPaid, rec.Status)
	assert.True(t, rec.StatusOverridden())
	assert.True(t, dec("60").Equal(rec.Balance()))
}

func TestInvoice_Normalize(t *testing.T) {
	inv := Invoice{TotalAmount: dec("250"), AmountPaid: dec("250"), Balance: dec("10")}
	inv.Normalize()
	assert.True(t, inv.Balance.IsZero())
	assert.True(t, inv.IsPaid)

	inv = Invoice{TotalAmount: dec("250"), AmountPaid: dec("100"), IsPaid: true}
	inv.Normalize()
	assert.True(t, dec("150").Equal(inv.Balance))
	assert.False(t, inv.IsPaid)
}

func TestParseStatus(t *testing.T) {
	st, ok := ParseStatus(" Partial ")
	assert.True(t, ok)
	assert.Equal(t, StatusPartial, st)

	_, ok = ParseStatus("refunded")
	assert.False(t, ok)
	_, ok = ParseStatus("")
	assert.False(t, ok)
}

func TestDate_JSON(t *testing.T) {
	var rec PaymentRecord
	data := `{"id": 3, "total_amount_due": "1500.00", "amount_paid": 500, "due_date": "2025-02-15",
		"next_payment_due": null, "status": "partial"}`
	require.NoError(t, json.Unmarshal([]byte(data), &rec))
	assert.Equal(t, NewDate(2025, time.February, 15), rec.DueDate)
	assert.True(t, rec.NextPaymentDue.IsZero())
	assert.True(t, dec("1000").Equal(rec.Balance()))

	out, err := json.Marshal(AddPaymentRequest{PaymentRecordID: 3, Amount: dec("20"), PaymentMethod: MethodCash})
	require.NoError(t, err)
	assert.JSONEq(t, `{"payment_record_id": 3, "amount": "20", "payment_method": "cash", "next_payment_due": null}`, string(out))

	d, err := ParseDate("2025-03-01T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", d.String())

	_, err = ParseDate("01/03/2025")
	assert.Error(t, err)
}

func TestClassFeesReport_CollectionRate(t *testing.T) {
	rep := ClassFeesReport{TotalDue: dec("400"), TotalPaid: dec("100")}
	assert.Equal(t, "25", rep.CollectionRate().String())
	assert.True(t, ClassFeesReport{}.CollectionRate().IsZero())
}
