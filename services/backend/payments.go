package backend

import (
	"context"
	"strconv"

	"github.com/sendgrid/rest"

	"github.com/trezcool/masomo-portal/core/payment"
)

var _ payment.Backend = (*Client)(nil)

func classQuery(classID int) map[string]string {
	if classID <= 0 {
		return nil
	}
	return map[string]string{"class_id": strconv.Itoa(classID)}
}

func (c *Client) Classes(ctx context.Context) ([]payment.Class, error) {
	var classes []payment.Class
	err := c.get(ctx, "/classes", nil, &classes)
	return classes, err
}

func (c *Client) StudentsForPayment(ctx context.Context) ([]payment.Student, error) {
	var students []payment.Student
	err := c.get(ctx, "/students-for-payment", nil, &students)
	return students, err
}

func (c *Client) PaymentRecords(ctx context.Context, classID int, status payment.Status) ([]payment.PaymentRecord, error) {
	query := classQuery(classID)
	if status != "" {
		if query == nil {
			query = make(map[string]string)
		}
		query["status"] = string(status)
	}
	var records []payment.PaymentRecord
	err := c.get(ctx, "/payment-records", query, &records)
	return records, err
}

func (c *Client) CreatePaymentRecord(ctx context.Context, req payment.CreateRecordRequest) (payment.PaymentRecord, error) {
	var rec payment.PaymentRecord
	err := c.post(ctx, "/payment-records", req, &rec)
	return rec, err
}

func (c *Client) AddPayment(ctx context.Context, req payment.AddPaymentRequest) (payment.PaymentRecord, error) {
	var rec payment.PaymentRecord
	err := c.post(ctx, "/payment-records/add-payment", req, &rec)
	return rec, err
}

func (c *Client) UpdatePaymentStatus(ctx context.Context, id int, status payment.Status) (payment.PaymentRecord, error) {
	var rec payment.PaymentRecord
	endpoint := "/payment-records/" + strconv.Itoa(id) + "/status"
	err := c.do(ctx, rest.Patch, endpoint, nil, payment.StatusRequest{Status: status}, &rec)
	return rec, err
}

func (c *Client) ClassFeesReport(ctx context.Context, classID int) (payment.ClassFeesReport, error) {
	var rep payment.ClassFeesReport
	err := c.get(ctx, "/class-fees-report", classQuery(classID), &rep)
	return rep, err
}

func (c *Client) InvoicesByClass(ctx context.Context, classID int) ([]payment.Invoice, error) {
	var invoices []payment.Invoice
	err := c.get(ctx, "/invoices-by-class", classQuery(classID), &invoices)
	return invoices, err
}

func (c *Client) Invoice(ctx context.Context, id int) (payment.Invoice, error) {
	var inv payment.Invoice
	err := c.get(ctx, "/invoices/"+strconv.Itoa(id), nil, &inv)
	return inv, err
}
