package emailsvc

import (
	"bytes"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/payment"
	"github.com/trezcool/masomo-portal/core/receipt"
	appfs "github.com/trezcool/masomo-portal/fs"
	"github.com/trezcool/masomo-portal/tests"
)

func TestNewSender(t *testing.T) {
	conf := core.NewTestConfig()
	tests := []struct {
		from string
		want mail.Address
	}{
		{from: "noreply@school.local", want: mail.Address{Name: "Masomo Portal", Address: "noreply@school.local"}},
		{from: "Bursar <bursar@school.local>", want: mail.Address{Name: "Bursar", Address: "bursar@school.local"}},
		{from: "not an address", want: mail.Address{Name: "Masomo Portal", Address: "not an address"}},
	}
	for _, tt := range tests {
		t.Run(tt.from, func(t *testing.T) {
			conf.DefaultFromEmail = tt.from
			assert.Equal(t, tt.want, NewSender(conf).From)
		})
	}
}

func TestConsoleService(t *testing.T) {
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, logger, false)
	require.Empty(t, logger.Entries("error"))

	sender := NewSender(core.NewTestConfig())
	var out bytes.Buffer
	svc := NewConsoleService(sender, &out, logger)
	svc.sync = true

	withAttachment := &core.EmailMessage{
		To:      []mail.Address{{Name: "Guardian", Address: "guardian@example.com"}},
		Subject: "Receipt",
		BodyStr: "Thank you",
	}
	require.NoError(t, withAttachment.Attach(strings.NewReader("%PDF-1.3"), "receipt.pdf", "application/pdf"))

	noRecipient := &core.EmailMessage{Subject: "dropped", BodyStr: "nobody"}

	svc.SendMessages(withAttachment, noRecipient)

	sent := svc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "Thank you", sent[0].TextContent)

	doc := out.String()
	assert.Contains(t, doc, "Subject: [Masomo Portal] Receipt")
	assert.Contains(t, doc, "To: \"Guardian\" <guardian@example.com>")
	assert.Contains(t, doc, "multipart/mixed")
	assert.Contains(t, doc, "filename=receipt.pdf")
	assert.NotContains(t, doc, "dropped")
}

func TestConsoleServiceMock_Templates(t *testing.T) {
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, logger, false)

	svc := NewConsoleServiceMock(NewSender(core.NewTestConfig()), logger)
	svc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Address: "guardian@example.com"}},
		Subject:      "Unknown template",
		TemplateName: "does-not-exist",
	})
	assert.Empty(t, svc.Sent(), "nothing rendered, nothing sent")
	assert.Empty(t, logger.Entries("error"))
}

func TestConsoleService_ReceiptTemplate(t *testing.T) {
	logger := new(testutil.Logger)
	core.ParseEmailTemplates(appfs.FS, appfs.EmailTemplatesDir, logger, true)

	rec := payment.PaymentRecord{
		ID:             4,
		StudentName:    "Amina Njoroge",
		TotalAmountDue: decimal.NewFromInt(100),
		AmountPaid:     decimal.NewFromInt(40),
		Currency:       "USD",
	}
	pay := payment.AddPaymentRequest{PaymentRecordID: 4, Amount: decimal.NewFromInt(60), PaymentMethod: payment.MethodCash}
	school := receipt.NewSchool(core.SchoolConfig{Name: "Masomo School"})
	r, err := receipt.ForPayment(school, rec, pay, time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	msg, err := receipt.Message(r, mail.Address{Name: "Mr Njoroge", Address: "guardian@example.com"})
	require.NoError(t, err)

	svc := NewConsoleServiceMock(NewSender(core.NewTestConfig()), logger)
	svc.SendMessages(msg)

	sent := svc.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Dear Mr Njoroge,")
	assert.Contains(t, sent[0].TextContent, "payment-RCP-20250304-090000.pdf")
	assert.Contains(t, sent[0].TextContent, "Masomo Portal")
	assert.Contains(t, sent[0].HTMLContent, "<strong>payment-RCP-20250304-090000.pdf</strong>")
	assert.Len(t, sent[0].Attachments, 1)
	assert.Empty(t, logger.Entries("error"))
}
