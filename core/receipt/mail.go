package receipt

import (
	"bytes"
	"net/mail"

	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
)

// Message builds the email sending r to a guardian, with its PDF attached.
func Message(r Receipt, to mail.Address) (*core.EmailMessage, error) {
	var buf bytes.Buffer
	if err := PDF(&buf, r); err != nil {
		return nil, err
	}

	msg := &core.EmailMessage{
		To:           []mail.Address{to},
		Subject:      r.Title() + " " + r.Number + " - " + r.School.Name,
		TemplateName: "receipt",
		TemplateData: map[string]interface{}{
			"Receipt":  r,
			"Name":     to.Name,
			"Amount":   Money(r.AmountPaid, r.Currency),
			"Balance":  Money(r.Balance, r.Currency),
			"Filename": r.Filename(),
		},
	}
	if err := msg.Attach(&buf, r.Filename(), "application/pdf"); err != nil {
		return nil, errors.Wrap(err, "attaching receipt")
	}
	return msg, nil
}
