package receipt

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const qrSize = 128

// QRContent is the text encoded in the receipt QR code.
func (r Receipt) QRContent() string {
	return strings.Join([]string{
		r.School.Name,
		r.Number,
		r.StudentName,
		Money(r.AmountPaid, r.Currency),
		r.IssuedAt.Format("2006-01-02 15:04:05"),
	}, "|")
}

// QRCode returns the receipt QR code as a PNG.
func (r Receipt) QRCode() ([]byte, error) {
	png, err := qrcode.Encode(r.QRContent(), qrcode.Medium, qrSize)
	if err != nil {
		return nil, errors.Wrap(err, "encoding qr code")
	}
	return png, nil
}
