package receipt

import (
	"bytes"
	"io"
	"os"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
)

const logoSize = 160 // px, bounding box

// LoadLogo reads the school logo at path and shrinks it to a PNG thumbnail.
// An empty path means no logo.
func LoadLogo(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening logo")
	}
	defer func() { _ = f.Close() }()
	return Thumbnail(f)
}

// Thumbnail decodes any supported image from r and fits it into the logo box as a PNG.
func Thumbnail(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(err, "decoding logo")
	}
	img = imaging.Fit(img, logoSize, logoSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err = imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, errors.Wrap(err, "encoding logo")
	}
	return buf.Bytes(), nil
}
