package receipt

import (
	"embed"
	"encoding/base64"
	"html/template"
	"io"

	"github.com/pkg/errors"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

type (
	// HTMLRenderer renders receipts as standalone printable pages.
	HTMLRenderer struct {
		tmpl *template.Template
	}

	// HTMLOptions tune one rendering.
	HTMLOptions struct {
		AutoPrint bool   // print as soon as the page is loaded
		PDFURL    string // download link, optional
	}

	htmlData struct {
		Receipt   Receipt
		Logo      template.URL
		QRCode    template.URL
		AutoPrint bool
		PDFURL    string
	}
)

func NewHTMLRenderer() (*HTMLRenderer, error) {
	tmpl, err := template.New("receipt").
		Funcs(template.FuncMap{"money": Money}).
		ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parsing receipt templates")
	}
	return &HTMLRenderer{tmpl: tmpl}, nil
}

func pngDataURI(png []byte) template.URL {
	if len(png) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}

// Render writes r as an HTML document to w.
func (h *HTMLRenderer) Render(w io.Writer, r Receipt, opts HTMLOptions) error {
	qr, err := r.QRCode()
	if err != nil {
		return err
	}
	data := htmlData{
		Receipt:   r,
		Logo:      pngDataURI(r.School.Logo),
		QRCode:    pngDataURI(qr),
		AutoPrint: opts.AutoPrint,
		PDFURL:    opts.PDFURL,
	}
	if err = h.tmpl.ExecuteTemplate(w, "receipt", data); err != nil {
		return errors.Wrap(err, "rendering receipt")
	}
	return nil
}
