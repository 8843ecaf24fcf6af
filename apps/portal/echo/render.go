package echoportal

import (
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/nav"
	"github.com/trezcool/masomo-portal/core/payment"
	"github.com/trezcool/masomo-portal/core/receipt"
	"github.com/trezcool/masomo-portal/core/registry"
	"github.com/trezcool/masomo-portal/core/session"
	appfs "github.com/trezcool/masomo-portal/fs"
)

const layoutTemplate = "_layout.gohtml"

type (
	// renderer holds one template set per page, each layered on the shared layout.
	renderer struct {
		pages map[string]*template.Template
	}

	// page is what every template receives.
	page struct {
		AppName string
		Title   string
		Session *session.Session
		Role    string
		Menu    []nav.MenuItem
		Active  string // section of the menu to highlight
		Flash   *flash
		Data    interface{}
	}

	pager struct {
		Page   core.Page
		Values url.Values
	}
)

var _ echo.Renderer = (*renderer)(nil)

var funcs = template.FuncMap{
	"money":       receipt.Money,
	"moneyOrDash": moneyOrDash,
	"cell":        func(c registry.Column, row registry.Row) template.HTML { return c.HTML(row) },
	"withPage":    withPage,
	"query":       func(vals url.Values) string { return "?" + vals.Encode() },
	"pagerOf":     func(p core.Page, vals url.Values) pager { return pager{Page: p, Values: vals} },
	"sortBy":      sortBy,
	"methods":     payment.Methods,
	"methodLabel": payment.MethodLabel,
	"title":       strings.Title,
	"statKey":     func(k string) string { return strings.Title(strings.ReplaceAll(k, "_", " ")) },
}

func newRenderer() (*renderer, error) {
	dir := appfs.PageTemplatesDir
	fps, err := fs.Glob(appfs.FS, path.Join(dir, "*.gohtml"))
	if err != nil {
		return nil, errors.Wrap(err, "globbing page templates")
	}

	r := &renderer{pages: make(map[string]*template.Template)}
	for _, fp := range fps {
		fname := path.Base(fp)
		if fname == layoutTemplate {
			continue
		}
		tmpl, err := template.New(fname).Funcs(funcs).ParseFS(appfs.FS, path.Join(dir, layoutTemplate), fp)
		if err != nil {
			return nil, errors.Wrap(err, fp)
		}
		r.pages[strings.TrimSuffix(fname, ".gohtml")] = tmpl.Option("missingkey=zero")
	}
	if len(r.pages) == 0 {
		return nil, errors.New("no page templates found")
	}
	return r, nil
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return errors.Errorf("unknown page %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// render writes the page name with the menu of the logged in user, never of the path.
func (s *Server) render(c echo.Context, code int, name, title string, data interface{}) error {
	p := page{
		AppName: s.Conf.AppName,
		Title:   title,
		Flash:   s.popFlash(c),
		Data:    data,
	}
	if sess, ok := contextSession(c); ok {
		role := session.CurrentRole(&sess)
		p.Session = &sess
		p.Role = role.String()
		p.Menu = nav.Menu(role)
		p.Active, _ = nav.Section(c.Request().URL.Path)
	}
	return c.Render(code, name, p)
}

func moneyOrDash(amount decimal.Decimal, currency string) string {
	if amount.IsZero() {
		return "-"
	}
	return receipt.Money(amount, currency)
}

// withPage returns the query string of vals on page n.
func withPage(vals url.Values, n int) string {
	out := make(url.Values, len(vals)+1)
	for k, v := range vals {
		out[k] = v
	}
	out.Set("page", strconv.Itoa(n))
	return "?" + out.Encode()
}

// sortBy returns the sort value a column header links to: ascending first, then descending.
func sortBy(current, key string) string {
	if current == key {
		return "-" + key
	}
	return key
}
