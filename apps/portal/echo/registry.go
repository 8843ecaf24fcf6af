package echoportal

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/masomo-portal/core/registry"
)

type (
	listQuery struct {
		Search string `query:"q"`
		Sort   string `query:"sort"`
		Page   int    `query:"page"`
		Create bool   `query:"create"` // reopen the create form
	}

	listData struct {
		Base     string // section path
		Binding  registry.Binding
		Resource *registry.Resource
		Listing  registry.Listing
		Query    listQuery
		Values   url.Values // filters, without the page
		Alert    string
	}
)

func (q listQuery) values() url.Values {
	vals := make(url.Values)
	if q.Search != "" {
		vals.Set("q", q.Search)
	}
	if q.Sort != "" {
		vals.Set("sort", q.Sort)
	}
	return vals
}

func (s *Server) registerRegistry() {
	for p, b := range registry.Bindings {
		s.app.GET(p, s.listResource(p, b))
		if b.CanCreate() {
			s.app.POST(p, s.createResource(p, b))
		}
		if b.CanDelete() {
			s.app.POST(p+"/:id/delete", s.deleteResource(p, b))
		}
		if b.Resource.ReceiptLinks {
			s.app.GET(p+"/:id/receipt", s.invoiceReceipt)
		}
	}
}

func (s *Server) listResource(base string, b registry.Binding) echo.HandlerFunc {
	res := b.Resource
	return func(c echo.Context) error {
		var q listQuery
		if err := bind(c, &q); err != nil {
			return err
		}
		data := listData{Base: base, Binding: b, Resource: res, Query: q, Values: q.values()}

		sess, _ := contextSession(c)
		rows, err := s.BackendFor(sess).List(c.Request().Context(), res.Endpoint)
		if err != nil {
			if data.Alert, err = s.backendAlert(c, err); err != nil {
				return err
			}
		}
		data.Listing = res.List(rows, q.Search, q.Sort, q.Page, s.Conf.PageSize)
		return s.render(c, http.StatusOK, "list", res.Title, data)
	}
}

func (s *Server) createResource(base string, b registry.Binding) echo.HandlerFunc {
	res := b.Resource
	return func(c echo.Context) error {
		form, err := c.FormParams()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, badRequestText)
		}
		body, err := res.Body(form)
		if err == nil {
			sess, _ := contextSession(c)
			err = s.BackendFor(sess).Create(c.Request().Context(), res.Endpoint, body)
		}
		if err != nil {
			msg, herr := s.backendAlert(c, err)
			if herr != nil {
				return herr
			}
			s.setFlash(c, flashError, msg)
			return c.Redirect(http.StatusSeeOther, base+"?create=1")
		}
		s.setFlash(c, flashSuccess, res.Title+": entry created.")
		return c.Redirect(http.StatusSeeOther, base)
	}
}

func (s *Server) deleteResource(base string, b registry.Binding) echo.HandlerFunc {
	res := b.Resource
	return func(c echo.Context) error {
		id, err := paramID(c, "id")
		if err != nil {
			return err
		}
		sess, _ := contextSession(c)
		if err = s.BackendFor(sess).Delete(c.Request().Context(), res.DeletePath(strconv.Itoa(id))); err != nil {
			msg, herr := s.backendAlert(c, err)
			if herr != nil {
				return herr
			}
			s.setFlash(c, flashError, msg)
		} else {
			s.setFlash(c, flashSuccess, res.Title+": entry deleted.")
		}
		return c.Redirect(http.StatusSeeOther, base)
	}
}
