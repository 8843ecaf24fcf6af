package echoportal

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	flashCookie     = "flash"
	contextFlashKey = "flash"

	flashSuccess = "success"
	flashInfo    = "info"
	flashError   = "danger"
)

// flash is the alert shown once on the page following a redirect.
type flash struct {
	Kind     string `json:"k"`
	Message  string `json:"m"`
	Link     string `json:"l,omitempty"`
	LinkText string `json:"t,omitempty"`
}

func (s *Server) setFlash(c echo.Context, kind, msg string) {
	s.setFlashLink(c, kind, msg, "", "")
}

func (s *Server) setFlashLink(c echo.Context, kind, msg, link, linkText string) {
	data, err := json.Marshal(flash{Kind: kind, Message: msg, Link: link, LinkText: linkText})
	if err != nil {
		return
	}
	c.SetCookie(s.newCookie(flashCookie, base64.RawURLEncoding.EncodeToString(data)))
}

// popFlash returns the pending flash, set during this request or carried by the cookie, and clears it.
func (s *Server) popFlash(c echo.Context) *flash {
	if f, ok := c.Get(contextFlashKey).(*flash); ok {
		return f
	}
	cookie, err := c.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}

	clear := s.newCookie(flashCookie, "")
	clear.MaxAge = -1
	c.SetCookie(clear)

	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	f := new(flash)
	if err = json.Unmarshal(data, f); err != nil || f.Message == "" {
		return nil
	}
	switch f.Kind {
	case flashSuccess, flashInfo, flashError:
	default:
		f.Kind = flashInfo
	}
	if !strings.HasPrefix(f.Link, "/") || strings.HasPrefix(f.Link, "//") {
		f.Link, f.LinkText = "", ""
	}
	return f
}
