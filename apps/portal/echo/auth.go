package echoportal

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/nav"
	"github.com/trezcool/masomo-portal/core/session"
	"github.com/trezcool/masomo-portal/services/backend"
)

const contextSessionKey = "session"

var errInvalidCookie = errors.New("invalid session cookie")

// cookieClaims is the whole content of the session cookie: the id of a server side session.
type cookieClaims struct {
	jwt.StandardClaims
}

type loginForm struct {
	Identifier string `form:"identifier" validate:"required,notblank"`
	Password   string `form:"password" validate:"required"`
	Next       string `form:"next"`
}

func (s *Server) signCookie(sess session.Session) (string, error) {
	claims := cookieClaims{StandardClaims: jwt.StandardClaims{
		Issuer:   s.Conf.AppName,
		Subject:  sess.ID,
		IssuedAt: sess.CreatedAt.Unix(),
	}}
	if !sess.ExpiresAt.IsZero() {
		claims.ExpiresAt = sess.ExpiresAt.Unix()
	}
	ss, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	return ss, errors.Wrap(err, "signing session cookie")
}

func (s *Server) parseCookie(value string) (string, error) {
	claims := new(cookieClaims)
	parser := jwt.Parser{ValidMethods: []string{jwt.SigningMethodHS256.Alg()}}
	token, err := parser.ParseWithClaims(value, claims, func(*jwt.Token) (interface{}, error) { return s.secretKey, nil })
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", errInvalidCookie
	}
	return claims.Subject, nil
}

func (s *Server) setSessionCookie(c echo.Context, sess session.Session) error {
	value, err := s.signCookie(sess)
	if err != nil {
		return err
	}
	cookie := s.newCookie(s.Conf.Server.SessionCookie, value)
	if !sess.ExpiresAt.IsZero() {
		cookie.Expires = sess.ExpiresAt
	}
	c.SetCookie(cookie)
	return nil
}

func (s *Server) clearSessionCookie(c echo.Context) {
	cookie := s.newCookie(s.Conf.Server.SessionCookie, "")
	cookie.MaxAge = -1
	cookie.Expires = time.Unix(0, 0)
	c.SetCookie(cookie)
}

func (s *Server) newCookie(name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   !(s.Conf.Debug || s.Conf.TestMode),
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionMiddleware loads the session named by the cookie, if any, into the context.
// A stale or forged cookie is dropped.
func (s *Server) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(s.Conf.Server.SessionCookie)
		if err != nil || cookie.Value == "" {
			return next(c)
		}

		id, err := s.parseCookie(cookie.Value)
		if err != nil {
			s.clearSessionCookie(c)
			return next(c)
		}
		sess, err := s.Sessions.Current(c.Request().Context(), id)
		if err == session.ErrNotFound {
			s.clearSessionCookie(c)
			return next(c)
		} else if err != nil {
			return errors.Wrap(err, "loading session")
		}
		c.Set(contextSessionKey, sess)
		return next(c)
	}
}

func contextSession(c echo.Context) (session.Session, bool) {
	sess, ok := c.Get(contextSessionKey).(session.Session)
	return sess, ok && !sess.IsZero()
}

// contextRole is the role of the logged in user. The URL never takes part in it.
func contextRole(c echo.Context) session.Role {
	sess, ok := contextSession(c)
	if !ok {
		return session.Unauthenticated
	}
	return session.CurrentRole(&sess)
}

func isPublic(p string) bool {
	switch p {
	case "/", "/login", "/logout":
		return true
	}
	return false
}

// accessMiddleware sends anonymous users to the login page and checks every other path against the role menus.
func (s *Server) accessMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		if isPublic(p) {
			return next(c)
		}
		if _, ok := contextSession(c); !ok {
			return redirectToLogin(c)
		}
		switch nav.Resolve(contextRole(c), p) {
		case nav.Allowed:
			return next(c)
		case nav.Forbidden:
			return errHttpForbidden
		default:
			return errHttpNotFound
		}
	}
}

func redirectToLogin(c echo.Context) error {
	target := "/login"
	if req := c.Request(); req.Method == http.MethodGet {
		target += "?" + url.Values{"next": {req.URL.RequestURI()}}.Encode()
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// safeNext returns next when it is a local page role may open, else the role home.
func safeNext(role session.Role, next string) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") && !strings.HasPrefix(next, "/\\") {
		if nav.Resolve(role, next) == nav.Allowed {
			return next
		}
	}
	return nav.Home(role)
}

func (s *Server) home(c echo.Context) error {
	if _, ok := contextSession(c); !ok {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	return c.Redirect(http.StatusSeeOther, nav.Home(contextRole(c)))
}

func (s *Server) loginPage(c echo.Context) error {
	if _, ok := contextSession(c); ok {
		return c.Redirect(http.StatusSeeOther, nav.Home(contextRole(c)))
	}
	return s.render(c, http.StatusOK, "login", "Login", loginData{Next: c.QueryParam("next")})
}

type loginData struct {
	Identifier string
	Next       string
	Errors     map[string]string
}

func (s *Server) login(c echo.Context) error {
	var form loginForm
	if err := bind(c, &form); err != nil {
		return err
	}
	data := loginData{Identifier: form.Identifier, Next: form.Next}

	if err := s.Validate.Struct(form); err != nil {
		vErr, _ := core.AsValidationError(core.TranslateValidationErrors(err, s.Translator))
		if vErr == nil {
			return err
		}
		data.Errors = vErr.FieldMap()
		return s.render(c, http.StatusBadRequest, "login", "Login", data)
	}

	ctx := c.Request().Context()
	res, err := s.Auth.Login(ctx, core.CleanString(form.Identifier), form.Password)
	if err != nil {
		bErr, ok := backend.AsError(err)
		if !ok {
			return errors.Wrap(err, "logging in")
		}
		c.Set(contextFlashKey, &flash{Kind: flashError, Message: bErr.Message})
		return s.render(c, http.StatusUnauthorized, "login", "Login", data)
	}

	sess, err := s.Sessions.Login(ctx, res.Identity, res.Token)
	if err == session.ErrInvalidIdentity {
		c.Set(contextFlashKey, &flash{Kind: flashError, Message: "The server returned an incomplete account, please contact the administrator."})
		return s.render(c, http.StatusBadGateway, "login", "Login", data)
	} else if err != nil {
		return errors.Wrap(err, "starting session")
	}
	if err = s.setSessionCookie(c, sess); err != nil {
		return err
	}

	role := session.CurrentRole(&sess)
	msg := "Welcome " + sess.FullName
	if res.Message != "" {
		msg = res.Message
	}
	s.setFlash(c, flashSuccess, msg)
	return c.Redirect(http.StatusSeeOther, safeNext(role, form.Next))
}

func (s *Server) logout(c echo.Context) error {
	if sess, ok := contextSession(c); ok {
		ctx := c.Request().Context()
		if err := s.BackendFor(sess).Logout(ctx); err != nil {
			s.Logger.Warn("revoking backend token", err, sess)
		}
		if err := s.Sessions.Logout(ctx, sess.ID); err != nil {
			return err
		}
	}
	s.clearSessionCookie(c)
	s.setFlash(c, flashInfo, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, "/login")
}
