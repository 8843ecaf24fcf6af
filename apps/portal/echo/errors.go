package echoportal

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/payment"
	"github.com/trezcool/masomo-portal/core/receipt"
	"github.com/trezcool/masomo-portal/services/backend"
)

var (
	errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "You do not have access to this page.")
	errHttpNotFound  = echo.NewHTTPError(http.StatusNotFound, "This page does not exist.")
)

type errorData struct {
	Code    int
	Status  string
	Message string
	Home    string
}

// newAppHTTPErrorHandler returns an echo.HTTPErrorHandler rendering errors as portal pages.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(s *Server, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			code = origErr.Code
			if msg, ok := origErr.Message.(string); ok {
				message = msg
			}
		case *backend.Error:
			switch origErr.Status {
			case http.StatusUnauthorized:
				// the backend token is gone: start over
				if sess, ok := contextSession(c); ok {
					_ = s.Sessions.Logout(c.Request().Context(), sess.ID)
				}
				s.clearSessionCookie(c)
				s.setFlash(c, flashInfo, "Your session has expired, please log in again.")
				if err = redirectToLogin(c); err != nil {
					c.Echo().Logger.Error(err)
				}
				return
			case http.StatusForbidden, http.StatusNotFound:
				code = origErr.Status
			default:
				code = http.StatusBadGateway
			}
			message = origErr.Message
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			switch errors.Cause(err) {
			case receipt.ErrInvalidToken:
				code, message = http.StatusNotFound, "This receipt link is not valid."
			case receipt.ErrTokenExpired:
				code, message = http.StatusGone, "This receipt link has expired. Reprint it from the payments page."
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(code)
				args := []interface{}{errors.Wrap(err, msg)}
				if sess, ok := contextSession(c); ok {
					args = append(args, sess)
				}
				s.Logger.Error(msg, args...)

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if message == "" || (code == http.StatusInternalServerError && !c.Echo().Debug) {
			message = http.StatusText(code)
		}
		if c.Echo().Debug && code == http.StatusInternalServerError {
			message = err.Error()
		}

		if c.Request().Method == http.MethodHead { // Issue #608
			err = c.NoContent(code)
		} else {
			data := errorData{Code: code, Status: http.StatusText(code), Message: message, Home: "/login"}
			if _, ok := contextSession(c); ok {
				data.Home = "/"
			}
			err = s.render(c, code, "error", data.Status, data)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}

const unreachableText = "The school server could not be reached, please try again."

// backendAlert turns a failed call into the alert shown on the page, using the backend message as is.
// An expired backend token is returned as an error so the error handler sends the user to the login page.
func (s *Server) backendAlert(c echo.Context, err error) (string, error) {
	if backend.IsUnauthorized(err) {
		return "", err
	}
	if vErr, ok := core.AsValidationError(err); ok {
		return validationMessage(vErr), nil
	}
	if bErr, ok := backend.AsError(err); ok {
		return bErr.Message, nil
	}
	if errors.Cause(err) == payment.ErrRecordNotFound {
		return "This payment record no longer exists.", nil
	}

	args := []interface{}{err}
	if sess, ok := contextSession(c); ok {
		args = append(args, sess)
	}
	s.Logger.Error("calling backend", args...)
	return unreachableText, nil
}

func validationMessage(vErr *core.ValidationError) string {
	if len(vErr.Fields) == 0 {
		return vErr.Error()
	}
	parts := make([]string, 0, len(vErr.Fields))
	for _, f := range vErr.Fields {
		parts = append(parts, strings.ReplaceAll(f.Field, "_", " ")+": "+f.Error)
	}
	return strings.Join(parts, "; ")
}
