package backend

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const maxRawMessage = 300

// Error is a non-2xx backend response. Message is meant to be shown to the user as is.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func statusOf(err error) int {
	if bErr, ok := errors.Cause(err).(*Error); ok {
		return bErr.Status
	}
	return 0
}

// AsError unwraps err into a backend *Error.
func AsError(err error) (*Error, bool) {
	bErr, ok := errors.Cause(err).(*Error)
	return bErr, ok
}

func IsNotFound(err error) bool     { return statusOf(err) == http.StatusNotFound }
func IsUnauthorized(err error) bool { return statusOf(err) == http.StatusUnauthorized }
func IsForbidden(err error) bool    { return statusOf(err) == http.StatusForbidden }

// newError extracts the user facing message of a failed response:
// the "message", "detail" or "error" field, then validation errors, then the raw text, then the status text.
func newError(status int, body string) *Error {
	e := &Error{Status: status}
	body = strings.TrimSpace(body)

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(body), &obj); err == nil {
		for _, key := range []string{"message", "detail", "error"} {
			if msg := firstString(obj[key]); msg != "" {
				e.Message = msg
				return e
			}
		}
		if msg := firstString(obj["non_field_errors"]); msg != "" {
			e.Message = msg
			return e
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstString(obj[k]); msg != "" {
				e.Message = k + ": " + msg
				return e
			}
		}
	} else if body != "" && !strings.HasPrefix(body, "<") {
		if utf8.RuneCountInString(body) > maxRawMessage {
			body = string([]rune(body)[:maxRawMessage]) + "..."
		}
		e.Message = body
		return e
	}

	e.Message = http.StatusText(status)
	if e.Message == "" {
		e.Message = "backend request failed"
	}
	return e
}

func firstString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []interface{}:
		for _, item := range val {
			if s := firstString(item); s != "" {
				return s
			}
		}
	}
	return ""
}
