package echoportal

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core/session"
)

func TestPopFlash(t *testing.T) {
	env := newTestEnv(t)
	encode := func(f flash) *http.Cookie {
		data, err := json.Marshal(f)
		require.NoError(t, err)
		return &http.Cookie{Name: flashCookie, Value: base64.RawURLEncoding.EncodeToString(data)}
	}

	tests := []struct {
		name   string
		cookie *http.Cookie
		want   *flash
	}{
		{name: "none", want: nil},
		{name: "garbage", cookie: &http.Cookie{Name: flashCookie, Value: "%%%"}, want: nil},
		{name: "empty message", cookie: encode(flash{Kind: flashInfo}), want: nil},
		{
			name:   "local link",
			cookie: encode(flash{Kind: flashSuccess, Message: "Saved", Link: "/admin/payments/receipts/abc", LinkText: "Print"}),
			want:   &flash{Kind: flashSuccess, Message: "Saved", Link: "/admin/payments/receipts/abc", LinkText: "Print"},
		},
		{
			name:   "external link dropped",
			cookie: encode(flash{Kind: flashSuccess, Message: "Saved", Link: "//evil.example.com", LinkText: "Print"}),
			want:   &flash{Kind: flashSuccess, Message: "Saved"},
		},
		{
			name:   "script link dropped",
			cookie: encode(flash{Kind: flashSuccess, Message: "Saved", Link: "javascript:alert(1)"}),
			want:   &flash{Kind: flashSuccess, Message: "Saved"},
		},
		{
			name:   "unknown kind",
			cookie: encode(flash{Kind: "primary onmouseover", Message: "Hi"}),
			want:   &flash{Kind: flashInfo, Message: "Hi"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/login", nil, tt.cookie)
			c := env.srv.app.NewContext(req, rec)

			assert.Equal(t, tt.want, env.srv.popFlash(c))
			if tt.cookie != nil {
				cleared := responseCookie(rec, flashCookie)
				require.NotNil(t, cleared)
				assert.Equal(t, -1, cleared.MaxAge)
			}
		})
	}
}

func TestFlash_ShownOnce(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, session.RoleAccountant)

	rec := env.do(http.MethodPost, "/accountant/payments/records/2/status", url.Values{"status": {"paid"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	pending := responseCookie(rec, flashCookie)
	require.NotNil(t, pending)

	rec = env.do(http.MethodGet, rec.Header().Get("Location"), nil, cookie, pending)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Status of record #2 set to paid by hand.")
	cleared := responseCookie(rec, flashCookie)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	rec = env.do(http.MethodGet, "/accountant/payments", nil, cookie)
	assert.NotContains(t, rec.Body.String(), "set to paid by hand")
}
