package echoportal

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core/session"
)

func TestAccess(t *testing.T) {
	env := newTestEnv(t)

	tests := []httpTest{
		{name: "anonymous home", path: "/", anon: true, wantCode: http.StatusSeeOther, wantLoc: "/login"},
		{name: "home", path: "/", role: session.RoleParent, wantCode: http.StatusSeeOther, wantLoc: "/parent"},
		{
			name: "anonymous page", path: "/admin/students?q=amina", anon: true,
			wantCode: http.StatusSeeOther, wantLoc: "/login?next=%2Fadmin%2Fstudents%3Fq%3Damina",
		},
		{
			name: "anonymous post", method: http.MethodPost, path: "/admin/payments/records", form: url.Values{},
			anon: true, wantCode: http.StatusSeeOther, wantLoc: "/login",
		},
		{
			name: "other role section", path: "/admin/payments", role: session.RoleParent,
			wantCode: http.StatusForbidden, wantBody: []string{"403", "My Children"}, denyBody: []string{"User Management"},
		},
		{
			name: "nested path of other role", path: "/admin/payments/receipts/whatever", role: session.RoleTeacher,
			wantCode: http.StatusForbidden,
		},
		{name: "unknown section", path: "/admin/nope", role: session.RoleAdmin, wantCode: http.StatusNotFound},
		{name: "unknown root", path: "/wp-admin", role: session.RoleAdmin, wantCode: http.StatusNotFound},
		{
			name: "own menu", path: "/accountant", role: session.RoleAccountant,
			wantCode: http.StatusOK, wantBody: []string{"/accountant/payments", "Invoices"}, denyBody: []string{"User Management"},
		},
		{name: "trailing slash", path: "/accountant/", role: session.RoleAccountant, wantCode: http.StatusOK},
		{name: "shared page", path: "/accountant/payments", role: session.RoleAccountant, wantCode: http.StatusOK},
		{name: "login page when logged in", path: "/login", role: session.RoleHR, wantCode: http.StatusSeeOther, wantLoc: "/hr"},
	}
	env.run(t, tests)
}

func TestSessionCookie(t *testing.T) {
	env := newTestEnv(t)

	t.Run("forged", func(t *testing.T) {
		forged := &http.Cookie{Name: env.srv.Conf.Server.SessionCookie, Value: "not.a.token"}
		rec := env.do(http.MethodGet, "/admin", nil, forged)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?next=%2Fadmin", rec.Header().Get("Location"))
		cleared := responseCookie(rec, env.srv.Conf.Server.SessionCookie)
		require.NotNil(t, cleared)
		assert.Empty(t, cleared.Value)
	})

	t.Run("revoked session", func(t *testing.T) {
		cookie := env.login(t, session.RoleAdmin)
		id, err := env.srv.parseCookie(cookie.Value)
		require.NoError(t, err)
		require.NoError(t, env.srv.Sessions.Logout(context.Background(), id))

		rec := env.do(http.MethodGet, "/admin", nil, cookie)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})

	t.Run("signed with another key", func(t *testing.T) {
		other := newTestEnv(t)
		other.srv.secretKey = []byte("another secret")
		cookie := other.login(t, session.RoleAdmin)

		rec := env.do(http.MethodGet, "/admin", nil, cookie)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestLogin(t *testing.T) {
	form := func(identifier, password, next string) url.Values {
		return url.Values{"identifier": {identifier}, "password": {password}, "next": {next}}
	}

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
		wantLoc  string
		wantBody string
	}{
		{name: "blank identifier", form: form("  ", "secret", ""), wantCode: http.StatusBadRequest, wantBody: "invalid-feedback"},
		{name: "wrong password", form: form("jane", "nope", ""), wantCode: http.StatusUnauthorized, wantBody: "Invalid credentials"},
		{name: "incomplete account", form: form("broken", "secret", ""), wantCode: http.StatusBadGateway, wantBody: "incomplete account"},
		{name: "home", form: form("jane", "secret", ""), wantCode: http.StatusSeeOther, wantLoc: "/accountant"},
		{name: "next", form: form("jane", "secret", "/accountant/invoices?q=inv"), wantCode: http.StatusSeeOther, wantLoc: "/accountant/invoices?q=inv"},
		{name: "next of other role", form: form("jane", "secret", "/admin/users"), wantCode: http.StatusSeeOther, wantLoc: "/accountant"},
		{name: "external next", form: form("jane", "secret", "//evil.example.com"), wantCode: http.StatusSeeOther, wantLoc: "/accountant"},
		{name: "absolute next", form: form("jane", "secret", "https://evil.example.com/accountant"), wantCode: http.StatusSeeOther, wantLoc: "/accountant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			rec := env.do(http.MethodPost, "/login", tt.form)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}

			cookie := responseCookie(rec, env.srv.Conf.Server.SessionCookie)
			if tt.wantCode != http.StatusSeeOther {
				assert.Nil(t, cookie)
				return
			}
			require.NotNil(t, cookie)
			assert.True(t, cookie.HttpOnly)

			id, err := env.srv.parseCookie(cookie.Value)
			require.NoError(t, err)
			sess, err := env.srv.Sessions.Current(context.Background(), id)
			require.NoError(t, err)
			assert.Equal(t, session.RoleAccountant, sess.Role)
			assert.Equal(t, "token-jane", sess.Token)

			f := flashOf(t, rec)
			require.NotNil(t, f)
			assert.Equal(t, "Welcome Jane Doe", f.Message)
		})
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.login(t, session.RoleTeacher)
	id, err := env.srv.parseCookie(cookie.Value)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/logout", url.Values{}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, 1, env.backend.loggedOut)

	_, err = env.srv.Sessions.Current(context.Background(), id)
	assert.Equal(t, session.ErrNotFound, err)

	f := flashOf(t, rec)
	require.NotNil(t, f)
	assert.Equal(t, flashInfo, f.Kind)

	// the old cookie no longer opens anything
	rec = env.do(http.MethodGet, "/teacher", nil, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestSafeNext(t *testing.T) {
	tests := []struct {
		next string
		want string
	}{
		{next: "", want: "/admin"},
		{next: "/admin/payments?tab=report", want: "/admin/payments?tab=report"},
		{next: "/parent/children", want: "/admin"},
		{next: "//example.com/admin", want: "/admin"},
		{next: "/\\example.com", want: "/admin"},
		{next: "admin/users", want: "/admin"},
	}
	for _, tt := range tests {
		t.Run(tt.next, func(t *testing.T) {
			assert.Equal(t, tt.want, safeNext(session.RoleAdmin, tt.next))
		})
	}
}
