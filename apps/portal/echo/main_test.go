package echoportal

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/payment"
	"github.com/trezcool/masomo-portal/core/receipt"
	"github.com/trezcool/masomo-portal/core/registry"
	"github.com/trezcool/masomo-portal/core/session"
	"github.com/trezcool/masomo-portal/services/backend"
	"github.com/trezcool/masomo-portal/storage/session/inmem"
	"github.com/trezcool/masomo-portal/tests"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeBackend serves the payments calls from a BackendMock and the list pages from rows.
type fakeBackend struct {
	*payment.BackendMock

	mu        sync.Mutex
	rows      map[string][]registry.Row
	stats     map[string]interface{}
	created   []map[string]interface{}
	deleted   []string
	loggedOut int
	listErr   error
}

var _ Backend = (*fakeBackend)(nil)

func newFakeBackend() *fakeBackend {
	b := payment.NewBackendMock()
	b.ClassList = []payment.Class{{ID: 1, Name: "Grade 1"}, {ID: 2, Name: "Grade 2"}}
	b.Students = []payment.Student{{ID: 1, FullName: "Amina Njoroge", ClassID: 1, ClassName: "Grade 1"}}
	b.Records = []payment.PaymentRecord{
		{
			ID: 1, StudentName: "Amina Njoroge", ClassID: 1, ClassName: "Grade 1", PaymentType: "Tuition",
			TotalAmountDue: dec("100"), AmountPaid: dec("40"), Currency: "USD", Status: payment.StatusPartial,
			GuardianEmail: "njoroge@example.com",
		},
		{
			ID: 2, StudentName: "Brian Otieno", ClassID: 1, ClassName: "Grade 1",
			TotalAmountDue: dec("100"), Currency: "USD", Status: payment.StatusUnpaid,
		},
	}
	b.Invoices = []payment.Invoice{
		{ID: 10, InvoiceNumber: "INV-001", StudentName: "Amina Njoroge", TotalAmount: dec("100"), AmountPaid: dec("40"), Currency: "USD"},
	}
	b.Report = payment.ClassFeesReport{ClassName: "Grade 1", TotalStudents: 2, PartialCount: 1, UnpaidCount: 1, Currency: "USD"}

	return &fakeBackend{
		BackendMock: b,
		rows:        make(map[string][]registry.Row),
		stats:       make(map[string]interface{}),
	}
}

func (b *fakeBackend) List(_ context.Context, endpoint string) ([]registry.Row, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listErr != nil {
		return nil, b.listErr
	}
	return b.rows[endpoint], nil
}

func (b *fakeBackend) Create(_ context.Context, _ string, body map[string]interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created = append(b.created, body)
	return nil
}

func (b *fakeBackend) Delete(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, path)
	return nil
}

func (b *fakeBackend) Stats(context.Context, string) (map[string]interface{}, error) {
	return b.stats, nil
}

func (b *fakeBackend) Logout(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loggedOut++
	return nil
}

// fakeAuth accepts the password "secret" for its known users.
type fakeAuth struct {
	users map[string]session.Identity
}

func (a fakeAuth) Login(_ context.Context, identifier, password string) (backend.LoginResult, error) {
	ident, ok := a.users[identifier]
	if !ok || password != "secret" {
		return backend.LoginResult{}, &backend.Error{Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return backend.LoginResult{Identity: ident, Token: "token-" + identifier}, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

func (m *fakeMailer) SendMessages(messages ...*core.EmailMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, messages...)
}

type testEnv struct {
	srv     *Server
	backend *fakeBackend
	mailer  *fakeMailer
	logger  *testutil.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	conf := core.NewTestConfig()
	logger := new(testutil.Logger)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	payment.InitValidators(validate, translator)

	env := &testEnv{backend: newFakeBackend(), mailer: new(fakeMailer), logger: logger}
	srv, err := NewServer(&Deps{
		Conf:     conf,
		Logger:   logger,
		Sessions: session.NewProvider(inmem.NewStore(), conf.Server.SessionTTL),
		Auth: fakeAuth{users: map[string]session.Identity{
			"jane":   {UserID: "7", FullName: "Jane Doe", Role: "accountant"},
			"broken": {FullName: "No Id", Role: "admin"},
		}},
		BackendFor: func(session.Session) Backend { return env.backend },
		Mailer:     env.mailer,
		School:     receipt.NewSchool(conf.School),
		Validate:   validate,
		Translator: translator,
	})
	require.NoError(t, err)
	env.srv = srv
	return env
}

// login returns the session cookie of a fresh session for role.
func (env *testEnv) login(t *testing.T, role session.Role) *http.Cookie {
	sess := testutil.Login(t, env.srv.Sessions, role)
	value, err := env.srv.signCookie(sess)
	require.NoError(t, err)
	return &http.Cookie{Name: env.srv.Conf.Server.SessionCookie, Value: value}
}

type httpTest struct {
	name     string
	method   string
	path     string
	form     url.Values
	role     session.Role
	anon     bool
	wantCode int
	wantLoc  string
	wantBody []string
	denyBody []string
}

func newRequest(method, path string, form url.Values, cookies ...*http.Cookie) (*http.Request, *httptest.ResponseRecorder) {
	if method == "" {
		method = http.MethodGet
	}
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(c)
		}
	}
	return req, httptest.NewRecorder()
}

func (env *testEnv) do(method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req, rec := newRequest(method, path, form, cookies...)
	env.srv.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookie *http.Cookie
			if !tt.anon {
				cookie = env.login(t, tt.role)
			}
			rec := env.do(tt.method, tt.path, tt.form, cookie)
			checkResponse(t, tt, rec)
		})
	}
}

func checkResponse(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantLoc != "" {
		if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
			t.Errorf("failed! location = %q; wantLoc %q", loc, tt.wantLoc)
		}
	}
	body := rec.Body.String()
	for _, s := range tt.wantBody {
		if !strings.Contains(body, s) {
			t.Errorf("failed! body does not contain %q", s)
		}
	}
	for _, s := range tt.denyBody {
		if strings.Contains(body, s) {
			t.Errorf("failed! body contains %q", s)
		}
	}
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// flashOf decodes the flash set by a response, if any.
func flashOf(t *testing.T, rec *httptest.ResponseRecorder) *flash {
	c := responseCookie(rec, flashCookie)
	if c == nil || c.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	require.NoError(t, err)
	f := new(flash)
	require.NoError(t, json.Unmarshal(data, f))
	return f
}

func mockNow(t *testing.T, now time.Time) {
	orig := nowFunc
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = orig })
}

func errBackend(msg string) error {
	return &backend.Error{Status: http.StatusServiceUnavailable, Message: msg}
}
