// Package echoportal is the server rendered portal: login, role menus, list pages,
// the payments page and printable receipts, all backed by the school REST API.
package echoportal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/payment"
	"github.com/trezcool/masomo-portal/core/receipt"
	"github.com/trezcool/masomo-portal/core/registry"
	"github.com/trezcool/masomo-portal/core/session"
	"github.com/trezcool/masomo-portal/services/backend"
)

var nowFunc = time.Now // mockable

type (
	// Backend is the REST API acting on behalf of one session.
	Backend interface {
		payment.Backend
		List(ctx context.Context, endpoint string) ([]registry.Row, error)
		Create(ctx context.Context, endpoint string, body map[string]interface{}) error
		Delete(ctx context.Context, path string) error
		Stats(ctx context.Context, endpoint string) (map[string]interface{}, error)
		Logout(ctx context.Context) error
	}

	// Authenticator exchanges credentials for a backend identity and token.
	Authenticator interface {
		Login(ctx context.Context, identifier, password string) (backend.LoginResult, error)
	}

	Deps struct {
		Conf       *core.Config
		Logger     core.Logger
		Sessions   *session.Provider
		Auth       Authenticator
		BackendFor func(sess session.Session) Backend
		Mailer     core.EmailService
		School     receipt.School
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		*Deps
		app       *echo.Echo
		receipts  *receipt.HTMLRenderer
		errors    chan error
		shutdown  chan os.Signal
		secretKey []byte
	}
)

// NewServer builds the portal. It listens once Start is called.
func NewServer(deps *Deps) (*Server, error) {
	receipts, err := receipt.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	renderer, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Deps:      deps,
		app:       echo.New(),
		receipts:  receipts,
		errors:    make(chan error, 1),
		shutdown:  make(chan os.Signal, 1),
		secretKey: []byte(deps.Conf.SecretKey),
	}
	s.app.Renderer = renderer
	s.setup()
	return s, nil
}

// NewBackendFor adapts a backend client into Deps.BackendFor.
func NewBackendFor(client *backend.Client) func(session.Session) Backend {
	return func(sess session.Session) Backend { return client.For(sess) }
}

func (s *Server) setup() {
	conf := s.Conf

	s.app.HideBanner = true
	s.app.Debug = conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s, s.SignalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
	}))
	s.app.Use(s.sessionMiddleware, s.accessMiddleware)

	s.app.GET("/", s.home)
	s.app.GET("/login", s.loginPage)
	s.app.POST("/login", s.login)
	s.app.POST("/logout", s.logout)

	s.registerDashboards()
	s.registerRegistry()
	s.registerPayments()
}

// Start listens until the server is shut down. Listen errors are sent on Errors.
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error               { return s.errors }
func (s *Server) ShutdownSignal() <-chan os.Signal   { return s.shutdown }
func (s *Server) Shutdown(ctx context.Context) error { return s.app.Shutdown(ctx) }
func (s *Server) Close() error                       { return s.app.Close() }

// SignalShutdown asks the process to shut down gracefully.
func (s *Server) SignalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
