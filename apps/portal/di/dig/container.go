package dig_container

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/dig"

	echoportal "github.com/trezcool/masomo-portal/apps/portal/echo"
	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/receipt"
	"github.com/trezcool/masomo-portal/core/session"
	"github.com/trezcool/masomo-portal/services/backend"
	emailsvc "github.com/trezcool/masomo-portal/services/email"
	logsvc "github.com/trezcool/masomo-portal/services/logger"
	"github.com/trezcool/masomo-portal/storage/database"
	"github.com/trezcool/masomo-portal/storage/session/inmem"
	"github.com/trezcool/masomo-portal/storage/session/redisstore"
	"github.com/trezcool/masomo-portal/storage/session/sqlstore"
)

type (
	DBLoggerParam struct {
		dig.In
		Logger core.Logger `name:"dbLogger"`
	}

	// SessionStore is the configured session store and whatever must be closed with it.
	SessionStore struct {
		Store   session.Store
		Purger  Purger // nil unless expired sessions pile up in the store
		closers []io.Closer
	}

	// Purger deletes the sessions expired at a given time.
	Purger interface {
		Purge(ctx context.Context, now time.Time) (int64, error)
	}
)

// Close releases the connections behind the store.
func (s *SessionStore) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "PORTAL : ", log.LstdFlags)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func openSQLSessions(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(ctx, conf); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, conf)
	if err != nil {
		return nil, err
	}
	if err = database.Migrate(db.DB, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// newSessionStore builds the store named by conf.Session.Store.
func newSessionStore(conf *core.Config, loggerParam DBLoggerParam) *SessionStore {
	ctx := context.Background()
	setUp := func() (*SessionStore, error) {
		switch conf.Session.Store {
		case "", "memory":
			return &SessionStore{Store: inmem.NewStore()}, nil
		case "redis":
			rdb, err := redisstore.NewClient(ctx, conf.Session.RedisAddr, conf.Session.RedisDB)
			if err != nil {
				return nil, err
			}
			return &SessionStore{Store: redisstore.NewStore(rdb), closers: []io.Closer{rdb}}, nil
		case "postgres":
			db, err := openSQLSessions(ctx, conf)
			if err != nil {
				return nil, err
			}
			store := sqlstore.NewStore(db)
			return &SessionStore{Store: store, Purger: store, closers: []io.Closer{db}}, nil
		default:
			return nil, errors.Errorf("unknown session store %q", conf.Session.Store)
		}
	}

	store, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up session store: %v", err), err)
	}
	return store
}

func newSessionProvider(conf *core.Config, store *SessionStore) *session.Provider {
	return session.NewProvider(store.Store, conf.Server.SessionTTL)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	sender := emailsvc.NewSender(conf)
	if conf.Debug {
		return emailsvc.NewConsoleService(sender, os.Stdout, logger)
	}
	return emailsvc.NewSendgridService(conf.SendgridAPIKey, sender, logger)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newBackendClient(conf *core.Config, reg *prometheus.Registry) (*backend.Client, error) {
	metrics, err := backend.NewMetrics(reg)
	if err != nil {
		return nil, err
	}
	return backend.NewClient(conf.Backend.BaseURL, conf.Backend.Timeout, backend.WithMetrics(metrics))
}

// newSchool is the receipt issuer. A logo that cannot be read is left out.
func newSchool(conf *core.Config, logger core.Logger) receipt.School {
	school := receipt.NewSchool(conf.School)
	logo, err := receipt.LoadLogo(conf.School.LogoPath)
	if err != nil {
		logger.Warn(fmt.Sprintf("school logo %q ignored", conf.School.LogoPath), err)
	}
	school.Logo = logo
	return school
}

func newDeps(
	conf *core.Config,
	logger core.Logger,
	sessions *session.Provider,
	client *backend.Client,
	mailer core.EmailService,
	school receipt.School,
	validate *validator.Validate,
	translator ut.Translator,
) *echoportal.Deps {
	return &echoportal.Deps{
		Conf:       conf,
		Logger:     logger,
		Sessions:   sessions,
		Auth:       client,
		BackendFor: echoportal.NewBackendFor(client),
		Mailer:     mailer,
		School:     school,
		Validate:   validate,
		Translator: translator,
	}
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newSessionStore))
	must(c.Provide(newSessionProvider))
	must(c.Provide(newEmailService))
	must(c.Provide(newRegistry))
	must(c.Provide(newBackendClient))
	must(c.Provide(newSchool))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(newDeps))
	must(c.Provide(echoportal.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
