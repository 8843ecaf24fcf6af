// Package database opens, creates and migrates the Postgres database holding portal sessions.
package database

import (
	"context"
	"database/sql"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/masomo-portal/core"
	appfs "github.com/trezcool/masomo-portal/fs"
)

var (
	gooseRunFunc = goose.Run
	sleepFunc    = time.Sleep
)

// DSN returns the connection URL of dbName, as the admin user when admin is set and one is configured.
func DSN(conf *core.Config, dbName string, admin bool) string {
	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func open(conf *core.Config, dbName string, admin bool) (*sqlx.DB, error) {
	db, err := sqlx.Open(conf.Database.Engine, DSN(conf, dbName, admin))
	return db, errors.Wrap(err, "opening database")
}

// Open connects to the portal database and waits for it to answer.
func Open(ctx context.Context, conf *core.Config) (*sqlx.DB, error) {
	db, err := open(conf, conf.Database.Name, false)
	if err != nil {
		return nil, err
	}
	if err = ping(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, db core.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		if ctx.Err() != nil {
			break
		}
		sleepFunc(time.Duration(attempts) * 100 * time.Millisecond)
	}
	return errors.Wrap(err, "database ping timeout")
}

func exists(ctx context.Context, db core.DBExecutor, query, name string) (bool, error) {
	var found bool
	err := db.GetContext(ctx, &found, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return found, err
}

// CreateIfNotExist creates the application user (as the admin user) and the database (as the application user).
func CreateIfNotExist(ctx context.Context, conf *core.Config) error {
	admin, err := open(conf, "postgres", true)
	if err != nil {
		return err
	}
	defer func() { _ = admin.Close() }()
	if err = ping(ctx, admin); err != nil {
		return err
	}

	if usr := conf.Database.User; usr != "" {
		found, err := exists(ctx, admin, "SELECT true FROM pg_roles WHERE rolname = $1", usr)
		if err != nil {
			return errors.Wrap(err, "checking app user")
		}
		if !found {
			q := "CREATE USER " + pq.QuoteIdentifier(usr) + " CREATEDB ENCRYPTED PASSWORD " + pq.QuoteLiteral(conf.Database.Password)
			if _, err = admin.ExecContext(ctx, q); err != nil {
				return errors.Wrap(err, "creating app user")
			}
		}
	}

	db, err := open(conf, "postgres", false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	found, err := exists(ctx, db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking database")
	}
	if !found {
		if _, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// Migrate runs a goose command ("up", "down", "status", "version", ...) over the embedded migrations.
func Migrate(db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(appfs.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting migrations dialect")
	}
	if err := gooseRunFunc(command, db, appfs.MigrationsDir, args...); err != nil {
		return errors.Wrapf(err, "migrate %s", command)
	}
	return nil
}
