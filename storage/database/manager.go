package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/services/metrics"
)

const driverName = "sqlite3"

// Manager lazily opens the single SQLite handle of the process and runs every statement through it.
// The first callers share one open (schema bootstrap included); a failed open is not cached, so a later
// call tries again.
//
// The pool holds one connection: code running inside Transact must only use the executor it is given.
type Manager struct {
	conf   core.DatabaseConfig
	logger core.Logger

	openFunc func(ctx context.Context) (*sqlx.DB, error) // mockable

	group singleflight.Group
	mu    sync.RWMutex
	db    *sqlx.DB
}

var _ core.DB = (*Manager)(nil) // interface compliance check

func NewManager(conf *core.Config, logger core.Logger) *Manager {
	m := &Manager{conf: conf.Database, logger: logger}
	m.openFunc = m.open
	return m
}

func (m *Manager) dsn() string {
	return fmt.Sprintf(
		"file:%s?_busy_timeout=%d&_journal_mode=WAL&_foreign_keys=0",
		m.conf.Path, m.conf.BusyTimeout.Milliseconds(),
	)
}

func (m *Manager) open(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, m.dsn())
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, "pinging database %s", m.conf.Path)
	}
	if err = EnsureSchema(ctx, executor{ext: db}, m.conf.Seed); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "bootstrapping schema")
	}
	m.logger.Info(fmt.Sprintf("database ready: %s", m.conf.Path))
	return db, nil
}

// handle returns the shared *sqlx.DB, opening it on first use.
func (m *Manager) handle(ctx context.Context) (*sqlx.DB, error) {
	m.mu.RLock()
	db := m.db
	m.mu.RUnlock()
	if db != nil {
		return db, nil
	}

	v, err, _ := m.group.Do("open", func() (interface{}, error) {
		m.mu.RLock()
		db := m.db
		m.mu.RUnlock()
		if db != nil {
			return db, nil
		}

		// the open is shared: one caller giving up must not fail the others
		db, err := m.openFunc(context.WithoutCancel(ctx))
		if err != nil {
			metrics.DBOpensTotal.WithLabelValues("error").Inc()
			m.logger.Error(fmt.Sprintf("opening database: %v", err), err)
			return nil, err
		}
		metrics.DBOpensTotal.WithLabelValues("ok").Inc()

		m.mu.Lock()
		m.db = db
		m.mu.Unlock()
		return db, nil
	})
	if err != nil {
		return nil, core.NewStorageUnavailableError(err)
	}
	return v.(*sqlx.DB), nil
}

func (m *Manager) Exec(ctx context.Context, query string, args ...interface{}) (core.ExecResult, error) {
	db, err := m.handle(ctx)
	if err != nil {
		return core.ExecResult{}, err
	}
	return executor{ext: db}.Exec(ctx, query, args...)
}

func (m *Manager) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	db, err := m.handle(ctx)
	if err != nil {
		return err
	}
	return executor{ext: db}.Get(ctx, dest, query, args...)
}

func (m *Manager) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	db, err := m.handle(ctx)
	if err != nil {
		return err
	}
	return executor{ext: db}.Select(ctx, dest, query, args...)
}

func (m *Manager) Transact(ctx context.Context, fn func(tx core.DBExecutor) error) (err error) {
	db, err := m.handle(ctx)
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(errors.Wrap(err, "beginning transaction"))
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(executor{ext: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			m.logger.Error(fmt.Sprintf("rolling back transaction: %v", rbErr), rbErr)
			return core.NewShutdownError(fmt.Sprintf("rolling back transaction: %v (after %v)", rbErr, err))
		}
		return err
	}
	return classify(errors.Wrap(tx.Commit(), "committing transaction"))
}

func (m *Manager) Ping(ctx context.Context) error {
	db, err := m.handle(ctx)
	if err != nil {
		return err
	}
	return classify(errors.Wrap(db.PingContext(ctx), "pinging database"))
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.db == nil {
		return nil
	}
	err := m.db.Close()
	m.db = nil
	return err
}

// executor runs statements on a *sqlx.DB or a *sqlx.Tx, timing them and classifying their errors.
type executor struct {
	ext sqlx.ExtContext
}

var _ core.DBExecutor = executor{}

func (e executor) Exec(ctx context.Context, query string, args ...interface{}) (core.ExecResult, error) {
	var res core.ExecResult
	err := observe("exec", func() error {
		r, err := e.ext.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		res.LastInsertID, _ = r.LastInsertId()
		res.RowsAffected, _ = r.RowsAffected()
		return nil
	})
	return res, err
}

func (e executor) Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return observe("get", func() error {
		return sqlx.GetContext(ctx, e.ext, dest, query, args...)
	})
}

func (e executor) Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	return observe("select", func() error {
		return sqlx.SelectContext(ctx, e.ext, dest, query, args...)
	})
}

func observe(op string, fn func() error) error {
	start := time.Now()
	err := classify(fn())
	metrics.DBQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	outcome := "ok"
	switch {
	case err == nil:
	case err == sql.ErrNoRows:
		outcome = "no_rows"
	case core.IsConflict(err):
		outcome = "conflict"
	default:
		outcome = "error"
	}
	metrics.DBQueriesTotal.WithLabelValues(op, outcome).Inc()
	return err
}

// classify maps driver errors to core errors: unique violations become core.ConflictError,
// sql.ErrNoRows is kept as is and anything else becomes core.StorageUnavailableError.
func classify(err error) error {
	if err == nil || errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if core.IsConflict(err) || core.IsStorageUnavailable(err) {
		return err
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return core.NewConflictError(err)
		}
	}
	return core.NewStorageUnavailableError(err)
}
