package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/lachiem1/fintrack/internal/auth"
	"github.com/lachiem1/fintrack/internal/finapi"
	"github.com/lachiem1/fintrack/internal/finance"
	"github.com/lachiem1/fintrack/internal/logging"
	"github.com/lachiem1/fintrack/internal/storage"
	"github.com/lachiem1/fintrack/internal/syncer"
)

var errSignedOut = errors.New("not signed in, run `fintrack login` first")

var newTokenStore = func() auth.TokenStore { return auth.KeyringTokens{} }

// app holds the wired collaborators for one command run.
type app struct {
	logger    *slog.Logger
	db        *sql.DB
	dbConfig  storage.Config
	api       *finapi.Client
	session   *auth.Session
	store     *finance.Store
	syncState *storage.SyncStateRepo

	mu      sync.Mutex
	loadErr error
	unsub   func()
}

// openApp wires config, storage, the API client, the session and the store.
// Logs go to logOut.
func openApp(ctx context.Context, logOut io.Writer) (*app, error) {
	logger, err := logging.New(logOut, logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, err
	}

	a := &app{logger: logger}

	var cache finance.BudgetCache = storage.NewMemoryBudgetCache()
	if !cfg.Storage.NoCache {
		db, dbConfig, err := storage.Open(ctx, cfg.Storage.Path)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.dbConfig = dbConfig
		a.syncState = storage.NewSyncStateRepo(db)
		cache = storage.NewBudgetCache(storage.NewSnapshotRepo(db))
		logging.WithComponent(logger, logging.ComponentStorage).Debug("snapshot db open", "path", dbConfig.Path, "mode", dbConfig.Mode)
	}

	a.session = auth.NewSession(nil, newTokenStore())
	a.api = finapi.New(
		cfg.API.BaseURL,
		finapi.WithTimeout(cfg.API.Timeout.Duration),
		finapi.WithLogger(logging.WithComponent(logger, logging.ComponentAPI)),
		finapi.WithTokenSource(a.session.Token),
		finapi.WithUnauthorizedHandler(func() {
			if err := a.session.Logout(); err != nil {
				logger.Warn("clear rejected session", "error", err)
			}
		}),
	)
	a.session.SetAuthenticator(a.api)

	a.store = finance.New(
		a.api,
		cache,
		finance.WithClock(nowFunc),
		finance.WithLogger(logging.WithComponent(logger, logging.ComponentStore)),
	)
	a.unsub = a.session.Subscribe(func(tr auth.Transition) {
		err := a.store.HandleSession(context.WithoutCancel(ctx), tr.SignedIn)
		if err != nil {
			logger.Warn("store session transition", "signed_in", tr.SignedIn, "error", err)
		}
		if !tr.SignedIn && a.syncState != nil {
			if clearErr := a.syncState.Clear(context.WithoutCancel(ctx)); clearErr != nil {
				logger.Warn("clear refresh bookkeeping", "error", clearErr)
			}
		}
		a.mu.Lock()
		a.loadErr = err
		a.mu.Unlock()
	})
	return a, nil
}

// detachStore stops session transitions from loading the store, for
// commands that only look at the session.
func (a *app) detachStore() {
	if a.unsub != nil {
		a.unsub()
		a.unsub = nil
	}
}

// signOut drops the session and every piece of local state tied to it. A
// fresh process never signed in, so the session alone would not notify.
func (a *app) signOut(ctx context.Context) error {
	err := a.session.Logout()
	if resetErr := a.store.Reset(ctx); resetErr != nil {
		err = errors.Join(err, resetErr)
	}
	if a.syncState != nil {
		if clearErr := a.syncState.Clear(ctx); clearErr != nil {
			err = errors.Join(err, clearErr)
		}
	}
	return err
}

func (a *app) Close() error {
	if a.unsub != nil {
		a.unsub()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// requireSession restores the stored session, which loads the store, and
// fails when nobody is signed in or the initial load failed.
func (a *app) requireSession(ctx context.Context) error {
	if err := a.session.Init(ctx); err != nil {
		if errors.Is(err, finapi.ErrUnauthorized) {
			return errSignedOut
		}
		return err
	}
	if !a.session.SignedIn() {
		return errSignedOut
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loadErr != nil {
		return fmt.Errorf("load data: %w", a.loadErr)
	}
	return nil
}

// recorder returns the refresh bookkeeping sink, or nil without a database.
func (a *app) recorder() syncer.Recorder {
	if a.syncState == nil {
		return nil
	}
	return a.syncState
}

// withApp opens the app, optionally restores the session, runs fn and
// closes everything.
func withApp(ctx context.Context, logOut io.Writer, needSession bool, fn func(*app) error) error {
	a, err := openApp(ctx, logOut)
	if err != nil {
		return err
	}
	defer a.Close()

	if needSession {
		if err := a.requireSession(ctx); err != nil {
			return err
		}
	}
	return fn(a)
}
