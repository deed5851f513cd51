package auth

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/lachiem1/fintrack/internal/finapi"
	"github.com/lachiem1/fintrack/internal/model"
)

// Authenticator is the slice of the backend the session needs.
type Authenticator interface {
	Login(ctx context.Context, creds model.Credentials) (string, error)
	Me(ctx context.Context) (model.User, error)
}

type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// Transition is emitted whenever the session signs in or out.
type Transition struct {
	SignedIn bool
	User     model.User
}

type Session struct {
	api    Authenticator
	tokens TokenStore

	mu        sync.RWMutex
	token     string
	user      model.User
	signedIn  bool
	nextID    int
	listeners map[int]func(Transition)
}

func NewSession(api Authenticator, tokens TokenStore) *Session {
	return &Session{
		api:       api,
		tokens:    tokens,
		listeners: make(map[int]func(Transition)),
	}
}

// SetAuthenticator swaps the backend. The HTTP client reads Token from the
// session, so it is usually built after the session.
func (s *Session) SetAuthenticator(api Authenticator) {
	s.mu.Lock()
	s.api = api
	s.mu.Unlock()
}

// Subscribe registers fn for every later transition.
func (s *Session) Subscribe(fn func(Transition)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.signedIn
}

func (s *Session) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.signedIn
}

// Init restores a stored token and validates it against the backend. With no
// stored token the session stays signed out and Init returns nil. A rejected
// token is deleted; any other failure keeps it for the next attempt.
func (s *Session) Init(ctx context.Context) error {
	token, err := s.tokens.Load()
	if errors.Is(err, ErrNoToken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	api := s.api
	s.mu.Unlock()

	user, err := api.Me(ctx)
	if err != nil {
		if errors.Is(err, finapi.ErrUnauthorized) {
			if delErr := s.tokens.Delete(); delErr != nil {
				err = errors.Join(err, delErr)
			}
		}
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return fmt.Errorf("validate session token: %w", err)
	}

	s.signIn(token, user)
	return nil
}

// Login exchanges credentials for a token, stores it and signs in.
func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	s.mu.RLock()
	api := s.api
	s.mu.RUnlock()

	token, err := api.Login(ctx, model.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return model.User{}, fmt.Errorf("login: %w", err)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return model.User{}, errors.New("login: backend returned an empty token")
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := api.Me(ctx)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return model.User{}, fmt.Errorf("fetch signed-in user: %w", err)
	}
	if err := s.tokens.Save(token); err != nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return model.User{}, err
	}

	s.signIn(token, user)
	return user, nil
}

// Logout clears the session and the stored token. Listeners hear about it
// only when the session was signed in.
func (s *Session) Logout() error {
	s.mu.Lock()
	wasSignedIn := s.signedIn
	s.token = ""
	s.user = model.User{}
	s.signedIn = false
	s.mu.Unlock()

	err := s.tokens.Delete()
	if wasSignedIn {
		s.notify(Transition{SignedIn: false})
	}
	return err
}

func (s *Session) signIn(token string, user model.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.signedIn = true
	s.mu.Unlock()

	s.notify(Transition{SignedIn: true, User: user})
}

func (s *Session) notify(tr Transition) {
	s.mu.RLock()
	fns := make([]func(Transition), 0, len(s.listeners))
	for _, id := range slices.Sorted(maps.Keys(s.listeners)) {
		fns = append(fns, s.listeners[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(tr)
	}
}
