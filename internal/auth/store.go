package auth

import (
	"sync"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

// State is the authentication snapshot shared across views. It is only
// replaced wholesale through Reduce; callers never mutate it in place.
type State struct {
	IsAuthenticated bool
	User            *model.User
	Token           string
	IsLoading       bool
	Err             error
}

// Action is a state transition request handled by Reduce.
type Action interface {
	isAuthAction()
}

// LoginSuccess sets the authenticated user and token and clears any
// previous error.
type LoginSuccess struct {
	User  model.User
	Token string
}

// LoginFailure clears the authenticated flag and records the error.
// User and token are left untouched.
type LoginFailure struct {
	Err error
}

// Logout clears authentication, user, and token.
type Logout struct{}

// SetUser replaces the user object wholesale (used after profile edits)
// without touching the token.
type SetUser struct {
	User model.User
}

// SetLoading flags an in-flight authentication request.
type SetLoading struct {
	Loading bool
}

func (LoginSuccess) isAuthAction() {}
func (LoginFailure) isAuthAction() {}
func (Logout) isAuthAction()       {}
func (SetUser) isAuthAction()      {}
func (SetLoading) isAuthAction()   {}

// Reduce applies an action to a state and returns the next state. It is a
// pure function; Store.Dispatch wraps it with locking.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoginSuccess:
		u := a.User
		s.IsAuthenticated = true
		s.User = &u
		s.Token = a.Token
		s.IsLoading = false
		s.Err = nil

	case LoginFailure:
		s.IsAuthenticated = false
		s.IsLoading = false
		s.Err = a.Err

	case Logout:
		s.IsAuthenticated = false
		s.User = nil
		s.Token = ""

	case SetUser:
		u := a.User
		s.IsAuthenticated = true
		s.User = &u
		s.IsLoading = false
		s.Err = nil

	case SetLoading:
		s.IsLoading = a.Loading
	}

	return s
}

// Store holds the authentication state behind a mutex so tea.Cmd
// goroutines can dispatch safely. It is created once at the composition
// root and passed by reference to the components that need it.
type Store struct {
	mu    sync.Mutex
	state State
}

// NewStore creates an empty, unauthenticated store.
func NewStore() *Store {
	return &Store{}
}

// Dispatch applies an action and returns the resulting state.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.state, a)
	return s.state
}

// State returns the current state snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Token returns the current bearer token, or "" when logged out. It
// satisfies the API client's TokenProvider signature.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Token
}

// UserID returns the current user's id, or "" when logged out.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.User == nil {
		return ""
	}
	return s.state.User.ID
}
