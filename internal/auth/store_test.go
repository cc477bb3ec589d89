package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinramil/streetsell-tui/internal/model"
)

func TestReduceLoginSuccess(t *testing.T) {
	next := Reduce(State{IsLoading: true, Err: errors.New("old failure")}, LoginSuccess{
		User:  model.User{ID: "u1", Username: "kev"},
		Token: "tok-1",
	})

	assert.True(t, next.IsAuthenticated)
	require.NotNil(t, next.User)
	assert.Equal(t, "u1", next.User.ID)
	assert.Equal(t, "tok-1", next.Token)
	assert.False(t, next.IsLoading)
	assert.NoError(t, next.Err)
}

func TestReduceLoginFailureKeepsUserAndToken(t *testing.T) {
	loginErr := errors.New("invalid credentials")
	prev := State{
		IsAuthenticated: true,
		User:            &model.User{ID: "u1"},
		Token:           "tok-1",
		IsLoading:       true,
	}

	next := Reduce(prev, LoginFailure{Err: loginErr})

	assert.False(t, next.IsAuthenticated)
	assert.False(t, next.IsLoading)
	assert.ErrorIs(t, next.Err, loginErr)
	assert.Equal(t, prev.User, next.User)
	assert.Equal(t, "tok-1", next.Token)
}

func TestReduceLogout(t *testing.T) {
	next := Reduce(State{
		IsAuthenticated: true,
		User:            &model.User{ID: "u1"},
		Token:           "tok-1",
	}, Logout{})

	assert.False(t, next.IsAuthenticated)
	assert.Nil(t, next.User)
	assert.Empty(t, next.Token)
}

func TestReduceSetUserReplacesWholeObject(t *testing.T) {
	prev := State{
		IsAuthenticated: true,
		User:            &model.User{ID: "u1", Nome: "Old", Cognome: "Name"},
		Token:           "tok-1",
	}

	next := Reduce(prev, SetUser{User: model.User{ID: "u1", Nome: "New"}})

	require.NotNil(t, next.User)
	assert.Equal(t, "New", next.User.Nome)
	assert.Empty(t, next.User.Cognome, "stale fields do not survive the replacement")
	assert.Equal(t, "tok-1", next.Token, "token is untouched")
}

func TestReduceSetLoading(t *testing.T) {
	next := Reduce(State{}, SetLoading{Loading: true})
	assert.True(t, next.IsLoading)

	next = Reduce(next, SetLoading{Loading: false})
	assert.False(t, next.IsLoading)
}

func TestReduceIsPure(t *testing.T) {
	prev := State{User: &model.User{ID: "u1"}, Token: "tok-1"}

	_ = Reduce(prev, Logout{})

	assert.NotNil(t, prev.User, "the input state must not be mutated")
	assert.Equal(t, "tok-1", prev.Token)
}

func TestStoreDispatchAndAccessors(t *testing.T) {
	s := NewStore()

	assert.Empty(t, s.Token())
	assert.Empty(t, s.UserID())
	assert.False(t, s.State().IsAuthenticated)

	state := s.Dispatch(LoginSuccess{
		User:  model.User{ID: "u1", Username: "kev"},
		Token: "tok-1",
	})

	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "tok-1", s.Token())
	assert.Equal(t, "u1", s.UserID())

	s.Dispatch(Logout{})
	assert.Empty(t, s.Token())
	assert.Empty(t, s.UserID())
}
