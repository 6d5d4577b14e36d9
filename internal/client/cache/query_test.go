package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct{ Name string }

func TestQuery_Typed(t *testing.T) {
	c := New()
	u, err := Query(context.Background(), c, currentUser, func(context.Context) (*user, error) {
		return &user{Name: "Ana"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)

	_, err = Query[string](context.Background(), c, currentUser, nil)
	require.ErrorContains(t, err, "unexpected value type")
}

func TestQuery_Error(t *testing.T) {
	c := New()
	u, err := Query(context.Background(), c, currentUser, func(context.Context) (*user, error) {
		return nil, errors.New("down")
	})
	require.EqualError(t, err, "down")
	assert.Nil(t, u)
}
