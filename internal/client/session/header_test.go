package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAuthHeader(t *testing.T) {
	ctx := context.Background()
	s := NewStore(newMemStorage(), nil)

	assert.Empty(t, s.AuthHeader(ctx), "anonymous store yields no header")

	require.NoError(t, s.Save(ctx, "abc"))
	assert.Equal(t, "Bearer abc", s.AuthHeader(ctx).Get("Authorization"))

	require.NoError(t, s.Clear(ctx))
	assert.Empty(t, s.AuthHeader(ctx).Get("Authorization"))
}

func TestBuildAuthHeader_NilSource(t *testing.T) {
	assert.Empty(t, BuildAuthHeader(context.Background(), nil))
}
