package session

import (
	"context"
	"net/http"
)

// BuildAuthHeader returns "Authorization: Bearer <token>" when src holds a
// credential and an empty header otherwise. It never fails; whether an
// anonymous request is acceptable is up to the server.
func BuildAuthHeader(ctx context.Context, src TokenSource) http.Header {
	h := http.Header{}
	if src == nil {
		return h
	}
	if token, ok := src.Get(ctx); ok {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

// AuthHeader lets a Store be handed to the API client directly.
func (s *Store) AuthHeader(ctx context.Context) http.Header {
	return BuildAuthHeader(ctx, s)
}
