package middleware

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasktracker/domain"
	tokenauth "github.com/fastygo/tasktracker/internal/auth"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
)

type resolverFunc func(ctx context.Context, sessionID string) (*domain.Identity, error)

func (f resolverFunc) ResolveIdentity(ctx context.Context, sessionID string) (*domain.Identity, error) {
	return f(ctx, sessionID)
}

func liveSessions(ids map[string]int64) resolverFunc {
	return func(_ context.Context, sessionID string) (*domain.Identity, error) {
		uid, ok := ids[sessionID]
		if !ok {
			return nil, domain.ErrSessionNotFound
		}
		return &domain.Identity{UserID: uid, Username: "alice", SessionID: sessionID}, nil
	}
}

func run(t *testing.T, mw func(fasthttp.RequestHandler) fasthttp.RequestHandler, authz string) (*fasthttp.RequestCtx, *domain.Identity) {
	t.Helper()
	var seen *domain.Identity
	handler := mw(func(ctx *fasthttp.RequestCtx) {
		seen, _ = httpcontext.IdentityFromRequest(ctx)
		ctx.SetStatusCode(http.StatusOK)
	})

	var rc fasthttp.RequestCtx
	if authz != "" {
		rc.Request.Header.Set("Authorization", authz)
	}
	handler(&rc)
	return &rc, seen
}

func TestJWTAuth(t *testing.T) {
	tokens := tokenauth.NewTokens("secret", "tasktracker")
	valid, err := tokens.Issue("s1", 7, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	revoked, err := tokens.Issue("gone", 7, time.Now().Add(time.Hour))
	assert.NoError(t, err)
	mismatched, err := tokens.Issue("s1", 8, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	mw := JWTAuth(tokens, liveSessions(map[string]int64{"s1": 7}), time.Second, nil)

	tests := []struct {
		name   string
		authz  string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"revoked session", "Bearer " + revoked, http.StatusUnauthorized},
		{"user mismatch", "Bearer " + mismatched, http.StatusUnauthorized},
		{"valid bearer", "Bearer " + valid, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, http.StatusOK},
		{"raw token", valid, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rc, identity := run(t, mw, tc.authz)
			assert.Equal(t, tc.status, rc.Response.StatusCode())
			if tc.status == http.StatusOK {
				if assert.NotNil(t, identity) {
					assert.Equal(t, int64(7), identity.UserID)
				}
			} else {
				assert.Nil(t, identity)
				assert.Contains(t, string(rc.Response.Body()), string(domain.ErrCodeUnauthorized))
			}
		})
	}
}

func TestJWTAuth_StoreFailureIsInternal(t *testing.T) {
	tokens := tokenauth.NewTokens("secret", "")
	tok, err := tokens.Issue("s1", 1, time.Now().Add(time.Hour))
	assert.NoError(t, err)

	failing := resolverFunc(func(context.Context, string) (*domain.Identity, error) {
		return nil, errors.New("bolt closed")
	})
	rc, identity := run(t, JWTAuth(tokens, failing, time.Second, nil), "Bearer "+tok)

	assert.Equal(t, http.StatusInternalServerError, rc.Response.StatusCode())
	assert.Nil(t, identity)
	assert.NotContains(t, string(rc.Response.Body()), "bolt closed")
}

func TestRateLimit_NoRedisFailsOpen(t *testing.T) {
	calls := 0
	handler := RateLimit(nil, 1, time.Minute, nil)(func(ctx *fasthttp.RequestCtx) {
		calls++
	})

	for i := 0; i < 5; i++ {
		var rc fasthttp.RequestCtx
		handler(&rc)
	}
	assert.Equal(t, 5, calls)
}
