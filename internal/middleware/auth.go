package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/tasktracker/api/transport"
	"github.com/fastygo/tasktracker/domain"
	tokenauth "github.com/fastygo/tasktracker/internal/auth"
	"github.com/fastygo/tasktracker/pkg/httpcontext"
)

// IdentityResolver maps a session id to the caller it belongs to.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, sessionID string) (*domain.Identity, error)
}

// TokenParser validates a bearer token.
type TokenParser interface {
	Parse(token string) (*tokenauth.Claims, error)
}

// JWTAuth rejects requests without a valid bearer token for a live session and
// stores the resolved identity on the request for handlers.
func JWTAuth(tokens TokenParser, resolver IdentityResolver, timeout time.Duration, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, domain.ErrUnauthorized)
				return
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				logger.Debug("invalid jwt token", zap.Error(err))
				unauthorized(ctx, domain.ErrUnauthorized)
				return
			}

			resolveCtx, cancel := context.WithTimeout(context.Background(), timeout)
			identity, err := resolver.ResolveIdentity(resolveCtx, claims.SessionID)
			cancel()
			if err != nil {
				if errors.Is(err, domain.ErrSessionNotFound) {
					unauthorized(ctx, domain.ErrUnauthorized)
					return
				}
				logger.Error("resolve identity failed", zap.Error(err))
				writeError(ctx, http.StatusInternalServerError, domain.ErrCodeInternal, "internal error")
				return
			}
			if identity.UserID != claims.UserID {
				logger.Warn("token user does not match session", zap.String("session_id", claims.SessionID))
				unauthorized(ctx, domain.ErrUnauthorized)
				return
			}

			httpcontext.SetIdentity(ctx, identity)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func unauthorized(ctx *fasthttp.RequestCtx, err *domain.Error) {
	writeError(ctx, http.StatusUnauthorized, err.Code, err.Message)
}

func writeError(ctx *fasthttp.RequestCtx, status int, code domain.ErrorCode, message string) {
	body, _ := json.Marshal(transport.NewError(string(code), message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
