package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/tasktracker/domain"
	appLogger "github.com/fastygo/tasktracker/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeyIdentity   Key = "identity"
)

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches
// it with request metadata and the caller identity, when one was resolved.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if identity, ok := IdentityFromRequest(ctx); ok {
		stdCtx = WithIdentity(stdCtx, identity)
	}

	return stdCtx, cancel
}

// SetIdentity stores the resolved caller on the fasthttp request.
func SetIdentity(ctx *fasthttp.RequestCtx, identity *domain.Identity) {
	ctx.SetUserValue(string(KeyIdentity), identity)
}

// IdentityFromRequest returns the caller stored by SetIdentity.
func IdentityFromRequest(ctx *fasthttp.RequestCtx) (*domain.Identity, bool) {
	if ctx == nil {
		return nil, false
	}
	identity, ok := ctx.UserValue(string(KeyIdentity)).(*domain.Identity)
	return identity, ok && identity != nil
}

// WithIdentity attaches the caller to a stdlib context.
func WithIdentity(ctx context.Context, identity *domain.Identity) context.Context {
	ctx = context.WithValue(ctx, KeyIdentity, identity)
	return appLogger.ContextWithUserID(ctx, identity.UserID)
}

// IdentityFrom returns the caller attached by WithIdentity.
func IdentityFrom(ctx context.Context) (*domain.Identity, bool) {
	identity, ok := ctx.Value(KeyIdentity).(*domain.Identity)
	return identity, ok && identity != nil
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
