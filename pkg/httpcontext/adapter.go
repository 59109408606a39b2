package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/shahzaib1233/todo-app-phase-2/pkg/logger"
)

const (
	headerRequestID = "X-Request-ID"
	userValueReqID  = "httpcontext.request_id"
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

// Attach creates a context with the adapter's timeout carrying the request id.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	timeout := 5 * time.Second
	if a != nil {
		timeout = a.timeout
	}
	stdCtx, cancel := context.WithTimeout(context.Background(), timeout)

	stdCtx = appLogger.ContextWithRequestID(stdCtx, RequestID(ctx))
	return stdCtx, cancel
}

// RequestID returns the request's ID, taking it from the X-Request-ID header
// or generating one on first use. The ID is echoed in the response header.
func RequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if id, ok := ctx.UserValue(userValueReqID).(string); ok && id != "" {
		return id
	}

	id := strings.TrimSpace(string(ctx.Request.Header.Peek(headerRequestID)))
	if id == "" {
		id = uuid.NewString()
	}
	ctx.SetUserValue(userValueReqID, id)
	ctx.Response.Header.Set(headerRequestID, id)
	return id
}
