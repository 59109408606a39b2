package middleware

import (
	"encoding/json"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/api/transport"
	"github.com/shahzaib1233/todo-app-phase-2/domain"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
)

const subjectKey = "middleware.subject"

// TokenVerifier resolves a bearer token to the subject it authenticates.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// BearerAuth rejects requests without a valid bearer token and exposes the
// verified subject to the wrapped handler through Subject.
func BearerAuth(tokens TokenVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString, ok := extractToken(ctx)
			if !ok {
				Unauthorized(ctx, domain.ErrNotAuthenticated.Message)
				return
			}

			subject, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Debug("rejected bearer token",
					zap.String("request_id", httpcontext.RequestID(ctx)),
					zap.Error(err))
				Unauthorized(ctx, domain.ErrUnauthorized.Message)
				return
			}

			ctx.SetUserValue(subjectKey, subject)
			next(ctx)
		}
	}
}

// Subject returns the authenticated subject set by BearerAuth.
func Subject(ctx *fasthttp.RequestCtx) (string, bool) {
	subject, ok := ctx.UserValue(subjectKey).(string)
	return subject, ok && subject != ""
}

// Unauthorized writes a 401 carrying the bearer challenge header.
func Unauthorized(ctx *fasthttp.RequestCtx, detail string) {
	ctx.Response.Header.Set("WWW-Authenticate", "Bearer")
	writeJSON(ctx, fasthttp.StatusUnauthorized, transport.NewError(detail, nil))
}

func extractToken(ctx *fasthttp.RequestCtx) (string, bool) {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization)))
	scheme, credentials, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	credentials = strings.TrimSpace(credentials)
	return credentials, credentials != ""
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}
