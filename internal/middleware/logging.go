package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
)

// AccessLog logs one line per request once the response status is known.
func AccessLog(logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			start := time.Now()
			reqID := httpcontext.RequestID(ctx)

			next(ctx)

			status := ctx.Response.StatusCode()
			fields := []zap.Field{
				zap.String("request_id", reqID),
				zap.ByteString("method", ctx.Method()),
				zap.ByteString("path", ctx.Path()),
				zap.Int("status", status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_addr", ctx.RemoteIP().String()),
				zap.ByteString("user_agent", ctx.UserAgent()),
			}
			if subject, ok := Subject(ctx); ok {
				fields = append(fields, zap.String("subject", subject))
			}

			switch {
			case status >= fasthttp.StatusInternalServerError:
				logger.Error("request failed", fields...)
			default:
				logger.Info("request handled", fields...)
			}
		}
	}
}
