package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/api/transport"
	"github.com/shahzaib1233/todo-app-phase-2/domain"
	"github.com/shahzaib1233/todo-app-phase-2/internal/middleware"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
	appLogger "github.com/shahzaib1233/todo-app-phase-2/pkg/logger"
)

const internalErrorDetail = "Internal server error"

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload interface{}) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		body, _ = json.Marshal(transport.NewError(internalErrorDetail, nil))
	}
	ctx.SetBody(body)
}

func (h baseHandler) respondNoContent(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(http.StatusNoContent)
	ctx.ResetBody()
}

// respondError is the single place where domain errors become HTTP responses.
// Internal failures are logged and reported without detail.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status := mapError(err)

	switch status {
	case http.StatusUnauthorized:
		middleware.Unauthorized(ctx, errorDetail(err))
		return
	case http.StatusInternalServerError:
		stdCtx, cancel := h.requestContext(ctx)
		appLogger.WithRequestID(stdCtx, h.logger).Error("request failed", zap.Error(err))
		cancel()
		h.respondJSON(ctx, status, transport.NewError(internalErrorDetail, nil))
		return
	}

	var fields []domain.FieldError
	if dErr, ok := domain.AsError(err); ok {
		fields = dErr.Fields
	}
	h.respondJSON(ctx, status, transport.NewError(errorDetail(err), fields))
}

func mapError(err error) int {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusUnprocessableEntity
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorDetail(err error) string {
	if dErr, ok := domain.AsError(err); ok {
		return dErr.Message
	}
	return internalErrorDetail
}
