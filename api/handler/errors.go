package handler

import (
	"fmt"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/api/transport"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
)

// ErrorHandler answers requests the router cannot dispatch and recovers panics.
type ErrorHandler struct {
	baseHandler
}

func NewErrorHandler(adapter *httpcontext.Adapter, logger *zap.Logger) *ErrorHandler {
	return &ErrorHandler{baseHandler: newBaseHandler(adapter, logger)}
}

func (h *ErrorHandler) NotFound(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusNotFound, transport.NewError("Not Found", nil))
}

func (h *ErrorHandler) MethodNotAllowed(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusMethodNotAllowed, transport.NewError("Method Not Allowed", nil))
}

// Panic is installed as the router's PanicHandler.
func (h *ErrorHandler) Panic(ctx *fasthttp.RequestCtx, recovered interface{}) {
	h.logger.Error("panic recovered",
		zap.String("request_id", httpcontext.RequestID(ctx)),
		zap.ByteString("method", ctx.Method()),
		zap.ByteString("path", ctx.Path()),
		zap.String("panic", fmt.Sprint(recovered)),
	)
	ctx.Response.Reset()
	h.respondJSON(ctx, http.StatusInternalServerError, transport.NewError(internalErrorDetail, nil))
}
