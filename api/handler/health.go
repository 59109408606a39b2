package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/api/transport"
	"github.com/shahzaib1233/todo-app-phase-2/internal/infrastructure/monitor"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
)

// StatusSource reports the cached health of the backing store.
type StatusSource interface {
	GetStatus() monitor.Status
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
}

func NewHealthHandler(mon StatusSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		monitor:     mon,
	}
}

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Database  monitor.Status `json:"database"`
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	payload := healthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Database:  status,
	}

	if status.Database {
		h.respondJSON(ctx, http.StatusOK, payload)
		return
	}
	payload.Status = "degraded"
	h.respondJSON(ctx, http.StatusServiceUnavailable, payload)
}

// @Summary API banner
// @Router / [get]
func (h *HealthHandler) Root(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: "Todo API - Secure & Production-Ready Backend"})
}
