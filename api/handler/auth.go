package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shahzaib1233/todo-app-phase-2/api/transport"
	"github.com/shahzaib1233/todo-app-phase-2/pkg/httpcontext"
	authUC "github.com/shahzaib1233/todo-app-phase-2/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc *authUC.UseCase
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Register a new user
// @Tags auth
// @Router /api/auth/signup [post]
func (h *AuthHandler) Signup(ctx *fasthttp.RequestCtx) {
	var req transport.SignupRequest
	if err := transport.DecodeJSON(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.Signup(stdCtx, authUC.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, transport.NewUserResponse(user))
}

// @Summary Exchange credentials for an access token
// @Tags auth
// @Router /api/auth/signin [post]
func (h *AuthHandler) Signin(ctx *fasthttp.RequestCtx) {
	var req transport.SigninRequest
	if err := transport.DecodeJSON(ctx.PostBody(), &req); err != nil {
		h.respondError(ctx, err)
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	token, err := h.uc.Signin(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, token)
}

// @Summary Sign out
// @Description Tokens are stateless; clients sign out by discarding theirs.
// @Tags auth
// @Router /api/auth/signout [post]
func (h *AuthHandler) Signout(ctx *fasthttp.RequestCtx) {
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: "Successfully signed out"})
}
