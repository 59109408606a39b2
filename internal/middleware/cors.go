package middleware

import (
	"strings"

	"github.com/valyala/fasthttp"
)

const allowedMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"

// CORS allows browsers on the configured origins to call the API. A single "*"
// allows any origin; credentials are permitted, so the request origin is
// echoed instead of the wildcard.
func CORS(origins []string) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	allowAll := false
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			origin := string(ctx.Request.Header.Peek(fasthttp.HeaderOrigin))
			if origin == "" {
				next(ctx)
				return
			}
			if _, ok := allowed[origin]; !ok && !allowAll {
				next(ctx)
				return
			}

			h := &ctx.Response.Header
			h.Set(fasthttp.HeaderAccessControlAllowOrigin, origin)
			h.Set(fasthttp.HeaderAccessControlAllowCredentials, "true")
			h.Add(fasthttp.HeaderVary, fasthttp.HeaderOrigin)

			if ctx.IsOptions() && len(ctx.Request.Header.Peek(fasthttp.HeaderAccessControlRequestMethod)) > 0 {
				h.Set(fasthttp.HeaderAccessControlAllowMethods, allowedMethods)
				if reqHeaders := ctx.Request.Header.Peek(fasthttp.HeaderAccessControlRequestHeaders); len(reqHeaders) > 0 {
					h.SetBytesV(fasthttp.HeaderAccessControlAllowHeaders, reqHeaders)
				}
				h.Set(fasthttp.HeaderAccessControlMaxAge, "600")
				ctx.SetStatusCode(fasthttp.StatusNoContent)
				return
			}

			next(ctx)
		}
	}
}
