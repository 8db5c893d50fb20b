package mcp

import (
	"context"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const callIDKey contextKey = iota

// getCallID extracts the call ID from context.
func getCallID(ctx context.Context) string {
	v, _ := ctx.Value(callIDKey).(string)
	return v
}

// callIDMiddleware tags every tool call so its log lines can be correlated.
func callIDMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "tools/call" {
				ctx = context.WithValue(ctx, callIDKey, uuid.NewString())
			}
			return next(ctx, method, req)
		}
	}
}
