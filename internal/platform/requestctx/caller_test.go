package requestctx

import (
	"context"
	"testing"
)

func TestCallerFromContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "stored", ctx: WithCaller(context.Background(), "admin"), want: "admin"},
		{name: "missing", ctx: context.Background(), want: ""},
		{name: "nil context", ctx: nil, want: ""},
		{name: "stored on nil context", ctx: WithCaller(nil, "admin"), want: "admin"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CallerFromContext(tc.ctx); got != tc.want {
				t.Fatalf("CallerFromContext = %q, want %q", got, tc.want)
			}
		})
	}
}
