package requestctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithUserID(ctx, "user_1")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "user_1", UserID(ctx))
	assert.Len(t, LogFields(ctx), 2)
}

func TestRequestContext_Empty(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestID(ctx))
	assert.Empty(t, UserID(ctx))
	assert.Empty(t, LogFields(ctx))
}
