package context_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "github.com/diavgeia-watch/diavgeia/core/shared/context"
)

func TestRequestID(t *testing.T) {
	ctx := appctx.WithRequestID(context.Background(), "req-1")
	assert.Equal(t, "req-1", appctx.GetRequestID(ctx))
	assert.Equal(t, "", appctx.GetRequestID(context.Background()))
}

func TestEnsureQuestionID(t *testing.T) {
	t.Run("reuses request id", func(t *testing.T) {
		ctx := appctx.WithRequestID(context.Background(), "req-9")
		ctx, id := appctx.EnsureQuestionID(ctx)
		assert.Equal(t, "req-9", id)
		assert.Equal(t, "req-9", appctx.GetQuestionID(ctx))
	})

	t.Run("keeps existing question id", func(t *testing.T) {
		ctx := appctx.WithQuestionID(context.Background(), "q-1")
		_, id := appctx.EnsureQuestionID(ctx)
		assert.Equal(t, "q-1", id)
	})

	t.Run("generates when absent", func(t *testing.T) {
		ctx, id := appctx.EnsureQuestionID(context.Background())
		require.NotEmpty(t, id)
		assert.Equal(t, id, appctx.GetQuestionID(ctx))
		assert.NotEqual(t, id, appctx.GenerateID())
	})
}
