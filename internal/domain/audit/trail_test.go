package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	appctx "kls/internal/core/context"
	"kls/internal/domain"
	"kls/pkg/logger"
)

type widget struct{ Name string }

func TestRegister_LogsLifecycleEvents(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	ctx := logger.WithLogger(context.Background(), &logger.Logger{SugaredLogger: zap.New(core).Sugar()})
	ctx = appctx.WithTrace(ctx, appctx.NewTraceContext("t-1", "r-1"))

	hooks := domain.NewHookRegistry[*widget]()
	Register(hooks, "widget", func(w *widget) []any { return []any{"name", w.Name} })

	w := &widget{Name: "scale"}
	require.NoError(t, hooks.Run(ctx, domain.AfterCreate, w))
	require.NoError(t, hooks.Run(ctx, domain.AfterDelete, w))
	require.NoError(t, hooks.Run(ctx, domain.BeforeCreate, w))

	entries := logs.FilterMessage("audit").All()
	require.Len(t, entries, 2)

	fields := entries[0].ContextMap()
	assert.Equal(t, "widget", fields["entity"])
	assert.Equal(t, "after_create", fields["event"])
	assert.Equal(t, "scale", fields["name"])
	assert.Equal(t, "audit", fields["component"])
	assert.Equal(t, "r-1", fields["request_id"])
	assert.Equal(t, "after_delete", entries[1].ContextMap()["event"])
}
