package auditlog

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/stratarent/internal/app/store/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNilLoggerIsNoop(t *testing.T) {
	var l *Logger
	r := httptest.NewRequest("POST", "/api/cars", nil)
	assert.NotPanics(t, func() {
		l.ContentChanged(context.Background(), r, primitive.NewObjectID(), audit.EventCreated, "cars", "x")
	})
}

func TestLog_ModeRouting(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(nil, zap.New(core), Config{Auth: ModeLog, Content: ModeOff})
	r := httptest.NewRequest("POST", "/api/auth/login", nil)
	ctx := context.Background()

	l.LoginSuccess(ctx, r, primitive.NewObjectID(), "admin@example.com")
	l.ContentChanged(ctx, r, primitive.NewObjectID(), audit.EventDeleted, "faqs", "1")
	l.System(ctx, r, primitive.NilObjectID, audit.EventCacheRevalidated, true, nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, audit.EventLoginSuccess, first["event_type"])
	assert.Equal(t, "admin@example.com", first["detail_email"])
	assert.Equal(t, audit.EventCacheRevalidated, entries[1].ContextMap()["event_type"])
}

func TestLog_FailuresWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(nil, zap.New(core), Config{})
	r := httptest.NewRequest("POST", "/api/auth/login", nil)

	l.LoginLockedOut(context.Background(), r, "x@example.com")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
}
