package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"bogus", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	l, err := New(&Config{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(nil)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(&Config{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)
	l.Info("hello")
	require.NoError(t, l.Sync())

	_, err = New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
	assert.Error(t, err)
}

func TestNewForEnvironment(t *testing.T) {
	l, err := NewForEnvironment("production", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestContextHelpers(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	assert.NotNil(t, FromContext(context.Background()))

	ctx, l := WithRequestID(context.Background(), base, "req-1")
	ctx, l = WithCustomerID(ctx, l, 42)
	l.Info("hello")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	id, ok := GetCustomerID(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
	assert.Same(t, l, FromContext(ctx))

	entry := recorded.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "42", fields["customer_id"])

	_, ok = GetCustomerID(context.Background())
	assert.False(t, ok)
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(context.Background(), base))
}

func TestFingerprint(t *testing.T) {
	f := Fingerprint("token_fp", "secret-token")

	assert.Equal(t, "token_fp", f.Key)
	assert.Len(t, f.String, 8)
	assert.NotContains(t, f.String, "secret")
	assert.Equal(t, f.String, Fingerprint("token_fp", "secret-token").String)
	assert.NotEqual(t, f.String, Fingerprint("token_fp", "other-token").String)
}
