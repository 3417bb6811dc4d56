package abcsmc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bufferLogger(level slog.Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestLogger_WithFields(t *testing.T) {
	l, buf := bufferLogger(slog.LevelInfo)
	l.WithDistance("pnorm").WithGeneration(3).Info("hello")

	out := buf.String()
	assert.Contains(t, out, "distance=pnorm")
	assert.Contains(t, out, "t=3")
}

func TestLogger_LogUpdate(t *testing.T) {
	ctx := context.Background()
	l, buf := bufferLogger(slog.LevelInfo)

	l.LogUpdate(ctx, 2, 100, true, nil)
	assert.Contains(t, buf.String(), "distance updated")
	assert.Contains(t, buf.String(), "changed=true")

	buf.Reset()
	l.LogUpdate(ctx, 2, 100, false, errors.New("boom"))
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestLogger_LogNormalize(t *testing.T) {
	ctx := context.Background()
	l, buf := bufferLogger(slog.LevelInfo)

	l.LogNormalize(ctx, 0, 10, 0, nil)
	assert.Empty(t, buf.String())

	l.LogNormalize(ctx, 0, 10, 2, nil)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "skipped=2")
}

func TestNoopLogger(t *testing.T) {
	l := NoopLogger()
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
	l.LogInitialize(context.Background(), 0, 1, nil)
}

func TestCalibrator_LogsInitialize(t *testing.T) {
	l, buf := bufferLogger(slog.LevelInfo)
	c := newAdaptive(t, WithLogger(l))

	assert.NoError(t, c.Initialize(context.Background(), 0, gaussianSample(1, 20)))
	assert.Contains(t, buf.String(), "distance initialized")
	assert.Contains(t, buf.String(), "distance=adaptive_pnorm")
}
