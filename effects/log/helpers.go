package log

import (
	"context"
	"testing"

	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zapcore"
)

// WithTestEffectHandler registers a log handler that writes every level to
// t's log. The handler must be torn down before t completes.
func WithTestEffectHandler(
	ctx context.Context,
	t testing.TB,
) (context.Context, func() context.Context) {
	return WithZapEffectHandler(
		ctx,
		8,
		zaptest.NewLogger(t, zaptest.Level(zapcore.DebugLevel)),
	)
}
