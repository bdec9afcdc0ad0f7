package log

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты меняют slog.Default(), поэтому t.Parallel() не используется.

func newSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capHandler — slog.Handler, запоминающий базовые атрибуты из Logger.With(...).
type capHandler struct {
	base []slog.Attr
}

func (h *capHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *capHandler) Handle(context.Context, slog.Record) error { return nil }
func (h *capHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &capHandler{base: append(append([]slog.Attr{}, h.base...), attrs...)}
}
func (h *capHandler) WithGroup(string) slog.Handler { return h }

// TestFrom_ReturnsDefault_WhenNoLoggerInContext — пустой контекст -> slog.Default().
func TestFrom_ReturnsDefault_WhenNoLoggerInContext(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	require.Equal(t, def, From(context.Background()))
}

// TestIntoAndFrom_RoundTrip — Into/From возвращают тот же логгер.
func TestIntoAndFrom_RoundTrip(t *testing.T) {
	l := newSilent()
	ctx := Into(context.Background(), l)

	require.Equal(t, l, From(ctx))
}

// TestFrom_IgnoresWrongTypeAndNil — «мусор» по ключу и nil-логгер игнорируются.
func TestFrom_IgnoresWrongTypeAndNil(t *testing.T) {
	old := slog.Default()
	t.Cleanup(func() { slog.SetDefault(old) })

	def := newSilent()
	slog.SetDefault(def)

	ctxWrong := context.WithValue(context.Background(), ctxKey{}, "not-a-logger")
	require.Equal(t, def, From(ctxWrong))

	var nilLogger *slog.Logger
	ctxNil := context.WithValue(context.Background(), ctxKey{}, nilLogger)
	require.Equal(t, def, From(ctxNil))
}

// TestWith_EnrichesWithoutTouchingParent — With добавляет атрибуты только в дочерний контекст.
func TestWith_EnrichesWithoutTouchingParent(t *testing.T) {
	h := &capHandler{}
	parent := Into(context.Background(), slog.New(h))

	child := With(parent, "request_id", "rid-1")

	childH, ok := From(child).Handler().(*capHandler)
	require.True(t, ok)
	require.Len(t, childH.base, 1)
	require.Equal(t, "request_id", childH.base[0].Key)
	require.Equal(t, "rid-1", childH.base[0].Value.String())

	parentH, ok := From(parent).Handler().(*capHandler)
	require.True(t, ok)
	require.Empty(t, parentH.base)
}

func TestRequestID(t *testing.T) {
	require.Empty(t, RequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "rid-7")
	require.Equal(t, "rid-7", RequestID(ctx))
	require.Equal(t, "rid-7", RequestID(Into(ctx, newSilent())))
}
