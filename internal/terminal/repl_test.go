package terminal

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestServe(t *testing.T) {
	e := newEnv(t)

	input := strings.Join([]string{
		"git log",
		"git commit",
		"Ann",
		"pw",
		"hi there",
		"git log --oneline",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, e.in.Serve(context.Background(), strings.NewReader(input), &out))

	got := out.String()
	require.True(t, strings.HasPrefix(got, Welcome[0]+"\n"))
	require.Contains(t, got, IdlePrompt+" No comments yet.\n")
	require.Contains(t, got, "Author (optional, press Enter to skip): ")
	require.Contains(t, got, "Password (required for edit/delete): ")
	require.Contains(t, got, "Message: [comment ")
	require.Contains(t, got, " Author: Ann\n")
	require.Regexp(t, `[0-9a-f]{8} hi there\n`, got)
}

func TestServe_CanceledContext(t *testing.T) {
	e := newEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	require.NoError(t, e.in.Serve(ctx, strings.NewReader("git commit -m x --password=p\n"), &out))
	require.Empty(t, e.local.Reflog())
}

// startServe запускает Serve на конце pipe и возвращает писателя ввода и канал результата.
func startServe(t *testing.T, ctx context.Context, in *Interpreter, out io.Writer) (*io.PipeWriter, <-chan error) {
	t.Helper()

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	done := make(chan error, 1)
	go func() { done <- in.Serve(ctx, pr, out) }()

	return pw, done
}

func waitState(t *testing.T, in *Interpreter, want State) {
	t.Helper()
	require.Eventually(t, func() bool { return in.State() == want }, 2*time.Second, 5*time.Millisecond)
}

func TestServe_InterruptResetsPrompt(t *testing.T) {
	e := newEnv(t)

	sig := make(chan os.Signal, 1)
	in := New(e.api, e.local, testPost, WithInterrupts(sig))

	var out bytes.Buffer
	pw, done := startServe(t, context.Background(), in, &out)

	_, err := io.WriteString(pw, "git commit\n")
	require.NoError(t, err)
	waitState(t, in, AwaitingAuthor)

	sig <- os.Interrupt
	waitState(t, in, Idle)

	_, err = io.WriteString(pw, "git log\n")
	require.NoError(t, err)
	require.NoError(t, pw.Close())
	require.NoError(t, <-done)

	got := out.String()
	require.Contains(t, got, "Author (optional, press Enter to skip): ^C\n"+IdlePrompt+" No comments yet.\n")
}

func TestServe_CancelMidPromptReturnsToIdle(t *testing.T) {
	e := newEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out bytes.Buffer
	pw, done := startServe(t, ctx, e.in, &out)

	_, err := io.WriteString(pw, "git commit\n")
	require.NoError(t, err)
	waitState(t, e.in, AwaitingAuthor)

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	require.Equal(t, Idle, e.in.State())
	require.Equal(t, IdlePrompt, e.in.Prompt())
}
