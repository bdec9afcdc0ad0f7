package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pribylovaa/git-comments/internal/config"
	"github.com/pribylovaa/git-comments/internal/localstate"
	"github.com/pribylovaa/git-comments/internal/service"
	"github.com/pribylovaa/git-comments/internal/storage/memory"
	cshttp "github.com/pribylovaa/git-comments/internal/transport/http"
)

func TestRootCmd_RequiresPost(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--state", ""})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "post")
}

func TestRootCmd_Session(t *testing.T) {
	cfg := config.Config{Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost}}
	srv := httptest.NewServer(cshttp.NewRouter(service.New(memory.New(), cfg), cshttp.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}))
	t.Cleanup(srv.Close)

	statePath := filepath.Join(t.TempDir(), "state.yaml")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs([]string{"--api", srv.URL, "--post", "p1", "--state", statePath, "--timeout", time.Second.String()})
	cmd.SetIn(strings.NewReader("git config user.name Ann\ngit commit --password=pw -m \"hello\"\ngit reflog\n"))
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	require.Contains(t, out.String(), "Config saved: user.name = Ann")
	require.Contains(t, out.String(), " Ann: hello")

	st, err := localstate.Open(statePath)
	require.NoError(t, err)
	require.Equal(t, "Ann", st.UserName())
	require.Len(t, st.Reflog(), 1)
}
