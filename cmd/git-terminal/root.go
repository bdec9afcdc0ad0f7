package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pribylovaa/git-comments/internal/client"
	"github.com/pribylovaa/git-comments/internal/localstate"
	"github.com/pribylovaa/git-comments/internal/terminal"
	"github.com/pribylovaa/git-comments/pkg/log"
)

type options struct {
	api     string
	post    string
	state   string
	timeout time.Duration
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "git-terminal",
		Short: "Git-style terminal for blog comments",
		Long: `An interactive terminal that speaks a small git-like command language
(git log, git commit, git show, git rebase -i, git reset --hard, git config, git reflog)
and maps it onto the comments API of a single blog post.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.api, "api", envOr("GIT_COMMENTS_API", "http://localhost:8080"), "comments API base URL")
	f.StringVar(&opts.post, "post", "", "post id the terminal is attached to")
	f.StringVar(&opts.state, "state", defaultStatePath(), "local state file (user.name, reflog); empty keeps it in memory")
	f.DurationVar(&opts.timeout, "timeout", 10*time.Second, "HTTP request timeout")
	f.BoolVar(&opts.verbose, "verbose", false, "log debug details to stderr")
	_ = cmd.MarkFlagRequired("post")

	return cmd
}

func run(ctx context.Context, opts options, in io.Reader, out, errOut io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM)
	defer stop()

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	ctx = log.Into(ctx, slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})))
	ctx = log.With(ctx, slog.String("post_id", opts.post))

	state, err := localstate.Open(opts.state)
	if err != nil {
		return err
	}

	api := client.New(opts.api, &http.Client{Timeout: opts.timeout})

	log.From(ctx).Debug("terminal_start",
		slog.String("api", opts.api),
		slog.String("state", opts.state),
	)

	// Ctrl-C прерывает текущий запрос, выход — Ctrl-D (EOF) или SIGTERM.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	return terminal.New(api, state, opts.post, terminal.WithInterrupts(interrupts)).Serve(ctx, in, out)
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "git-comments", "state.yaml")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
