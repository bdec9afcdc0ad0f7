// terminal — интерпретатор git-подобных команд с пошаговыми запросами (FSM).
// Каждый вызов Handle — одна строка ввода и один переход состояния.
package terminal

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pribylovaa/git-comments/internal/client"
	"github.com/pribylovaa/git-comments/internal/command"
	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/pkg/log"
)

// API — операции сервера комментариев, нужные терминалу (*client.Client).
type API interface {
	Comments(ctx context.Context, postID string) (*models.GitLogResponse, error)
	Comment(ctx context.Context, hash string) (*models.CommentResponse, error)
	Create(ctx context.Context, in models.CreateCommentRequest) (*models.CreateCommentResponse, error)
	Update(ctx context.Context, in models.UpdateCommentRequest) (*models.MessageResponse, error)
	Delete(ctx context.Context, in models.DeleteCommentRequest) (*models.MessageResponse, error)
}

// LocalState — клиентская память: user.name и reflog (*localstate.State).
type LocalState interface {
	UserName() string
	SetUserName(name string) error
	Remember(hash, password string) error
	Password(hash string) (string, bool)
	Forget(hash string) error
	Reflog() []string
}

// State — состояние диалога.
type State int

const (
	Idle State = iota
	AwaitingAuthor
	AwaitingPassword
	AwaitingMessage
	AwaitingEditPassword
	AwaitingEditMessage
	AwaitingDeletePassword
)

// IdlePrompt — приглашение командной строки.
const IdlePrompt = "guest@post:~$"

var prompts = map[State]string{
	Idle:                   IdlePrompt,
	AwaitingAuthor:         "Author (optional, press Enter to skip):",
	AwaitingPassword:       "Password (required for edit/delete):",
	AwaitingMessage:        "Message:",
	AwaitingEditPassword:   "Password:",
	AwaitingEditMessage:    "Message:",
	AwaitingDeletePassword: "Password:",
}

// pending — данные незавершённой последовательности запросов.
type pending struct {
	author     string
	password   string
	parentHash string
	hash       string
}

// Interpreter — один экземпляр на сессию терминала. Безопасен для
// конкурентных вызовов: строки обрабатываются строго по одной.
type Interpreter struct {
	mu sync.Mutex

	api    API
	local  LocalState
	postID string
	loc    *time.Location

	interrupts <-chan os.Signal

	state State
	data  pending
}

// Option настраивает Interpreter.
type Option func(*Interpreter)

// WithLocation задаёт часовой пояс для вывода дат (по умолчанию time.Local).
func WithLocation(loc *time.Location) Option {
	return func(in *Interpreter) {
		if loc != nil {
			in.loc = loc
		}
	}
}

// WithInterrupts — канал сигналов (Ctrl-C), прерывающих активный запрос в Serve.
func WithInterrupts(ch <-chan os.Signal) Option {
	return func(in *Interpreter) {
		in.interrupts = ch
	}
}

func New(api API, local LocalState, postID string, opts ...Option) *Interpreter {
	in := &Interpreter{
		api:    api,
		local:  local,
		postID: postID,
		loc:    time.Local,
	}

	for _, opt := range opts {
		opt(in)
	}

	return in
}

// Prompt возвращает текст приглашения для текущего состояния.
func (in *Interpreter) Prompt() string {
	in.mu.Lock()
	defer in.mu.Unlock()

	return prompts[in.state]
}

// State возвращает текущее состояние диалога.
func (in *Interpreter) State() State {
	in.mu.Lock()
	defer in.mu.Unlock()

	return in.state
}

// Cancel прерывает активную последовательность запросов.
func (in *Interpreter) Cancel() {
	in.mu.Lock()
	defer in.mu.Unlock()

	in.reset()
}

// Handle обрабатывает одну строку ввода и возвращает строки вывода.
// В активной последовательности строка (даже пустая) — ответ на запрос.
func (in *Interpreter) Handle(ctx context.Context, line string) []string {
	in.mu.Lock()
	defer in.mu.Unlock()

	if in.state != Idle {
		return in.answer(ctx, strings.TrimSpace(line))
	}

	intent, err := command.Parse(line)
	if err != nil {
		var pe *command.ParseError
		if errors.As(err, &pe) {
			return strings.Split(pe.Message, "\n")
		}

		return []string{errorLine(err)}
	}

	log.From(ctx).Debug("command", slog.String("kind", intent.Kind.String()))

	return in.execute(ctx, intent)
}

func (in *Interpreter) execute(ctx context.Context, it command.Intent) []string {
	switch it.Kind {
	case command.KindNone:
		return nil
	case command.KindHelp:
		return helpLines()
	case command.KindLog:
		return in.cmdLog(ctx, it.Oneline)
	case command.KindCommit:
		return in.cmdCommit(ctx, it)
	case command.KindShow:
		return in.cmdShow(ctx, it.Hash)
	case command.KindRebase:
		return in.cmdRebase(it.Hash)
	case command.KindReset:
		return in.cmdReset(ctx, it.Hash)
	case command.KindConfigSet:
		return in.cmdConfigSet(it.Value)
	case command.KindConfigGet:
		return in.cmdConfigGet()
	case command.KindReflog:
		return in.cmdReflog(ctx)
	default:
		return []string{"Unknown command"}
	}
}

func (in *Interpreter) cmdLog(ctx context.Context, oneline bool) []string {
	resp, err := in.api.Comments(ctx, in.postID)
	if err != nil {
		return in.fail(ctx, "log", err)
	}

	return renderLog(resp.Commits, oneline, in.loc)
}

func (in *Interpreter) cmdCommit(ctx context.Context, it command.Intent) []string {
	if !it.HasMessage {
		in.data = pending{parentHash: it.ParentHash}
		in.state = AwaitingAuthor
		return nil
	}

	if it.Password == "" {
		return []string{`Error: Password is required. Use --password="your_password"`}
	}

	author := it.Author
	if author == "" {
		author = in.defaultAuthor()
	}

	return in.create(ctx, author, it.Password, it.Message, it.ParentHash)
}

func (in *Interpreter) create(ctx context.Context, author, password, message, parentHash string) []string {
	resp, err := in.api.Create(ctx, models.CreateCommentRequest{
		PostID:     in.postID,
		Author:     author,
		Password:   password,
		Message:    message,
		ParentHash: parentHash,
	})
	if err != nil {
		return in.fail(ctx, "commit", err)
	}

	out := []string{
		resp.Message,
		" Author: " + resp.Author,
		" 1 comment created",
		"",
	}

	if err := in.local.Remember(resp.CommitHash, password); err != nil {
		out = append(out, errorLine(err))
	}

	return out
}

func (in *Interpreter) cmdShow(ctx context.Context, hash string) []string {
	c, err := in.api.Comment(ctx, hash)
	if err != nil {
		if errors.Is(err, client.ErrNotFound) {
			return []string{"fatal: bad object " + hash}
		}

		return in.fail(ctx, "show", err)
	}

	// Комментарии чужого поста для этой сессии не существуют.
	if c.PostID != in.postID {
		return []string{"fatal: bad object " + hash}
	}

	return renderShow(*c, in.loc)
}

func (in *Interpreter) cmdRebase(hash string) []string {
	in.data = pending{hash: hash}

	if pw, ok := in.local.Password(hash); ok {
		in.data.password = pw
		in.state = AwaitingEditMessage
		return nil
	}

	in.state = AwaitingEditPassword

	return nil
}

func (in *Interpreter) cmdReset(ctx context.Context, hash string) []string {
	full := hash

	if len(hash) == models.ShortHashLen {
		resp, err := in.api.Comments(ctx, in.postID)
		if err != nil {
			return in.fail(ctx, "reset", err)
		}

		e, ok := findByPrefix(resp.Commits, hash)
		if !ok {
			return []string{"fatal: bad object " + hash}
		}
		full = e.Hash
	}

	pw, ok := in.local.Password(full)
	if !ok {
		in.data = pending{hash: full}
		in.state = AwaitingDeletePassword
		return nil
	}

	return in.remove(ctx, full, pw, false)
}

func (in *Interpreter) cmdConfigSet(name string) []string {
	if err := in.local.SetUserName(name); err != nil {
		return []string{errorLine(err)}
	}

	return []string{"Config saved: " + command.ConfigUserName + " = " + name}
}

func (in *Interpreter) cmdConfigGet() []string {
	if name := in.local.UserName(); name != "" {
		return []string{name}
	}

	return []string{command.ConfigUserName + " not set"}
}

func (in *Interpreter) cmdReflog(ctx context.Context) []string {
	hashes := in.local.Reflog()
	if len(hashes) == 0 {
		return []string{"No reflog entries."}
	}

	resp, err := in.api.Comments(ctx, in.postID)
	if err != nil {
		return in.fail(ctx, "reflog", err)
	}

	return renderReflog(hashes, resp.Commits)
}

// answer — переход FSM по ответу на запрос.
func (in *Interpreter) answer(ctx context.Context, input string) []string {
	switch in.state {
	case AwaitingAuthor:
		var out []string
		if input == "" {
			in.data.author = in.defaultAuthor()
			out = []string{"Author skipped, using " + in.data.author}
		} else {
			in.data.author = input
		}
		in.state = AwaitingPassword
		return out

	case AwaitingPassword:
		if input == "" {
			return []string{"Error: Password is required"}
		}
		in.data.password = input
		in.state = AwaitingMessage
		return nil

	case AwaitingMessage:
		if input == "" {
			return []string{"Error: Message cannot be empty"}
		}
		d := in.data
		in.reset()
		return in.create(ctx, d.author, d.password, input, d.parentHash)

	case AwaitingEditPassword:
		if input == "" {
			return []string{"Error: Password is required"}
		}
		in.data.password = input
		in.state = AwaitingEditMessage
		return nil

	case AwaitingEditMessage:
		if input == "" {
			return []string{"Error: Message cannot be empty"}
		}
		d := in.data
		in.reset()
		return in.edit(ctx, d.hash, d.password, input)

	case AwaitingDeletePassword:
		if input == "" {
			return []string{"Error: Password is required"}
		}
		hash := in.data.hash
		in.reset()
		return in.remove(ctx, hash, input, true)
	}

	in.reset()

	return nil
}

func (in *Interpreter) edit(ctx context.Context, hash, password, message string) []string {
	resp, err := in.api.Update(ctx, models.UpdateCommentRequest{
		CommitHash: hash,
		Password:   password,
		Message:    message,
	})
	if err != nil {
		return in.fail(ctx, "rebase", err)
	}

	return append([]string{resp.Message}, in.cmdLog(ctx, false)...)
}

// remove удаляет комментарий; relog — перерисовать журнал после удаления.
func (in *Interpreter) remove(ctx context.Context, hash, password string, relog bool) []string {
	resp, err := in.api.Delete(ctx, models.DeleteCommentRequest{
		CommitHash: hash,
		Password:   password,
	})
	if err != nil {
		return in.fail(ctx, "reset", err)
	}

	out := []string{resp.Message}

	if err := in.local.Forget(hash); err != nil {
		out = append(out, errorLine(err))
	}

	if relog {
		out = append(out, in.cmdLog(ctx, false)...)
	}

	return out
}

func (in *Interpreter) defaultAuthor() string {
	if name := in.local.UserName(); name != "" {
		return name
	}

	return models.DefaultAuthor
}

func (in *Interpreter) reset() {
	in.state = Idle
	in.data = pending{}
}

func (in *Interpreter) fail(ctx context.Context, cmd string, err error) []string {
	log.From(ctx).Debug("command_failed", slog.String("cmd", cmd), slog.Any("err", err))

	return []string{errorLine(err)}
}

func errorLine(err error) string {
	return "Error: " + err.Error()
}
