// command разбирает строку терминала в намерение (Intent) git-подобного языка комментариев.
package command

import (
	"fmt"
	"strings"
)

// Kind — вид намерения.
type Kind int

const (
	KindNone Kind = iota
	KindHelp
	KindLog
	KindCommit
	KindShow
	KindRebase
	KindReset
	KindConfigSet
	KindConfigGet
	KindReflog
)

var kindNames = map[Kind]string{
	KindNone:      "none",
	KindHelp:      "help",
	KindLog:       "log",
	KindCommit:    "commit",
	KindShow:      "show",
	KindRebase:    "rebase",
	KindReset:     "reset",
	KindConfigSet: "config-set",
	KindConfigGet: "config-get",
	KindReflog:    "reflog",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}

	return fmt.Sprintf("kind(%d)", int(k))
}

// ConfigUserName — единственный поддерживаемый ключ git config.
const ConfigUserName = "user.name"

// Intent — результат разбора строки.
//
// Для KindCommit: HasMessage=false означает интерактивный режим (пошаговые запросы).
type Intent struct {
	Kind Kind

	// log
	Oneline bool

	// commit
	HasMessage bool
	Message    string
	Author     string
	Password   string
	ParentHash string

	// show / rebase / reset
	Hash string

	// config
	Key   string
	Value string
}

// ParseError — синтаксическая ошибка; Message печатается пользователю как есть.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string { return e.Message }

func parseErr(format string, args ...any) error {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// Parse разбирает одну строку. Пустая строка даёт Intent{Kind: KindNone}.
// Первые два токена чувствительны к регистру.
func Parse(line string) (Intent, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Intent{Kind: KindNone}, nil
	}

	if trimmed == "help" || trimmed == "git --help" {
		return Intent{Kind: KindHelp}, nil
	}

	if !strings.HasPrefix(trimmed, "git ") {
		word, _, _ := strings.Cut(trimmed, " ")
		return Intent{}, parseErr("Command not found: %s\nType 'help' for available commands.", word)
	}

	parts := Tokenize(trimmed)
	if len(parts) < 2 {
		return Intent{}, parseErr("git: '' is not a git command. See 'help'.")
	}

	switch parts[1] {
	case "log":
		return parseLog(parts), nil
	case "commit":
		return parseCommit(parts), nil
	case "show":
		return parseShow(parts)
	case "rebase":
		return parseRebase(parts)
	case "reset":
		return parseReset(parts)
	case "config":
		return parseConfig(parts)
	case "reflog":
		return Intent{Kind: KindReflog}, nil
	default:
		return Intent{}, parseErr("git: '%s' is not a git command. See 'help'.", parts[1])
	}
}

// --comments принимается и всегда подразумевается.
func parseLog(parts []string) Intent {
	return Intent{Kind: KindLog, Oneline: contains(parts, "--oneline")}
}

func parseCommit(parts []string) Intent {
	in := Intent{Kind: KindCommit}

	for i := 2; i < len(parts); i++ {
		p := parts[i]

		switch {
		case p == "-m" && i+1 < len(parts):
			// Пустой -m не считается сообщением: коммит уходит в диалог.
			if strings.TrimSpace(parts[i+1]) != "" {
				in.HasMessage = true
				in.Message = parts[i+1]
			}
			i++
		case strings.HasPrefix(p, "--author="):
			in.Author = strings.TrimPrefix(p, "--author=")
		case strings.HasPrefix(p, "--password="):
			in.Password = strings.TrimPrefix(p, "--password=")
		case strings.HasPrefix(p, "--fixup="):
			in.ParentHash = strings.TrimPrefix(p, "--fixup=")
		}
	}

	return in
}

func parseShow(parts []string) (Intent, error) {
	if len(parts) < 3 {
		return Intent{}, parseErr("usage: git show <hash>")
	}

	return Intent{Kind: KindShow, Hash: parts[2]}, nil
}

func parseRebase(parts []string) (Intent, error) {
	idx := index(parts, "-i")
	if idx < 0 {
		return Intent{}, parseErr("Only interactive rebase is supported. Use: git rebase -i <hash>")
	}

	if idx+1 >= len(parts) {
		return Intent{}, parseErr("usage: git rebase -i <hash>")
	}

	return Intent{Kind: KindRebase, Hash: parts[idx+1]}, nil
}

func parseReset(parts []string) (Intent, error) {
	idx := index(parts, "--hard")
	if idx < 0 {
		return Intent{}, parseErr("Only hard reset is supported. Use: git reset --hard <hash>")
	}

	if idx+1 >= len(parts) {
		return Intent{}, parseErr("usage: git reset --hard <hash>")
	}

	return Intent{Kind: KindReset, Hash: parts[idx+1]}, nil
}

func parseConfig(parts []string) (Intent, error) {
	if len(parts) < 3 {
		return Intent{}, parseErr(`usage: git config user.name "<name>"`)
	}

	if parts[2] == ConfigUserName {
		if len(parts) > 3 && parts[3] != "" {
			return Intent{Kind: KindConfigSet, Key: ConfigUserName, Value: parts[3]}, nil
		}

		return Intent{Kind: KindConfigGet, Key: ConfigUserName}, nil
	}

	if contains(parts, "--get") && len(parts) > 3 && parts[3] == ConfigUserName {
		return Intent{Kind: KindConfigGet, Key: ConfigUserName}, nil
	}

	return Intent{}, parseErr("Only user.name config is supported.")
}

func index(parts []string, want string) int {
	for i, p := range parts {
		if p == want {
			return i
		}
	}

	return -1
}

func contains(parts []string, want string) bool { return index(parts, want) >= 0 }
