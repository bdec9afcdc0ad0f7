// localstate хранит клиентское состояние терминала: user.name и reflog
// (хэши комментариев, созданных этим клиентом, с паролями в открытом виде).
// Это лишь подсказка для автоматического ввода пароля; сервер проверяет его сам.
package localstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// Entry — запись reflog.
type Entry struct {
	Hash     string `yaml:"hash"`
	Password string `yaml:"password"`
}

type fileData struct {
	UserName string  `yaml:"user.name,omitempty"`
	Reflog   []Entry `yaml:"reflog,omitempty"`
}

// State — потокобезопасное состояние. При пустом path живёт только в памяти.
type State struct {
	mu   sync.Mutex
	path string
	data fileData
}

// Open читает файл состояния; отсутствующий файл не является ошибкой.
func Open(path string) (*State, error) {
	const op = "localstate/Open"

	s := &State{path: path}
	if path == "" {
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("%s: decode %s: %w", op, path, err)
	}

	return s, nil
}

// UserName возвращает сохранённое имя автора по умолчанию.
func (s *State) UserName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.data.UserName
}

func (s *State) SetUserName(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.UserName = name

	return s.saveLocked()
}

// Remember добавляет хэш в reflog (повторный хэш обновляет пароль на месте).
func (s *State) Remember(hash, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.data.Reflog {
		if s.data.Reflog[i].Hash == hash {
			s.data.Reflog[i].Password = password
			return s.saveLocked()
		}
	}

	s.data.Reflog = append(s.data.Reflog, Entry{Hash: hash, Password: password})

	return s.saveLocked()
}

// Password возвращает запомненный пароль для хэша.
func (s *State) Password(hash string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.data.Reflog {
		if e.Hash == hash {
			return e.Password, true
		}
	}

	return "", false
}

func (s *State) Forget(hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.data.Reflog[:0]
	for _, e := range s.data.Reflog {
		if e.Hash != hash {
			kept = append(kept, e)
		}
	}
	s.data.Reflog = kept

	return s.saveLocked()
}

// Reflog возвращает хэши в порядке добавления.
func (s *State) Reflog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.data.Reflog))
	for _, e := range s.data.Reflog {
		out = append(out, e.Hash)
	}

	return out
}

// saveLocked пишет файл атомарно: временный файл + rename.
func (s *State) saveLocked() error {
	const op = "localstate/save"

	if s.path == "" {
		return nil
	}

	raw, err := yaml.Marshal(&s.data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tmp, err := os.CreateTemp(dir, ".git-terminal-*")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
