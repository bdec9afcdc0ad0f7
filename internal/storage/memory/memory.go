// memory — хранилище в памяти процесса: локальный запуск (storage.driver=memory) и тесты.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pribylovaa/git-comments/internal/models"
	"github.com/pribylovaa/git-comments/internal/storage"
)

// Memory повторяет раскладку KV: индекс поста, тела и пароли под отдельными ключами.
type Memory struct {
	mu        sync.RWMutex
	index     map[string][]string
	bodies    map[string]models.Comment
	passwords map[string]string
}

// New создаёт пустое хранилище.
func New() *Memory {
	return &Memory{
		index:     make(map[string][]string),
		bodies:    make(map[string]models.Comment),
		passwords: make(map[string]string),
	}
}

var _ storage.Storage = (*Memory)(nil)

func (m *Memory) CreateComment(_ context.Context, comm models.Comment, passwordHash string) error {
	const op = "storage/memory/CreateComment"

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.bodies[comm.Hash]; ok {
		return fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	storage.NormalizeTimes(&comm)
	m.bodies[comm.Hash] = comm
	m.index[comm.PostID] = append([]string{comm.Hash}, m.index[comm.PostID]...)

	if passwordHash != "" {
		m.passwords[comm.Hash] = passwordHash
	}

	return nil
}

func (m *Memory) CommentByID(_ context.Context, hash string) (*models.Comment, error) {
	const op = "storage/memory/CommentByID"

	m.mu.RLock()
	defer m.mu.RUnlock()

	comm, ok := m.bodies[hash]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &comm, nil
}

func (m *Memory) ListByPost(_ context.Context, postID string) ([]models.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hashes := m.index[postID]
	out := make([]models.Comment, 0, len(hashes))
	for _, h := range hashes {
		if comm, ok := m.bodies[h]; ok {
			out = append(out, comm)
		}
	}

	return out, nil
}

func (m *Memory) UpdateMessage(_ context.Context, hash, message string, updatedAt time.Time) error {
	const op = "storage/memory/UpdateMessage"

	m.mu.Lock()
	defer m.mu.Unlock()

	comm, ok := m.bodies[hash]
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	comm.Message = message
	comm.UpdatedAt = updatedAt
	storage.NormalizeTimes(&comm)
	m.bodies[hash] = comm

	return nil
}

func (m *Memory) DeleteComment(_ context.Context, postID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.index[postID] = slices.DeleteFunc(m.index[postID], func(h string) bool { return h == hash })
	if len(m.index[postID]) == 0 {
		delete(m.index, postID)
	}

	delete(m.bodies, hash)
	delete(m.passwords, hash)

	return nil
}

func (m *Memory) PasswordHash(_ context.Context, hash string) (string, error) {
	const op = "storage/memory/PasswordHash"

	m.mu.RLock()
	defer m.mu.RUnlock()

	ph, ok := m.passwords[hash]
	if !ok {
		return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return ph, nil
}

func (m *Memory) Close(context.Context) error { return nil }
