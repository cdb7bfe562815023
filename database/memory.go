package database

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"tasks-api/models"
)

// MemoryStore mantém as tarefas em memória, na ordem de inserção.
// Serve para desenvolvimento local e testes; nada sobrevive ao processo.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks []models.Task
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListAll(ctx context.Context) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("listar tarefas", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

func (s *MemoryStore) Search(ctx context.Context, q string) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, unavailable("buscar tarefas", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Task{}
	for _, task := range s.tasks {
		if matchesQuery(task, q) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, title, description string) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, unavailable("inserir tarefa", err)
	}
	task := models.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
	}

	s.mu.Lock()
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()
	return task, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
