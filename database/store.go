// Package database guarda as tarefas em um banco de documentos.
// Cada driver é dono da conversão do identificador nativo para string;
// nenhum outro pacote deve supor a estrutura desse ID.
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tasks-api/config"
	"tasks-api/firebase"
	"tasks-api/models"
)

// ErrStoreUnavailable envolve qualquer falha ao falar com o banco.
var ErrStoreUnavailable = errors.New("armazenamento de tarefas indisponível")

// TaskStore é o adaptador sobre a coleção de tarefas.
type TaskStore interface {
	// ListAll devolve todas as tarefas na ordem natural do banco.
	// Um banco vazio devolve uma slice vazia, nunca nil.
	ListAll(ctx context.Context) ([]models.Task, error)
	// Insert grava exatamente title e description e devolve o registro com o ID atribuído.
	Insert(ctx context.Context, title, description string) (models.Task, error)
	// Search devolve as tarefas cujo título ou descrição contém q,
	// sem diferenciar maiúsculas. q é texto literal; q vazio casa com tudo.
	Search(ctx context.Context, q string) ([]models.Task, error)
	Close(ctx context.Context) error
}

// taskDocument é a forma persistida, compartilhada pelos drivers de documento.
type taskDocument struct {
	Title       string `bson:"title" firestore:"title"`
	Description string `bson:"description" firestore:"description"`
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

// matchesQuery aplica em memória a mesma regra de Search.
func matchesQuery(task models.Task, q string) bool {
	q = strings.ToLower(q)
	return strings.Contains(strings.ToLower(task.Title), q) ||
		strings.Contains(strings.ToLower(task.Description), q)
}

// Open conecta no driver escolhido em cfg.StoreDriver e verifica a conexão.
func Open(ctx context.Context, cfg *config.Config) (TaskStore, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.TasksCollection)
	case config.DriverFirestore:
		client, err := firebase.NewFirestoreClient(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseProjectID)
		if err != nil {
			return nil, unavailable("firestore", err)
		}
		return NewFirestoreStore(client, cfg.TasksCollection), nil
	case config.DriverPostgres:
		return ConnectPostgres(ctx, cfg.Postgres, cfg.TasksCollection)
	case config.DriverMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("driver de armazenamento desconhecido: %q", cfg.StoreDriver)
	}
}
