package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"tasks-api/config"
	"tasks-api/models"
	"tasks-api/utilities"
)

// PostgresStore guarda as tarefas em uma tabela simples; o ID é um BIGSERIAL.
type PostgresStore struct {
	db    *sql.DB
	table string
}

// ConnectPostgres abre a conexão, testa com ping e garante que a tabela existe.
func ConnectPostgres(ctx context.Context, pg config.PostgresConfig, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", pg.DSN())
	if err != nil {
		return nil, unavailable("abrir conexão com o PostgreSQL", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, unavailable("conectar ao PostgreSQL", err)
	}

	store := NewPostgresStore(db, table)
	if err := store.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	utilities.LogInfo("Conectado ao PostgreSQL com sucesso (%s:%s/%s)", pg.Host, pg.Port, pg.DBName)
	return store, nil
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: pq.QuoteIdentifier(table)}
}

// EnsureSchema cria a tabela de tarefas se ela ainda não existir.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id          BIGSERIAL PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL
		)`, s.table)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return unavailable("criar tabela de tarefas", err)
	}
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, title, description FROM %s ORDER BY id`, s.table))
	if err != nil {
		return nil, unavailable("listar tarefas", err)
	}
	return scanTasks(rows)
}

// Search usa ILIKE com os curingas de q escapados.
func (s *PostgresStore) Search(ctx context.Context, q string) ([]models.Task, error) {
	query := fmt.Sprintf(`SELECT id, title, description FROM %s
		WHERE title ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'
		ORDER BY id`, s.table)
	rows, err := s.db.QueryContext(ctx, query, likePattern(q))
	if err != nil {
		return nil, unavailable("buscar tarefas", err)
	}
	return scanTasks(rows)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern transforma q em um padrão LIKE de substring literal.
func likePattern(q string) string {
	return "%" + likeEscaper.Replace(q) + "%"
}

func scanTasks(rows *sql.Rows) ([]models.Task, error) {
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var id int64
		var task models.Task
		if err := rows.Scan(&id, &task.Title, &task.Description); err != nil {
			return nil, unavailable("ler tarefa", err)
		}
		task.ID = strconv.FormatInt(id, 10)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("listar tarefas", err)
	}
	return tasks, nil
}

func (s *PostgresStore) Insert(ctx context.Context, title, description string) (models.Task, error) {
	var id int64
	query := fmt.Sprintf(`INSERT INTO %s (title, description) VALUES ($1, $2) RETURNING id`, s.table)
	if err := s.db.QueryRowContext(ctx, query, title, description).Scan(&id); err != nil {
		return models.Task{}, unavailable("inserir tarefa", err)
	}
	return models.Task{
		ID:          strconv.FormatInt(id, 10),
		Title:       title,
		Description: description,
	}, nil
}

func (s *PostgresStore) Close(context.Context) error {
	return s.db.Close()
}
