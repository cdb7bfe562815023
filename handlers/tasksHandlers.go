package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"tasks-api/database"
	"tasks-api/models"
	"tasks-api/utilities"
)

// Limite do corpo aceito em POST /tasks e POST /tasks/events.
const maxBodyBytes = 1 << 20

// TaskHandler reúne as rotas de tarefas. O store é criado no main e
// injetado aqui; os handlers não abrem conexões próprias.
type TaskHandler struct {
	store database.TaskStore
}

func NewTaskHandler(store database.TaskStore) *TaskHandler {
	return &TaskHandler{store: store}
}

// ListTasksHandler lista todas as tarefas
func (h *TaskHandler) ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando listagem de tarefas")

	tasks, err := h.store.ListAll(r.Context())
	if err != nil {
		storeError(w, err, "Erro ao listar tarefas")
		return
	}

	utilities.LogInfo("Tarefas listadas com sucesso - total: %d", len(tasks))
	writeJSON(w, http.StatusOK, tasks)
}

// SearchTasksHandler busca tarefas pelo parâmetro q, em título ou descrição
func (h *TaskHandler) SearchTasksHandler(w http.ResponseWriter, r *http.Request) {
	values, ok := r.URL.Query()["q"]
	if !ok {
		utilities.LogError(errors.New("parâmetro q ausente"), "Validação falhou")
		http.Error(w, "Query parameter q is required", http.StatusBadRequest)
		return
	}
	q := values[0]
	utilities.LogDebug("Buscando tarefas com q=%q", q)

	tasks, err := h.store.Search(r.Context(), q)
	if err != nil {
		storeError(w, err, "Erro ao buscar tarefas")
		return
	}

	utilities.LogInfo("Busca de tarefas concluída - total: %d", len(tasks))
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTaskHandler valida o corpo e cria uma nova tarefa
func (h *TaskHandler) CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	utilities.LogDebug("Iniciando criação de nova tarefa")

	var input models.CreateTaskInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&input); err != nil {
		utilities.LogError(err, "Erro ao decodificar JSON da tarefa")
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		utilities.LogError(errors.New("dados após o objeto JSON"), "Erro ao decodificar JSON da tarefa")
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	if input.Title == nil || strings.TrimSpace(*input.Title) == "" {
		utilities.LogError(errors.New("título da tarefa não fornecido"), "Validação falhou")
		http.Error(w, "Task title is required", http.StatusBadRequest)
		return
	}
	if input.Description == nil {
		utilities.LogError(errors.New("descrição da tarefa não fornecida"), "Validação falhou")
		http.Error(w, "Task description is required", http.StatusBadRequest)
		return
	}

	task, err := h.store.Insert(r.Context(), *input.Title, *input.Description)
	if err != nil {
		storeError(w, err, "Erro ao inserir tarefa")
		return
	}

	utilities.LogInfo("Tarefa criada com sucesso: %s (ID: %s)", task.Title, task.ID)
	writeJSON(w, http.StatusOK, task)
}

// ReceiveEventHandler devolve o evento recebido dentro de {"received": ...}.
// Não há autenticação, persistência nem processamento.
func ReceiveEventHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		utilities.LogError(err, "Erro ao ler corpo do evento")
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	// json.Valid aceita bytes inválidos dentro de strings; o eco não pode devolvê-los.
	event := bytes.TrimSpace(body)
	if len(event) == 0 || !utf8.Valid(event) || !json.Valid(event) {
		utilities.LogError(errors.New("evento não é um JSON válido"), "Erro ao decodificar evento")
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	utilities.LogDebug("Evento recebido (%d bytes)", len(event))
	writeJSON(w, http.StatusOK, map[string]json.RawMessage{"received": event})
}

// HealthHandler responde às sondas de disponibilidade sem tocar no banco.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.LogError(err, "Erro ao codificar resposta JSON")
	}
}

// storeError responde 503 quando o banco está indisponível e 500 para o resto.
func storeError(w http.ResponseWriter, err error, context string) {
	utilities.LogError(err, context)
	if errors.Is(err, database.ErrStoreUnavailable) {
		http.Error(w, "Task store unavailable", http.StatusServiceUnavailable)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
