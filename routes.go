package main

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tasks-api/auth"
	"tasks-api/config"
	"tasks-api/database"
	"tasks-api/handlers"
	"tasks-api/utilities"
)

// NewRouter monta as rotas da API sobre o store já conectado.
func NewRouter(cfg *config.Config, store database.TaskStore) http.Handler {
	r := mux.NewRouter()

	// Aplicar o middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)

	requireAuth := handlers.AuthMiddleware(auth.NewVerifier(cfg.JWTSecret))
	tasks := handlers.NewTaskHandler(store)

	// --- Rotas públicas ---
	r.HandleFunc("/healthz", handlers.HealthHandler).Methods("GET")
	r.HandleFunc("/tasks/events", handlers.ReceiveEventHandler).Methods("POST")

	// --- Rotas de tarefas (protegidas) ---
	r.HandleFunc("/tasks", requireAuth(tasks.ListTasksHandler)).Methods("GET")
	r.HandleFunc("/tasks", requireAuth(tasks.CreateTaskHandler)).Methods("POST")
	r.HandleFunc("/tasks/search", requireAuth(tasks.SearchTasksHandler)).Methods("GET")

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"})
	origins := gorillahandlers.AllowedOrigins(cfg.CORSAllowedOrigins)
	if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
		utilities.LogInfo("CORS_ALLOWED_ORIGINS não definida, permitindo todas as origens ('*'). Defina para maior segurança em produção.")
	}
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", cfg.CORSAllowedOrigins)

	recovery := gorillahandlers.RecoveryHandler(
		gorillahandlers.RecoveryLogger(utilities.ErrorLogger),
		gorillahandlers.PrintRecoveryStack(true),
	)
	return recovery(gorillahandlers.CORS(headers, methods, origins)(r))
}
