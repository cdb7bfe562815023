package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tasks-api/config"
	"tasks-api/database"
	"tasks-api/utilities"
)

func main() {
	cfg, loadedDotenv, err := config.Load()
	if err != nil {
		log.Fatalf("Erro ao carregar configuração: %v", err)
	}

	utilities.InitLogger(cfg.Debug)
	if !loadedDotenv {
		utilities.LogInfo("Arquivo .env não encontrado, usando apenas variáveis de ambiente")
	}
	if cfg.UsingDefaultSecret() {
		utilities.LogInfo("JWT_SECRET não definida, usando o segredo padrão de desenvolvimento. Não use em produção.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	utilities.LogInfo("Conectando ao armazenamento de tarefas (driver %s)", cfg.StoreDriver)
	store, err := database.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Erro ao conectar ao banco de dados: %v", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewRouter(cfg, store),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := serve(ctx, srv, store, cfg.ShutdownTimeout); err != nil {
		log.Fatalf("Erro no servidor: %v", err)
	}
	utilities.LogInfo("Servidor encerrado")
}

// serve atende até ctx ser cancelado ou o listener falhar, e então
// encerra o servidor e fecha o store dentro de timeout.
func serve(ctx context.Context, srv *http.Server, store database.TaskStore, timeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		utilities.LogInfo("Servidor iniciado em %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	var serveErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			serveErr = err
		}
	case <-ctx.Done():
		utilities.LogInfo("Sinal de encerramento recebido, aguardando requisições em andamento")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil && serveErr == nil {
		serveErr = err
	}
	if err := store.Close(shutdownCtx); err != nil {
		utilities.LogError(err, "Erro ao fechar conexão com o banco de dados")
		if serveErr == nil {
			serveErr = err
		}
	}
	return serveErr
}
