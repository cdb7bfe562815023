package utilities

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

const logFlags = log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile

// Os loggers já nascem prontos para uso; InitLogger apenas ajusta o nível.
var (
	InfoLogger  = log.New(os.Stdout, "\033[32m[INFO]\033[0m ", logFlags)
	ErrorLogger = log.New(os.Stderr, "\033[31m[ERROR]\033[0m ", logFlags)
	DebugLogger = log.New(io.Discard, "\033[36m[DEBUG]\033[0m ", logFlags)
)

// InitLogger inicializa os loggers. Com debug=false as mensagens de debug são descartadas.
func InitLogger(debug bool) {
	log.SetFlags(logFlags)

	if debug {
		DebugLogger.SetOutput(os.Stdout)
	} else {
		DebugLogger.SetOutput(io.Discard)
	}
}

// SetOutput redireciona todos os loggers para o mesmo destino.
func SetOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
	DebugLogger.SetOutput(w)
}

// LogRequest registra informações sobre a requisição HTTP
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	InfoLogger.Output(2, fmt.Sprintf("%s %s %s %d %v", method, path, remoteAddr, status, duration))
}

// LogError registra erros com o contexto em que ocorreram.
// Output(2, ...) faz o Lshortfile apontar para quem chamou, não para este arquivo.
func LogError(err error, context string) {
	ErrorLogger.Output(2, fmt.Sprintf("%s: %v", context, err))
}

// LogDebug registra informações de debug
func LogDebug(format string, v ...interface{}) {
	DebugLogger.Output(2, fmt.Sprintf(format, v...))
}

// LogInfo registra informações gerais
func LogInfo(format string, v ...interface{}) {
	InfoLogger.Output(2, fmt.Sprintf(format, v...))
}
