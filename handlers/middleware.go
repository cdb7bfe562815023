package handlers

import (
	"net/http"
	"time"

	"tasks-api/auth"
	"tasks-api/utilities"
)

// LoggingMiddleware registra informações sobre cada requisição HTTP
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// ResponseWriter personalizado para capturar o status code
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		utilities.LogRequest(r.Method, r.URL.Path, r.RemoteAddr, rw.statusCode, time.Since(start))
	})
}

// responseWriter é um wrapper para http.ResponseWriter que captura o status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

// WriteHeader captura o status code antes de escrevê-lo
func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// AuthMiddleware exige um token Bearer válido antes de chamar next.
// As claims verificadas ficam disponíveis via auth.ClaimsFromContext.
func AuthMiddleware(verifier *auth.Verifier) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := auth.BearerToken(r)
			if err != nil {
				utilities.LogError(err, "Autenticação falhou")
				unauthorized(w, "Authorization header missing")
				return
			}

			claims, err := verifier.Verify(tokenString)
			if err != nil {
				// O detalhe fica só no log; o cliente recebe uma mensagem genérica.
				utilities.LogError(err, "Token inválido")
				unauthorized(w, "Invalid token")
				return
			}

			if username, ok := claims["username"].(string); ok {
				utilities.LogDebug("Token verificado com sucesso para o usuário: %s", username)
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		}
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer`)
	http.Error(w, msg, http.StatusUnauthorized)
}

