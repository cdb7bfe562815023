// Package auth verifica tokens Bearer assinados com HMAC-SHA256.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingCredentials indica que nenhum token Bearer foi apresentado.
	ErrMissingCredentials = errors.New("credenciais ausentes")
	// ErrInvalidToken cobre qualquer falha de verificação: estrutura, assinatura,
	// algoritmo ou claims temporais. O chamador não distingue entre elas.
	ErrInvalidToken = errors.New("token inválido")
)

// Claims é o payload decodificado de um token verificado.
type Claims map[string]any

// Verifier valida tokens contra um segredo compartilhado.
// Não guarda estado entre chamadas e pode ser usado por várias goroutines.
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier cria um Verifier que só aceita HS256.
// Números nas claims chegam como json.Number, sem perda de precisão.
func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithJSONNumber(),
		),
	}
}

// Verify decodifica o token e devolve as claims se a assinatura for válida.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	claims := jwt.MapClaims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return Claims(claims), nil
}

// BearerToken extrai o token do header Authorization no formato "Bearer <token>".
// O esquema é comparado sem diferenciar maiúsculas.
func BearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", ErrMissingCredentials
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingCredentials
	}
	return token, nil
}

type claimsKey struct{}

// WithClaims anexa as claims ao contexto da requisição.
func WithClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext recupera as claims colocadas pelo AuthMiddleware.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(Claims)
	return claims, ok
}
