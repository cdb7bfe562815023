package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("SignedString: %v", err)
	}
	return s
}

func TestVerifyReturnsEncodedClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"username": "alice",
		"admin":    true,
		"exp":      exp,
		"tags":     []string{"a", "b"},
	})

	claims, err := NewVerifier(testSecret).Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}

	want := Claims{
		"username": "alice",
		"admin":    true,
		"exp":      json.Number(strconv.FormatInt(exp, 10)),
		"tags":     []interface{}{"a", "b"},
	}
	if !reflect.DeepEqual(claims, want) {
		t.Errorf("claims = %#v, want %#v", claims, want)
	}
}

func TestVerifyKeepsLargeIntegers(t *testing.T) {
	// 2^53 + 1 não cabe em float64 sem arredondar.
	const uid int64 = 9007199254740993
	token := sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
		"uid": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	claims, err := NewVerifier(testSecret).Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	n, ok := claims["uid"].(json.Number)
	if !ok {
		t.Fatalf("uid claim has type %T, want json.Number", claims["uid"])
	}
	got, err := n.Int64()
	if err != nil || got != uid {
		t.Errorf("uid = %s (%v), want %d", n, err, uid)
	}
}

func TestVerifyRejects(t *testing.T) {
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	base := jwt.MapClaims{"username": "alice"}

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other-secret"), base)},
		{"HS384", sign(t, jwt.SigningMethodHS384, []byte(testSecret), base)},
		{"HS512", sign(t, jwt.SigningMethodHS512, []byte(testSecret), base)},
		{"RS256", sign(t, jwt.SigningMethodRS256, rsaKey, base)},
		{"alg none", sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, base)},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"username": "alice",
			"exp":      time.Now().Add(-time.Minute).Unix(),
		})},
		{"not yet valid", sign(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{
			"nbf": time.Now().Add(time.Hour).Unix(),
		})},
		{"malformed", "not.a.token"},
		{"garbage", "abc"},
		{"empty", ""},
	}

	v := NewVerifier(testSecret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := v.Verify(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("err = %v, want ErrInvalidToken", err)
			}
			if claims != nil {
				t.Errorf("claims = %v, want nil", claims)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"lowercase scheme", "bearer abc", "abc", nil},
		{"extra spaces", "Bearer   abc  ", "abc", nil},
		{"missing header", "", "", ErrMissingCredentials},
		{"basic scheme", "Basic dXNlcjpwYXNz", "", ErrMissingCredentials},
		{"scheme only", "Bearer", "", ErrMissingCredentials},
		{"scheme and blank", "Bearer    ", "", ErrMissingCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/tasks", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := BearerToken(r)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("token = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClaimsContext(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, ok := ClaimsFromContext(r.Context()); ok {
		t.Fatal("fresh context should carry no claims")
	}
	ctx := WithClaims(r.Context(), Claims{"sub": "42"})
	got, ok := ClaimsFromContext(ctx)
	if !ok || got["sub"] != "42" {
		t.Errorf("ClaimsFromContext = %v, %v", got, ok)
	}
}
