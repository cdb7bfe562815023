package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tasks-api/config"
	"tasks-api/database"
	"tasks-api/models"
	"tasks-api/utilities"
)

const testSecret = "routes-secret"

func TestMain(m *testing.M) {
	utilities.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:          testSecret,
		StoreDriver:        config.DriverMemory,
		CORSAllowedOrigins: []string{"*"},
	}
	srv := httptest.NewServer(NewRouter(cfg, database.NewMemoryStore()))
	t.Cleanup(srv.Close)
	return srv
}

func token(t *testing.T, secret string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func do(t *testing.T, method, url, body, bearer string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatal(err)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

func TestTasksRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	tok := token(t, testSecret)

	resp, body := do(t, http.MethodGet, srv.URL+"/tasks", "", tok)
	if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("empty list: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodPost, srv.URL+"/tasks", `{"title":"Buy milk","description":"2%"}`, tok)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create: %d %s", resp.StatusCode, body)
	}

	resp, body = do(t, http.MethodGet, srv.URL+"/tasks", "", tok)
	var tasks []models.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		t.Fatalf("decode list: %v (%s)", err, body)
	}
	if len(tasks) != 1 {
		t.Fatalf("tasks = %+v", tasks)
	}
	if tasks[0].ID == "" || tasks[0].Title != "Buy milk" || tasks[0].Description != "2%" {
		t.Errorf("task = %+v", tasks[0])
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t)
	for _, tc := range []struct {
		method, bearer string
	}{
		{http.MethodGet, ""},
		{http.MethodPost, ""},
		{http.MethodGet, token(t, "another-secret")},
		{http.MethodPost, token(t, "another-secret")},
	} {
		resp, _ := do(t, tc.method, srv.URL+"/tasks", `{"title":"x","description":"y"}`, tc.bearer)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s /tasks bearer=%t: status %d, want 401", tc.method, tc.bearer != "", resp.StatusCode)
		}
	}

	// Nada deve ter sido gravado pelas requisições rejeitadas.
	_, body := do(t, http.MethodGet, srv.URL+"/tasks", "", token(t, testSecret))
	if strings.TrimSpace(string(body)) != "[]" {
		t.Errorf("store changed by rejected requests: %s", body)
	}
}

func TestSearchRoute(t *testing.T) {
	srv := newTestServer(t)
	tok := token(t, testSecret)

	for _, body := range []string{
		`{"title":"Buy milk","description":"2%"}`,
		`{"title":"Walk dog","description":"around the park"}`,
	} {
		if resp, b := do(t, http.MethodPost, srv.URL+"/tasks", body, tok); resp.StatusCode != http.StatusOK {
			t.Fatalf("create: %d %s", resp.StatusCode, b)
		}
	}

	resp, _ := do(t, http.MethodGet, srv.URL+"/tasks/search?q=milk", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("search without token: %d, want 401", resp.StatusCode)
	}

	resp, body := do(t, http.MethodGet, srv.URL+"/tasks/search?q=PARK", "", tok)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search: %d %s", resp.StatusCode, body)
	}
	var tasks []models.Task
	if err := json.Unmarshal(body, &tasks); err != nil {
		t.Fatalf("decode: %v (%s)", err, body)
	}
	if len(tasks) != 1 || tasks[0].Title != "Walk dog" || tasks[0].ID == "" {
		t.Errorf("tasks = %+v", tasks)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/tasks/search", "", tok)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("search without q: %d, want 400", resp.StatusCode)
	}
}

func TestEventsEchoRegardlessOfAuth(t *testing.T) {
	srv := newTestServer(t)
	for _, bearer := range []string{"", "garbage", token(t, testSecret)} {
		resp, body := do(t, http.MethodPost, srv.URL+"/tasks/events", `{"x": 1}`, bearer)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("bearer %q: status %d", bearer, resp.StatusCode)
		}
		var got map[string]map[string]int
		if err := json.Unmarshal(body, &got); err != nil {
			t.Fatalf("decode: %v (%s)", err, body)
		}
		if got["received"]["x"] != 1 || len(got) != 1 {
			t.Errorf("body = %s", body)
		}
	}
}

func TestRoutingDetails(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
		t.Errorf("healthz: %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodDelete, srv.URL+"/tasks", "", token(t, testSecret))
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /tasks: %d, want 405", resp.StatusCode)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/tasks/events", "", "")
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET /tasks/events: %d, want 405", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	cors, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	cors.Body.Close()
	if cors.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

// closeTracker marca se o store foi fechado no encerramento.
type closeTracker struct {
	*database.MemoryStore
	closed bool
}

func (c *closeTracker) Close(ctx context.Context) error {
	c.closed = true
	return c.MemoryStore.Close(ctx)
}

func TestServeShutsDownOnCancel(t *testing.T) {
	store := &closeTracker{MemoryStore: database.NewMemoryStore()}
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, store, time.Second) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	if !store.closed {
		t.Error("store was not closed")
	}
}

func TestServeReportsListenError(t *testing.T) {
	store := &closeTracker{MemoryStore: database.NewMemoryStore()}
	srv := &http.Server{Addr: "127.0.0.1:-1"}

	if err := serve(context.Background(), srv, store, time.Second); err == nil {
		t.Fatal("expected listen error")
	}
	if !store.closed {
		t.Error("store was not closed")
	}
}
