package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/auth"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/domain"
	handlers "github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/http"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/service"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/simulation"
	"github.com/Rohith1905/Smart-Home-Energy-Monitor/internal/testutil"
)

var testSecret = []byte("test-secret")

type stubChat struct {
	reply string
	err   error
}

func (s stubChat) Chat(context.Context, string) (string, error) { return s.reply, s.err }

func newTestApp(store *testutil.MemStore, chat handlers.ChatClient) *fiber.App {
	app := fiber.New()
	svcs := service.NewWithStore(store, simulation.NewGenerator(nil), 24*time.Hour)
	handlers.Register(app, handlers.Deps{Services: svcs, Chat: chat, JWTSecret: testSecret})
	return app
}

func request(t *testing.T, app *fiber.App, method, path, userID string, body any) *nethttp.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		token, err := auth.GenerateToken(userID, testSecret)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *nethttp.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(testutil.NewMemStore(), nil)

	for _, path := range []string{"/api/data/current", "/api/devices/", "/api/data/history"} {
		resp := request(t, app, "GET", path, "", nil)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Errorf("GET %s without token = %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	app := newTestApp(testutil.NewMemStore(), nil)

	resp := request(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "hunter2",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register = %d, want 201", resp.StatusCode)
	}
	var registered struct {
		Token string `json:"token"`
	}
	decode(t, resp, &registered)
	if registered.Token == "" {
		t.Fatal("register returned no token")
	}

	resp = request(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "hunter2",
	})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login = %d, want 200", resp.StatusCode)
	}

	resp = request(t, app, "POST", "/api/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("login with bad password = %d, want 401", resp.StatusCode)
	}

	resp = request(t, app, "POST", "/api/auth/register", "", map[string]string{
		"name": "Alice2", "email": "alice@example.com", "password": "other",
	})
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("duplicate register = %d, want 409", resp.StatusCode)
	}
}

func TestDeviceLifecycle(t *testing.T) {
	store := testutil.NewMemStore()
	app := newTestApp(store, nil)

	resp := request(t, app, "POST", "/api/devices/", "alice", map[string]string{
		"name": "roof array", "type": "solar", "location": "roof",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create device = %d, want 201", resp.StatusCode)
	}
	var created domain.Device
	decode(t, resp, &created)
	if created.Type != domain.DeviceSolar || created.UserID != "alice" {
		t.Fatalf("created device = %+v", created)
	}

	resp = request(t, app, "POST", "/api/devices/", "alice", map[string]string{
		"name": "mystery box", "type": "battery",
	})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("create with bad type = %d, want 400", resp.StatusCode)
	}

	var listed []domain.Device
	resp = request(t, app, "GET", "/api/devices/", "alice", nil)
	decode(t, resp, &listed)
	if len(listed) != 1 {
		t.Fatalf("list returned %d devices, want 1", len(listed))
	}

	// Another user never sees it: 404, not 403.
	resp = request(t, app, "GET", "/api/devices/"+created.ID, "bob", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("foreign device lookup = %d, want 404", resp.StatusCode)
	}
	resp = request(t, app, "DELETE", "/api/devices/"+created.ID, "bob", nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("foreign device delete = %d, want 404", resp.StatusCode)
	}

	resp = request(t, app, "DELETE", "/api/devices/"+created.ID, "alice", nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete = %d, want 200", resp.StatusCode)
	}
	if got := store.SampleCount(created.ID); got != 0 {
		t.Errorf("device delete left %d samples behind", got)
	}
}

func TestAIChat(t *testing.T) {
	app := newTestApp(testutil.NewMemStore(), stubChat{reply: "turn the heater down"})

	resp := request(t, app, "POST", "/api/ai/chat", "alice", map[string]string{"message": "any advice?"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("chat = %d, want 200", resp.StatusCode)
	}
	var reply struct {
		Response string `json:"response"`
	}
	decode(t, resp, &reply)
	if reply.Response != "turn the heater down" {
		t.Errorf("response = %q", reply.Response)
	}

	resp = request(t, app, "POST", "/api/ai/chat", "alice", map[string]string{"message": ""})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("empty message = %d, want 400", resp.StatusCode)
	}

	failing := newTestApp(testutil.NewMemStore(), stubChat{err: errors.New("upstream down")})
	resp = request(t, failing, "POST", "/api/ai/chat", "alice", map[string]string{"message": "hi"})
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("upstream failure = %d, want 500", resp.StatusCode)
	}

	unconfigured := newTestApp(testutil.NewMemStore(), nil)
	resp = request(t, unconfigured, "POST", "/api/ai/chat", "alice", map[string]string{"message": "hi"})
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("chat without client = %d, want 503", resp.StatusCode)
	}
}
