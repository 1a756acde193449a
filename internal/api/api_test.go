package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/shredworks/pickup-scheduling/internal/api"
	"github.com/shredworks/pickup-scheduling/internal/auth"
	"github.com/shredworks/pickup-scheduling/internal/scheduling"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin123"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	repo := scheduling.NewMemoryRepository()
	schedSvc := scheduling.NewService(repo, scheduling.NewMutexLocker(), zerolog.Nop())
	authSvc := auth.NewService(auth.NewUserStore(), auth.NewSessionStore(), 7*24*time.Hour, zerolog.Nop())

	if err := authSvc.EnsureAdmin(context.Background(), "Administrator", adminEmail, adminPassword); err != nil {
		t.Fatalf("bootstrap admin: %v", err)
	}

	router := api.NewRouter(api.RouterConfig{
		Auth:         authSvc,
		Scheduling:   schedSvc,
		LoginLimiter: api.NewRateLimiter(1000, 1000),
		Env:          "test",
		Version:      "test",
		Log:          zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type client struct {
	t    *testing.T
	base string
	http *http.Client
}

func newClient(t *testing.T, srv *httptest.Server) *client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &client{t: t, base: srv.URL, http: &http.Client{Jar: jar}}
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, reader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && err != io.EOF {
		c.t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func (c *client) login(email, password string) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email": email, "password": password,
	})
	if status != http.StatusOK {
		c.t.Fatalf("login status = %d, body = %v", status, body)
	}
}

func (c *client) registerAndLogin(name, email, password string) {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/api/auth/register", map[string]any{
		"name": name, "email": email, "password": password,
	})
	if status != http.StatusCreated {
		c.t.Fatalf("register status = %d, body = %v", status, body)
	}
	c.login(email, password)
}

func appointmentBody() map[string]any {
	return map[string]any{
		"contactName":     "Dana Reyes",
		"contactPhone":    "555-0134",
		"address":         "123 Archive Row",
		"appointmentTime": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"items":           []map[string]any{{"type": "document bags", "quantity": 5}},
	}
}

func payloadID(t *testing.T, body map[string]any, key string) string {
	t.Helper()
	record, ok := body[key].(map[string]any)
	if !ok {
		t.Fatalf("missing %q payload: %v", key, body)
	}
	id, _ := record["id"].(string)
	if id == "" {
		t.Fatalf("missing id in %q payload: %v", key, body)
	}
	return id
}

func TestLoginCookieAndMe(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	c.login(adminEmail, adminPassword)

	status, body := c.do(http.MethodGet, "/api/auth/me", nil)
	if status != http.StatusOK {
		t.Fatalf("me status = %d", status)
	}
	user := body["user"].(map[string]any)
	if user["role"] != "admin" {
		t.Fatalf("role = %v, want admin", user["role"])
	}
}

func TestLoginWrongPassword(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	status, body := c.do(http.MethodPost, "/api/auth/login", map[string]any{
		"email": adminEmail, "password": "nope",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", status)
	}
	if body["success"] != false {
		t.Fatalf("success = %v, want false", body["success"])
	}
}

func TestUnauthenticatedRequests(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	for _, path := range []string{"/api/appointments", "/api/auth/me", "/api/staff"} {
		status, _ := c.do(http.MethodGet, path, nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("GET %s status = %d, want 401", path, status)
		}
	}
}

func TestAdminRoutesForbiddenForUsers(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)
	c.registerAndLogin("Dana Reyes", "dana@example.com", "secret123")

	for _, path := range []string{"/api/staff", "/api/vehicles", "/api/export?type=staff"} {
		status, _ := c.do(http.MethodGet, path, nil)
		if status != http.StatusForbidden {
			t.Fatalf("GET %s status = %d, want 403", path, status)
		}
	}
}

func TestRegisterValidation(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing name", map[string]any{"email": "a@b.com", "password": "secret123"}},
		{"missing email", map[string]any{"name": "A", "password": "secret123"}},
		{"bad email", map[string]any{"name": "A", "email": "nope", "password": "secret123"}},
		{"short password", map[string]any{"name": "A", "email": "a@b.com", "password": "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := c.do(http.MethodPost, "/api/auth/register", tt.body)
			if status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400, body = %v", status, body)
			}
		})
	}
}

func TestCreateAppointmentValidation(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)
	c.registerAndLogin("Dana Reyes", "dana@example.com", "secret123")

	body := appointmentBody()
	delete(body, "address")

	status, resp := c.do(http.MethodPost, "/api/appointments", body)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %v", status, resp)
	}

	body = appointmentBody()
	body["items"] = []map[string]any{{"type": "document bags", "quantity": 0}}
	status, resp = c.do(http.MethodPost, "/api/appointments", body)
	if status != http.StatusBadRequest {
		t.Fatalf("zero quantity status = %d, want 400, body = %v", status, resp)
	}
}

func TestListAppointmentsScopedToUser(t *testing.T) {
	srv := newServer(t)

	dana := newClient(t, srv)
	dana.registerAndLogin("Dana Reyes", "dana@example.com", "secret123")
	lee := newClient(t, srv)
	lee.registerAndLogin("Lee Park", "lee@example.com", "secret123")

	if status, _ := dana.do(http.MethodPost, "/api/appointments", appointmentBody()); status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}

	status, body := lee.do(http.MethodGet, "/api/appointments", nil)
	if status != http.StatusOK {
		t.Fatalf("list status = %d", status)
	}
	if appts := body["appointments"].([]any); len(appts) != 0 {
		t.Fatalf("lee sees %d appointments, want 0", len(appts))
	}

	// Admin sees everything.
	admin := newClient(t, srv)
	admin.login(adminEmail, adminPassword)
	status, body = admin.do(http.MethodGet, "/api/appointments", nil)
	if status != http.StatusOK {
		t.Fatalf("admin list status = %d", status)
	}
	if appts := body["appointments"].([]any); len(appts) != 1 {
		t.Fatalf("admin sees %d appointments, want 1", len(appts))
	}
}

func TestAssignCompleteScenario(t *testing.T) {
	srv := newServer(t)

	admin := newClient(t, srv)
	admin.login(adminEmail, adminPassword)

	status, body := admin.do(http.MethodPost, "/api/staff", map[string]any{"name": "Lee Park", "phone": "555-0178"})
	if status != http.StatusCreated {
		t.Fatalf("create staff status = %d", status)
	}
	staffID := payloadID(t, body, "staff")

	status, body = admin.do(http.MethodPost, "/api/vehicles", map[string]any{"plate": "KJA-1234", "type": "box truck"})
	if status != http.StatusCreated {
		t.Fatalf("create vehicle status = %d", status)
	}
	vehicleID := payloadID(t, body, "vehicle")

	user := newClient(t, srv)
	user.registerAndLogin("Dana Reyes", "dana@example.com", "secret123")
	status, body = user.do(http.MethodPost, "/api/appointments", appointmentBody())
	if status != http.StatusCreated {
		t.Fatalf("create appointment status = %d", status)
	}
	apptID := payloadID(t, body, "appointment")

	// Assign: appointment moves to assigned, both resources flip unavailable.
	status, body = admin.do(http.MethodPost, "/api/appointments/"+apptID+"/assign",
		map[string]any{"staffId": staffID, "vehicleId": vehicleID})
	if status != http.StatusOK {
		t.Fatalf("assign status = %d, body = %v", status, body)
	}
	appt := body["appointment"].(map[string]any)
	if appt["status"] != "assigned" {
		t.Fatalf("status = %v, want assigned", appt["status"])
	}

	_, body = admin.do(http.MethodGet, "/api/staff/"+staffID, nil)
	if body["staff"].(map[string]any)["available"] != false {
		t.Fatal("staff still available after assignment")
	}

	// Assigning the same resources to another appointment conflicts.
	status, body = user.do(http.MethodPost, "/api/appointments", appointmentBody())
	if status != http.StatusCreated {
		t.Fatalf("second create status = %d", status)
	}
	otherID := payloadID(t, body, "appointment")
	status, body = admin.do(http.MethodPost, "/api/appointments/"+otherID+"/assign",
		map[string]any{"staffId": staffID, "vehicleId": vehicleID})
	if status != http.StatusBadRequest {
		t.Fatalf("conflicting assign status = %d, body = %v", status, body)
	}

	// Complete: appointment done, resources released.
	status, body = admin.do(http.MethodPost, "/api/appointments/"+apptID+"/complete", nil)
	if status != http.StatusOK {
		t.Fatalf("complete status = %d, body = %v", status, body)
	}
	if body["appointment"].(map[string]any)["status"] != "completed" {
		t.Fatal("appointment not completed")
	}

	_, body = admin.do(http.MethodGet, "/api/staff/"+staffID, nil)
	if body["staff"].(map[string]any)["available"] != true {
		t.Fatal("staff not released after completion")
	}
	_, body = admin.do(http.MethodGet, "/api/vehicles/"+vehicleID, nil)
	if body["vehicle"].(map[string]any)["available"] != true {
		t.Fatal("vehicle not released after completion")
	}

	// Completing twice fails.
	status, _ = admin.do(http.MethodPost, "/api/appointments/"+apptID+"/complete", nil)
	if status != http.StatusBadRequest {
		t.Fatalf("second complete status = %d, want 400", status)
	}
}

func TestAssignMissingRecords(t *testing.T) {
	srv := newServer(t)
	admin := newClient(t, srv)
	admin.login(adminEmail, adminPassword)

	fakeID := "7f9c71ff-0c55-44dc-9e2a-3a0e2bb1a111"
	status, _ := admin.do(http.MethodPost, "/api/appointments/"+fakeID+"/assign",
		map[string]any{"staffId": fakeID, "vehicleId": fakeID})
	if status != http.StatusNotFound {
		t.Fatalf("assign status = %d, want 404", status)
	}
}

func TestExport(t *testing.T) {
	srv := newServer(t)
	admin := newClient(t, srv)
	admin.login(adminEmail, adminPassword)

	// Empty store exports an empty collection.
	status, body := admin.do(http.MethodGet, "/api/export?type=vehicles", nil)
	if status != http.StatusOK {
		t.Fatalf("export status = %d", status)
	}
	if data := body["data"].([]any); len(data) != 0 {
		t.Fatalf("empty export has %d rows", len(data))
	}

	if status, _ := admin.do(http.MethodGet, "/api/export?type=users", nil); status != http.StatusBadRequest {
		t.Fatalf("unknown type status = %d, want 400", status)
	}
	if status, _ := admin.do(http.MethodGet, "/api/export", nil); status != http.StatusBadRequest {
		t.Fatalf("missing type status = %d, want 400", status)
	}

	if status, _ := admin.do(http.MethodPost, "/api/staff", map[string]any{"name": "Lee Park", "phone": "555-0178"}); status != http.StatusCreated {
		t.Fatal("create staff failed")
	}
	status, body = admin.do(http.MethodGet, "/api/export?type=staff", nil)
	if status != http.StatusOK {
		t.Fatalf("staff export status = %d", status)
	}
	if data := body["data"].([]any); len(data) != 1 {
		t.Fatalf("staff export has %d rows, want 1", len(data))
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)
	c.registerAndLogin("Dana Reyes", "dana@example.com", "secret123")

	if status, _ := c.do(http.MethodPost, "/api/auth/logout", nil); status != http.StatusOK {
		t.Fatal("logout failed")
	}
	if status, _ := c.do(http.MethodGet, "/api/auth/me", nil); status != http.StatusUnauthorized {
		t.Fatal("session survived logout")
	}
}

func TestResourceCrud(t *testing.T) {
	srv := newServer(t)
	admin := newClient(t, srv)
	admin.login(adminEmail, adminPassword)

	status, body := admin.do(http.MethodPost, "/api/vehicles", map[string]any{"plate": "KJA-1234", "type": "box truck"})
	if status != http.StatusCreated {
		t.Fatalf("create status = %d", status)
	}
	id := payloadID(t, body, "vehicle")

	status, body = admin.do(http.MethodPut, "/api/vehicles/"+id, map[string]any{"plate": "KJA-1234", "type": "cargo van"})
	if status != http.StatusOK {
		t.Fatalf("update status = %d", status)
	}
	if body["vehicle"].(map[string]any)["type"] != "cargo van" {
		t.Fatal("update not applied")
	}

	if status, _ = admin.do(http.MethodDelete, "/api/vehicles/"+id, nil); status != http.StatusOK {
		t.Fatalf("delete status = %d", status)
	}
	if status, _ = admin.do(http.MethodGet, "/api/vehicles/"+id, nil); status != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", status)
	}

	fakeID := "7f9c71ff-0c55-44dc-9e2a-3a0e2bb1a111"
	if status, _ = admin.do(http.MethodPut, "/api/staff/"+fakeID, map[string]any{"name": "X", "phone": "1"}); status != http.StatusNotFound {
		t.Fatalf("update missing staff status = %d, want 404", status)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	for _, path := range []string{"/health/live", "/health/ready"} {
		status, body := c.do(http.MethodGet, path, nil)
		if status != http.StatusOK {
			t.Fatalf("GET %s status = %d", path, status)
		}
		if body["status"] != "ok" {
			t.Fatalf("GET %s status field = %v", path, body["status"])
		}
	}
}
