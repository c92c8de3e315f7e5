package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/idilsaglam/studywithme/internal/api"
)

const validToken = "good-token"

// fakeBackend is an in-memory stand-in for the remote service.
type fakeBackend struct {
	mu       sync.Mutex
	todos    []api.Todo
	user     api.User
	nextID   int
	requests []*http.Request
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()
	fb := &fakeBackend{
		user: api.User{
			ID:           "u1",
			Email:        "jiwoo@example.com",
			Name:         "Jiwoo",
			Subscription: api.Subscription{Plan: api.PlanFree, IsActive: true},
			Settings:     api.Settings{Theme: "auto"},
		},
	}

	r := mux.NewRouter()
	r.Use(fb.record)
	r.HandleFunc("/api/auth/register", fb.register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", fb.login).Methods(http.MethodPost)

	authed := r.PathPrefix("/api").Subrouter()
	authed.Use(fb.requireToken)
	authed.HandleFunc("/auth/logout", fb.logout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/me", fb.me).Methods(http.MethodGet)
	authed.HandleFunc("/todos", fb.listTodos).Methods(http.MethodGet)
	authed.HandleFunc("/todos", fb.createTodo).Methods(http.MethodPost)
	authed.HandleFunc("/todos/{id}", fb.updateTodo).Methods(http.MethodPut)
	authed.HandleFunc("/todos/{id}", fb.deleteTodo).Methods(http.MethodDelete)
	authed.HandleFunc("/todos/{id}/toggle", fb.toggleTodo).Methods(http.MethodPatch)
	authed.HandleFunc("/users/profile", fb.updateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/users/subscription", fb.subscription).Methods(http.MethodGet)
	authed.HandleFunc("/users/settings", fb.updateSettings).Methods(http.MethodPut)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fb, srv
}

func (fb *fakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		fb.requests = append(fb.requests, r.Clone(r.Context()))
		fb.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (fb *fakeBackend) lastRequest() *http.Request {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.requests[len(fb.requests)-1]
}

func (fb *fakeBackend) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func ok[T any](w http.ResponseWriter, status int, data T, msg string) {
	writeJSON(w, status, api.Envelope[T]{Data: data, Message: msg})
}

func (fb *fakeBackend) register(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}
	fb.mu.Lock()
	fb.user.Email, fb.user.Name = req.Email, req.Name
	u := fb.user
	fb.mu.Unlock()
	ok(w, http.StatusCreated, api.Session{Token: validToken, User: u}, "registered")
}

func (fb *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	json.NewDecoder(r.Body).Decode(&req)
	if req.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	fb.mu.Lock()
	fb.user.LastLogin = time.Now().UTC().Truncate(time.Second)
	u := fb.user
	fb.mu.Unlock()
	ok(w, http.StatusOK, api.Session{Token: validToken, User: u}, "")
}

func (fb *fakeBackend) logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (fb *fakeBackend) me(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	ok(w, http.StatusOK, api.UserPayload{User: fb.user}, "")
}

func (fb *fakeBackend) listTodos(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	ok(w, http.StatusOK, append([]api.Todo{}, fb.todos...), "")
}

func (fb *fakeBackend) createTodo(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTodoRequest
	json.NewDecoder(r.Body).Decode(&req)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.nextID++
	now := time.Now().UTC().Truncate(time.Second)
	td := api.Todo{
		ID: "t" + strconv.Itoa(fb.nextID), Period: req.Period, Text: req.Text, Author: req.Author,
		CreatedAt: now, UpdatedAt: now,
	}
	fb.todos = append(fb.todos, td)
	ok(w, http.StatusCreated, td, "created")
}

func (fb *fakeBackend) find(w http.ResponseWriter, r *http.Request) int {
	id := mux.Vars(r)["id"]
	for i, td := range fb.todos {
		if td.ID == id {
			return i
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "todo not found"})
	return -1
}

func (fb *fakeBackend) updateTodo(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateTodoRequest
	json.NewDecoder(r.Body).Decode(&req)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := fb.find(w, r)
	if i < 0 {
		return
	}
	if req.Period != nil {
		fb.todos[i].Period = *req.Period
	}
	if req.Text != nil {
		fb.todos[i].Text = *req.Text
	}
	if req.Completed != nil {
		fb.todos[i].Completed = *req.Completed
	}
	ok(w, http.StatusOK, fb.todos[i], "")
}

func (fb *fakeBackend) deleteTodo(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := fb.find(w, r)
	if i < 0 {
		return
	}
	fb.todos = append(fb.todos[:i], fb.todos[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (fb *fakeBackend) toggleTodo(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	i := fb.find(w, r)
	if i < 0 {
		return
	}
	fb.todos[i].Completed = !fb.todos[i].Completed
	ok(w, http.StatusOK, fb.todos[i], "")
}

func (fb *fakeBackend) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateProfileRequest
	json.NewDecoder(r.Body).Decode(&req)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if req.Name != nil {
		fb.user.Name = *req.Name
	}
	if req.IsAnonymous != nil {
		fb.user.IsAnonymous = *req.IsAnonymous
	}
	ok(w, http.StatusOK, api.UserPayload{User: fb.user}, "")
}

func (fb *fakeBackend) subscription(w http.ResponseWriter, r *http.Request) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	ok(w, http.StatusOK, api.SubscriptionPayload{Subscription: fb.user.Subscription}, "")
}

func (fb *fakeBackend) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req api.UpdateSettingsRequest
	json.NewDecoder(r.Body).Decode(&req)
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if req.Theme != nil {
		fb.user.Settings.Theme = *req.Theme
	}
	if req.Notifications != nil {
		fb.user.Settings.Notifications = *req.Notifications
	}
	ok(w, http.StatusOK, api.UserPayload{User: fb.user}, "")
}
