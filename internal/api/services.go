package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// AuthService covers /auth.
type AuthService struct{ c *Client }

func (s *AuthService) Register(ctx context.Context, r RegisterRequest) (*Envelope[Session], error) {
	return do[Session](ctx, s.c, http.MethodPost, "/auth/register", r)
}

func (s *AuthService) Login(ctx context.Context, r LoginRequest) (*Envelope[Session], error) {
	return do[Session](ctx, s.c, http.MethodPost, "/auth/login", r)
}

func (s *AuthService) Logout(ctx context.Context) (*Envelope[json.RawMessage], error) {
	return do[json.RawMessage](ctx, s.c, http.MethodPost, "/auth/logout", nil)
}

func (s *AuthService) Me(ctx context.Context) (*Envelope[UserPayload], error) {
	return do[UserPayload](ctx, s.c, http.MethodGet, "/auth/me", nil)
}

// TodoService covers /todos.
type TodoService struct{ c *Client }

func (s *TodoService) List(ctx context.Context) (*Envelope[[]Todo], error) {
	return do[[]Todo](ctx, s.c, http.MethodGet, "/todos", nil)
}

func (s *TodoService) Create(ctx context.Context, r CreateTodoRequest) (*Envelope[Todo], error) {
	return do[Todo](ctx, s.c, http.MethodPost, "/todos", r)
}

func (s *TodoService) Update(ctx context.Context, id string, r UpdateTodoRequest) (*Envelope[Todo], error) {
	return do[Todo](ctx, s.c, http.MethodPut, idPath("/todos", id), r)
}

func (s *TodoService) Delete(ctx context.Context, id string) (*Envelope[json.RawMessage], error) {
	return do[json.RawMessage](ctx, s.c, http.MethodDelete, idPath("/todos", id), nil)
}

func (s *TodoService) Toggle(ctx context.Context, id string) (*Envelope[Todo], error) {
	return do[Todo](ctx, s.c, http.MethodPatch, idPath("/todos", id)+"/toggle", nil)
}

// UserService covers /users.
type UserService struct{ c *Client }

func (s *UserService) UpdateProfile(ctx context.Context, r UpdateProfileRequest) (*Envelope[UserPayload], error) {
	return do[UserPayload](ctx, s.c, http.MethodPut, "/users/profile", r)
}

func (s *UserService) Subscription(ctx context.Context) (*Envelope[SubscriptionPayload], error) {
	return do[SubscriptionPayload](ctx, s.c, http.MethodGet, "/users/subscription", nil)
}

func (s *UserService) UpdateSettings(ctx context.Context, r UpdateSettingsRequest) (*Envelope[UserPayload], error) {
	return do[UserPayload](ctx, s.c, http.MethodPut, "/users/settings", r)
}
