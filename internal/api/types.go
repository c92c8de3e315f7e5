package api

import "time"

// Envelope wraps every response payload.
type Envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Todo is the server-side todo record.
type Todo struct {
	ID          string     `json:"_id"`
	Period      string     `json:"period"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Author      string     `json:"author"`
	Priority    Priority   `json:"priority,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Plan string

const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

type Subscription struct {
	Plan      Plan       `json:"plan"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  bool       `json:"isActive"`
}

type Notifications struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
}

type Settings struct {
	Theme         string        `json:"theme"` // light | dark | auto
	Notifications Notifications `json:"notifications"`
}

// User is the server-side account record.
type User struct {
	ID           string       `json:"_id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	IsAnonymous  bool         `json:"isAnonymous"`
	Subscription Subscription `json:"subscription"`
	Settings     Settings     `json:"settings"`
	CreatedAt    time.Time    `json:"createdAt"`
	LastLogin    time.Time    `json:"lastLogin"`
}

// Request bodies.

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTodoRequest struct {
	Period string `json:"period"`
	Text   string `json:"text"`
	Author string `json:"author"`
}

type UpdateTodoRequest struct {
	Period    *string `json:"period,omitempty"`
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type UpdateProfileRequest struct {
	Name        *string `json:"name,omitempty"`
	IsAnonymous *bool   `json:"isAnonymous,omitempty"`
}

type UpdateSettingsRequest struct {
	Theme         *string        `json:"theme,omitempty"`
	Notifications *Notifications `json:"notifications,omitempty"`
}

// Response payloads.

type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UserPayload struct {
	User User `json:"user"`
}

type SubscriptionPayload struct {
	Subscription Subscription `json:"subscription"`
}
