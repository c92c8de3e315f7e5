package model

const (
	AnonymousName = "Anonymous user"
	NoName        = "No name"
)

// UserProfile is the local author identity stamped on new todos.
type UserProfile struct {
	Name        string `json:"name"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// DisplayName resolves the name shown for this profile.
func (p UserProfile) DisplayName() string {
	if p.IsAnonymous {
		return AnonymousName
	}
	if p.Name == "" {
		return NoName
	}
	return p.Name
}
