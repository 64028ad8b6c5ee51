package models

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// ID is an upstream record identifier. The backend emits integers for
// most records but the dashboard only ever uses them as path segments.
type ID string

// UnmarshalJSON accepts both JSON numbers and strings
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Roles a user can pick on the sign-in form
const (
	RoleStudent   = "student"
	RoleParent    = "parent"
	RoleProfessor = "professor"
)

// User is the signed-in user's profile as returned by the upstream auth
// endpoints and cached in the session record.
type User struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	Level     int    `json:"level"`
	Points    int    `json:"points,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RoleLabel returns the capitalised role, defaulting to Student
func (u *User) RoleLabel() string {
	if u == nil || u.Role == "" {
		return "Student"
	}
	return strings.ToUpper(u.Role[:1]) + u.Role[1:]
}

// DisplayLevel returns the user's level, treating a missing level as 1
func (u *User) DisplayLevel() int {
	if u == nil || u.Level <= 0 {
		return 1
	}
	return u.Level
}

// Session represents an authenticated session
type Session struct {
	ID        string
	UserID    string
	User      User
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
