package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Role is the privilege level stored for a user. The zero value is RoleUnset, a plain enrolled user.
type Role uint8

const (
	RoleUnset Role = iota
	RoleInstructor
	RoleAdmin
)

const (
	roleInstructorName = "instructor"
	roleAdminName      = "admin"
)

// ParseRole converts a stored role string. An empty string maps to RoleUnset; anything
// unrecognised is an error instead of silently collapsing into a plain user.
func ParseRole(raw string) (Role, error) {
	switch raw {
	case "":
		return RoleUnset, nil
	case roleInstructorName:
		return RoleInstructor, nil
	case roleAdminName:
		return RoleAdmin, nil
	default:
		return RoleUnset, fmt.Errorf("unknown role %q", raw)
	}
}

// String returns the stored representation; RoleUnset renders as "".
func (r Role) String() string {
	switch r {
	case RoleInstructor:
		return roleInstructorName
	case RoleAdmin:
		return roleAdminName
	default:
		return ""
	}
}

// IsSet reports whether the role carries elevated privileges.
func (r Role) IsSet() bool {
	return r != RoleUnset
}

// Scan implements sql.Scanner. NULL is RoleUnset.
func (r *Role) Scan(src interface{}) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*r = RoleUnset
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("scan role: unsupported type %T", src)
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value implements driver.Valuer. RoleUnset is stored as NULL.
func (r Role) Value() (driver.Value, error) {
	if r == RoleUnset {
		return nil, nil
	}
	return r.String(), nil
}

// MarshalJSON renders RoleUnset as null.
func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleUnset {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts null, "" or a known role name.
func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RoleUnset
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseRole(raw)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// User represents a registered account stored in the users table.
type User struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      string    `db:"name" json:"name"`
	PhotoURL  string    `db:"photo_url" json:"photo_url"`
	Role      Role      `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
